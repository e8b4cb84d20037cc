package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const (
	PinStoreMemory   = "memory"
	PinStorePostgres = "postgres"
)

type Config struct {
	ServerPort string

	// PinStore selects where hashed PINs live: "memory" or "postgres".
	PinStore string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Cards is the startup seed list, "account:balance:pin" entries
	// separated by commas.
	Cards       string
	PinHashCost int
}

// CardSeed is one card provisioned at startup.
type CardSeed struct {
	AccountID      int64
	InitialBalance decimal.Decimal
	Pin            int
}

func Load() *Config {
	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		PinStore:    getEnv("PIN_STORE", PinStoreMemory),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "password"),
		DBName:      getEnv("DB_NAME", "cash_card"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		Cards:       getEnv("CARDS", ""),
		PinHashCost: getEnvInt("PIN_HASH_COST", bcrypt.DefaultCost),
	}
}

func (c *Config) GetDBConnectionString() string {
	sslMode := c.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, sslMode)
}

// CardSeeds parses Cards.
func (c *Config) CardSeeds() ([]CardSeed, error) {
	var seeds []CardSeed
	for _, entry := range strings.Split(c.Cards, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid card seed %q: want account:balance:pin", entry)
		}

		accountID, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid account id in card seed %q: %w", entry, err)
		}
		balance, err := decimal.NewFromString(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid balance in card seed %q: %w", entry, err)
		}
		pin, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, fmt.Errorf("invalid pin in card seed %q: %w", entry, err)
		}

		seeds = append(seeds, CardSeed{
			AccountID:      accountID,
			InitialBalance: balance,
			Pin:            pin,
		})
	}
	return seeds, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
