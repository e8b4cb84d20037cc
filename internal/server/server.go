package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"cash-card/internal/config"
	"cash-card/internal/domain"
	"cash-card/internal/handler"
	"cash-card/internal/metrics"
	"cash-card/internal/pin"
	"cash-card/internal/repository"
	"cash-card/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
)

const requestIDHeader = "X-Request-ID"

// Server represents the HTTP server
type Server struct {
	router *mux.Router
	server *http.Server
	db     *sql.DB
	logger *slog.Logger
	port   string
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	seeds, err := cfg.CardSeeds()
	if err != nil {
		return nil, err
	}

	var (
		db       *sql.DB
		verifier domain.PinVerifier
	)
	switch cfg.PinStore {
	case config.PinStoreMemory, "":
		memory := pin.NewMemoryVerifier(cfg.PinHashCost)
		for _, seed := range seeds {
			if err := memory.SetPin(seed.AccountID, seed.Pin); err != nil {
				return nil, fmt.Errorf("seed PIN for account %d: %w", seed.AccountID, err)
			}
		}
		verifier = memory

	case config.PinStorePostgres:
		db, err = openDB(cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("Successfully connected to database")

		store := repository.NewStore(db, logger)
		err = store.WithTransaction(func(tx *repository.Store) error {
			enroll := pin.NewRepositoryVerifier(tx.Pin(), cfg.PinHashCost, logger)
			for _, seed := range seeds {
				if err := enroll.SetPin(seed.AccountID, seed.Pin); err != nil {
					return fmt.Errorf("seed PIN for account %d: %w", seed.AccountID, err)
				}
			}
			return nil
		})
		if err != nil {
			db.Close()
			return nil, err
		}
		verifier = pin.NewRepositoryVerifier(store.Pin(), cfg.PinHashCost, logger)

	default:
		return nil, fmt.Errorf("unknown PIN store %q", cfg.PinStore)
	}

	// Initialize metrics
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	// Initialize services
	cardService := service.NewCardService(verifier, m, logger)
	for _, seed := range seeds {
		if _, err := cardService.AddCard(seed.AccountID, seed.InitialBalance); err != nil {
			if db != nil {
				db.Close()
			}
			return nil, fmt.Errorf("provision card %d: %w", seed.AccountID, err)
		}
	}

	// Initialize handlers
	cardHandler := handler.NewCardHandler(cardService)

	// Setup router
	router := mux.NewRouter()
	router.Use(requestIDMiddleware)
	router.Use(loggingMiddleware(logger))

	// Card routes
	router.HandleFunc("/cards/{account_id}/withdrawals", cardHandler.Withdraw).Methods("POST")
	router.HandleFunc("/cards/{account_id}/topups", cardHandler.TopUp).Methods("POST")
	router.HandleFunc("/cards/{account_id}/balance", cardHandler.Balance).Methods("POST")

	router.Handle("/metrics", m.Handler()).Methods("GET")

	// Health check
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if db != nil {
			if err := db.Ping(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy", "error": "database unavailable"})
				return
			}
		}

		json.NewEncoder(w).Encode(map[string]string{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}).Methods("GET")

	return &Server{
		router: router,
		db:     db,
		logger: logger,
	}, nil
}

func openDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.GetDBConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// requestIDMiddleware keeps an incoming X-Request-ID or assigns a new one.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create response wrapper to capture status code
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(ww, r)

			logger.Info("request completed",
				"request_id", r.Header.Get(requestIDHeader),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration", time.Since(start),
			)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Start starts the HTTP server on the specified port
func (s *Server) Start(port string) (string, error) {
	// Create listener first to get actual port
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return "", err
	}

	addr := listener.Addr().(*net.TCPAddr)
	s.port = strconv.Itoa(addr.Port)

	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server", "port", s.port)

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Server failed to start", "error", err)
		}
	}()

	return s.port, nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server")

	var err error
	if s.server != nil {
		err = s.server.Shutdown(ctx)
	}

	if s.db != nil {
		s.db.Close()
	}
	return err
}

// GetBaseURL returns the base URL for the server
func (s *Server) GetBaseURL() string {
	return "http://localhost:" + s.port
}

// GetRouter returns the router for testing purposes
func (s *Server) GetRouter() *mux.Router {
	return s.router
}

// StartServer starts the server with the given configuration
func StartServer(cfg *config.Config) (*Server, string, error) {
	var logger *slog.Logger
	if cfg.ServerPort == "0" {
		// Test environment
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	server, err := NewServer(cfg, logger)
	if err != nil {
		return nil, "", err
	}

	port, err := server.Start(cfg.ServerPort)
	if err != nil {
		server.Stop(context.Background())
		return nil, "", err
	}

	return server, port, nil
}
