package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"cash-card/internal/domain"
	"cash-card/internal/errors"
)

type pinRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewPinRepository(db SQLExecutor, logger *slog.Logger) domain.PinRepository {
	return &pinRepository{
		db:     db,
		logger: logger,
	}
}

// SetPinHash inserts or replaces the PIN hash for an account.
func (r *pinRepository) SetPinHash(accountID int64, pinHash string) error {
	query := `
		INSERT INTO card_pins (account_id, pin_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (account_id) DO UPDATE
		SET pin_hash = EXCLUDED.pin_hash, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(query, accountID, pinHash, time.Now())
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23514" { // check_violation
				r.logger.Warn("Rejected PIN for invalid account id", "account_id", accountID)
				return errors.ErrInvalidAccountID
			}
		}
		r.logger.Error("Failed to store PIN hash", "account_id", accountID, "error", err)
		return errors.NewAppError(errors.InternalError, "failed to store PIN").WithDetails(err.Error())
	}

	r.logger.Info("PIN hash stored", "account_id", accountID)
	return nil
}

func (r *pinRepository) GetPinHash(accountID int64) (string, error) {
	query := `SELECT pin_hash FROM card_pins WHERE account_id = $1`

	var pinHash string
	err := r.db.QueryRow(query, accountID).Scan(&pinHash)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("No PIN stored for account", "account_id", accountID)
			return "", errors.ErrCardNotFound
		}
		r.logger.Error("Failed to get PIN hash", "account_id", accountID, "error", err)
		return "", errors.NewAppError(errors.InternalError, "failed to get PIN").WithDetails(err.Error())
	}

	return pinHash, nil
}
