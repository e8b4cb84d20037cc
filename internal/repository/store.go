package repository

import (
	"database/sql"
	"log/slog"

	"cash-card/internal/domain"
	"cash-card/internal/errors"
)

// Store hands out repositories bound either to the connection pool or, inside
// WithTransaction, to a single transaction.
type Store struct {
	executor SQLExecutor
	logger   *slog.Logger
}

func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		executor: db,
		logger:   logger,
	}
}

func (s *Store) Pin() domain.PinRepository {
	return NewPinRepository(s.executor, s.logger)
}

// WithTransaction runs fn against a Store bound to one transaction. The
// transaction commits when fn returns nil and rolls back otherwise, including
// on panic. Transactions do not nest.
func (s *Store) WithTransaction(fn func(*Store) error) error {
	db, ok := s.executor.(*sql.DB)
	if !ok {
		return errors.ErrCannotBeginTransaction
	}

	tx, err := db.Begin()
	if err != nil {
		s.logger.Error("Failed to begin transaction", "error", err)
		return errors.NewAppError(errors.InternalError, "failed to begin transaction").WithDetails(err.Error())
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			s.logger.Error("Failed to roll back transaction", "error", rbErr)
		}
		if p := recover(); p != nil {
			panic(p)
		}
	}()

	if err := fn(&Store{executor: tx, logger: s.logger}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("Failed to commit transaction", "error", err)
		return errors.NewAppError(errors.InternalError, "failed to commit transaction").WithDetails(err.Error())
	}
	committed = true
	return nil
}
