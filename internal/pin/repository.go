package pin

import (
	"errors"
	"log/slog"

	"cash-card/internal/domain"
	apperrors "cash-card/internal/errors"
)

// RepositoryVerifier checks PINs against hashes held in a domain.PinRepository.
type RepositoryVerifier struct {
	repo   domain.PinRepository
	cost   int
	logger *slog.Logger
}

func NewRepositoryVerifier(repo domain.PinRepository, cost int, logger *slog.Logger) *RepositoryVerifier {
	return &RepositoryVerifier{
		repo:   repo,
		cost:   cost,
		logger: logger,
	}
}

func (v *RepositoryVerifier) SetPin(accountID int64, pin int) error {
	hash, err := Hash(pin, v.cost)
	if err != nil {
		return err
	}
	return v.repo.SetPinHash(accountID, hash)
}

func (v *RepositoryVerifier) Verify(accountID int64, suppliedPin int) (bool, error) {
	hash, err := v.repo.GetPinHash(accountID)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.CardNotFound {
			return false, nil
		}
		return false, err
	}

	ok, err := Compare(hash, suppliedPin)
	if err != nil {
		v.logger.Error("Stored PIN hash is unusable", "account_id", accountID, "error", err)
		return false, err
	}
	return ok, nil
}
