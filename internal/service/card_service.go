package service

import (
	"log/slog"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"cash-card/internal/domain"
	"cash-card/internal/errors"
	"cash-card/internal/metrics"
)

// CardService looks cards up by account id and runs operations on them.
// Cards live in memory for the lifetime of the process.
type CardService struct {
	verifier domain.PinVerifier
	metrics  *metrics.Metrics
	logger   *slog.Logger

	mu    sync.RWMutex
	cards map[int64]*domain.CashCard
}

func NewCardService(verifier domain.PinVerifier, m *metrics.Metrics, logger *slog.Logger) *CardService {
	return &CardService{
		verifier: verifier,
		metrics:  m,
		logger:   logger,
		cards:    make(map[int64]*domain.CashCard),
	}
}

func (s *CardService) AddCard(accountID int64, initialBalance decimal.Decimal) (*domain.CashCard, error) {
	s.logger.Info("Adding card", "account_id", accountID, "initial_balance", initialBalance)

	if initialBalance.IsNegative() {
		return nil, errors.ErrInvalidAmount
	}

	// Validate reasonable limits
	maxInitialBalance := decimal.NewFromInt(10_000_000_000) // 10 billion
	if initialBalance.GreaterThan(maxInitialBalance) {
		return nil, errors.NewAppErrorf(errors.InvalidAmount, "initial balance exceeds maximum limit of %s", maxInitialBalance)
	}

	if accountID <= 0 {
		return nil, errors.ErrInvalidAccountID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cards[accountID]; exists {
		s.logger.Warn("Duplicate card", "account_id", accountID)
		return nil, errors.ErrDuplicateCard
	}

	card := domain.NewCashCard(s.verifier, accountID, initialBalance)
	s.cards[accountID] = card

	s.logger.Info("Card added successfully", "account_id", accountID)
	return card, nil
}

func (s *CardService) Withdraw(accountID string, pin int, amount decimal.Decimal) (domain.TransactionResult, error) {
	card, err := s.card(accountID)
	if err != nil {
		return domain.TransactionResult{}, err
	}

	result, err := card.Withdraw(pin, amount)
	return s.record(metrics.OperationWithdraw, card.AccountID(), amount, result, err)
}

func (s *CardService) TopUp(accountID string, pin int, amount decimal.Decimal) (domain.TransactionResult, error) {
	card, err := s.card(accountID)
	if err != nil {
		return domain.TransactionResult{}, err
	}

	result, err := card.TopUp(pin, amount)
	return s.record(metrics.OperationTopUp, card.AccountID(), amount, result, err)
}

func (s *CardService) Balance(accountID string, pin int) (domain.TransactionResult, error) {
	card, err := s.card(accountID)
	if err != nil {
		return domain.TransactionResult{}, err
	}

	result, err := card.Balance(pin)
	return s.record(metrics.OperationBalance, card.AccountID(), decimal.Zero, result, err)
}

func (s *CardService) card(accountID string) (*domain.CashCard, error) {
	id, err := strconv.ParseInt(accountID, 10, 64)
	if err != nil || id <= 0 {
		return nil, errors.ErrInvalidAccountID
	}

	s.mu.RLock()
	card, ok := s.cards[id]
	s.mu.RUnlock()

	if !ok {
		s.logger.Warn("Card not found", "account_id", id)
		return nil, errors.ErrCardNotFound
	}
	return card, nil
}

func (s *CardService) record(
	operation string,
	accountID int64,
	amount decimal.Decimal,
	result domain.TransactionResult,
	err error,
) (domain.TransactionResult, error) {
	if err != nil {
		s.metrics.ObserveVerifierError(operation)
		s.logger.Error("PIN verification failed", "operation", operation, "account_id", accountID, "error", err)
		return result, err
	}

	s.metrics.ObserveResult(operation, result)
	if !result.Approved() {
		s.logger.Info("Card operation rejected",
			"operation", operation,
			"account_id", accountID,
			"amount", amount,
			"rejection_reason", result.RejectionReason().String())
		return result, nil
	}

	s.logger.Info("Card operation approved", "operation", operation, "account_id", accountID, "amount", amount)
	return result, nil
}
