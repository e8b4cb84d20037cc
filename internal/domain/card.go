package domain

import (
	"sync"

	"github.com/shopspring/decimal"
)

// CashCard is a prepaid card holding a single balance. PIN checks are
// delegated to the injected verifier and happen before the balance lock is
// taken; the lock only covers the compare-and-mutate step.
type CashCard struct {
	verifier  PinVerifier
	accountID int64

	mu      sync.Mutex
	balance decimal.Decimal
}

func NewCashCard(verifier PinVerifier, accountID int64, initialBalance decimal.Decimal) *CashCard {
	return &CashCard{
		verifier:  verifier,
		accountID: accountID,
		balance:   initialBalance,
	}
}

func (c *CashCard) AccountID() int64 {
	return c.accountID
}

// Withdraw takes amount off the balance if the PIN is correct and the balance
// covers it. Verifier errors are returned as-is and nothing is mutated.
func (c *CashCard) Withdraw(suppliedPin int, amount decimal.Decimal) (TransactionResult, error) {
	ok, err := c.verifier.Verify(c.accountID, suppliedPin)
	if err != nil {
		return TransactionResult{}, err
	}
	if !ok {
		return RejectedIncorrectPin(), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if amount.IsNegative() {
		return RejectedInvalidAmount(c.balance), nil
	}
	if amount.GreaterThan(c.balance) {
		return RejectedInsufficientBalance(c.balance), nil
	}

	c.balance = c.balance.Sub(amount)
	return Approved(c.balance), nil
}

// TopUp adds amount to the balance if the PIN is correct. There is no upper
// bound on the balance.
func (c *CashCard) TopUp(suppliedPin int, amount decimal.Decimal) (TransactionResult, error) {
	ok, err := c.verifier.Verify(c.accountID, suppliedPin)
	if err != nil {
		return TransactionResult{}, err
	}
	if !ok {
		return RejectedIncorrectPin(), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if amount.IsNegative() {
		return RejectedInvalidAmount(c.balance), nil
	}

	c.balance = c.balance.Add(amount)
	return Approved(c.balance), nil
}

// Balance is an authenticated balance enquiry.
func (c *CashCard) Balance(suppliedPin int) (TransactionResult, error) {
	ok, err := c.verifier.Verify(c.accountID, suppliedPin)
	if err != nil {
		return TransactionResult{}, err
	}
	if !ok {
		return RejectedIncorrectPin(), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return Approved(c.balance), nil
}
