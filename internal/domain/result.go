package domain

import (
	"github.com/shopspring/decimal"
)

// RejectionReason explains why a card operation did not go through.
// The zero value means the operation was approved.
type RejectionReason string

const (
	NoRejection         RejectionReason = ""
	IncorrectPin        RejectionReason = "incorrect_pin"
	InsufficientBalance RejectionReason = "insufficient_balance"
	InvalidAmount       RejectionReason = "invalid_amount"
)

func (r RejectionReason) String() string {
	if r == NoRejection {
		return "none"
	}
	return string(r)
}

// TransactionResult is the outcome of a card operation. It can only be built
// through the constructors below, so an IncorrectPin result never carries a
// balance and an approved result always carries the post-operation balance.
// The zero value, returned alongside errors, is not approved.
type TransactionResult struct {
	approved bool
	reason   RejectionReason
	balance  decimal.Decimal
}

func Approved(newBalance decimal.Decimal) TransactionResult {
	return TransactionResult{approved: true, balance: newBalance}
}

func RejectedIncorrectPin() TransactionResult {
	return TransactionResult{reason: IncorrectPin, balance: decimal.Zero}
}

func RejectedInsufficientBalance(currentBalance decimal.Decimal) TransactionResult {
	return TransactionResult{reason: InsufficientBalance, balance: currentBalance}
}

func RejectedInvalidAmount(currentBalance decimal.Decimal) TransactionResult {
	return TransactionResult{reason: InvalidAmount, balance: currentBalance}
}

func (r TransactionResult) Approved() bool {
	return r.approved
}

func (r TransactionResult) RejectionReason() RejectionReason {
	return r.reason
}

// RemainingBalance is the disclosed balance: zero on IncorrectPin, the
// unchanged balance on other rejections, the new balance on approval.
func (r TransactionResult) RemainingBalance() decimal.Decimal {
	return r.balance
}
