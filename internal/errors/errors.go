package errors

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	CardNotFound  ErrorCode = "card_not_found"
	DuplicateCard ErrorCode = "duplicate_card"
	InvalidInput  ErrorCode = "invalid_input"
	InvalidAmount ErrorCode = "invalid_amount"
	InvalidPin    ErrorCode = "invalid_pin"
	InternalError ErrorCode = "internal_error"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetails returns a copy so the predefined errors below stay untouched.
func (e *AppError) WithDetails(details string) *AppError {
	c := *e
	c.Details = details
	return &c
}

func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CardNotFound:
		return http.StatusNotFound
	case DuplicateCard:
		return http.StatusConflict
	case InvalidInput, InvalidAmount, InvalidPin:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors for common cases
var (
	ErrCardNotFound           = NewAppError(CardNotFound, "card not found")
	ErrDuplicateCard          = NewAppError(DuplicateCard, "card already exists")
	ErrInvalidAccountID       = NewAppError(InvalidInput, "account ID must be a positive integer")
	ErrInvalidAmount          = NewAppError(InvalidAmount, "amount must be a non-negative decimal")
	ErrInvalidPin             = NewAppError(InvalidPin, "PIN must be 4 to 12 digits")
	ErrCannotBeginTransaction = NewAppError(InternalError, "cannot begin transaction on a transactional store")
)
