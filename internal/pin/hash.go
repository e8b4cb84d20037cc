// Package pin provides bcrypt-backed PinVerifier implementations.
package pin

import (
	"errors"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	apperrors "cash-card/internal/errors"
)

const (
	minPin int64 = 1_000
	maxPin int64 = 999_999_999_999
)

// Validate accepts PINs of 4 to 12 digits.
func Validate(pin int) error {
	if int64(pin) < minPin || int64(pin) > maxPin {
		return apperrors.ErrInvalidPin
	}
	return nil
}

func Hash(pin int, cost int) (string, error) {
	if err := Validate(pin); err != nil {
		return "", err
	}
	b, err := bcrypt.GenerateFromPassword([]byte(strconv.Itoa(pin)), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare reports whether pin matches hash. A mismatch is not an error; a
// malformed hash is.
func Compare(hash string, pin int) (bool, error) {
	if Validate(pin) != nil {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(strconv.Itoa(pin)))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
