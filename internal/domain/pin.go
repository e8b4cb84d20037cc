package domain

// PinVerifier checks a supplied PIN against an account. Implementations must
// be safe for concurrent use and must not have side effects on card balances.
type PinVerifier interface {
	Verify(accountID int64, suppliedPin int) (bool, error)
}

// PinRepository stores hashed PINs keyed by account id.
type PinRepository interface {
	GetPinHash(accountID int64) (string, error)
	SetPinHash(accountID int64, pinHash string) error
}
