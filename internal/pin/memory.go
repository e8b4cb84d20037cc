package pin

import (
	"sync"
)

// MemoryVerifier keeps PIN hashes in process memory.
type MemoryVerifier struct {
	cost int

	mu     sync.RWMutex
	hashes map[int64]string
}

func NewMemoryVerifier(cost int) *MemoryVerifier {
	return &MemoryVerifier{
		cost:   cost,
		hashes: make(map[int64]string),
	}
}

func (v *MemoryVerifier) SetPin(accountID int64, pin int) error {
	hash, err := Hash(pin, v.cost)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.hashes[accountID] = hash
	v.mu.Unlock()
	return nil
}

// Verify returns false for accounts without a PIN.
func (v *MemoryVerifier) Verify(accountID int64, suppliedPin int) (bool, error) {
	v.mu.RLock()
	hash, ok := v.hashes[accountID]
	v.mu.RUnlock()

	if !ok {
		return false, nil
	}
	return Compare(hash, suppliedPin)
}
