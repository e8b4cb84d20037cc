package pin

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "cash-card/internal/errors"
)

type mockPinRepository struct {
	mock.Mock
}

func (m *mockPinRepository) GetPinHash(accountID int64) (string, error) {
	args := m.Called(accountID)
	return args.String(0), args.Error(1)
}

func (m *mockPinRepository) SetPinHash(accountID int64, pinHash string) error {
	args := m.Called(accountID, pinHash)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHashAndCompare(t *testing.T) {
	hash, err := Hash(1234, bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotContains(t, hash, "1234")

	ok, err := Compare(hash, 1234)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Compare(hash, 1111)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Compare(hash, -1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashRejectsInvalidPin(t *testing.T) {
	cases := []struct {
		name string
		pin  int
	}{
		{"negative", -5},
		{"zero", 0},
		{"one digit", 7},
		{"two digits", 42},
		{"three digits", 999},
		{"thirteen digits", 1_000_000_000_000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Hash(tc.pin, bcrypt.MinCost)
			assert.Equal(t, apperrors.ErrInvalidPin, err)

			assert.Equal(t, apperrors.ErrInvalidPin, NewMemoryVerifier(bcrypt.MinCost).SetPin(1, tc.pin))
		})
	}

	for _, pin := range []int{1000, 9999, 999_999_999_999} {
		assert.NoError(t, Validate(pin), pin)
	}
}

func TestCompareMalformedHash(t *testing.T) {
	_, err := Compare("not-a-bcrypt-hash", 1234)
	assert.Error(t, err)
}

func TestMemoryVerifier(t *testing.T) {
	v := NewMemoryVerifier(bcrypt.MinCost)
	require.NoError(t, v.SetPin(1, 1234))

	ok, err := v.Verify(1, 1234)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Verify(1, 4321)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = v.Verify(2, 1234)
	require.NoError(t, err)
	assert.False(t, ok, "unknown account must not verify")

	require.NoError(t, v.SetPin(1, 4321))
	ok, err = v.Verify(1, 4321)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryVerifierConcurrentUse(t *testing.T) {
	v := NewMemoryVerifier(bcrypt.MinCost)
	require.NoError(t, v.SetPin(1, 1234))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ok, err := v.Verify(1, 1234)
			assert.NoError(t, err)
			assert.True(t, ok)
		}()
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, v.SetPin(int64(100+i), 1000+i))
		}(i)
	}
	wg.Wait()
}

func TestRepositoryVerifier(t *testing.T) {
	hash, err := Hash(1234, bcrypt.MinCost)
	require.NoError(t, err)

	repo := &mockPinRepository{}
	repo.On("GetPinHash", int64(1)).Return(hash, nil)
	repo.On("GetPinHash", int64(2)).Return("", apperrors.ErrCardNotFound)

	v := NewRepositoryVerifier(repo, bcrypt.MinCost, discardLogger())

	ok, err := v.Verify(1, 1234)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Verify(1, 1111)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = v.Verify(2, 1234)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepositoryVerifierPropagatesStoreErrors(t *testing.T) {
	storeErr := errors.New("connection refused")
	repo := &mockPinRepository{}
	repo.On("GetPinHash", int64(1)).Return("", storeErr)

	v := NewRepositoryVerifier(repo, bcrypt.MinCost, discardLogger())

	_, err := v.Verify(1, 1234)
	assert.Same(t, storeErr, err)
}

func TestRepositoryVerifierSetPinStoresHash(t *testing.T) {
	repo := &mockPinRepository{}
	repo.On("SetPinHash", int64(5), mock.MatchedBy(func(h string) bool {
		return bcrypt.CompareHashAndPassword([]byte(h), []byte("2468")) == nil
	})).Return(nil).Once()

	v := NewRepositoryVerifier(repo, bcrypt.MinCost, discardLogger())
	require.NoError(t, v.SetPin(5, 2468))

	repo.AssertExpectations(t)
	assert.Equal(t, apperrors.ErrInvalidPin, v.SetPin(5, -1))
}
