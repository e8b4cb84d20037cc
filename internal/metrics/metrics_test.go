package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cash-card/internal/domain"
)

func TestObserveResult(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveResult(OperationWithdraw, domain.Approved(decimal.NewFromInt(5)))
	m.ObserveResult(OperationWithdraw, domain.Approved(decimal.Zero))
	m.ObserveResult(OperationWithdraw, domain.RejectedInsufficientBalance(decimal.Zero))
	m.ObserveResult(OperationTopUp, domain.RejectedIncorrectPin())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues(OperationWithdraw, "approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues(OperationWithdraw, "insufficient_balance")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues(OperationTopUp, "incorrect_pin")))
}

func TestObserveVerifierError(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveVerifierError(OperationBalance)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifierErrors.WithLabelValues(OperationBalance)))
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveResult(OperationTopUp, domain.Approved(decimal.NewFromInt(1)))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `cashcard_operations_total{operation="topup",outcome="approved"} 1`)
}
