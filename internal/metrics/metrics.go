package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cash-card/internal/domain"
)

const (
	OperationWithdraw = "withdraw"
	OperationTopUp    = "topup"
	OperationBalance  = "balance"

	outcomeApproved = "approved"
)

type Metrics struct {
	gatherer       prometheus.Gatherer
	operations     *prometheus.CounterVec
	verifierErrors *prometheus.CounterVec
}

// New registers the card collectors on reg. Each server gets its own
// registry so tests can build several without duplicate registration.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashcard_operations_total",
				Help: "Card operations by outcome.",
			},
			[]string{"operation", "outcome"}, // outcome: approved|incorrect_pin|insufficient_balance|invalid_amount
		),
		verifierErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashcard_verifier_errors_total",
				Help: "PIN verifier failures.",
			},
			[]string{"operation"},
		),
	}
}

func (m *Metrics) ObserveResult(operation string, result domain.TransactionResult) {
	outcome := outcomeApproved
	if !result.Approved() {
		outcome = string(result.RejectionReason())
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) ObserveVerifierError(operation string) {
	m.verifierErrors.WithLabelValues(operation).Inc()
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
