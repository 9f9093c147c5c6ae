package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// OrdersPlacedTotal counts successful order placements.
	OrdersPlacedTotal prometheus.Counter
	// OrderAmountTotal accumulates placed order totals in minor currency units.
	OrderAmountTotal prometheus.Counter
	// StockConflictTotal counts checkouts rejected for insufficient stock.
	StockConflictTotal *prometheus.CounterVec
	// AuthDeniedTotal counts authorization denials by operation.
	AuthDeniedTotal *prometheus.CounterVec
	// LoginAttemptTotal counts login attempts by outcome.
	LoginAttemptTotal *prometheus.CounterVec
	// IdempotentReplayTotal counts order requests rejected as idempotent replays.
	IdempotentReplayTotal prometheus.Counter
	// CatalogCacheTotal counts catalog cache lookups by result.
	CatalogCacheTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		counter := func(name, help string) prometheus.Counter {
			return mustRegister(reg, prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      name,
				Help:      help,
			}))
		}
		counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
			return mustRegister(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      name,
				Help:      help,
			}, labels))
		}

		OrdersPlacedTotal = counter("orders_placed_total",
			"Number of orders successfully placed.")
		OrderAmountTotal = counter("order_amount_minor_units_total",
			"Sum of placed order totals in minor currency units.")
		StockConflictTotal = counterVec("stock_conflict_total",
			"Checkouts rejected because product stock was insufficient.", "stage")
		AuthDeniedTotal = counterVec("authz_denied_total",
			"Authorization denials by operation.", "operation")
		LoginAttemptTotal = counterVec("login_attempts_total",
			"Login attempts by outcome.", "result")
		IdempotentReplayTotal = counter("idempotent_replay_total",
			"Order submissions rejected because the idempotency key was already used.")
		CatalogCacheTotal = counterVec("catalog_cache_total",
			"Catalog cache lookups by result.", "result")
	})
}
