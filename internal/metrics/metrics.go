// Package metrics holds the Prometheus collectors of the credit ledger.
// Collectors register on the default registry when the package loads.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

const namespace = "siteboost"

const (
	OutcomeOK       = "ok"
	OutcomeReplayed = "replayed"
)

var Consumptions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "consumptions_total",
	Help:      "Consume calls by category and outcome.",
}, []string{"category", "outcome"})

// CreditsDebited splits consumed credits by the balance they came from.
var CreditsDebited = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "credits_debited_total",
	Help:      "Credits consumed, by source (daily or purchased).",
}, []string{"source"})

var CreditsAdded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "credits_added_total",
	Help:      "Purchased credits added, by transaction type.",
}, []string{"type"})

var AchievementUnlocks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "progression",
	Name:      "achievement_unlocks_total",
	Help:      "Achievements unlocked, by code.",
}, []string{"code"})

var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "progression",
	Name:      "level_ups_total",
	Help:      "Consumptions that moved a user to a higher level.",
})

var OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "operation_duration_seconds",
	Help:      "Ledger operation latency, lock wait included.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
}, []string{"operation"})

func ObserveOperation(operation string, startedAt time.Time) {
	OperationDuration.WithLabelValues(operation).Observe(time.Since(startedAt).Seconds())
}

func AddDecimal(counter prometheus.Counter, amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	counter.Add(amount.InexactFloat64())
}
