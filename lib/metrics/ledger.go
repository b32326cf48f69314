package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type LedgerMetrics struct {
	Proposals       metrics.Gauge
	ActiveProposals metrics.Gauge

	VotesTotal metrics.Counter

	ApplyDurationSeconds metrics.Histogram
}

func (l *LedgerMetrics) SetProposals(total uint64) {
	l.Proposals.Set(float64(total))
}
func (l *LedgerMetrics) SetActiveProposals(total uint64) {
	l.ActiveProposals.Set(float64(total))
}
func (l *LedgerMetrics) IncVotes() {
	l.VotesTotal.Add(1)
}
func (l *LedgerMetrics) ObserveApply(operation string, seconds float64) {
	l.ApplyDurationSeconds.With("operation", operation).Observe(seconds)
}

func PromLedgerMetrics() *LedgerMetrics {
	return &LedgerMetrics{
		Proposals: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: LedgerSubsystem,
			Name:      "proposals",
			Help:      "Number of proposals ever created.",
		}, []string{}),
		ActiveProposals: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: LedgerSubsystem,
			Name:      "active_proposals",
			Help:      "Number of proposals still open for voting.",
		}, []string{}),
		VotesTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: LedgerSubsystem,
			Name:      "votes_total",
			Help:      "Total number of votes cast since start.",
		}, []string{}),
		ApplyDurationSeconds: prometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
			Namespace: Namespace,
			Subsystem: LedgerSubsystem,
			Name:      "apply_duration_seconds",
			Help:      "Time spent applying one ledger operation.",
		}, []string{"operation"}),
	}
}

func NopLedgerMetrics() *LedgerMetrics {
	return &LedgerMetrics{
		Proposals:       discard.NewGauge(),
		ActiveProposals: discard.NewGauge(),

		VotesTotal: discard.NewCounter(),

		ApplyDurationSeconds: discard.NewHistogram(),
	}
}
