package metrics

import (
	"github.com/go-kit/kit/metrics/discard"
)

// Process-wide metric handles. They start as no-ops so library code can
// record unconditionally; InitPrometheusMetrics swaps in real collectors
// before the node starts serving.
var (
	Version = discard.NewGauge()
	Ledger  = NopLedgerMetrics()
	API     = NopAPIMetrics()
)
