package metrics

import (
	"runtime"

	"github.com/go-kit/kit/metrics"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"

	"maatnet.io/maat/lib/version"
)

// InitPrometheusMetrics replaces the no-op handles with collectors
// registered on the default prometheus registry.
func InitPrometheusMetrics() {
	Version = promVersion()
	Ledger = PromLedgerMetrics()
	API = PromAPIMetrics()
}

func promVersion() metrics.Gauge {
	return prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "version",
		Help:      "Version of the node.",
	}, []string{"version", "git_commit", "go_version"})
}

// SetVersion stamps the version gauge with the running build.
func SetVersion() {
	Version.With(
		"version", version.Version,
		"git_commit", version.GitCommit,
		"go_version", runtime.Version()).Set(1)
}
