package metrics

const (
	Namespace       = "maat"
	LedgerSubsystem = "ledger"
	APISubsystem    = "api"
)
