package ledger

import (
	"maatnet.io/maat/lib/governance"
	"maatnet.io/maat/lib/storage"
)

// NewTestLedger genesis-initializes the given storage with the
// administrator and opens a ledger over it.
func NewTestLedger(st *storage.LevelDBBackend, adminAddress string) *Ledger {
	if err := governance.NewAdministrator(adminAddress).Save(st); err != nil {
		panic(err)
	}
	if err := governance.SetProposalCount(st, 0); err != nil {
		panic(err)
	}

	lg, err := NewLedger(st)
	if err != nil {
		panic(err)
	}

	return lg
}
