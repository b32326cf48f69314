package governance

import (
	"maatnet.io/maat/lib/storage"
)

// The proposal counter always equals the number of proposals ever created;
// it is the next-identifier source and makes `[0, count)` the valid id
// range.
//
// models
//  * 'count'
// 	- 'gp-count': `uint64`

const ProposalCountKey string = "gp-count"

func ExistsProposalCount(st *storage.LevelDBBackend) (bool, error) {
	return st.Has(ProposalCountKey)
}

func GetProposalCount(st *storage.LevelDBBackend) (count uint64, err error) {
	err = st.Get(ProposalCountKey, &count)
	return
}

func SetProposalCount(st *storage.LevelDBBackend, count uint64) (err error) {
	var exists bool
	if exists, err = st.Has(ProposalCountKey); err != nil {
		return
	}

	if exists {
		err = st.Set(ProposalCountKey, count)
	} else {
		err = st.New(ProposalCountKey, count)
	}

	return
}
