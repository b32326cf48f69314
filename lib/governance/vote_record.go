package governance

import (
	"encoding/json"
	"fmt"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/errors"
	"maatnet.io/maat/lib/storage"
)

// VoteRecord is the membership fact "this voter voted on this proposal".
// the storage should support,
//  * find by (`ProposalID`, `Voter`)
//  * get list per proposal in voting order:
//
// models
//  * 'voter'
// 	- 'gv-pv-<zero padded ProposalID>-<Voter>': `VoteRecord`
//  * 'created'
// 	- 'gv-created-<zero padded ProposalID>-<sequential uuid1>': key of `VoteRecord`
//
// The record keeps `Support` and `Created` for audit; the counters on the
// proposal stay the tally source of truth. A record is never updated or
// removed once written.

const (
	VoteRecordPrefix        string = "gv-pv-"
	VoteRecordCreatedPrefix string = "gv-created-"
)

type VoteRecord struct {
	ProposalID uint64 `json:"proposal_id"`
	Voter      string `json:"voter"`
	Support    bool   `json:"support"`
	Created    int64  `json:"created"`
}

func NewVoteRecord(proposalID uint64, voter string, support bool, created int64) VoteRecord {
	return VoteRecord{
		ProposalID: proposalID,
		Voter:      voter,
		Support:    support,
		Created:    created,
	}
}

func GetVoteRecordKey(proposalID uint64, voter string) string {
	return fmt.Sprintf("%s%020d-%s", VoteRecordPrefix, proposalID, voter)
}

func GetVoteRecordCreatedKey(proposalID uint64, created string) string {
	return fmt.Sprintf("%s%020d-%s", VoteRecordCreatedPrefix, proposalID, created)
}

func GetVoteRecordCreatedPrefix(proposalID uint64) string {
	return fmt.Sprintf("%s%020d-", VoteRecordCreatedPrefix, proposalID)
}

// Save refuses an existing (proposal, voter) pair with `DuplicateVote`; a
// cast vote can never be replaced or retracted.
func (v VoteRecord) Save(st *storage.LevelDBBackend) (err error) {
	key := GetVoteRecordKey(v.ProposalID, v.Voter)

	var exists bool
	if exists, err = st.Has(key); err != nil {
		return
	}
	if exists {
		return errors.DuplicateVote
	}

	if err = st.New(key, v); err != nil {
		return
	}

	createdKey := GetVoteRecordCreatedKey(v.ProposalID, common.GetUniqueIDFromUUID())
	return st.New(createdKey, key)
}

func (v VoteRecord) Serialize() ([]byte, error) {
	return json.Marshal(v)
}

func (v VoteRecord) String() string {
	return string(common.MustMarshalJSON(v))
}

func ExistsVoteRecord(st *storage.LevelDBBackend, proposalID uint64, voter string) (bool, error) {
	return st.Has(GetVoteRecordKey(proposalID, voter))
}

func GetVoteRecord(st *storage.LevelDBBackend, proposalID uint64, voter string) (v VoteRecord, err error) {
	err = st.Get(GetVoteRecordKey(proposalID, voter), &v)
	return
}

func GetVoteRecordsByProposal(st *storage.LevelDBBackend, proposalID uint64, options storage.ListOptions) (
	func() (VoteRecord, bool, []byte),
	func(),
) {
	iterFunc, closeFunc := st.GetIterator(GetVoteRecordCreatedPrefix(proposalID), options)

	return LoadVoteRecordsInsideIterator(st, iterFunc, closeFunc)
}

func LoadVoteRecordsInsideIterator(
	st *storage.LevelDBBackend,
	iterFunc func() (storage.IterItem, bool),
	closeFunc func(),
) (
	func() (VoteRecord, bool, []byte),
	func(),
) {
	return (func() (VoteRecord, bool, []byte) {
			item, hasNext := iterFunc()
			if !hasNext {
				return VoteRecord{}, false, item.Key
			}

			var key string
			if err := json.Unmarshal(item.Value, &key); err != nil {
				return VoteRecord{}, false, item.Key
			}

			var v VoteRecord
			if err := st.Get(key, &v); err != nil {
				return VoteRecord{}, false, item.Key
			}

			return v, hasNext, item.Key
		}), (func() {
			closeFunc()
		})
}
