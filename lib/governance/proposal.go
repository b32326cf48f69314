package governance

import (
	"encoding/json"
	"fmt"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/storage"
)

// Proposal is the stored governance proposal. the storage should support,
//  * find by `ID`
//  * get list in id order, which is also creation order
//
// models
//  * 'id'
// 	- 'gp-id-<zero padded ID>': `Proposal`
//
// The id is zero padded to the full uint64 width so that the lexical
// iteration order of leveldb equals the numeric id order.

const ProposalPrefix string = "gp-id-"

type Proposal struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	YesCount    uint64 `json:"yes_count"`
	NoCount     uint64 `json:"no_count"`
	Active      bool   `json:"active"`
	Created     int64  `json:"created"`
	Creator     string `json:"creator"`
}

func NewProposal(id uint64, title, description, creator string, created int64) Proposal {
	return Proposal{
		ID:          id,
		Title:       title,
		Description: description,
		Active:      true,
		Created:     created,
		Creator:     creator,
	}
}

func GetProposalKey(id uint64) string {
	return fmt.Sprintf("%s%020d", ProposalPrefix, id)
}

func (p Proposal) Save(st *storage.LevelDBBackend) (err error) {
	key := GetProposalKey(p.ID)

	var exists bool
	if exists, err = st.Has(key); err != nil {
		return
	}

	if exists {
		err = st.Set(key, p)
	} else {
		err = st.New(key, p)
	}

	return
}

func (p Proposal) Serialize() ([]byte, error) {
	return json.Marshal(p)
}

func (p Proposal) String() string {
	return string(common.MustMarshalJSON(p))
}

func ExistsProposal(st *storage.LevelDBBackend, id uint64) (bool, error) {
	return st.Has(GetProposalKey(id))
}

func GetProposal(st *storage.LevelDBBackend, id uint64) (p Proposal, err error) {
	err = st.Get(GetProposalKey(id), &p)
	return
}

func GetProposals(st *storage.LevelDBBackend, options storage.ListOptions) (
	func() (Proposal, bool, []byte),
	func(),
) {
	iterFunc, closeFunc := st.GetIterator(ProposalPrefix, options)

	return LoadProposalsInsideIterator(st, iterFunc, closeFunc)
}

func LoadProposalsInsideIterator(
	st *storage.LevelDBBackend,
	iterFunc func() (storage.IterItem, bool),
	closeFunc func(),
) (
	func() (Proposal, bool, []byte),
	func(),
) {
	return (func() (Proposal, bool, []byte) {
			item, hasNext := iterFunc()
			if !hasNext {
				return Proposal{}, false, item.Key
			}

			var p Proposal
			if err := json.Unmarshal(item.Value, &p); err != nil {
				return Proposal{}, false, item.Key
			}

			return p, hasNext, item.Key
		}), (func() {
			closeFunc()
		})
}
