package governance

import (
	"encoding/json"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/storage"
)

// Administrator is the single account allowed to create, close and hand
// over proposals. One mutable record, no history:
//
// models
//  * 'administrator'
// 	- 'ga-administrator': `Administrator`

const AdministratorKey string = "ga-administrator"

type Administrator struct {
	Address string `json:"address"`
}

func NewAdministrator(address string) Administrator {
	return Administrator{Address: address}
}

func (a Administrator) Save(st *storage.LevelDBBackend) (err error) {
	var exists bool
	if exists, err = st.Has(AdministratorKey); err != nil {
		return
	}

	if exists {
		err = st.Set(AdministratorKey, a)
	} else {
		err = st.New(AdministratorKey, a)
	}

	return
}

func (a Administrator) Serialize() ([]byte, error) {
	return json.Marshal(a)
}

func (a Administrator) String() string {
	return string(common.MustMarshalJSON(a))
}

func ExistsAdministrator(st *storage.LevelDBBackend) (bool, error) {
	return st.Has(AdministratorKey)
}

func GetAdministrator(st *storage.LevelDBBackend) (a Administrator, err error) {
	err = st.Get(AdministratorKey, &a)
	return
}
