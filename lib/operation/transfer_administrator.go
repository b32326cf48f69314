package operation

import (
	"encoding/json"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/common/keypair"
	"maatnet.io/maat/lib/errors"
)

type TransferAdministrator struct {
	NewAdmin string `json:"new_admin"`
}

func NewTransferAdministrator(newAdmin string) TransferAdministrator {
	return TransferAdministrator{
		NewAdmin: newAdmin,
	}
}

func (o TransferAdministrator) Serialize() (encoded []byte, err error) {
	return json.Marshal(o)
}

func (o TransferAdministrator) IsWellFormed(common.Config) (err error) {
	if _, err = keypair.Parse(o.NewAdmin); err != nil {
		err = errors.BadPublicAddress.Clone().SetData("address", o.NewAdmin)
		return
	}

	return
}
