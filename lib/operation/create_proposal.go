package operation

import (
	"encoding/json"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/errors"
)

type CreateProposal struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func NewCreateProposal(title, description string) CreateProposal {
	return CreateProposal{
		Title:       title,
		Description: description,
	}
}

func (o CreateProposal) Serialize() (encoded []byte, err error) {
	return json.Marshal(o)
}

func (o CreateProposal) IsWellFormed(common.Config) (err error) {
	if len(o.Title) < 1 {
		err = errors.InvalidInput.Clone().SetData("field", "title")
		return
	}

	if len(o.Description) < 1 {
		err = errors.InvalidInput.Clone().SetData("field", "description")
		return
	}

	return
}
