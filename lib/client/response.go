package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Problem is the RFC 7807 document the node answers errors with. The type
// field of catalog errors ends in the error code.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

type Error struct {
	Problem Problem
}

func (e Error) Error() string {
	return fmt.Sprintf("%s (status=%d type=%s)", e.Problem.Title, e.Problem.Status, e.Problem.Type)
}

type Link struct {
	Href      string `json:"href"`
	Templated bool   `json:"templated,omitempty"`
}

type Proposal struct {
	Links struct {
		Self  Link `json:"self"`
		Votes Link `json:"votes"`
		Tally Link `json:"tally"`
	} `json:"_links"`

	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	YesCount    uint64 `json:"yes_count"`
	NoCount     uint64 `json:"no_count"`
	Active      bool   `json:"active"`
	Created     int64  `json:"created"`
	Creator     string `json:"creator"`
}

type ProposalsPage struct {
	Links struct {
		Self Link `json:"self"`
		Next Link `json:"next"`
		Prev Link `json:"prev"`
	} `json:"_links"`
	Embedded struct {
		Records []Proposal `json:"records"`
	} `json:"_embedded"`
}

type Vote struct {
	Links struct {
		Self     Link `json:"self"`
		Proposal Link `json:"proposal"`
	} `json:"_links"`

	ProposalID uint64 `json:"proposal_id"`
	Voter      string `json:"voter"`
	Support    bool   `json:"support"`
	Created    int64  `json:"created"`
}

type VotesPage struct {
	Links struct {
		Self Link `json:"self"`
		Next Link `json:"next"`
		Prev Link `json:"prev"`
	} `json:"_links"`
	Embedded struct {
		Records []Vote `json:"records"`
	} `json:"_embedded"`
}

type Tally struct {
	Links struct {
		Self     Link `json:"self"`
		Proposal Link `json:"proposal"`
	} `json:"_links"`

	ProposalID uint64 `json:"proposal_id"`
	YesCount   uint64 `json:"yes_count"`
	NoCount    uint64 `json:"no_count"`
	YesPercent uint64 `json:"yes_percent"`
	NoPercent  uint64 `json:"no_percent"`
	Scale      uint64 `json:"scale"`
	Approved   bool   `json:"approved"`
	Active     bool   `json:"active"`
}

type Administrator struct {
	Links struct {
		Self      Link `json:"self"`
		Proposals Link `json:"proposals"`
	} `json:"_links"`

	Address string `json:"address"`
}

type OperationPost struct {
	Links struct {
		Self Link `json:"self"`
	} `json:"_links"`
	Embedded struct {
		Result []json.RawMessage `json:"result"`
	} `json:"_embedded"`

	Hash   string `json:"hash"`
	Type   string `json:"type"`
	Source string `json:"source"`
	Status string `json:"status"`
}

// DecodeResult unmarshals the resource the operation touched into v, e.g. a
// `Proposal` after a create-proposal.
func (o OperationPost) DecodeResult(v interface{}) error {
	if len(o.Embedded.Result) < 1 {
		return errors.New("operation response carries no result")
	}
	return json.Unmarshal(o.Embedded.Result[0], v)
}

type NodeInfo struct {
	Node struct {
		Version struct {
			Version   string `json:"version"`
			GitCommit string `json:"git-commit"`
			GitState  string `json:"git-state"`
			BuildDate string `json:"build-date"`
		} `json:"version"`
		Started  string `json:"started"`
		State    string `json:"state"`
		Alias    string `json:"alias"`
		Address  string `json:"address"`
		Endpoint string `json:"endpoint"`
	} `json:"node"`
	Policy struct {
		NetworkID        string `json:"network-id"`
		OperationTimeGap int64  `json:"operation-time-gap"`
		TallyScale       uint64 `json:"tally-scale"`
		RateLimitRuleAPI string `json:"rate-limit-api"`
	} `json:"policy"`
	Ledger struct {
		Administrator string `json:"administrator"`
		Proposals     uint64 `json:"proposals"`
		Active        int    `json:"active"`
	} `json:"ledger"`
}
