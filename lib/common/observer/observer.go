package observer

import (
	"fmt"
	"strings"

	observable "github.com/GianlucaGuarini/go-observable"
)

// ResourceObserver relays ledger state changes to in-process listeners; the
// api event streams bridge it to http clients.
var ResourceObserver = observable.New()

type Resource string

const (
	Prop Resource = "proposal"
	Vote Resource = "vote"
)

type Key string

const (
	// All matches every change of the resource kind.
	All Key = "*"
	// Identifier scopes to one record, e.g. `proposal-id=3`.
	Identifier Key = "id"
	// ProposalID scopes votes to their proposal, e.g. `vote-proposal=3`.
	ProposalID Key = "proposal"
	// Created and Closed carry the lifecycle notification payloads.
	Created Key = "created"
	Closed  Key = "closed"
	// Cast carries `Voted` notification payloads.
	Cast Key = "cast"
)

type Condition struct {
	Resource Resource `json:"resource"`
	Key      Key      `json:"key"`
	Value    string   `json:"value,omitempty"`
}

func NewCondition(resource Resource, key Key, value ...string) Condition {
	c := Condition{Resource: resource, Key: key}
	if len(value) > 0 {
		c.Value = value[0]
	}
	return c
}

func (c Condition) String() string {
	if c.Key == All || len(c.Value) < 1 {
		return fmt.Sprintf("%s-%s", c.Resource, c.Key)
	}

	return fmt.Sprintf("%s-%s=%s", c.Resource, c.Key, c.Value)
}

type Conditions []Condition

func NewConditions(conditions ...Condition) Conditions {
	return Conditions(conditions)
}

// Event joins the conditions into one observable event name; a listener
// registered on it fires when any of the conditions triggers.
func (cs Conditions) Event() string {
	events := make([]string, 0, len(cs))
	for _, c := range cs {
		events = append(events, c.String())
	}

	return strings.Join(events, " ")
}
