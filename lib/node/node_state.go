package node

import "fmt"

type State uint

const (
	StateNONE State = iota
	StateBOOTING
	StateRUNNING
	StateTERMINATING
)

var NodeInitState = StateNONE

var stateNames = map[State]string{
	StateNONE:        "NONE",
	StateBOOTING:     "BOOTING",
	StateRUNNING:     "RUNNING",
	StateTERMINATING: "TERMINATING",
}

func (s State) String() string {
	return stateNames[s]
}

func (s State) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

// UnmarshalJSON maps unknown names to StateNONE rather than failing; node
// info from a newer peer should not break decoding.
func (s *State) UnmarshalJSON(b []byte) error {
	name := string(b[1 : len(b)-1])

	*s = StateNONE
	for state, n := range stateNames {
		if n == name {
			*s = state
			break
		}
	}
	return nil
}
