package model

import "fmt"

// State is the binary signal of an input channel.
// Keep these values stable; they match the CSV column.
type State int

const (
	StateOff State = 0
	StateOn  State = 1
)

func (s State) String() string {
	switch s {
	case StateOn:
		return "ON"
	case StateOff:
		return "OFF"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ParseState accepts the CSV encoding of a state ("1" or "0").
func ParseState(s string) (State, error) {
	switch s {
	case "1":
		return StateOn, nil
	case "0":
		return StateOff, nil
	default:
		return StateOff, fmt.Errorf("invalid state %q, expected 0 or 1", s)
	}
}
