package csma

import "strconv"

// State is the access-control state of a station.
type State int

// The states of the station state machine. A station starts in StateIdle and
// never terminates.
const (
	StateIdle State = iota
	StateSensing
	StateTransmitting
	StateJamming
	StateWaiting
	// StateDeferred is only reached by p-persistent stations.
	StateDeferred
)

var stateNames = [...]string{
	StateIdle:         "Idle",
	StateSensing:      "Sensing",
	StateTransmitting: "Transmitting",
	StateJamming:      "Jamming",
	StateWaiting:      "Waiting",
	StateDeferred:     "Deferred",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "State(" + strconv.Itoa(int(s)) + ")"
	}

	return stateNames[s]
}
