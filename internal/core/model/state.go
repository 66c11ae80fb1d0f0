package model

// State represents the current phase of a reading session.
type State string

const (
	StateIdle     State = "idle"
	StateReading  State = "reading"
	StatePaused   State = "paused"
	StateStopped  State = "stopped"
	StateComplete State = "complete"
	StateError    State = "error"
)

// Known reports whether the state belongs to the session enumeration.
func (state State) Known() bool {
	switch state {
	case StateIdle, StateReading, StatePaused, StateStopped, StateComplete, StateError:
		return true
	}
	return false
}

// Terminal reports whether the session has finished one way or another.
func (state State) Terminal() bool {
	return state == StateStopped || state == StateComplete || state == StateError
}
