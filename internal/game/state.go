// Package game provides the session state and the turn engine.
package game

// State represents the turn engine's lifecycle state.
type State int

const (
	// StateNotRunning is the state of a freshly created engine.
	StateNotRunning State = iota
	// StateRunning is entered by Run and lasts until a stop is requested.
	StateRunning
	// StateStopped is terminal; a stopped engine cannot be restarted.
	StateStopped
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateNotRunning:
		return "not_running"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
