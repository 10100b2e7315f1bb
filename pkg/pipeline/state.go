package pipeline

import "errors"

// ErrInvalidStateTransition is returned when Run is called on a driver
// that is not Idle. Programmer error, not recoverable.
var ErrInvalidStateTransition = errors.New("pipeline: invalid state transition")

// State is the driver lifecycle state. Transitions are strictly
// forward: Idle -> Running -> Stopping -> Stopped.
type State int

const (
	// Idle is the initial state before Run.
	Idle State = iota
	// Running is the steady capture/process/present loop.
	Running
	// Stopping means teardown is in progress.
	Stopping
	// Stopped is terminal.
	Stopped
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}
