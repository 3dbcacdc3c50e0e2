package session

import "fmt"

// State is the orchestrator's lifecycle position.
type State string

const (
	Idle     State = "IDLE"
	Starting State = "STARTING"
	Running  State = "RUNNING"
	Stopping State = "STOPPING"
	Done     State = "DONE"
	Failed   State = "FAILED"
)

// validTransitions fixes the lifecycle graph. Failed is reachable from every
// non-terminal state.
var validTransitions = map[State][]State{
	Idle:     {Starting},
	Starting: {Running, Failed},
	Running:  {Running, Stopping, Failed},
	Stopping: {Done, Failed},
	Done:     {},
	Failed:   {},
}

// canTransition reports whether moving from one state to another is legal.
func canTransition(from, to State) bool {
	if to == Failed && from != Done && from != Failed {
		return true
	}
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// transitionError is returned when a lifecycle move is not allowed.
func transitionError(from, to State) error {
	return fmt.Errorf("invalid session transition %s -> %s", from, to)
}
