package fit

import "fmt"

// State is the run-loop state of a fit.
type State int

const (
	StateInit State = iota
	StateSolving
	StateConverged
	StateMaxRunsReached
	StateSolverError
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateSolving:
		return "solving"
	case StateConverged:
		return "converged"
	case StateMaxRunsReached:
		return "max-runs-reached"
	case StateSolverError:
		return "solver-error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether the loop has stopped in s.
func (s State) Terminal() bool {
	return s >= StateConverged
}
