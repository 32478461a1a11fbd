package convert

import "fmt"

// State is the phase of a conversion run.
type State int

const (
	Idle State = iota
	Traversing
	Aggregating
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Traversing:
		return "traversing"
	case Aggregating:
		return "aggregating"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
