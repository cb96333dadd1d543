package pipeline

import "fmt"

// State is the position of a run in the pipeline.
type State int

const (
	StateIdle State = iota
	StateLoaded
	StateGraphBuilt
	StateReachabilityComputed
	StateFlattened
	StateEmitted
	StateDone
	StateFailed
)

var stateNames = [...]string{"Idle", "Loaded", "GraphBuilt", "ReachabilityComputed", "Flattened", "Emitted", "Done", "Failed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Stage names used in StageError and log records.
const (
	StageLoad    = "load"
	StageGraph   = "graph"
	StageReach   = "reach"
	StageFlatten = "flatten"
	StageEmit    = "emit"
	// StageConfig tags configuration failures raised before the pipeline starts.
	StageConfig  = "config"
)

// StageError wraps the failure of one pipeline stage.
type StageError struct {
	Stage string
	Err   error
}

// Error implements the error interface for StageError.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

// Unwrap provides compatibility for Go 1.13 error chains.
func (e *StageError) Unwrap() error { return e.Err }
