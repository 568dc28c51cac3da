package runner

import "errors"

// Phase represents a run phase
type Phase string

const (
	PhaseIngest    Phase = "ingest"
	PhaseConstruct Phase = "construct"
	PhaseAnalyze   Phase = "analyze"
	PhaseMerge     Phase = "merge"
	PhaseSave      Phase = "save"
)

// UnitsPerPhase is the progress total reported by every phase
const UnitsPerPhase = 100

// Progress represents coarse phase progress
type Progress struct {
	Phase     Phase
	Completed int
	Total     int
}

// Status represents run outcome
type Status int

const (
	StatusCompleted Status = iota
	StatusCancelled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// ErrCancelled reports a cancelled run, a cancelled run is not a failure
var ErrCancelled = errors.New("run cancelled")
