package analysis

// JobState represents the lifecycle state of a remote job.
//
// The exact vocabulary reported on the wire is access-protocol-defined;
// protocol implementations map their own status strings onto these values.
type JobState string

const (
	StateCreated    JobState = "CREATED"
	StateRunning    JobState = "RUNNING"
	StateCompleted  JobState = "COMPLETED"
	StateFailed     JobState = "FAILED"
	StateTerminated JobState = "TERMINATED"
)

// String returns the string representation of the job state.
func (s JobState) String() string {
	return string(s)
}

// IsTerminal returns true if the job is in a final state. Terminal states
// are absorbing: a job never leaves them.
func (s JobState) IsTerminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateTerminated:
		return true
	}
	return false
}

// ValidJobTransitions defines the allowed state transitions for jobs.
var ValidJobTransitions = map[JobState][]JobState{
	StateCreated: {StateRunning, StateCompleted, StateFailed, StateTerminated},
	StateRunning: {StateCompleted, StateFailed, StateTerminated},
}

// CanTransitionTo returns true if moving from the current state to next is
// valid. Self-transitions are always allowed (repeated polls of the same
// state).
func (s JobState) CanTransitionTo(next JobState) bool {
	if s == next {
		return true
	}
	for _, allowed := range ValidJobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
