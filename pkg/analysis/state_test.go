package analysis

import "testing"

func TestJobState_IsTerminal(t *testing.T) {
	tests := []struct {
		state JobState
		want  bool
	}{
		{StateCreated, false},
		{StateRunning, false},
		{StateCompleted, true},
		{StateFailed, true},
		{StateTerminated, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.want {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJobState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from JobState
		to   JobState
		want bool
	}{
		{"created to running", StateCreated, StateRunning, true},
		{"created to completed", StateCreated, StateCompleted, true},
		{"running to completed", StateRunning, StateCompleted, true},
		{"running to failed", StateRunning, StateFailed, true},
		{"running to terminated", StateRunning, StateTerminated, true},
		{"completed stays completed", StateCompleted, StateCompleted, true},
		{"completed back to running", StateCompleted, StateRunning, false},
		{"failed back to created", StateFailed, StateCreated, false},
		{"running back to created", StateRunning, StateCreated, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
