package app

import (
	"testing"

	"github.com/smartprint/comanda/internal/ports"
)

func TestLifecycle_ValidTransitions(t *testing.T) {
	tests := []struct {
		name string
		path []State
	}{
		{"full cycle", []State{StateStarting, StateRunning, StateStopping, StateStopped}},
		{"abort during startup", []State{StateStarting, StateStopping, StateStopped}},
		{"restart after stop", []State{StateStarting, StateRunning, StateStopping, StateStopped, StateStarting}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLifecycle(ports.NopLogger{})
			for _, s := range tt.path {
				if err := l.TransitionTo(s, "test"); err != nil {
					t.Fatalf("TransitionTo(%s) error: %v", s, err)
				}
			}
			if l.State() != tt.path[len(tt.path)-1] {
				t.Errorf("State() = %s, want %s", l.State(), tt.path[len(tt.path)-1])
			}
		})
	}
}

func TestLifecycle_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from []State
		to   State
	}{
		{"stopped to running", nil, StateRunning},
		{"stopped to stopping", nil, StateStopping},
		{"starting to starting", []State{StateStarting}, StateStarting},
		{"running to starting", []State{StateStarting, StateRunning}, StateStarting},
		{"running to running", []State{StateStarting, StateRunning}, StateRunning},
		{"stopping to running", []State{StateStarting, StateRunning, StateStopping}, StateRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLifecycle(ports.NopLogger{})
			for _, s := range tt.from {
				if err := l.TransitionTo(s, "setup"); err != nil {
					t.Fatalf("setup TransitionTo(%s) error: %v", s, err)
				}
			}
			before := l.State()
			if err := l.TransitionTo(tt.to, "test"); err == nil {
				t.Fatalf("TransitionTo(%s) from %s succeeded, want error", tt.to, before)
			}
			if l.State() != before {
				t.Errorf("State() = %s after rejected transition, want %s", l.State(), before)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateStopped, "Stopped"},
		{StateStarting, "Starting"},
		{StateRunning, "Running"},
		{StateStopping, "Stopping"},
		{State(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestLifecycle_CanStartCanStop(t *testing.T) {
	l := NewLifecycle(ports.NopLogger{})

	if !l.CanStart() || l.CanStop() {
		t.Errorf("stopped: CanStart()=%v CanStop()=%v, want true false", l.CanStart(), l.CanStop())
	}

	_ = l.TransitionTo(StateStarting, "test")
	if l.CanStart() || !l.CanStop() {
		t.Errorf("starting: CanStart()=%v CanStop()=%v, want false true", l.CanStart(), l.CanStop())
	}

	_ = l.TransitionTo(StateRunning, "test")
	if l.CanStart() || !l.CanStop() {
		t.Errorf("running: CanStart()=%v CanStop()=%v, want false true", l.CanStart(), l.CanStop())
	}

	_ = l.TransitionTo(StateStopping, "test")
	if l.CanStart() || l.CanStop() {
		t.Errorf("stopping: CanStart()=%v CanStop()=%v, want false false", l.CanStart(), l.CanStop())
	}
}
