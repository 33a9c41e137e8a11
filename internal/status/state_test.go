package status

import (
	"testing"

	"github.com/matheus3301/p2pm/internal/bus"
)

func TestInitialState(t *testing.T) {
	m := NewMachine(nil)
	if m.Current() != Booting {
		t.Errorf("initial state = %s, want BOOTING", m.Current())
	}
}

func TestValidTransitions(t *testing.T) {
	tests := []struct {
		from State
		to   State
	}{
		{Booting, Onboarding},
		{Booting, Ready},
		{Booting, Error},
		{Onboarding, Ready},
		{Onboarding, Error},
		{Ready, Onboarding},
		{Ready, Error},
		{Error, Booting},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			m := NewMachine(nil)
			walkTo(t, m, tt.from)
			if err := m.Transition(tt.to); err != nil {
				t.Errorf("Transition(%s -> %s) error = %v", tt.from, tt.to, err)
			}
			if m.Current() != tt.to {
				t.Errorf("state = %s, want %s", m.Current(), tt.to)
			}
		})
	}
}

func TestInvalidTransitions(t *testing.T) {
	tests := []struct {
		from State
		to   State
	}{
		{Onboarding, Booting},
		{Ready, Booting},
		{Error, Ready},
		{Ready, Ready},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			m := NewMachine(nil)
			walkTo(t, m, tt.from)
			if err := m.Transition(tt.to); err == nil {
				t.Errorf("Transition(%s -> %s) should fail", tt.from, tt.to)
			}
			if m.Current() != tt.from {
				t.Errorf("state = %s, want %s (unchanged)", m.Current(), tt.from)
			}
		})
	}
}

func TestEnsureIsIdempotent(t *testing.T) {
	m := NewMachine(nil)
	walkTo(t, m, Ready)
	if err := m.Ensure(Ready); err != nil {
		t.Errorf("Ensure(READY) from READY: %v", err)
	}
	if err := m.Ensure(Onboarding); err != nil {
		t.Errorf("Ensure(ONBOARDING) from READY: %v", err)
	}
	if m.Current() != Onboarding {
		t.Errorf("state = %s, want ONBOARDING", m.Current())
	}
}

func TestTransitionEmitsEvent(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("profile.", 10)
	defer unsub()

	m := NewMachine(b)
	if err := m.Transition(Onboarding); err != nil {
		t.Fatal(err)
	}

	evt := <-ch
	if evt.Kind != bus.ProfileStatusChanged {
		t.Errorf("event kind = %q, want %s", evt.Kind, bus.ProfileStatusChanged)
	}
	change, ok := evt.Payload.(StatusChange)
	if !ok {
		t.Fatalf("payload type = %T, want StatusChange", evt.Payload)
	}
	if change.From != Booting || change.To != Onboarding {
		t.Errorf("change = %v -> %v, want BOOTING -> ONBOARDING", change.From, change.To)
	}
}

// TestResetLifecycle walks a first run, onboarding, and a later reset:
// BOOTING → ONBOARDING → READY → ONBOARDING → READY
func TestResetLifecycle(t *testing.T) {
	m := NewMachine(nil)

	steps := []State{Onboarding, Ready, Onboarding, Ready}
	for _, s := range steps {
		if err := m.Transition(s); err != nil {
			t.Fatalf("Transition to %s: %v (current: %s)", s, err, m.Current())
		}
	}
	if m.Current() != Ready {
		t.Errorf("final state = %s, want READY", m.Current())
	}
}

// walkTo is a helper that transitions the machine to a target state.
func walkTo(t *testing.T, m *Machine, target State) {
	t.Helper()
	paths := map[State][]State{
		Booting:    {},
		Onboarding: {Onboarding},
		Ready:      {Ready},
		Error:      {Error},
	}
	for _, s := range paths[target] {
		if err := m.Transition(s); err != nil {
			t.Fatalf("walkTo(%s): %v", target, err)
		}
	}
}
