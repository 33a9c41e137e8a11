package reply

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// State is the lifecycle state of a reply task.
type State string

const (
	Idle      State = "IDLE"
	Scheduled State = "SCHEDULED"
	Fired     State = "FIRED"
	Cancelled State = "CANCELLED"
)

// validTransitions defines allowed task state transitions.
var validTransitions = map[State][]State{
	Idle:      {Scheduled},
	Scheduled: {Fired, Cancelled},
}

// Task is one pending simulated reply. Fired and Cancelled are terminal.
type Task struct {
	mu             sync.Mutex
	id             string
	conversationID string
	dueAt          time.Time
	state          State
	timer          *clock.Timer
	sim            *Simulator
}

// ID returns the task identifier.
func (t *Task) ID() string { return t.id }

// ConversationID returns the conversation the reply will be appended to.
func (t *Task) ConversationID() string { return t.conversationID }

// DueAt returns when the reply is due.
func (t *Task) DueAt() time.Time { return t.dueAt }

// State returns the current state.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Cancel stops a scheduled reply. It reports whether the task was still
// pending; cancelling a fired or cancelled task does nothing.
func (t *Task) Cancel() bool {
	t.mu.Lock()
	if err := t.transitionLocked(Cancelled); err != nil {
		t.mu.Unlock()
		return false
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.mu.Unlock()

	if t.sim != nil {
		t.sim.forget(t, true)
	}
	return true
}

func (t *Task) transitionLocked(to State) error {
	if !slices.Contains(validTransitions[t.state], to) {
		return fmt.Errorf("invalid transition from %s to %s", t.state, to)
	}
	t.state = to
	return nil
}

// Info is the payload of reply events.
type Info struct {
	TaskID         string
	ConversationID string
	DueAt          time.Time
}

func (t *Task) info() Info {
	return Info{TaskID: t.id, ConversationID: t.conversationID, DueAt: t.dueAt}
}
