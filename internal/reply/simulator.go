package reply

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/matheus3301/p2pm/internal/bus"
	"github.com/matheus3301/p2pm/internal/chat"
	"go.uber.org/zap"
)

const (
	DefaultMinDelay = 1500 * time.Millisecond
	DefaultMaxDelay = 2500 * time.Millisecond
)

// Receiver appends a reply composed from the conversation's current state.
type Receiver interface {
	ReceiveReply(conversationID string, compose func(chat.Conversation) chat.Message) (chat.Message, error)
}

// Config bounds the reply delay. Each reply waits a uniform random duration
// in [MinDelay, MaxDelay).
type Config struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

// Simulator answers outgoing messages on behalf of the participant after a
// random delay. Every send gets its own timer; nothing is coalesced.
type Simulator struct {
	receiver Receiver
	clock    clock.Clock
	minDelay time.Duration
	maxDelay time.Duration
	bus      *bus.Bus
	logger   *zap.Logger

	mu      sync.Mutex
	pending map[*Task]struct{}
	stopped bool
}

// NewSimulator creates a simulator delivering replies to r.
func NewSimulator(r Receiver, clk clock.Clock, cfg Config, b *bus.Bus, logger *zap.Logger) *Simulator {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MinDelay <= 0 {
		cfg.MinDelay = DefaultMinDelay
	}
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay
	}
	return &Simulator{
		receiver: r,
		clock:    clk,
		minDelay: cfg.MinDelay,
		maxDelay: cfg.MaxDelay,
		bus:      b,
		logger:   logger,
		pending:  make(map[*Task]struct{}),
	}
}

// ScheduleReply implements chat.ReplyScheduler.
func (s *Simulator) ScheduleReply(conversationID string) {
	s.Schedule(conversationID)
}

// Schedule arms a reply for conversationID. After Stop the returned task
// stays Idle and never fires.
func (s *Simulator) Schedule(conversationID string) *Task {
	now := s.clock.Now()
	delay := s.delay()
	t := &Task{
		id:             chat.NewID("reply", now),
		conversationID: conversationID,
		dueAt:          now.Add(delay),
		state:          Idle,
		sim:            s,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		s.logger.Debug("reply dropped, simulator stopped", zap.String("conversation_id", conversationID))
		return t
	}
	s.pending[t] = struct{}{}
	s.mu.Unlock()

	_ = t.transitionLocked(Scheduled)
	t.timer = s.clock.AfterFunc(delay, func() { s.fire(t) })

	s.logger.Debug("reply scheduled",
		zap.String("task_id", t.id),
		zap.String("conversation_id", conversationID),
		zap.Duration("delay", delay),
	)
	s.bus.Publish(bus.Event{Kind: bus.ReplyScheduled, Timestamp: now, Payload: t.info()})
	return t
}

// Pending returns the number of scheduled replies that have not fired.
func (s *Simulator) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Stop cancels every pending reply and rejects new ones.
func (s *Simulator) Stop() {
	s.mu.Lock()
	s.stopped = true
	tasks := make([]*Task, 0, len(s.pending))
	for t := range s.pending {
		tasks = append(tasks, t)
	}
	s.mu.Unlock()

	for _, t := range tasks {
		t.Cancel()
	}
}

func (s *Simulator) delay() time.Duration {
	span := s.maxDelay - s.minDelay
	if span <= 0 {
		return s.minDelay
	}
	return s.minDelay + rand.N(span)
}

func (s *Simulator) fire(t *Task) {
	t.mu.Lock()
	if err := t.transitionLocked(Fired); err != nil {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()
	s.forget(t, false)

	msg, err := s.receiver.ReceiveReply(t.conversationID, func(c chat.Conversation) chat.Message {
		return chat.Message{
			Text:     ComposeReply(c),
			SenderID: c.Participant.ID,
			Status:   chat.StatusDelivered,
		}
	})
	if err != nil {
		s.logger.Warn("reply not delivered", zap.String("task_id", t.id), zap.Error(err))
		return
	}
	s.logger.Debug("reply delivered",
		zap.String("task_id", t.id),
		zap.String("conversation_id", t.conversationID),
		zap.String("msg_id", msg.ID),
	)
}

func (s *Simulator) forget(t *Task, cancelled bool) {
	s.mu.Lock()
	delete(s.pending, t)
	s.mu.Unlock()
	if cancelled {
		s.bus.Publish(bus.Event{Kind: bus.ReplyCancelled, Timestamp: s.clock.Now(), Payload: t.info()})
	}
}

// ComposeReply builds the reply text from the most recent message.
func ComposeReply(c chat.Conversation) string {
	last, ok := c.LastMessage()
	switch {
	case ok && last.Attachment != nil:
		return fmt.Sprintf("Received your file: \"%s\".", last.Attachment.Name)
	case ok && last.Text != "":
		return fmt.Sprintf("This is an automated reply to \"%s\".", last.Text)
	default:
		return "This is an automated reply to your message."
	}
}
