package chat

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/matheus3301/p2pm/internal/bus"
	"go.uber.org/zap"
)

// DefaultParticipantJob is assigned to contacts added with StartConversation.
const DefaultParticipantJob = "Colleague"

// Persister receives the whole state after every mutation.
type Persister interface {
	Save(identity *User, conversations []Conversation) error
}

// ReplyScheduler arranges a simulated answer to an outgoing message.
type ReplyScheduler interface {
	ScheduleReply(conversationID string)
}

// Change is the payload of every event the store publishes.
type Change struct {
	ConversationID string
	Message        *Message
	Identity       *User
}

// Options configures a Store. Zero values fall back to the real clock, no
// persistence, no bus and a no-op logger.
type Options struct {
	Clock     clock.Clock
	Persister Persister
	Bus       *bus.Bus
	Logger    *zap.Logger
	// Online decides the presence flag of new participants.
	Online func() bool
}

// Store owns the local identity, every conversation and the focus.
// All mutations are serialised and persisted before the lock is released.
type Store struct {
	mu       sync.Mutex
	identity *User
	convs    []Conversation
	focused  string

	clock     clock.Clock
	persister Persister
	replies   ReplyScheduler
	bus       *bus.Bus
	logger    *zap.Logger
	online    func() bool
}

// New creates a store holding the given initial state.
func New(initial Snapshot, opts Options) *Store {
	s := &Store{
		clock:     opts.Clock,
		persister: opts.Persister,
		bus:       opts.Bus,
		logger:    opts.Logger,
		online:    opts.Online,
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.online == nil {
		s.online = func() bool { return rand.Float64() > 0.5 }
	}
	if initial.Identity != nil {
		id := *initial.Identity
		s.identity = &id
	}
	s.convs = make([]Conversation, 0, len(initial.Conversations))
	for _, c := range initial.Conversations {
		if c.Messages == nil {
			c.Messages = []Message{}
		}
		s.convs = append(s.convs, c.clone())
	}
	return s
}

// SetReplyScheduler installs the component that answers outgoing messages.
func (s *Store) SetReplyScheduler(r ReplyScheduler) {
	s.mu.Lock()
	s.replies = r
	s.mu.Unlock()
}

// Identity returns the local user, if onboarding has happened.
func (s *Store) Identity() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return User{}, false
	}
	return *s.identity, true
}

// SetIdentity creates the local user. It is write-once: use Reset to start over.
func (s *Store) SetIdentity(name, job string) (User, error) {
	name = strings.TrimSpace(name)
	job = strings.TrimSpace(job)
	if name == "" || job == "" {
		return User{}, fmt.Errorf("%w: name and job are required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity != nil {
		return User{}, ErrIdentityExists
	}
	now := s.clock.Now()
	u := User{
		ID:     NewID("user", now),
		Name:   name,
		Job:    job,
		Avatar: AvatarURL(name),
		Online: true,
	}
	s.identity = &u
	s.persistLocked()
	s.publishLocked(bus.IdentityCreated, Change{Identity: &u})
	return u, nil
}

// Reset forgets the identity and restores the seed conversations.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.convs = SeedConversations(s.clock.Now())
	s.focused = ""
	s.persistLocked()
	s.publishLocked(bus.IdentityReset, Change{})
}

// Conversations returns copies ordered by most recent activity. Ties keep
// insertion order.
func (s *Store) Conversations() []Conversation {
	s.mu.Lock()
	out := make([]Conversation, len(s.convs))
	for i, c := range s.convs {
		out[i] = c.clone()
	}
	s.mu.Unlock()

	slices.SortStableFunc(out, func(a, b Conversation) int {
		return cmp.Compare(b.LastMessageTimestamp, a.LastMessageTimestamp)
	})
	return out
}

// Conversation returns a copy of one conversation.
func (s *Store) Conversation(id string) (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Conversation{}, false
	}
	return s.convs[i].clone(), true
}

// Focused returns the id of the focused conversation, or "".
func (s *Store) Focused() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focused
}

// Snapshot returns a copy of the persisted part of the state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	var snap Snapshot
	if s.identity != nil {
		id := *s.identity
		snap.Identity = &id
	}
	snap.Conversations = make([]Conversation, len(s.convs))
	for i, c := range s.convs {
		snap.Conversations[i] = c.clone()
	}
	return snap
}

// Counts returns the number of conversations and messages held.
func (s *Store) Counts() (conversations, messages int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.convs {
		messages += len(c.Messages)
	}
	return len(s.convs), messages
}

// Select focuses a conversation, zeroes its unread counter and marks every
// message read. Selecting twice changes nothing the second time.
func (s *Store) Select(id string) (Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Conversation{}, fmt.Errorf("%w: %s", ErrConversationNotFound, id)
	}
	s.focused = id
	c := &s.convs[i]
	changed := c.UnreadCount != 0
	c.UnreadCount = 0
	for j := range c.Messages {
		if c.Messages[j].Status != StatusRead {
			c.Messages[j].Status = StatusRead
			changed = true
		}
	}
	if changed {
		s.persistLocked()
	}
	s.publishLocked(bus.ConversationSelected, Change{ConversationID: id})
	return c.clone(), nil
}

// ClearFocus leaves the focused conversation without touching its messages.
func (s *Store) ClearFocus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.focused == "" {
		return
	}
	prev := s.focused
	s.focused = ""
	s.publishLocked(bus.ConversationUnfocus, Change{ConversationID: prev})
}

// Send appends an outgoing message to the focused conversation and schedules
// a reply. An empty conversationID targets the focused conversation. The id
// of the conversation written to is returned with the message.
func (s *Store) Send(conversationID, text string, attachment *Attachment) (Message, string, error) {
	text = strings.TrimSpace(text)
	if attachment != nil && strings.TrimSpace(attachment.Name) == "" {
		return Message{}, "", fmt.Errorf("%w: attachment without a name", ErrInvalidInput)
	}
	if text == "" && attachment == nil {
		return Message{}, "", ErrEmptyMessage
	}

	s.mu.Lock()
	if s.focused == "" {
		s.mu.Unlock()
		return Message{}, "", ErrNoFocus
	}
	if s.identity == nil {
		s.mu.Unlock()
		return Message{}, "", ErrNoIdentity
	}
	if conversationID == "" {
		conversationID = s.focused
	}
	if conversationID != s.focused {
		s.mu.Unlock()
		return Message{}, "", fmt.Errorf("%w: %s", ErrNotFocused, conversationID)
	}
	i := s.indexLocked(conversationID)
	if i < 0 {
		s.mu.Unlock()
		return Message{}, "", fmt.Errorf("%w: %s", ErrConversationNotFound, conversationID)
	}

	c := &s.convs[i]
	now := s.clock.Now()
	msg := Message{
		ID:        NewID("msg", now),
		Text:      text,
		Timestamp: max(now.UnixMilli(), c.LastMessageTimestamp),
		SenderID:  s.identity.ID,
		Status:    StatusSent,
	}
	if attachment != nil {
		a := *attachment
		msg.Attachment = &a
	}
	c.Messages = append(c.Messages, msg)
	c.LastMessageTimestamp = msg.Timestamp
	s.persistLocked()
	s.publishLocked(bus.MessageSent, Change{ConversationID: conversationID, Message: &msg})
	replies := s.replies
	s.mu.Unlock()

	if replies != nil {
		replies.ScheduleReply(conversationID)
	}
	return msg, conversationID, nil
}

// StartConversation adds a contact and an empty conversation with them at the
// head of the list, and focuses it.
func (s *Store) StartConversation(participantName string) (Conversation, error) {
	name := strings.TrimSpace(participantName)
	if name == "" {
		return Conversation{}, fmt.Errorf("%w: participant name is required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	userID := NewID("user", now)
	c := Conversation{
		ID: NewID("chat", now),
		Participant: User{
			ID:     userID,
			Name:   name,
			Job:    DefaultParticipantJob,
			Avatar: AvatarURL(userID),
			Online: s.online(),
		},
		Messages:             []Message{},
		LastMessageTimestamp: now.UnixMilli(),
	}
	s.convs = slices.Insert(s.convs, 0, c)
	s.focused = c.ID
	s.persistLocked()
	s.publishLocked(bus.ConversationStarted, Change{ConversationID: c.ID})
	return c.clone(), nil
}

// ReceiveMessage appends an inbound message. In the focused conversation it
// is marked read; elsewhere it keeps its status and bumps the unread counter.
func (s *Store) ReceiveMessage(conversationID string, msg Message) (Message, error) {
	return s.ReceiveReply(conversationID, func(Conversation) Message { return msg })
}

// ReceiveReply is ReceiveMessage with the message built from the
// conversation as it is at delivery time. compose runs under the store lock
// and must not call back into the store.
func (s *Store) ReceiveReply(conversationID string, compose func(Conversation) Message) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(conversationID)
	if i < 0 {
		return Message{}, fmt.Errorf("%w: %s", ErrConversationNotFound, conversationID)
	}
	c := &s.convs[i]
	msg := compose(c.clone())

	now := s.clock.Now()
	if msg.ID == "" {
		msg.ID = NewID("msg", now)
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = now.UnixMilli()
	}
	msg.Timestamp = max(msg.Timestamp, c.LastMessageTimestamp)
	if msg.Status == "" {
		msg.Status = StatusDelivered
	}
	if s.focused == conversationID {
		msg.Status = StatusRead
		c.UnreadCount = 0
	} else {
		c.UnreadCount++
	}
	c.Messages = append(c.Messages, msg)
	c.LastMessageTimestamp = msg.Timestamp
	s.persistLocked()
	s.publishLocked(bus.MessageReceived, Change{ConversationID: conversationID, Message: &msg})
	return msg, nil
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.convs, func(c Conversation) bool { return c.ID == id })
}

func (s *Store) persistLocked() {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(s.identity, s.convs); err != nil {
		s.logger.Warn("snapshot write failed", zap.Error(err))
	}
}

func (s *Store) publishLocked(kind string, change Change) {
	s.bus.Publish(bus.Event{
		Kind:      kind,
		Timestamp: s.clock.Now(),
		Payload:   change,
	})
}
