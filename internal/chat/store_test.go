package chat

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/matheus3301/p2pm/internal/bus"
)

type recordingPersister struct {
	mu    sync.Mutex
	saves int
	last  Snapshot
}

func (p *recordingPersister) Save(identity *User, conversations []Conversation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saves++
	p.last = Snapshot{Conversations: make([]Conversation, len(conversations))}
	if identity != nil {
		u := *identity
		p.last.Identity = &u
	}
	for i, c := range conversations {
		p.last.Conversations[i] = c.clone()
	}
	return nil
}

func (p *recordingPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}

type recordingScheduler struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingScheduler) ScheduleReply(id string) {
	r.mu.Lock()
	r.ids = append(r.ids, id)
	r.mu.Unlock()
}

func testClock() *clock.Mock {
	mock := clock.NewMock()
	mock.Set(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	return mock
}

func newTestStore(t *testing.T, snap Snapshot) (*Store, *clock.Mock, *recordingPersister) {
	return newTestStoreAt(t, testClock(), snap)
}

func newTestStoreAt(t *testing.T, mock *clock.Mock, snap Snapshot) (*Store, *clock.Mock, *recordingPersister) {
	t.Helper()
	p := &recordingPersister{}
	s := New(snap, Options{
		Clock:     mock,
		Persister: p,
		Online:    func() bool { return true },
	})
	return s, mock, p
}

func seededStore(t *testing.T) (*Store, *clock.Mock, *recordingPersister) {
	t.Helper()
	mock := testClock()
	return newTestStoreAt(t, mock, Snapshot{Conversations: SeedConversations(mock.Now())})
}

func mustOnboard(t *testing.T, s *Store) User {
	t.Helper()
	u, err := s.SetIdentity("Ada", "Engineer")
	if err != nil {
		t.Fatalf("SetIdentity: %v", err)
	}
	return u
}

func TestOnboarding(t *testing.T) {
	s, _, p := seededStore(t)

	if _, ok := s.Identity(); ok {
		t.Fatal("expected no identity before onboarding")
	}
	u := mustOnboard(t, s)

	if u.Name != "Ada" || u.Job != "Engineer" {
		t.Errorf("identity = %+v", u)
	}
	if !u.Online {
		t.Error("identity should be online")
	}
	if u.Avatar != "https://picsum.photos/seed/Ada/200" {
		t.Errorf("avatar = %q", u.Avatar)
	}
	if !strings.HasPrefix(u.ID, "user-") {
		t.Errorf("id = %q, want user- prefix", u.ID)
	}
	if p.count() != 1 || p.last.Identity == nil || p.last.Identity.Name != "Ada" {
		t.Errorf("identity was not persisted: saves=%d last=%+v", p.count(), p.last.Identity)
	}
}

func TestSetIdentityValidation(t *testing.T) {
	tests := []struct {
		name, job string
	}{
		{"", "Engineer"},
		{"Ada", ""},
		{"   ", "\t"},
	}
	for _, tt := range tests {
		s, _, p := seededStore(t)
		if _, err := s.SetIdentity(tt.name, tt.job); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("SetIdentity(%q, %q) err = %v, want ErrInvalidInput", tt.name, tt.job, err)
		}
		if _, ok := s.Identity(); ok {
			t.Errorf("SetIdentity(%q, %q) created an identity", tt.name, tt.job)
		}
		if p.count() != 0 {
			t.Errorf("rejected SetIdentity persisted %d times", p.count())
		}
	}
}

func TestSetIdentityWriteOnce(t *testing.T) {
	s, _, _ := seededStore(t)
	first := mustOnboard(t, s)

	if _, err := s.SetIdentity("Grace", "Admiral"); !errors.Is(err, ErrIdentityExists) {
		t.Fatalf("err = %v, want ErrIdentityExists", err)
	}
	got, _ := s.Identity()
	if got != first {
		t.Errorf("identity changed to %+v", got)
	}
}

func TestResetRestoresSeed(t *testing.T) {
	s, _, _ := seededStore(t)
	mustOnboard(t, s)
	if _, err := s.StartConversation("Eve"); err != nil {
		t.Fatal(err)
	}

	s.Reset()

	if _, ok := s.Identity(); ok {
		t.Error("identity survived Reset")
	}
	if s.Focused() != "" {
		t.Error("focus survived Reset")
	}
	if n, _ := s.Counts(); n != 4 {
		t.Errorf("conversations = %d, want 4 seeded", n)
	}
}

func TestSelectMarksRead(t *testing.T) {
	s, _, _ := seededStore(t)

	c, err := s.Select("chat-1")
	if err != nil {
		t.Fatal(err)
	}
	if c.UnreadCount != 0 {
		t.Errorf("unread = %d, want 0", c.UnreadCount)
	}
	for _, m := range c.Messages {
		if m.Status != StatusRead {
			t.Errorf("message %s status = %s, want read", m.ID, m.Status)
		}
	}
	if s.Focused() != "chat-1" {
		t.Errorf("focused = %q", s.Focused())
	}
}

func TestSelectIdempotent(t *testing.T) {
	s, _, p := seededStore(t)

	first, err := s.Select("chat-4")
	if err != nil {
		t.Fatal(err)
	}
	saves := p.count()
	second, err := s.Select("chat-4")
	if err != nil {
		t.Fatal(err)
	}
	if p.count() != saves {
		t.Errorf("second Select persisted again")
	}
	if len(first.Messages) != len(second.Messages) || first.UnreadCount != second.UnreadCount {
		t.Errorf("second Select changed state: %+v vs %+v", first, second)
	}
	for i := range first.Messages {
		if first.Messages[i] != second.Messages[i] {
			t.Errorf("message %d differs after second select", i)
		}
	}
}

func TestSelectUnknownConversation(t *testing.T) {
	s, _, _ := seededStore(t)
	if _, err := s.Select("chat-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Select("chat-404"); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("err = %v, want ErrConversationNotFound", err)
	}
	if s.Focused() != "chat-1" {
		t.Errorf("focus moved to %q", s.Focused())
	}
}

func TestSwitchAwayAndBackMarksRead(t *testing.T) {
	s, _, _ := seededStore(t)
	mustOnboard(t, s)

	if _, err := s.Select("chat-2"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Select("chat-3"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ReceiveMessage("chat-2", Message{Text: "ping", SenderID: "user-2"}); err != nil {
		t.Fatal(err)
	}
	c, _ := s.Conversation("chat-2")
	if c.UnreadCount != 1 {
		t.Fatalf("unread = %d, want 1 while away", c.UnreadCount)
	}
	last, _ := c.LastMessage()
	if last.Status != StatusDelivered {
		t.Errorf("status while away = %s, want delivered", last.Status)
	}

	c, err := s.Select("chat-2")
	if err != nil {
		t.Fatal(err)
	}
	if c.UnreadCount != 0 {
		t.Errorf("unread after return = %d", c.UnreadCount)
	}
	last, _ = c.LastMessage()
	if last.Status != StatusRead {
		t.Errorf("status after return = %s, want read", last.Status)
	}
}

func TestClearFocusKeepsMessages(t *testing.T) {
	s, _, _ := seededStore(t)
	if _, err := s.Select("chat-1"); err != nil {
		t.Fatal(err)
	}
	s.ClearFocus()
	if s.Focused() != "" {
		t.Fatalf("focused = %q after ClearFocus", s.Focused())
	}
	if _, err := s.ReceiveMessage("chat-1", Message{Text: "later", SenderID: "user-1"}); err != nil {
		t.Fatal(err)
	}
	c, _ := s.Conversation("chat-1")
	if c.UnreadCount != 1 {
		t.Errorf("unread = %d, want 1 after leaving", c.UnreadCount)
	}
}

func TestUnreadAccounting(t *testing.T) {
	s, _, _ := newTestStore(t, Snapshot{})
	c, err := s.StartConversation("Eve")
	if err != nil {
		t.Fatal(err)
	}
	s.ClearFocus()

	const n = 5
	for i := 0; i < n; i++ {
		if _, err := s.ReceiveMessage(c.ID, Message{Text: "hi", SenderID: c.Participant.ID}); err != nil {
			t.Fatal(err)
		}
	}
	got, _ := s.Conversation(c.ID)
	if got.UnreadCount != n {
		t.Errorf("unread = %d, want %d", got.UnreadCount, n)
	}
	got, _ = s.Select(c.ID)
	if got.UnreadCount != 0 {
		t.Errorf("unread after select = %d", got.UnreadCount)
	}
}

func TestSendRequiresFocusAndIdentity(t *testing.T) {
	s, _, p := seededStore(t)

	if _, _, _, err := s.Send("", "hello", nil); !errors.Is(err, ErrNoFocus) {
		t.Errorf("no focus: err = %v", err)
	}
	if _, err := s.Select("chat-2"); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := s.Send("", "hello", nil); !errors.Is(err, ErrNoIdentity) {
		t.Errorf("no identity: err = %v", err)
	}
	mustOnboard(t, s)
	if _, _, _, err := s.Send("chat-1", "hello", nil); !errors.Is(err, ErrNotFocused) {
		t.Errorf("other conversation: err = %v", err)
	}

	saves := p.count()
	_, msgs := s.Counts()
	for _, text := range []string{"", "   ", "\n\t"} {
		if _, _, _, err := s.Send("", text, nil); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("Send(%q) err = %v, want ErrEmptyMessage", text, err)
		}
	}
	if _, _, _, err := s.Send("", "", &Attachment{MimeType: "text/plain"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("nameless attachment: err = %v", err)
	}
	if _, after := s.Counts(); after != msgs {
		t.Errorf("messages = %d, want %d", after, msgs)
	}
	if p.count() != saves {
		t.Error("rejected sends persisted")
	}
}

func TestSendAppendsAndSchedulesReply(t *testing.T) {
	s, mock, p := seededStore(t)
	sched := &recordingScheduler{}
	s.SetReplyScheduler(sched)
	u := mustOnboard(t, s)
	if _, err := s.Select("chat-3"); err != nil {
		t.Fatal(err)
	}

	mock.Add(time.Second)
	msg, convID, err := s.Send("", "  see you soon  ", nil)
	if err != nil {
		t.Fatal(err)
	}
	if convID != "chat-3" {
		t.Errorf("conversation = %q, want the focused chat-3", convID)
	}
	if msg.Text != "see you soon" {
		t.Errorf("text = %q, want trimmed", msg.Text)
	}
	if msg.SenderID != u.ID || msg.Status != StatusSent {
		t.Errorf("message = %+v", msg)
	}
	if msg.Timestamp != mock.Now().UnixMilli() {
		t.Errorf("timestamp = %d, want %d", msg.Timestamp, mock.Now().UnixMilli())
	}

	c, _ := s.Conversation("chat-3")
	if c.LastMessageTimestamp != msg.Timestamp {
		t.Errorf("lastMessageTimestamp = %d, want %d", c.LastMessageTimestamp, msg.Timestamp)
	}
	if last, _ := c.LastMessage(); last.ID != msg.ID {
		t.Errorf("last message = %s, want %s", last.ID, msg.ID)
	}
	if len(sched.ids) != 1 || sched.ids[0] != "chat-3" {
		t.Errorf("scheduled = %v", sched.ids)
	}
	if got := p.last.Conversations; len(got) == 0 {
		t.Error("send was not persisted")
	}
}

func TestSendAttachmentOnly(t *testing.T) {
	s, _, _ := seededStore(t)
	mustOnboard(t, s)
	if _, err := s.Select("chat-1"); err != nil {
		t.Fatal(err)
	}
	msg, _, err := s.Send("", "", &Attachment{Name: "report.pdf", MimeType: "application/pdf"})
	if err != nil {
		t.Fatal(err)
	}
	if msg.Attachment == nil || msg.Attachment.Name != "report.pdf" {
		t.Fatalf("attachment = %+v", msg.Attachment)
	}
	c, _ := s.Conversation("chat-1")
	if got := c.Preview(); got != "📎 File: report.pdf" {
		t.Errorf("preview = %q", got)
	}
}

func TestTimestampsMonotonic(t *testing.T) {
	s, mock, _ := newTestStore(t, Snapshot{})
	mustOnboard(t, s)
	c, err := s.StartConversation("Eve")
	if err != nil {
		t.Fatal(err)
	}

	first, _, err := s.Send(c.ID, "one", nil)
	if err != nil {
		t.Fatal(err)
	}
	// Clock stepping backwards must not reorder the log.
	mock.Set(mock.Now().Add(-time.Hour))
	second, _, err := s.Send(c.ID, "two", nil)
	if err != nil {
		t.Fatal(err)
	}
	reply, err := s.ReceiveMessage(c.ID, Message{Text: "three", SenderID: c.Participant.ID, Timestamp: 1})
	if err != nil {
		t.Fatal(err)
	}
	if second.Timestamp < first.Timestamp || reply.Timestamp < second.Timestamp {
		t.Errorf("timestamps not monotonic: %d %d %d", first.Timestamp, second.Timestamp, reply.Timestamp)
	}

	got, _ := s.Conversation(c.ID)
	for i := 1; i < len(got.Messages); i++ {
		if got.Messages[i].Timestamp < got.Messages[i-1].Timestamp {
			t.Errorf("message %d older than %d", i, i-1)
		}
	}
	if got.LastMessageTimestamp != reply.Timestamp {
		t.Errorf("lastMessageTimestamp = %d, want %d", got.LastMessageTimestamp, reply.Timestamp)
	}
}

func TestStartConversation(t *testing.T) {
	s, mock, _ := seededStore(t)

	c, err := s.StartConversation("  Eve  ")
	if err != nil {
		t.Fatal(err)
	}
	if c.Participant.Name != "Eve" || c.Participant.Job != DefaultParticipantJob {
		t.Errorf("participant = %+v", c.Participant)
	}
	if c.Participant.Avatar != AvatarURL(c.Participant.ID) {
		t.Errorf("avatar = %q", c.Participant.Avatar)
	}
	if len(c.Messages) != 0 || c.UnreadCount != 0 {
		t.Errorf("new conversation not empty: %+v", c)
	}
	if c.LastMessageTimestamp != mock.Now().UnixMilli() {
		t.Errorf("lastMessageTimestamp = %d", c.LastMessageTimestamp)
	}
	if s.Focused() != c.ID {
		t.Errorf("focused = %q, want %q", s.Focused(), c.ID)
	}
	if list := s.Conversations(); list[0].ID != c.ID {
		t.Errorf("first conversation = %s, want %s", list[0].ID, c.ID)
	}
}

func TestStartConversationEmptyNameIsNoop(t *testing.T) {
	s, _, p := seededStore(t)
	before := s.Conversations()

	for _, name := range []string{"", "   "} {
		if _, err := s.StartConversation(name); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("StartConversation(%q) err = %v", name, err)
		}
	}
	after := s.Conversations()
	if len(after) != len(before) {
		t.Errorf("conversations = %d, want %d", len(after), len(before))
	}
	if p.count() != 0 {
		t.Error("rejected start persisted")
	}
}

func TestConversationsOrderedByRecency(t *testing.T) {
	mock := clock.NewMock()
	snap := Snapshot{Conversations: []Conversation{
		{ID: "a", LastMessageTimestamp: 10},
		{ID: "b", LastMessageTimestamp: 30},
		{ID: "c", LastMessageTimestamp: 10},
		{ID: "d", LastMessageTimestamp: 20},
	}}
	s := New(snap, Options{Clock: mock})

	var ids []string
	for _, c := range s.Conversations() {
		ids = append(ids, c.ID)
	}
	if got := strings.Join(ids, ","); got != "b,d,a,c" {
		t.Errorf("order = %s, want b,d,a,c", got)
	}
}

func TestConversationsReturnsCopies(t *testing.T) {
	s, _, _ := seededStore(t)
	list := s.Conversations()
	list[0].Messages[0].Text = "mutated"
	list[0].UnreadCount = 99

	c, _ := s.Conversation(list[0].ID)
	if c.Messages[0].Text == "mutated" || c.UnreadCount == 99 {
		t.Error("caller mutation leaked into the store")
	}
}

func TestReceiveInFocusedConversation(t *testing.T) {
	s, _, _ := seededStore(t)
	if _, err := s.Select("chat-2"); err != nil {
		t.Fatal(err)
	}
	msg, err := s.ReceiveMessage("chat-2", Message{Text: "done", SenderID: "user-2"})
	if err != nil {
		t.Fatal(err)
	}
	if msg.Status != StatusRead {
		t.Errorf("status = %s, want read", msg.Status)
	}
	if msg.ID == "" || msg.Timestamp == 0 {
		t.Errorf("defaults not filled: %+v", msg)
	}
	c, _ := s.Conversation("chat-2")
	if c.UnreadCount != 0 {
		t.Errorf("unread = %d", c.UnreadCount)
	}
}

func TestReceiveUnknownConversation(t *testing.T) {
	s, _, _ := seededStore(t)
	if _, err := s.ReceiveMessage("chat-404", Message{Text: "x"}); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestStorePublishesEvents(t *testing.T) {
	b := bus.New()
	events, unsub := b.Subscribe("", 16)
	defer unsub()

	s := New(Snapshot{Conversations: SeedConversations(time.Now())}, Options{Bus: b})
	mustOnboard(t, s)
	if _, err := s.Select("chat-1"); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := s.Send("", "hi", nil); err != nil {
		t.Fatal(err)
	}

	want := []string{bus.IdentityCreated, bus.ConversationSelected, bus.MessageSent}
	for _, kind := range want {
		select {
		case ev := <-events:
			if ev.Kind != kind {
				t.Errorf("event = %s, want %s", ev.Kind, kind)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s", kind)
		}
	}
}
