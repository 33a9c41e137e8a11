package api

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/matheus3301/p2pm/internal/bus"
	"github.com/matheus3301/p2pm/internal/chat"
	"github.com/matheus3301/p2pm/internal/reply"
	"github.com/matheus3301/p2pm/internal/status"
	"github.com/matheus3301/p2pm/internal/wire"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

type services struct {
	profile *ProfileService
	clock   *clock.Mock
	chat    *ChatService
	message *MessageService
	machine *status.Machine
	bus     *bus.Bus
}

func newServices(t *testing.T) *services {
	t.Helper()
	b := bus.New()
	store := chat.New(chat.Snapshot{Conversations: chat.SeedConversations(time.Now())}, chat.Options{Bus: b})
	machine := status.NewMachine(b)
	if err := machine.Transition(status.Onboarding); err != nil {
		t.Fatal(err)
	}
	clk := clock.NewMock()
	return &services{
		profile: NewProfileService("test", "sqlite", clk, machine, store, nil, zap.NewNop()),
		clock:   clk,
		chat:    NewChatService(store),
		message: NewMessageService(store, b),
		machine: machine,
		bus:     b,
	}
}

func wantCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	if got := grpcstatus.Code(err); got != want {
		t.Errorf("code = %s, want %s (err = %v)", got, want, err)
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{chat.ErrInvalidInput, codes.InvalidArgument},
		{chat.ErrEmptyMessage, codes.InvalidArgument},
		{fmt.Errorf("%w: chat-9", chat.ErrConversationNotFound), codes.NotFound},
		{chat.ErrIdentityExists, codes.AlreadyExists},
		{chat.ErrNoIdentity, codes.FailedPrecondition},
		{chat.ErrNoFocus, codes.FailedPrecondition},
		{chat.ErrNotFocused, codes.FailedPrecondition},
		{errors.New("boom"), codes.Internal},
	}
	for _, tt := range tests {
		if got := Code(tt.err); got != tt.want {
			t.Errorf("Code(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestOnboardingMovesToReady(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	resp, err := s.profile.GetIdentity(ctx, &wire.Empty{})
	if err != nil || resp.Identity != nil {
		t.Fatalf("GetIdentity before onboarding = %+v, %v", resp, err)
	}

	set, err := s.profile.SetIdentity(ctx, &wire.SetIdentityRequest{Name: "Ada", Job: "Engineer"})
	if err != nil {
		t.Fatal(err)
	}
	if set.Identity.Name != "Ada" {
		t.Errorf("identity = %+v", set.Identity)
	}
	if s.machine.Current() != status.Ready {
		t.Errorf("status = %s, want READY", s.machine.Current())
	}

	_, err = s.profile.SetIdentity(ctx, &wire.SetIdentityRequest{Name: "Ada", Job: "Engineer"})
	wantCode(t, err, codes.AlreadyExists)

	st, err := s.profile.GetStatus(ctx, &wire.Empty{})
	if err != nil {
		t.Fatal(err)
	}
	if !st.Onboarded || st.Status != "READY" || st.ConversationCount != 4 || st.Profile != "test" {
		t.Errorf("status = %+v", st)
	}
}

func TestStatusUptimeFollowsClock(t *testing.T) {
	s := newServices(t)
	s.clock.Add(90 * time.Second)

	st, err := s.profile.GetStatus(context.Background(), &wire.Empty{})
	if err != nil {
		t.Fatal(err)
	}
	if st.UptimeMs != 90_000 {
		t.Errorf("uptime = %dms, want 90000", st.UptimeMs)
	}
}

func TestSetIdentityInvalid(t *testing.T) {
	s := newServices(t)
	_, err := s.profile.SetIdentity(context.Background(), &wire.SetIdentityRequest{Name: " ", Job: "x"})
	wantCode(t, err, codes.InvalidArgument)
	if s.machine.Current() != status.Onboarding {
		t.Errorf("status = %s, want ONBOARDING", s.machine.Current())
	}
}

func TestResetReturnsToOnboarding(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	if _, err := s.profile.SetIdentity(ctx, &wire.SetIdentityRequest{Name: "Ada", Job: "Engineer"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.profile.Reset(ctx, &wire.Empty{}); err != nil {
		t.Fatal(err)
	}
	if s.machine.Current() != status.Onboarding {
		t.Errorf("status = %s, want ONBOARDING", s.machine.Current())
	}
	resp, _ := s.profile.GetIdentity(ctx, &wire.Empty{})
	if resp.Identity != nil {
		t.Errorf("identity survived reset: %+v", resp.Identity)
	}
}

func TestChatFlow(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.message.SendMessage(ctx, &wire.SendMessageRequest{Text: "hi"})
	wantCode(t, err, codes.FailedPrecondition)

	if _, err := s.profile.SetIdentity(ctx, &wire.SetIdentityRequest{Name: "Ada", Job: "Engineer"}); err != nil {
		t.Fatal(err)
	}
	started, err := s.chat.StartConversation(ctx, &wire.StartConversationRequest{ParticipantName: "Eve"})
	if err != nil {
		t.Fatal(err)
	}
	id := started.Conversation.ID

	list, err := s.chat.ListConversations(ctx, &wire.ListConversationsRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if list.FocusedConversationID != id || list.Conversations[0].ID != id {
		t.Errorf("list = focused %s, first %s, want %s", list.FocusedConversationID, list.Conversations[0].ID, id)
	}

	sent, err := s.message.SendMessage(ctx, &wire.SendMessageRequest{Text: "hello Eve"})
	if err != nil {
		t.Fatal(err)
	}
	if sent.ConversationID != id || sent.Message.Text != "hello Eve" {
		t.Errorf("sent = %+v", sent)
	}

	_, err = s.message.SendMessage(ctx, &wire.SendMessageRequest{Text: "  "})
	wantCode(t, err, codes.InvalidArgument)

	got, err := s.chat.GetConversation(ctx, &wire.ConversationRequest{ID: id})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Conversation.Messages) != 1 {
		t.Errorf("messages = %d, want 1", len(got.Conversation.Messages))
	}

	_, err = s.chat.GetConversation(ctx, &wire.ConversationRequest{ID: "nope"})
	wantCode(t, err, codes.NotFound)
	_, err = s.chat.SelectConversation(ctx, &wire.ConversationRequest{ID: "nope"})
	wantCode(t, err, codes.NotFound)
	_, err = s.chat.StartConversation(ctx, &wire.StartConversationRequest{ParticipantName: ""})
	wantCode(t, err, codes.InvalidArgument)
}

func TestListFilter(t *testing.T) {
	s := newServices(t)
	list, err := s.chat.ListConversations(context.Background(), &wire.ListConversationsRequest{Filter: "AL"})
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Conversations) != 1 || list.Conversations[0].Participant.Name != "Alice" {
		t.Errorf("filtered = %+v", list.Conversations)
	}
}

func TestSearchMessages(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	_, err := s.chat.SearchMessages(ctx, &wire.SearchMessagesRequest{Query: ""})
	wantCode(t, err, codes.InvalidArgument)

	resp, err := s.chat.SearchMessages(ctx, &wire.SearchMessagesRequest{Query: "bug"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ConversationID != "chat-4" {
		t.Errorf("results = %+v", resp.Results)
	}
}

func TestEventToWire(t *testing.T) {
	now := time.Now()
	msg := &chat.Message{ID: "m1", Text: "hi"}

	ev := EventToWire(bus.Event{Kind: bus.MessageReceived, Timestamp: now, Payload: chat.Change{ConversationID: "chat-1", Message: msg}})
	if ev.Kind != bus.MessageReceived || ev.ConversationID != "chat-1" || ev.Message != msg || ev.ID == "" {
		t.Errorf("event = %+v", ev)
	}
	if ev.OccurredAtUnixMs != now.UnixMilli() {
		t.Errorf("occurredAt = %d", ev.OccurredAtUnixMs)
	}

	ev = EventToWire(bus.Event{Kind: bus.ProfileStatusChanged, Payload: status.StatusChange{From: status.Booting, To: status.Ready}})
	if ev.Status != "READY" {
		t.Errorf("status = %q", ev.Status)
	}

	ev = EventToWire(bus.Event{Kind: bus.ReplyScheduled, Payload: reply.Info{ConversationID: "chat-2"}})
	if ev.ConversationID != "chat-2" {
		t.Errorf("conversation = %q", ev.ConversationID)
	}
}
