package model

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/matheus3301/p2pm/internal/chat"
	"github.com/matheus3301/p2pm/internal/tui/client"
	"github.com/matheus3301/p2pm/internal/wire"
)

// ViewModel caches daemon state for the views. Every mutation goes through
// the daemon; the cache is refreshed from its answers and from WatchEvents.
type ViewModel struct {
	mu sync.RWMutex

	client        *client.Client
	status        *wire.GetStatusResponse
	identity      *chat.User
	conversations []chat.Conversation
	focused       string
	active        *chat.Conversation
}

// NewViewModel creates a new view model connected to the daemon client.
func NewViewModel(c *client.Client) *ViewModel {
	return &ViewModel{client: c}
}

// LoadStatus fetches the daemon status.
func (vm *ViewModel) LoadStatus(ctx context.Context) error {
	resp, err := vm.client.Profile.GetStatus(ctx, &wire.Empty{})
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.status = resp
	vm.mu.Unlock()
	return nil
}

// LoadIdentity fetches the local identity. It is nil before onboarding.
func (vm *ViewModel) LoadIdentity(ctx context.Context) error {
	resp, err := vm.client.Profile.GetIdentity(ctx, &wire.Empty{})
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.identity = resp.Identity
	vm.mu.Unlock()
	return nil
}

// LoadConversations fetches the conversation list, most recent first.
func (vm *ViewModel) LoadConversations(ctx context.Context) error {
	resp, err := vm.client.Chat.ListConversations(ctx, &wire.ListConversationsRequest{})
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.conversations = resp.Conversations
	vm.focused = resp.FocusedConversationID
	if vm.active != nil {
		for _, c := range resp.Conversations {
			if c.ID == vm.active.ID {
				c := c
				vm.active = &c
				break
			}
		}
	}
	vm.mu.Unlock()
	return nil
}

// Refresh reloads status, identity and conversations.
func (vm *ViewModel) Refresh(ctx context.Context) error {
	return errors.Join(
		vm.LoadStatus(ctx),
		vm.LoadIdentity(ctx),
		vm.LoadConversations(ctx),
	)
}

// SetIdentity completes onboarding.
func (vm *ViewModel) SetIdentity(ctx context.Context, name, job string) (chat.User, error) {
	resp, err := vm.client.Profile.SetIdentity(ctx, &wire.SetIdentityRequest{Name: name, Job: job})
	if err != nil {
		return chat.User{}, err
	}
	vm.mu.Lock()
	vm.identity = resp.Identity
	vm.mu.Unlock()
	return *resp.Identity, nil
}

// Reset forgets the identity on the daemon.
func (vm *ViewModel) Reset(ctx context.Context) error {
	if _, err := vm.client.Profile.Reset(ctx, &wire.Empty{}); err != nil {
		return err
	}
	vm.mu.Lock()
	vm.identity = nil
	vm.active = nil
	vm.focused = ""
	vm.mu.Unlock()
	return nil
}

// Open focuses a conversation, which marks it read.
func (vm *ViewModel) Open(ctx context.Context, id string) (chat.Conversation, error) {
	resp, err := vm.client.Chat.SelectConversation(ctx, &wire.ConversationRequest{ID: id})
	if err != nil {
		return chat.Conversation{}, err
	}
	vm.mu.Lock()
	conv := resp.Conversation
	vm.active = &conv
	vm.focused = conv.ID
	vm.mu.Unlock()
	return conv, nil
}

// Close leaves the focused conversation.
func (vm *ViewModel) Close(ctx context.Context) error {
	vm.mu.Lock()
	vm.active = nil
	vm.focused = ""
	vm.mu.Unlock()
	_, err := vm.client.Chat.ClearFocus(ctx, &wire.Empty{})
	return err
}

// Start adds a contact and focuses the new conversation.
func (vm *ViewModel) Start(ctx context.Context, name string) (chat.Conversation, error) {
	resp, err := vm.client.Chat.StartConversation(ctx, &wire.StartConversationRequest{ParticipantName: name})
	if err != nil {
		return chat.Conversation{}, err
	}
	vm.mu.Lock()
	conv := resp.Conversation
	vm.active = &conv
	vm.focused = conv.ID
	vm.mu.Unlock()
	return conv, nil
}

// Send sends to the focused conversation.
func (vm *ViewModel) Send(ctx context.Context, text string, attachment *chat.Attachment) (chat.Message, error) {
	resp, err := vm.client.Message.SendMessage(ctx, &wire.SendMessageRequest{Text: text, Attachment: attachment})
	if err != nil {
		return chat.Message{}, err
	}
	return resp.Message, nil
}

// Search runs a message search across every conversation.
func (vm *ViewModel) Search(ctx context.Context, query, conversationID string) ([]chat.SearchResult, error) {
	resp, err := vm.client.Chat.SearchMessages(ctx, &wire.SearchMessagesRequest{
		Query:          query,
		ConversationID: conversationID,
		Limit:          100,
	})
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Watch streams daemon events to fn until ctx is done or the stream breaks.
func (vm *ViewModel) Watch(ctx context.Context, fn func(*wire.Event)) error {
	stream, err := vm.client.Message.WatchEvents(ctx, &wire.WatchEventsRequest{})
	if err != nil {
		return err
	}
	for {
		evt, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		fn(evt)
	}
}

// Status returns the last fetched daemon status.
func (vm *ViewModel) Status() *wire.GetStatusResponse {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.status
}

// Identity returns the local identity, or nil before onboarding.
func (vm *ViewModel) Identity() *chat.User {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.identity
}

// Conversations returns the cached conversation list.
func (vm *ViewModel) Conversations() ([]chat.Conversation, string) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.conversations, vm.focused
}

// Active returns the open conversation, if any.
func (vm *ViewModel) Active() (chat.Conversation, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	if vm.active == nil {
		return chat.Conversation{}, false
	}
	return *vm.active, true
}

// FindByName returns the first conversation whose participant name matches
// name case-insensitively.
func (vm *ViewModel) FindByName(name string) (chat.Conversation, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	for _, c := range vm.conversations {
		if strings.EqualFold(c.Participant.Name, name) {
			return c, true
		}
	}
	return chat.Conversation{}, false
}
