package bus

import "time"

// Event kinds published by the chat store. Subscribers filter by prefix
// ("identity.", "conversation.", "message.").
const (
	IdentityCreated      = "identity.created"
	IdentityReset        = "identity.reset"
	ConversationStarted  = "conversation.started"
	ConversationSelected = "conversation.selected"
	ConversationUnfocus  = "conversation.unfocused"
	MessageSent          = "message.sent"
	MessageReceived      = "message.received"
	ReplyScheduled       = "reply.scheduled"
	ReplyCancelled       = "reply.cancelled"
	ProfileStatusChanged = "profile.status_changed"
)

// Event is a state change notification.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
