package wire

import "github.com/matheus3301/p2pm/internal/chat"

// Empty is used by calls without parameters or results.
type Empty struct{}

type GetStatusResponse struct {
	Profile               string `json:"profile"`
	Status                string `json:"status"`
	StatusSinceUnixMs     int64  `json:"statusSinceUnixMs"`
	UptimeMs              int64  `json:"uptimeMs"`
	Onboarded             bool   `json:"onboarded"`
	ConversationCount     int    `json:"conversationCount"`
	MessageCount          int    `json:"messageCount"`
	FocusedConversationID string `json:"focusedConversationId,omitempty"`
	PendingReplies        int    `json:"pendingReplies"`
	StorageBackend        string `json:"storageBackend"`
}

type SetIdentityRequest struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type IdentityResponse struct {
	Identity *chat.User `json:"identity,omitempty"`
}

type ListConversationsRequest struct {
	// Filter keeps conversations whose participant name contains it.
	Filter string `json:"filter,omitempty"`
}

type ListConversationsResponse struct {
	Conversations         []chat.Conversation `json:"conversations"`
	FocusedConversationID string              `json:"focusedConversationId,omitempty"`
}

type ConversationRequest struct {
	ID string `json:"id"`
}

type StartConversationRequest struct {
	ParticipantName string `json:"participantName"`
}

type ConversationResponse struct {
	Conversation chat.Conversation `json:"conversation"`
}

type SearchMessagesRequest struct {
	Query          string `json:"query"`
	ConversationID string `json:"conversationId,omitempty"`
	Limit          int    `json:"limit,omitempty"`
}

type SearchMessagesResponse struct {
	Results []chat.SearchResult `json:"results"`
}

type SendMessageRequest struct {
	// ConversationID defaults to the focused conversation.
	ConversationID string           `json:"conversationId,omitempty"`
	Text           string           `json:"text"`
	Attachment     *chat.Attachment `json:"attachment,omitempty"`
}

type SendMessageResponse struct {
	ConversationID string       `json:"conversationId"`
	Message        chat.Message `json:"message"`
}

type WatchEventsRequest struct {
	// Prefix filters by event kind, e.g. "message.". Empty means all.
	Prefix string `json:"prefix,omitempty"`
}

// Event is a daemon event streamed to clients.
type Event struct {
	ID               string        `json:"id"`
	Kind             string        `json:"kind"`
	OccurredAtUnixMs int64         `json:"occurredAtUnixMs"`
	ConversationID   string        `json:"conversationId,omitempty"`
	Message          *chat.Message `json:"message,omitempty"`
	Identity         *chat.User    `json:"identity,omitempty"`
	Status           string        `json:"status,omitempty"`
}
