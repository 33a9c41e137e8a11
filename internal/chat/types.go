package chat

import (
	"fmt"
	"strings"
)

// Status is the delivery state of a message.
type Status string

const (
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
)

// User is a profile: the local identity or a conversation participant.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Job    string `json:"job"`
	Avatar string `json:"avatar"`
	Online bool   `json:"isOnline"`
}

// Attachment references a file by name and MIME type. Content is never stored.
type Attachment struct {
	Name     string `json:"name"`
	MimeType string `json:"type"`
}

// Label returns a human readable description of the attachment type.
func (a Attachment) Label() string {
	if a.MimeType == "application/pdf" {
		return "PDF Document"
	}
	if a.MimeType == "" {
		return "File"
	}
	return a.MimeType
}

// Message is a single entry in a conversation log.
type Message struct {
	ID         string      `json:"id"`
	Text       string      `json:"text"`
	Timestamp  int64       `json:"timestamp"`
	SenderID   string      `json:"senderId"`
	Status     Status      `json:"status"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

// Conversation is a thread between the local identity and one participant.
type Conversation struct {
	ID                   string    `json:"id"`
	Participant          User      `json:"participant"`
	Messages             []Message `json:"messages"`
	UnreadCount          int       `json:"unreadCount"`
	LastMessageTimestamp int64     `json:"lastMessageTimestamp"`
}

// LastMessage returns the most recent message, if any.
func (c *Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// Incoming reports whether m was sent by the conversation's participant.
func (c *Conversation) Incoming(m Message) bool {
	return m.SenderID == c.Participant.ID
}

// Preview returns the sidebar preview for the conversation.
func (c *Conversation) Preview() string {
	last, ok := c.LastMessage()
	switch {
	case !ok:
		return "No messages yet"
	case last.Text != "":
		return last.Text
	case last.Attachment != nil:
		return fmt.Sprintf("📎 File: %s", last.Attachment.Name)
	default:
		return "No messages yet"
	}
}

func (c Conversation) clone() Conversation {
	out := c
	out.Messages = make([]Message, len(c.Messages))
	for i, m := range c.Messages {
		if m.Attachment != nil {
			a := *m.Attachment
			m.Attachment = &a
		}
		out.Messages[i] = m
	}
	return out
}

// Snapshot is the persisted application state.
type Snapshot struct {
	Identity      *User
	Conversations []Conversation
}

// AvatarURL maps a seed to a stable avatar reference.
func AvatarURL(seed string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/200", strings.Join(strings.Fields(seed), ""))
}
