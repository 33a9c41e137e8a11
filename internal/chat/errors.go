package chat

import "errors"

// Rejected operations return one of these and leave the store untouched.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrEmptyMessage         = errors.New("message needs text or an attachment")
	ErrNoIdentity           = errors.New("no local identity")
	ErrIdentityExists       = errors.New("identity already set")
	ErrNoFocus              = errors.New("no focused conversation")
	ErrNotFocused           = errors.New("conversation is not focused")
	ErrConversationNotFound = errors.New("conversation not found")
)
