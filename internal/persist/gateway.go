package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/matheus3301/p2pm/internal/chat"
	"go.uber.org/zap"
)

// Storage keys. Both are written in the same transaction.
const (
	UserKey  = "p2p_messenger_user"
	ChatsKey = "p2p_messenger_chats"
)

// ErrMalformedState is returned by Load when stored data cannot be decoded.
var ErrMalformedState = errors.New("malformed persisted state")

// BlobStore is a durable key-value store with atomic multi-key writes.
type BlobStore interface {
	// GetBlob returns nil, nil when key is absent.
	GetBlob(key string) ([]byte, error)
	// PutBlobs applies every entry atomically; a nil value deletes the key.
	PutBlobs(entries map[string][]byte) error
	DeleteBlobs(keys ...string) error
}

// Gateway serialises the whole application state into a BlobStore.
type Gateway struct {
	blobs BlobStore
}

// NewGateway creates a gateway over blobs.
func NewGateway(blobs BlobStore) *Gateway {
	return &Gateway{blobs: blobs}
}

// Save writes the identity and every conversation. A nil identity removes
// the stored one.
func (g *Gateway) Save(identity *chat.User, conversations []chat.Conversation) error {
	if conversations == nil {
		conversations = []chat.Conversation{}
	}
	chats, err := json.Marshal(conversations)
	if err != nil {
		return fmt.Errorf("encode conversations: %w", err)
	}
	entries := map[string][]byte{ChatsKey: chats, UserKey: nil}
	if identity != nil {
		user, err := json.Marshal(identity)
		if err != nil {
			return fmt.Errorf("encode identity: %w", err)
		}
		entries[UserKey] = user
	}
	if err := g.blobs.PutBlobs(entries); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// Load reads the stored state. Absent keys yield an empty snapshot. The two
// records are decoded independently: a record that fails to decode is left
// out of the snapshot and reported by an error wrapping ErrMalformedState,
// while the other record is still returned.
func (g *Gateway) Load() (chat.Snapshot, error) {
	var snap chat.Snapshot

	rawUser, err := g.blobs.GetBlob(UserKey)
	if err != nil {
		return chat.Snapshot{}, fmt.Errorf("read identity: %w", err)
	}
	rawChats, err := g.blobs.GetBlob(ChatsKey)
	if err != nil {
		return chat.Snapshot{}, fmt.Errorf("read conversations: %w", err)
	}

	var errs []error
	if rawUser != nil {
		var u chat.User
		if err := json.Unmarshal(rawUser, &u); err != nil {
			errs = append(errs, fmt.Errorf("%w: identity: %v", ErrMalformedState, err))
		} else {
			snap.Identity = &u
		}
	}
	if rawChats != nil {
		var convs []chat.Conversation
		if err := json.Unmarshal(rawChats, &convs); err != nil {
			errs = append(errs, fmt.Errorf("%w: conversations: %v", ErrMalformedState, err))
		} else {
			snap.Conversations = convs
		}
	}
	return snap, errors.Join(errs...)
}

// Bootstrap loads the initial state for a store. Without a stored identity the
// seed conversations are shown; with one, the stored conversations are used.
// An unreadable conversations record is logged and replaced by the seed; a
// readable identity is always kept, since it cannot be recreated.
func Bootstrap(g *Gateway, now time.Time, logger *zap.Logger) chat.Snapshot {
	snap, err := g.Load()
	if err != nil {
		logger.Warn("discarding unreadable persisted state", zap.Error(err))
	}
	switch {
	case snap.Identity == nil:
		snap.Conversations = chat.SeedConversations(now)
	case snap.Conversations == nil && err != nil:
		snap.Conversations = chat.SeedConversations(now)
	case snap.Conversations == nil:
		snap.Conversations = []chat.Conversation{}
	}
	return snap
}
