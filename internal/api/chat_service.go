package api

import (
	"context"
	"strings"

	"github.com/matheus3301/p2pm/internal/chat"
	"github.com/matheus3301/p2pm/internal/wire"
)

// ChatService implements the ChatService gRPC service.
type ChatService struct {
	wire.UnimplementedChatServiceServer

	store *chat.Store
}

// NewChatService creates a new chat service backed by the store.
func NewChatService(store *chat.Store) *ChatService {
	return &ChatService{store: store}
}

func (s *ChatService) ListConversations(_ context.Context, req *wire.ListConversationsRequest) (*wire.ListConversationsResponse, error) {
	convs := s.store.Conversations()
	if filter := strings.ToLower(strings.TrimSpace(req.Filter)); filter != "" {
		kept := convs[:0]
		for _, c := range convs {
			if strings.Contains(strings.ToLower(c.Participant.Name), filter) {
				kept = append(kept, c)
			}
		}
		convs = kept
	}
	return &wire.ListConversationsResponse{
		Conversations:         convs,
		FocusedConversationID: s.store.Focused(),
	}, nil
}

func (s *ChatService) GetConversation(_ context.Context, req *wire.ConversationRequest) (*wire.ConversationResponse, error) {
	c, ok := s.store.Conversation(req.ID)
	if !ok {
		return nil, toStatus(chat.ErrConversationNotFound)
	}
	return &wire.ConversationResponse{Conversation: c}, nil
}

func (s *ChatService) StartConversation(_ context.Context, req *wire.StartConversationRequest) (*wire.ConversationResponse, error) {
	c, err := s.store.StartConversation(req.ParticipantName)
	if err != nil {
		return nil, toStatus(err)
	}
	return &wire.ConversationResponse{Conversation: c}, nil
}

func (s *ChatService) SelectConversation(_ context.Context, req *wire.ConversationRequest) (*wire.ConversationResponse, error) {
	c, err := s.store.Select(req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &wire.ConversationResponse{Conversation: c}, nil
}

func (s *ChatService) ClearFocus(_ context.Context, _ *wire.Empty) (*wire.Empty, error) {
	s.store.ClearFocus()
	return &wire.Empty{}, nil
}

func (s *ChatService) SearchMessages(_ context.Context, req *wire.SearchMessagesRequest) (*wire.SearchMessagesResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, toStatus(chat.ErrInvalidInput)
	}
	return &wire.SearchMessagesResponse{
		Results: s.store.Search(req.Query, req.ConversationID, req.Limit),
	}, nil
}
