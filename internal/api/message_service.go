package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/matheus3301/p2pm/internal/bus"
	"github.com/matheus3301/p2pm/internal/chat"
	"github.com/matheus3301/p2pm/internal/reply"
	"github.com/matheus3301/p2pm/internal/status"
	"github.com/matheus3301/p2pm/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// MessageService implements the MessageService gRPC service.
type MessageService struct {
	wire.UnimplementedMessageServiceServer

	store *chat.Store
	bus   *bus.Bus
}

// NewMessageService creates a new message service backed by the store.
func NewMessageService(store *chat.Store, b *bus.Bus) *MessageService {
	return &MessageService{store: store, bus: b}
}

func (s *MessageService) SendMessage(_ context.Context, req *wire.SendMessageRequest) (*wire.SendMessageResponse, error) {
	msg, id, err := s.store.Send(req.ConversationID, req.Text, req.Attachment)
	if err != nil {
		return nil, toStatus(err)
	}
	return &wire.SendMessageResponse{ConversationID: id, Message: msg}, nil
}

func (s *MessageService) WatchEvents(req *wire.WatchEventsRequest, stream grpc.ServerStreamingServer[wire.Event]) error {
	ch, unsub := s.bus.Subscribe(req.Prefix, 256)
	defer unsub()

	// Headers tell the client the subscription is live.
	if err := stream.SendHeader(metadata.MD{}); err != nil {
		return err
	}
	for {
		select {
		case evt := <-ch:
			if err := stream.Send(EventToWire(evt)); err != nil {
				return err
			}
		case <-stream.Context().Done():
			return nil
		}
	}
}

// EventToWire flattens a bus event into its streamed form.
func EventToWire(evt bus.Event) *wire.Event {
	out := &wire.Event{
		ID:               uuid.New().String(),
		Kind:             evt.Kind,
		OccurredAtUnixMs: evt.Timestamp.UnixMilli(),
	}
	switch p := evt.Payload.(type) {
	case chat.Change:
		out.ConversationID = p.ConversationID
		out.Message = p.Message
		out.Identity = p.Identity
	case status.StatusChange:
		out.Status = string(p.To)
	case reply.Info:
		out.ConversationID = p.ConversationID
	}
	return out
}
