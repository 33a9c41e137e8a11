package api

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/matheus3301/p2pm/internal/chat"
	"github.com/matheus3301/p2pm/internal/status"
	"github.com/matheus3301/p2pm/internal/wire"
	"go.uber.org/zap"
)

// PendingCounter reports scheduled replies.
type PendingCounter interface {
	Pending() int
}

// ProfileService implements the ProfileService gRPC service.
type ProfileService struct {
	wire.UnimplementedProfileServiceServer

	profileName string
	backend     string
	clock       clock.Clock
	startedAt   time.Time
	machine     *status.Machine
	store       *chat.Store
	replies     PendingCounter
	logger      *zap.Logger
}

// NewProfileService creates a new profile service. Uptime is measured on clk
// from this call; a nil clk uses the wall clock.
func NewProfileService(profileName, backend string, clk clock.Clock, machine *status.Machine, store *chat.Store, replies PendingCounter, logger *zap.Logger) *ProfileService {
	if clk == nil {
		clk = clock.New()
	}
	return &ProfileService{
		profileName: profileName,
		backend:     backend,
		clock:       clk,
		startedAt:   clk.Now(),
		machine:     machine,
		store:       store,
		replies:     replies,
		logger:      logger,
	}
}

func (s *ProfileService) GetStatus(_ context.Context, _ *wire.Empty) (*wire.GetStatusResponse, error) {
	_, onboarded := s.store.Identity()
	convs, msgs := s.store.Counts()
	resp := &wire.GetStatusResponse{
		Profile:               s.profileName,
		Status:                string(s.machine.Current()),
		StatusSinceUnixMs:     s.machine.Since().UnixMilli(),
		UptimeMs:              s.clock.Since(s.startedAt).Milliseconds(),
		Onboarded:             onboarded,
		ConversationCount:     convs,
		MessageCount:          msgs,
		FocusedConversationID: s.store.Focused(),
		StorageBackend:        s.backend,
	}
	if s.replies != nil {
		resp.PendingReplies = s.replies.Pending()
	}
	return resp, nil
}

func (s *ProfileService) GetIdentity(_ context.Context, _ *wire.Empty) (*wire.IdentityResponse, error) {
	u, ok := s.store.Identity()
	if !ok {
		return &wire.IdentityResponse{}, nil
	}
	return &wire.IdentityResponse{Identity: &u}, nil
}

func (s *ProfileService) SetIdentity(_ context.Context, req *wire.SetIdentityRequest) (*wire.IdentityResponse, error) {
	u, err := s.store.SetIdentity(req.Name, req.Job)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := s.machine.Ensure(status.Ready); err != nil {
		s.logger.Warn("status transition failed", zap.Error(err))
	}
	s.logger.Info("identity created", zap.String("user_id", u.ID))
	return &wire.IdentityResponse{Identity: &u}, nil
}

func (s *ProfileService) Reset(_ context.Context, _ *wire.Empty) (*wire.Empty, error) {
	s.store.Reset()
	if err := s.machine.Ensure(status.Onboarding); err != nil {
		s.logger.Warn("status transition failed", zap.Error(err))
	}
	s.logger.Info("profile reset")
	return &wire.Empty{}, nil
}
