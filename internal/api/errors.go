package api

import (
	"errors"

	"github.com/matheus3301/p2pm/internal/chat"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

// toStatus maps store errors onto gRPC status codes.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	return grpcstatus.Error(Code(err), err.Error())
}

// Code returns the gRPC code for a store error.
func Code(err error) codes.Code {
	switch {
	case errors.Is(err, chat.ErrInvalidInput), errors.Is(err, chat.ErrEmptyMessage):
		return codes.InvalidArgument
	case errors.Is(err, chat.ErrConversationNotFound):
		return codes.NotFound
	case errors.Is(err, chat.ErrIdentityExists):
		return codes.AlreadyExists
	case errors.Is(err, chat.ErrNoIdentity), errors.Is(err, chat.ErrNoFocus), errors.Is(err, chat.ErrNotFocused):
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}
