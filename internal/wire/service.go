package wire

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ProfileServiceName = "p2pm.v1.ProfileService"
	ChatServiceName    = "p2pm.v1.ChatService"
	MessageServiceName = "p2pm.v1.MessageService"
)

// ProfileServiceServer is the server API for the profile service.
type ProfileServiceServer interface {
	GetStatus(context.Context, *Empty) (*GetStatusResponse, error)
	GetIdentity(context.Context, *Empty) (*IdentityResponse, error)
	SetIdentity(context.Context, *SetIdentityRequest) (*IdentityResponse, error)
	Reset(context.Context, *Empty) (*Empty, error)
}

// ChatServiceServer is the server API for the chat service.
type ChatServiceServer interface {
	ListConversations(context.Context, *ListConversationsRequest) (*ListConversationsResponse, error)
	GetConversation(context.Context, *ConversationRequest) (*ConversationResponse, error)
	StartConversation(context.Context, *StartConversationRequest) (*ConversationResponse, error)
	SelectConversation(context.Context, *ConversationRequest) (*ConversationResponse, error)
	ClearFocus(context.Context, *Empty) (*Empty, error)
	SearchMessages(context.Context, *SearchMessagesRequest) (*SearchMessagesResponse, error)
}

// MessageServiceServer is the server API for the message service.
type MessageServiceServer interface {
	SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error)
	WatchEvents(*WatchEventsRequest, grpc.ServerStreamingServer[Event]) error
}

// UnimplementedProfileServiceServer can be embedded for forward compatibility.
type UnimplementedProfileServiceServer struct{}

func (UnimplementedProfileServiceServer) GetStatus(context.Context, *Empty) (*GetStatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetStatus not implemented")
}
func (UnimplementedProfileServiceServer) GetIdentity(context.Context, *Empty) (*IdentityResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetIdentity not implemented")
}
func (UnimplementedProfileServiceServer) SetIdentity(context.Context, *SetIdentityRequest) (*IdentityResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SetIdentity not implemented")
}
func (UnimplementedProfileServiceServer) Reset(context.Context, *Empty) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Reset not implemented")
}

// UnimplementedChatServiceServer can be embedded for forward compatibility.
type UnimplementedChatServiceServer struct{}

func (UnimplementedChatServiceServer) ListConversations(context.Context, *ListConversationsRequest) (*ListConversationsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListConversations not implemented")
}
func (UnimplementedChatServiceServer) GetConversation(context.Context, *ConversationRequest) (*ConversationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetConversation not implemented")
}
func (UnimplementedChatServiceServer) StartConversation(context.Context, *StartConversationRequest) (*ConversationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method StartConversation not implemented")
}
func (UnimplementedChatServiceServer) SelectConversation(context.Context, *ConversationRequest) (*ConversationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SelectConversation not implemented")
}
func (UnimplementedChatServiceServer) ClearFocus(context.Context, *Empty) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method ClearFocus not implemented")
}
func (UnimplementedChatServiceServer) SearchMessages(context.Context, *SearchMessagesRequest) (*SearchMessagesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SearchMessages not implemented")
}

// UnimplementedMessageServiceServer can be embedded for forward compatibility.
type UnimplementedMessageServiceServer struct{}

func (UnimplementedMessageServiceServer) SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SendMessage not implemented")
}
func (UnimplementedMessageServiceServer) WatchEvents(*WatchEventsRequest, grpc.ServerStreamingServer[Event]) error {
	return status.Error(codes.Unimplemented, "method WatchEvents not implemented")
}

// unary builds a method descriptor that decodes Req and calls fn on the
// registered server.
func unary[S, Req, Resp any](service, method string, fn func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return fn(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return fn(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ProfileService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ProfileServiceName,
	HandlerType: (*ProfileServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(ProfileServiceName, "GetStatus", ProfileServiceServer.GetStatus),
		unary(ProfileServiceName, "GetIdentity", ProfileServiceServer.GetIdentity),
		unary(ProfileServiceName, "SetIdentity", ProfileServiceServer.SetIdentity),
		unary(ProfileServiceName, "Reset", ProfileServiceServer.Reset),
	},
	Metadata: "p2pm/v1/profile.go",
}

var ChatService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ChatServiceName,
	HandlerType: (*ChatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(ChatServiceName, "ListConversations", ChatServiceServer.ListConversations),
		unary(ChatServiceName, "GetConversation", ChatServiceServer.GetConversation),
		unary(ChatServiceName, "StartConversation", ChatServiceServer.StartConversation),
		unary(ChatServiceName, "SelectConversation", ChatServiceServer.SelectConversation),
		unary(ChatServiceName, "ClearFocus", ChatServiceServer.ClearFocus),
		unary(ChatServiceName, "SearchMessages", ChatServiceServer.SearchMessages),
	},
	Metadata: "p2pm/v1/chat.go",
}

var MessageService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: MessageServiceName,
	HandlerType: (*MessageServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MessageServiceName, "SendMessage", MessageServiceServer.SendMessage),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchEvents",
			Handler:       watchEventsHandler,
			ServerStreams: true,
		},
	},
	Metadata: "p2pm/v1/message.go",
}

func watchEventsHandler(srv any, stream grpc.ServerStream) error {
	m := new(WatchEventsRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(MessageServiceServer).WatchEvents(m, &grpc.GenericServerStream[WatchEventsRequest, Event]{ServerStream: stream})
}

func RegisterProfileServiceServer(s grpc.ServiceRegistrar, srv ProfileServiceServer) {
	s.RegisterService(&ProfileService_ServiceDesc, srv)
}

func RegisterChatServiceServer(s grpc.ServiceRegistrar, srv ChatServiceServer) {
	s.RegisterService(&ChatService_ServiceDesc, srv)
}

func RegisterMessageServiceServer(s grpc.ServiceRegistrar, srv MessageServiceServer) {
	s.RegisterService(&MessageService_ServiceDesc, srv)
}
