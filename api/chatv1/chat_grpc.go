package chatv1

import (
	"chat-rooms/api/unary"
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "chat.v1.ChatService"

const (
	ChatService_RegisterUser_FullMethodName  = "/chat.v1.ChatService/RegisterUser"
	ChatService_CreateRoom_FullMethodName    = "/chat.v1.ChatService/CreateRoom"
	ChatService_JoinRoom_FullMethodName      = "/chat.v1.ChatService/JoinRoom"
	ChatService_LeaveRoom_FullMethodName     = "/chat.v1.ChatService/LeaveRoom"
	ChatService_ListRooms_FullMethodName     = "/chat.v1.ChatService/ListRooms"
	ChatService_ListMembers_FullMethodName   = "/chat.v1.ChatService/ListMembers"
	ChatService_SendMessage_FullMethodName   = "/chat.v1.ChatService/SendMessage"
	ChatService_FetchMessages_FullMethodName = "/chat.v1.ChatService/FetchMessages"
)

type ChatServiceServer interface {
	RegisterUser(context.Context, *RegisterUserRequest) (*StatusResponse, error)
	CreateRoom(context.Context, *CreateRoomRequest) (*StatusResponse, error)
	JoinRoom(context.Context, *JoinRoomRequest) (*JoinRoomResponse, error)
	LeaveRoom(context.Context, *LeaveRoomRequest) (*StatusResponse, error)
	ListRooms(context.Context, *ListRoomsRequest) (*NamesResponse, error)
	ListMembers(context.Context, *ListMembersRequest) (*NamesResponse, error)
	SendMessage(context.Context, *SendMessageRequest) (*StatusResponse, error)
	FetchMessages(context.Context, *FetchMessagesRequest) (*MessagesResponse, error)
}

var ChatService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RegisterUser", Handler: unary.Handler(ChatService_RegisterUser_FullMethodName, ChatServiceServer.RegisterUser)},
		{MethodName: "CreateRoom", Handler: unary.Handler(ChatService_CreateRoom_FullMethodName, ChatServiceServer.CreateRoom)},
		{MethodName: "JoinRoom", Handler: unary.Handler(ChatService_JoinRoom_FullMethodName, ChatServiceServer.JoinRoom)},
		{MethodName: "LeaveRoom", Handler: unary.Handler(ChatService_LeaveRoom_FullMethodName, ChatServiceServer.LeaveRoom)},
		{MethodName: "ListRooms", Handler: unary.Handler(ChatService_ListRooms_FullMethodName, ChatServiceServer.ListRooms)},
		{MethodName: "ListMembers", Handler: unary.Handler(ChatService_ListMembers_FullMethodName, ChatServiceServer.ListMembers)},
		{MethodName: "SendMessage", Handler: unary.Handler(ChatService_SendMessage_FullMethodName, ChatServiceServer.SendMessage)},
		{MethodName: "FetchMessages", Handler: unary.Handler(ChatService_FetchMessages_FullMethodName, ChatServiceServer.FetchMessages)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "chat/v1/chat",
}

func RegisterChatServiceServer(s grpc.ServiceRegistrar, srv ChatServiceServer) {
	s.RegisterService(&ChatService_ServiceDesc, srv)
}

type ChatServiceClient interface {
	RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	CreateRoom(ctx context.Context, in *CreateRoomRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	JoinRoom(ctx context.Context, in *JoinRoomRequest, opts ...grpc.CallOption) (*JoinRoomResponse, error)
	LeaveRoom(ctx context.Context, in *LeaveRoomRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	ListRooms(ctx context.Context, in *ListRoomsRequest, opts ...grpc.CallOption) (*NamesResponse, error)
	ListMembers(ctx context.Context, in *ListMembersRequest, opts ...grpc.CallOption) (*NamesResponse, error)
	SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	FetchMessages(ctx context.Context, in *FetchMessagesRequest, opts ...grpc.CallOption) (*MessagesResponse, error)
}

type chatServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewChatServiceClient(cc grpc.ClientConnInterface) ChatServiceClient {
	return &chatServiceClient{cc: cc}
}

func (c *chatServiceClient) RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return unary.Invoke[StatusResponse](ctx, c.cc, ChatService_RegisterUser_FullMethodName, in, opts...)
}

func (c *chatServiceClient) CreateRoom(ctx context.Context, in *CreateRoomRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return unary.Invoke[StatusResponse](ctx, c.cc, ChatService_CreateRoom_FullMethodName, in, opts...)
}

func (c *chatServiceClient) JoinRoom(ctx context.Context, in *JoinRoomRequest, opts ...grpc.CallOption) (*JoinRoomResponse, error) {
	return unary.Invoke[JoinRoomResponse](ctx, c.cc, ChatService_JoinRoom_FullMethodName, in, opts...)
}

func (c *chatServiceClient) LeaveRoom(ctx context.Context, in *LeaveRoomRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return unary.Invoke[StatusResponse](ctx, c.cc, ChatService_LeaveRoom_FullMethodName, in, opts...)
}

func (c *chatServiceClient) ListRooms(ctx context.Context, in *ListRoomsRequest, opts ...grpc.CallOption) (*NamesResponse, error) {
	return unary.Invoke[NamesResponse](ctx, c.cc, ChatService_ListRooms_FullMethodName, in, opts...)
}

func (c *chatServiceClient) ListMembers(ctx context.Context, in *ListMembersRequest, opts ...grpc.CallOption) (*NamesResponse, error) {
	return unary.Invoke[NamesResponse](ctx, c.cc, ChatService_ListMembers_FullMethodName, in, opts...)
}

func (c *chatServiceClient) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return unary.Invoke[StatusResponse](ctx, c.cc, ChatService_SendMessage_FullMethodName, in, opts...)
}

func (c *chatServiceClient) FetchMessages(ctx context.Context, in *FetchMessagesRequest, opts ...grpc.CallOption) (*MessagesResponse, error) {
	return unary.Invoke[MessagesResponse](ctx, c.cc, ChatService_FetchMessages_FullMethodName, in, opts...)
}
