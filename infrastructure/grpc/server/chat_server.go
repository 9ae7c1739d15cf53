package server

import (
	pb "chat-rooms/api/chatv1"
	"chat-rooms/domain/chat"
	"chat-rooms/errors"
	"chat-rooms/services"
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
)

// ChatServer adapts the chat service to the wire. Domain failures are reported as
// Success=false with a message, never as gRPC status errors.
type ChatServer struct {
	chatService services.IChatService
	log         *slog.Logger
}

func NewChatServer(log *slog.Logger, chatService services.IChatService) *ChatServer {
	return &ChatServer{chatService: chatService, log: log}
}

func (s *ChatServer) RegisterUser(_ context.Context, req *pb.RegisterUserRequest) (*pb.StatusResponse, error) {
	if err := s.chatService.RegisterUser(req.Name); err != nil {
		return s.failure(err), nil
	}
	return &pb.StatusResponse{Success: true, Message: "User registered successfully."}, nil
}

func (s *ChatServer) CreateRoom(_ context.Context, req *pb.CreateRoomRequest) (*pb.StatusResponse, error) {
	if err := s.chatService.CreateRoom(req.Name); err != nil {
		return s.failure(err), nil
	}
	return &pb.StatusResponse{Success: true, Message: fmt.Sprintf("Room '%s' created successfully.", req.Name)}, nil
}

func (s *ChatServer) JoinRoom(_ context.Context, req *pb.JoinRoomRequest) (*pb.JoinRoomResponse, error) {
	snapshot, err := s.chatService.JoinRoom(req.User, req.Room)
	if err != nil {
		return &pb.JoinRoomResponse{Success: false, Message: s.describe(err)}, nil
	}
	return &pb.JoinRoomResponse{
		Success:  true,
		Members:  snapshot.Members,
		Messages: toWireMessages(snapshot.Messages),
	}, nil
}

func (s *ChatServer) LeaveRoom(_ context.Context, req *pb.LeaveRoomRequest) (*pb.StatusResponse, error) {
	room, err := s.chatService.LeaveRoom(req.User)
	if err != nil {
		return s.failure(err), nil
	}
	return &pb.StatusResponse{Success: true, Message: fmt.Sprintf("User '%s' left room '%s'.", req.User, room)}, nil
}

func (s *ChatServer) ListRooms(_ context.Context, _ *pb.ListRoomsRequest) (*pb.NamesResponse, error) {
	return &pb.NamesResponse{Success: true, Names: s.chatService.ListRooms()}, nil
}

func (s *ChatServer) ListMembers(_ context.Context, req *pb.ListMembersRequest) (*pb.NamesResponse, error) {
	members, err := s.chatService.ListMembers(req.Room)
	if err != nil {
		return &pb.NamesResponse{Success: false, Message: s.describe(err)}, nil
	}
	return &pb.NamesResponse{Success: true, Names: members}, nil
}

func (s *ChatServer) SendMessage(_ context.Context, req *pb.SendMessageRequest) (*pb.StatusResponse, error) {
	recipient := req.Recipient
	if recipient != nil && *recipient == "" {
		recipient = nil
	}
	_, err := s.chatService.SendMessage(chat.SendMessageCommand{
		Sender:    req.User,
		Room:      req.Room,
		Content:   req.Content,
		Recipient: recipient,
	})
	if err != nil {
		return s.failure(err), nil
	}
	return &pb.StatusResponse{Success: true, Message: "Message sent."}, nil
}

func (s *ChatServer) FetchMessages(_ context.Context, req *pb.FetchMessagesRequest) (*pb.MessagesResponse, error) {
	messages, err := s.chatService.FetchMessages(chat.FetchMessagesCommand{
		Requester: req.User,
		Room:      req.Room,
	})
	if err != nil {
		return &pb.MessagesResponse{Success: false, Message: s.describe(err)}, nil
	}
	return &pb.MessagesResponse{Success: true, Messages: toWireMessages(messages)}, nil
}

func (s *ChatServer) failure(err error) *pb.StatusResponse {
	return &pb.StatusResponse{Success: false, Message: s.describe(err)}
}

// describe logs unexpected failures and renders err for the caller.
func (s *ChatServer) describe(err error) string {
	if errors.KindOf(err) == errors.KindInternal {
		s.log.Error("Chat operation failed", "error", err)
	}
	return errors.Message(err)
}

func toWireMessages(messages []chat.Message) []pb.Message {
	return lo.Map(messages, func(m chat.Message, _ int) pb.Message {
		return pb.Message{
			ID:        m.ID.String(),
			Kind:      pb.MessageKind(m.Kind),
			Sender:    m.Sender,
			Content:   m.Content,
			Recipient: m.Recipient,
			Timestamp: m.CreatedAt,
		}
	})
}
