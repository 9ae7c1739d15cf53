// Package chatv1 declares the wire surface of the chat coordination service.
// Every response carries Success plus either a payload or a human readable Message.
package chatv1

import (
	"time"
)

type MessageKind string

const (
	KindBroadcast MessageKind = "broadcast"
	KindDirect    MessageKind = "direct"
)

type Message struct {
	ID        string      `json:"id"`
	Kind      MessageKind `json:"kind"`
	Sender    string      `json:"sender"`
	Content   string      `json:"content"`
	Recipient *string     `json:"recipient,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type RegisterUserRequest struct {
	Name string `json:"name"`
}

type CreateRoomRequest struct {
	Name string `json:"name"`
}

type JoinRoomRequest struct {
	User string `json:"user"`
	Room string `json:"room"`
}

type JoinRoomResponse struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message,omitempty"`
	Members  []string  `json:"members,omitempty"`
	Messages []Message `json:"messages,omitempty"`
}

type LeaveRoomRequest struct {
	User string `json:"user"`
}

type ListRoomsRequest struct{}

type ListMembersRequest struct {
	Room string `json:"room"`
}

type NamesResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Names   []string `json:"names"`
}

type SendMessageRequest struct {
	User      string  `json:"user"`
	Room      string  `json:"room"`
	Content   string  `json:"content"`
	Recipient *string `json:"recipient,omitempty"`
}

type FetchMessagesRequest struct {
	User string `json:"user"`
	Room string `json:"room"`
}

type MessagesResponse struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message,omitempty"`
	Messages []Message `json:"messages"`
}
