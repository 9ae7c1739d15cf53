// Package chat contains core concepts of the chat system.
// This file defines Message entries and related rules.
// Messages are immutable once appended to a room log.
package chat

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SystemSender is the author of join and leave announcements.
const SystemSender = "SERVER"

type MessageKind string

const (
	Broadcast MessageKind = "broadcast"
	Direct    MessageKind = "direct"
)

// Message represents an immutable chat entry.
type Message struct {
	ID        uuid.UUID
	Kind      MessageKind
	Sender    string
	Content   string
	Recipient *string // set only for Direct
	CreatedAt time.Time
}

func NewBroadcast(sender, content string) Message {
	return Message{
		ID:      uuid.New(),
		Kind:    Broadcast,
		Sender:  sender,
		Content: content,
	}
}

func NewDirect(sender, recipient, content string) Message {
	return Message{
		ID:        uuid.New(),
		Kind:      Direct,
		Sender:    sender,
		Content:   content,
		Recipient: &recipient,
	}
}

func JoinAnnouncement(user string) Message {
	return NewBroadcast(SystemSender, fmt.Sprintf("%s joined the room.", user))
}

func LeaveAnnouncement(user string) Message {
	return NewBroadcast(SystemSender, fmt.Sprintf("%s left the room.", user))
}

// VisibleTo reports whether user may read m: every broadcast, and direct messages addressed to user.
// A sender does not see its own outgoing direct message unless it is also the recipient.
func (m Message) VisibleTo(user string) bool {
	if m.Kind == Broadcast {
		return true
	}
	return m.Recipient != nil && *m.Recipient == user
}
