package chat

import (
	"slices"
	"time"

	"github.com/samber/lo"
)

// DefaultHistoryLimit is the number of messages returned in a join snapshot.
const DefaultHistoryLimit = 50

// Room is a named channel with explicit membership and an append-only message log.
// A Room does not protect itself: callers serialize access.
type Room struct {
	Name     string
	members  []string
	messages []Message
}

func NewRoom(name string) *Room {
	return &Room{Name: name}
}

// JoinSnapshot is what a joiner receives: current members and the tail of the log, oldest first.
type JoinSnapshot struct {
	Members  []string
	Messages []Message
}

func (r *Room) HasMember(user string) bool {
	return slices.Contains(r.members, user)
}

// AddMember appends user unless already present. It reports whether the member set changed.
func (r *Room) AddMember(user string) bool {
	if r.HasMember(user) {
		return false
	}
	r.members = append(r.members, user)
	return true
}

// RemoveMember reports whether user was a member.
func (r *Room) RemoveMember(user string) bool {
	idx := slices.Index(r.members, user)
	if idx < 0 {
		return false
	}
	r.members = slices.Delete(r.members, idx, idx+1)
	return true
}

func (r *Room) IsEmpty() bool {
	return len(r.members) == 0
}

func (r *Room) Members() []string {
	return slices.Clone(r.members)
}

// Post appends message stamped at `at`. Timestamps never go backwards within a room:
// if the clock moved back, the message takes the previous timestamp.
func (r *Room) Post(message Message, at time.Time) Message {
	if n := len(r.messages); n > 0 && at.Before(r.messages[n-1].CreatedAt) {
		at = r.messages[n-1].CreatedAt
	}
	message.CreatedAt = at
	r.messages = append(r.messages, message)
	return message
}

// History returns at most the last limit messages, oldest first.
func (r *Room) History(limit int) []Message {
	if limit <= 0 || limit >= len(r.messages) {
		return slices.Clone(r.messages)
	}
	return slices.Clone(r.messages[len(r.messages)-limit:])
}

// VisibleTo returns, in storage order, the messages user may read.
func (r *Room) VisibleTo(user string) []Message {
	return lo.Filter(r.messages, func(m Message, _ int) bool {
		return m.VisibleTo(user)
	})
}

func (r *Room) Snapshot(limit int) JoinSnapshot {
	return JoinSnapshot{
		Members:  r.Members(),
		Messages: r.History(limit),
	}
}

func (r *Room) Len() int {
	return len(r.messages)
}
