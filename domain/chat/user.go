// Package chat contains core concepts of the chat system.
// This file defines User entities and related invariants.
// No runtime, network, or UI logic should be added here.
package chat

// User is a registered identity. CurrentRoom is empty while the user is in no room.
type User struct {
	Name        string
	CurrentRoom string
}

func NewUser(name string) *User {
	return &User{Name: name}
}

func (u *User) InRoom() bool {
	return u.CurrentRoom != ""
}

func (u *User) IsIn(room string) bool {
	return u.InRoom() && u.CurrentRoom == room
}
