package client

import (
	"chat-rooms/errors"
	"context"
	"fmt"
	"strings"
)

const Help = `Commands:
  /create <room>        create a room
  /join <room>          join a room, leaving the current one
  /leave                leave the current room
  /rooms                list rooms
  /members [room]       list members of a room, the current one by default
  /msg <user> <text>    send a private message inside the current room
  /help                 show this help
  /quit                 exit
Anything else is sent to the current room.`

// Execute runs one line typed by the user. It reports whether the session should end.
func (a *Agent) Execute(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	if !strings.HasPrefix(line, "/") {
		return false, a.Send(ctx, nil, line)
	}

	command, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch command {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		a.out.Info("%s", Help)
		return false, nil
	case "/create":
		if rest == "" {
			return false, usage("/create <room>")
		}
		return false, a.CreateRoom(ctx, rest)
	case "/join":
		if rest == "" {
			return false, usage("/join <room>")
		}
		return false, a.Join(ctx, rest)
	case "/leave":
		return false, a.Leave(ctx)
	case "/rooms":
		_, err := a.ListRooms(ctx)
		return false, err
	case "/members":
		_, err := a.ListMembers(ctx, rest)
		return false, err
	case "/msg":
		recipient, text, ok := strings.Cut(rest, " ")
		text = strings.TrimSpace(text)
		if !ok || recipient == "" || text == "" {
			return false, usage("/msg <user> <text>")
		}
		return false, a.Send(ctx, &recipient, text)
	default:
		return false, fmt.Errorf("%w: unknown command %s, try /help", errors.ErrInvalidArgument, command)
	}
}

func usage(form string) error {
	return fmt.Errorf("%w: usage %s", errors.ErrInvalidArgument, form)
}
