package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	ErrInvalidArgument = fmt.Errorf("invalid argument")

	ErrUserNotFound      = fmt.Errorf("user not registered")
	ErrRoomNotFound      = fmt.Errorf("room not found")
	ErrRecipientNotFound = fmt.Errorf("recipient is not in the same room")
	ErrNotInRoom         = fmt.Errorf("user is not in any room")
	ErrServiceNotFound   = fmt.Errorf("service not found")

	ErrUserAlreadyExists        = fmt.Errorf("username already in use")
	ErrRoomAlreadyExists        = fmt.Errorf("room name already exists")
	ErrServiceAlreadyRegistered = fmt.Errorf("service already registered")

	ErrNotMember = fmt.Errorf("user is not in the specified room")

	ErrRequestRefused = fmt.Errorf("request refused")
	ErrNotConnected   = fmt.Errorf("not connected to a chat service")
)

// Kind is the coarse failure category reported to remote callers.
type Kind string

const (
	KindNone             Kind = ""
	KindNotFound         Kind = "not_found"
	KindConflict         Kind = "conflict"
	KindPermissionDenied Kind = "permission_denied"
	KindInvalidArgument  Kind = "invalid_argument"
	KindInternal         Kind = "internal"
)

// KindOf classifies err against the sentinel taxonomy. Unknown errors are Internal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case Is(err, ErrUserNotFound), Is(err, ErrRoomNotFound), Is(err, ErrRecipientNotFound),
		Is(err, ErrNotInRoom), Is(err, ErrServiceNotFound):
		return KindNotFound
	case Is(err, ErrUserAlreadyExists), Is(err, ErrRoomAlreadyExists), Is(err, ErrServiceAlreadyRegistered):
		return KindConflict
	case Is(err, ErrNotMember):
		return KindPermissionDenied
	case Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	default:
		return KindInternal
	}
}

// Message renders err for the (ok, message) wire form.
// Internal failures are not leaked to remote callers.
func Message(err error) string {
	if KindOf(err) == KindInternal {
		return "internal server error"
	}
	return err.Error()
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
