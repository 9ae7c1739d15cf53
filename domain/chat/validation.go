package chat

import (
	"chat-rooms/errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type userName struct {
	Name string `validate:"required,max=64,printascii"`
}

type roomName struct {
	Name string `validate:"required,max=64"`
}

// ValidateUserName rejects empty, overlong or whitespace-containing names.
func ValidateUserName(name string) error {
	if err := validate.Struct(userName{Name: name}); err != nil {
		return fmt.Errorf("%w: user name %q: %v", errors.ErrInvalidArgument, name, err)
	}
	if strings.ContainsFunc(name, unicode.IsSpace) {
		return fmt.Errorf("%w: user name %q contains spaces", errors.ErrInvalidArgument, name)
	}
	if name == SystemSender {
		return fmt.Errorf("%w: user name %q is reserved", errors.ErrInvalidArgument, name)
	}
	return nil
}

func ValidateRoomName(name string) error {
	if strings.TrimSpace(name) != name {
		return fmt.Errorf("%w: room name %q has surrounding spaces", errors.ErrInvalidArgument, name)
	}
	if err := validate.Struct(roomName{Name: name}); err != nil {
		return fmt.Errorf("%w: room name %q: %v", errors.ErrInvalidArgument, name, err)
	}
	return nil
}

// ValidateSend checks the command shape and content length. maxContentLength <= 0 disables the length check.
func ValidateSend(cmd SendMessageCommand, maxContentLength int) error {
	if err := validate.Struct(cmd); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidArgument, err)
	}
	if maxContentLength > 0 && len([]rune(cmd.Content)) > maxContentLength {
		return fmt.Errorf("%w: content exceeds %d characters", errors.ErrInvalidArgument, maxContentLength)
	}
	return nil
}
