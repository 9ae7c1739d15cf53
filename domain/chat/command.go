package chat

type Command interface {
	RoomName() string
}

// SendMessageCommand carries a send intent. A nil Recipient means broadcast.
type SendMessageCommand struct {
	Sender    string `validate:"required"`
	Room      string `validate:"required"`
	Content   string `validate:"required"`
	Recipient *string
}

func (c SendMessageCommand) RoomName() string {
	return c.Room
}

func (c SendMessageCommand) IsDirect() bool {
	return c.Recipient != nil && *c.Recipient != ""
}

type FetchMessagesCommand struct {
	Requester string `validate:"required"`
	Room      string `validate:"required"`
}

func (c FetchMessagesCommand) RoomName() string {
	return c.Room
}
