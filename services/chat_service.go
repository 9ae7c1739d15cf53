package services

import (
	"chat-rooms/domain/chat"
	"chat-rooms/errors"
	"chat-rooms/repositories"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
)

type IChatService interface {
	RegisterUser(name string) error
	CreateRoom(name string) error
	JoinRoom(user, room string) (chat.JoinSnapshot, error)
	LeaveRoom(user string) (string, error)
	ListRooms() []string
	ListMembers(room string) ([]string, error)
	SendMessage(cmd chat.SendMessageCommand) (chat.Message, error)
	FetchMessages(cmd chat.FetchMessagesCommand) ([]chat.Message, error)
	ReclaimIdleRooms(now time.Time) []string
	Stats() Stats
}

// ChatService owns every user, room and inactivity mark.
// All of them are guarded by a single mutex because invariants span entities:
// a user's room pointer and that room's member set change together.
type ChatService struct {
	mu       sync.Mutex
	users    map[string]*chat.User
	rooms    map[string]*chat.Room
	inactive map[string]time.Time

	ledger           repositories.ILedgerRepository
	log              *slog.Logger
	idleThreshold    time.Duration
	historyLimit     int
	maxContentLength int
	clock            func() time.Time
}

// Stats is a point-in-time view used by the heartbeat.
type Stats struct {
	Users        int
	UsersInRooms int
	Rooms        int
	IdleRooms    int
	Messages     int
	CollectedAt  time.Time
}

// NewChatService truncates the ledger before serving.
// A failing reset is reported but does not prevent the service from starting.
func NewChatService(log *slog.Logger, ledger repositories.ILedgerRepository,
	idleThreshold time.Duration, historyLimit, maxContentLength int) *ChatService {
	if err := ledger.Reset(); err != nil {
		log.Error("Failed to initialize username ledger", "critical", true, "error", err)
	}
	return &ChatService{
		users:            make(map[string]*chat.User),
		rooms:            make(map[string]*chat.Room),
		inactive:         make(map[string]time.Time),
		ledger:           ledger,
		log:              log,
		idleThreshold:    idleThreshold,
		historyLimit:     historyLimit,
		maxContentLength: maxContentLength,
		clock:            func() time.Time { return time.Now().UTC() },
	}
}

// RegisterUser fails with ErrUserAlreadyExists if the name was registered during this run.
func (s *ChatService) RegisterUser(name string) error {
	if err := chat.ValidateUserName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Append(name, s.clock()); err != nil {
		if errors.Is(err, errors.ErrUserAlreadyExists) {
			s.log.Warn("Duplicate username registration attempt", "user", name)
			return fmt.Errorf("%w: %s", errors.ErrUserAlreadyExists, name)
		}
		return fmt.Errorf("ledger append failed: %w", err)
	}
	s.users[name] = chat.NewUser(name)
	s.log.Info("User registered", "user", name)
	return nil
}

// CreateRoom creates an empty room. An empty room is immediately idle.
func (s *ChatService) CreateRoom(name string) error {
	if err := chat.ValidateRoomName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[name]; ok {
		s.log.Warn("Duplicate room creation attempt", "room", name)
		return fmt.Errorf("%w: %s", errors.ErrRoomAlreadyExists, name)
	}
	s.rooms[name] = chat.NewRoom(name)
	s.inactive[name] = s.clock()
	s.log.Info("Room created", "room", name)
	return nil
}

// JoinRoom moves user into room, leaving any other room first, and returns the join snapshot.
func (s *ChatService) JoinRoom(user, room string) (chat.JoinSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[user]
	if !ok {
		return chat.JoinSnapshot{}, fmt.Errorf("%w: %s", errors.ErrUserNotFound, user)
	}
	r, ok := s.rooms[room]
	if !ok {
		return chat.JoinSnapshot{}, fmt.Errorf("%w: %s", errors.ErrRoomNotFound, room)
	}
	if u.IsIn(room) {
		return r.Snapshot(s.historyLimit), nil
	}

	now := s.clock()
	if u.InRoom() {
		s.leaveLocked(u, now)
	}

	r.AddMember(user)
	u.CurrentRoom = room
	delete(s.inactive, room)
	r.Post(chat.JoinAnnouncement(user), now)
	s.log.Info("User joined room", "user", user, "room", room)

	return r.Snapshot(s.historyLimit), nil
}

// LeaveRoom returns the name of the room the user left.
func (s *ChatService) LeaveRoom(user string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[user]
	if !ok || !u.InRoom() {
		return "", fmt.Errorf("%w: %s", errors.ErrNotInRoom, user)
	}
	return s.leaveLocked(u, s.clock()), nil
}

// leaveLocked must be called with s.mu held and u in a room.
func (s *ChatService) leaveLocked(u *chat.User, now time.Time) string {
	room := u.CurrentRoom
	u.CurrentRoom = ""

	r, ok := s.rooms[room]
	if !ok {
		s.log.Error("User referenced a missing room", "user", u.Name, "room", room)
		return room
	}
	r.RemoveMember(u.Name)
	r.Post(chat.LeaveAnnouncement(u.Name), now)
	if r.IsEmpty() {
		s.inactive[room] = now
	}
	s.log.Info("User left room", "user", u.Name, "room", room)
	return room
}

func (s *ChatService) ListRooms() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := lo.Keys(s.rooms)
	slices.Sort(names)
	return names
}

func (s *ChatService) ListMembers(room string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[room]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrRoomNotFound, room)
	}
	return r.Members(), nil
}

// SendMessage appends a broadcast, or a direct message when cmd names a recipient.
func (s *ChatService) SendMessage(cmd chat.SendMessageCommand) (chat.Message, error) {
	if err := chat.ValidateSend(cmd, s.maxContentLength); err != nil {
		return chat.Message{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.memberRoomLocked(cmd.Sender, cmd.Room)
	if err != nil {
		return chat.Message{}, err
	}

	message := chat.NewBroadcast(cmd.Sender, cmd.Content)
	if cmd.IsDirect() {
		if !r.HasMember(*cmd.Recipient) {
			return chat.Message{}, fmt.Errorf("%w: %s", errors.ErrRecipientNotFound, *cmd.Recipient)
		}
		message = chat.NewDirect(cmd.Sender, *cmd.Recipient, cmd.Content)
	}
	message = r.Post(message, s.clock())
	s.log.Info("Message sent", "user", cmd.Sender, "room", cmd.Room, "kind", message.Kind)
	return message, nil
}

// FetchMessages returns the full visible history of the room for the requester.
func (s *ChatService) FetchMessages(cmd chat.FetchMessagesCommand) ([]chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.memberRoomLocked(cmd.Requester, cmd.Room)
	if err != nil {
		return nil, err
	}
	return r.VisibleTo(cmd.Requester), nil
}

func (s *ChatService) memberRoomLocked(user, room string) (*chat.Room, error) {
	u, ok := s.users[user]
	if !ok || !u.IsIn(room) {
		return nil, fmt.Errorf("%w: %s not in %s", errors.ErrNotMember, user, room)
	}
	r, ok := s.rooms[room]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrRoomNotFound, room)
	}
	return r, nil
}

// ReclaimIdleRooms deletes every room whose inactivity mark is older than the idle threshold.
// It is the only path by which rooms are destroyed.
func (s *ChatService) ReclaimIdleRooms(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for room, since := range s.inactive {
		if now.Sub(since) <= s.idleThreshold {
			continue
		}
		delete(s.rooms, room)
		delete(s.inactive, room)
		removed = append(removed, room)
		s.log.Info("Room removed for inactivity", "room", room, "idle_since", since)
	}
	slices.Sort(removed)
	return removed
}

func (s *ChatService) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := lo.SumBy(lo.Values(s.rooms), func(r *chat.Room) int {
		return r.Len()
	})
	inRooms := lo.CountBy(lo.Values(s.users), func(u *chat.User) bool {
		return u.InRoom()
	})
	return Stats{
		Users:        len(s.users),
		UsersInRooms: inRooms,
		Rooms:        len(s.rooms),
		IdleRooms:    len(s.inactive),
		Messages:     messages,
		CollectedAt:  s.clock(),
	}
}
