// Package client is the interactive side of the chat: it resolves the chat service through
// the registry and drives it over gRPC, polling the current room for new messages.
package client

import (
	v1 "chat-rooms/api/chatv1"
	"chat-rooms/errors"
	grpcclient "chat-rooms/infrastructure/grpc/client"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
	"google.golang.org/grpc"
)

// Resolver turns a service name into a dialable address.
type Resolver interface {
	Resolve(ctx context.Context, serviceName string) (string, error)
}

// Agent holds one user's session against the chat service.
// Every outbound call runs under mu so the poller never interleaves with user commands.
type Agent struct {
	mu          sync.Mutex
	log         *slog.Logger
	out         *Renderer
	callTimeout time.Duration

	conn *grpc.ClientConn
	chat v1.ChatServiceClient

	user      string
	room      string
	watermark time.Time
	// IDs already displayed whose timestamp equals the watermark.
	seenAtMark map[string]struct{}
	skipPoll   bool
}

func NewAgent(log *slog.Logger, out *Renderer, callTimeout time.Duration) *Agent {
	return &Agent{
		log:         log,
		out:         out,
		callTimeout: callTimeout,
		seenAtMark:  make(map[string]struct{}),
	}
}

// Connect looks serviceName up in the registry and dials the address it advertises.
func (a *Agent) Connect(ctx context.Context, resolver Resolver, serviceName string, opts ...grpc.DialOption) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	address, err := resolver.Resolve(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("could not resolve %s: %w", serviceName, err)
	}
	conn, err := grpcclient.Dial(address, opts...)
	if err != nil {
		return err
	}
	if a.conn != nil {
		_ = a.conn.Close()
	}
	a.conn = conn
	a.chat = v1.NewChatServiceClient(conn)
	a.log.Info("Connected to chat service", "service", serviceName, "address", address)
	return nil
}

func (a *Agent) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn == nil {
		return nil
	}
	err := a.conn.Close()
	a.conn, a.chat = nil, nil
	return err
}

func (a *Agent) User() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user
}

func (a *Agent) Room() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.room
}

func (a *Agent) callCtx(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if a.chat == nil {
		return nil, nil, errors.ErrNotConnected
	}
	if a.callTimeout <= 0 {
		ctx, cancel := context.WithCancel(ctx)
		return ctx, cancel, nil
	}
	ctx, cancel := context.WithTimeout(ctx, a.callTimeout)
	return ctx, cancel, nil
}

func refused(message string) error {
	return fmt.Errorf("%w: %s", errors.ErrRequestRefused, message)
}

func (a *Agent) Register(ctx context.Context, name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, cancel, err := a.callCtx(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	resp, err := a.chat.RegisterUser(ctx, &v1.RegisterUserRequest{Name: name})
	if err != nil {
		return fmt.Errorf("register failed: %w", err)
	}
	if !resp.Success {
		return refused(resp.Message)
	}
	a.user = name
	a.out.Info("%s", resp.Message)
	return nil
}

func (a *Agent) CreateRoom(ctx context.Context, room string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, cancel, err := a.callCtx(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	resp, err := a.chat.CreateRoom(ctx, &v1.CreateRoomRequest{Name: room})
	if err != nil {
		return fmt.Errorf("create room failed: %w", err)
	}
	if !resp.Success {
		return refused(resp.Message)
	}
	a.out.Info("%s", resp.Message)
	return nil
}

// Join enters room, prints its members and recent history, and moves the watermark
// to the newest message of the snapshot. The next poll is skipped.
func (a *Agent) Join(ctx context.Context, room string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.user == "" {
		return fmt.Errorf("%w: register a username first", errors.ErrInvalidArgument)
	}
	ctx, cancel, err := a.callCtx(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	resp, err := a.chat.JoinRoom(ctx, &v1.JoinRoomRequest{User: a.user, Room: room})
	if err != nil {
		return fmt.Errorf("join failed: %w", err)
	}
	if !resp.Success {
		return refused(resp.Message)
	}

	a.room = room
	a.resetWatermark()
	a.advance(resp.Messages)
	a.skipPoll = true

	a.out.Info("Joined room '%s'.", room)
	a.out.Names("members", resp.Members)
	a.out.Messages(resp.Messages)
	return nil
}

func (a *Agent) Leave(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, cancel, err := a.callCtx(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	resp, err := a.chat.LeaveRoom(ctx, &v1.LeaveRoomRequest{User: a.user})
	if err != nil {
		return fmt.Errorf("leave failed: %w", err)
	}
	if !resp.Success {
		return refused(resp.Message)
	}
	a.room = ""
	a.resetWatermark()
	a.out.Info("%s", resp.Message)
	return nil
}

func (a *Agent) ListRooms(ctx context.Context) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, cancel, err := a.callCtx(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	resp, err := a.chat.ListRooms(ctx, &v1.ListRoomsRequest{})
	if err != nil {
		return nil, fmt.Errorf("list rooms failed: %w", err)
	}
	if !resp.Success {
		return nil, refused(resp.Message)
	}
	a.out.Names("rooms", resp.Names)
	return resp.Names, nil
}

// ListMembers lists room, or the current room when room is empty.
func (a *Agent) ListMembers(ctx context.Context, room string) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if room == "" {
		room = a.room
	}
	if room == "" {
		return nil, fmt.Errorf("%w: no room given and not in a room", errors.ErrInvalidArgument)
	}
	ctx, cancel, err := a.callCtx(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	resp, err := a.chat.ListMembers(ctx, &v1.ListMembersRequest{Room: room})
	if err != nil {
		return nil, fmt.Errorf("list members failed: %w", err)
	}
	if !resp.Success {
		return nil, refused(resp.Message)
	}
	a.out.Names("members", resp.Names)
	return resp.Names, nil
}

// Send posts content to the current room, privately to recipient when it is not nil.
// The message shows up through the next poll.
func (a *Agent) Send(ctx context.Context, recipient *string, content string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.room == "" {
		return fmt.Errorf("%w: join a room first", errors.ErrNotInRoom)
	}
	ctx, cancel, err := a.callCtx(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	resp, err := a.chat.SendMessage(ctx, &v1.SendMessageRequest{
		User: a.user, Room: a.room, Content: content, Recipient: recipient,
	})
	if err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	if !resp.Success {
		return refused(resp.Message)
	}
	return nil
}

// Poll fetches the current room and prints what was not displayed yet.
// It returns the messages it printed.
func (a *Agent) Poll(ctx context.Context) ([]v1.Message, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.room == "" {
		return nil, nil
	}
	if a.skipPoll {
		a.skipPoll = false
		return nil, nil
	}
	ctx, cancel, err := a.callCtx(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	resp, err := a.chat.FetchMessages(ctx, &v1.FetchMessagesRequest{User: a.user, Room: a.room})
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	if !resp.Success {
		return nil, refused(resp.Message)
	}

	fresh := lo.Filter(resp.Messages, func(m v1.Message, _ int) bool {
		return a.unseen(m)
	})
	a.advance(fresh)
	a.out.Messages(fresh)
	return fresh, nil
}

func (a *Agent) unseen(m v1.Message) bool {
	if m.Timestamp.After(a.watermark) {
		return true
	}
	if m.Timestamp.Equal(a.watermark) {
		_, seen := a.seenAtMark[m.ID]
		return !seen
	}
	return false
}

// advance moves the watermark over messages, which are in room order.
func (a *Agent) advance(messages []v1.Message) {
	for _, m := range messages {
		if m.Timestamp.After(a.watermark) {
			a.watermark = m.Timestamp
			clear(a.seenAtMark)
		}
		if m.Timestamp.Equal(a.watermark) {
			a.seenAtMark[m.ID] = struct{}{}
		}
	}
}

func (a *Agent) resetWatermark() {
	a.watermark = time.Time{}
	a.skipPoll = false
	clear(a.seenAtMark)
}
