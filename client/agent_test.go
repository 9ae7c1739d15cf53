package client

import (
	"bytes"
	v1 "chat-rooms/api/chatv1"
	"chat-rooms/domain/chat"
	"chat-rooms/errors"
	"chat-rooms/infrastructure/grpc/server"
	"chat-rooms/repositories"
	"chat-rooms/services"
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

type staticResolver string

func (r staticResolver) Resolve(context.Context, string) (string, error) {
	return string(r), nil
}

type chatFixture struct {
	t        *testing.T
	log      *slog.Logger
	listener *bufconn.Listener
}

func newChatFixture(t *testing.T) *chatFixture {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)

	log := logs.GetLoggerFromLevel(slog.LevelError)
	chatService := services.NewChatService(log, repositories.NewLedgerRepository(db, log),
		time.Minute, chat.DefaultHistoryLimit, 500)

	listener := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	v1.RegisterChatServiceServer(s, server.NewChatServer(log, chatService))
	go func() { _ = s.Serve(listener) }()

	t.Cleanup(func() {
		s.Stop()
		_ = db.Close()
	})
	return &chatFixture{t: t, log: log, listener: listener}
}

// agent returns a connected agent writing to its own buffer.
func (f *chatFixture) agent() (*Agent, *bytes.Buffer) {
	out := &bytes.Buffer{}
	agent := NewAgent(f.log, NewRenderer(out, false), time.Second)
	err := agent.Connect(context.Background(), staticResolver("passthrough:///bufnet"), "ChatService",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return f.listener.DialContext(ctx)
		}))
	require.NoError(f.t, err)
	f.t.Cleanup(func() { _ = agent.Close() })
	return agent, out
}

func contents(messages []v1.Message) []string {
	return lo.Map(messages, func(m v1.Message, _ int) string { return m.Sender + ":" + m.Content })
}

func TestAgent_FirstPollAfterJoinIsSkipped(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	fixture := newChatFixture(t)
	alice, out := fixture.agent()

	req.NoError(alice.Register(ctx, "alice"))
	req.NoError(alice.CreateRoom(ctx, "lobby"))
	req.NoError(alice.Join(ctx, "lobby"))
	req.Contains(out.String(), "SERVER: alice joined the room.")

	skipped, err := alice.Poll(ctx)
	req.NoError(err)
	req.Empty(skipped)

	again, err := alice.Poll(ctx)
	req.NoError(err)
	req.Empty(again, "the snapshot was already displayed")
}

func TestAgent_PollShowsOnlyNewMessages(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	fixture := newChatFixture(t)
	alice, _ := fixture.agent()
	bob, bobOut := fixture.agent()

	req.NoError(alice.Register(ctx, "alice"))
	req.NoError(bob.Register(ctx, "bob"))
	req.NoError(alice.CreateRoom(ctx, "lobby"))
	req.NoError(alice.Join(ctx, "lobby"))
	req.NoError(bob.Join(ctx, "lobby"))
	_, err := alice.Poll(ctx)
	req.NoError(err)
	_, err = bob.Poll(ctx)
	req.NoError(err)

	req.NoError(alice.Send(ctx, nil, "hi bob"))

	fresh, err := bob.Poll(ctx)
	req.NoError(err)
	req.Equal([]string{"alice:hi bob"}, contents(fresh))
	req.Contains(bobOut.String(), "alice: hi bob")

	fresh, err = alice.Poll(ctx)
	req.NoError(err)
	req.Equal([]string{"SERVER:bob joined the room.", "alice:hi bob"}, contents(fresh))

	fresh, err = bob.Poll(ctx)
	req.NoError(err)
	req.Empty(fresh)
}

func TestAgent_DirectMessagesStayPrivate(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	fixture := newChatFixture(t)
	alice, _ := fixture.agent()
	bob, bobOut := fixture.agent()
	carol, _ := fixture.agent()

	req.NoError(alice.Register(ctx, "alice"))
	req.NoError(alice.CreateRoom(ctx, "lobby"))
	for name, agent := range map[string]*Agent{"alice": alice, "bob": bob, "carol": carol} {
		if name != "alice" {
			req.NoError(agent.Register(ctx, name))
		}
		req.NoError(agent.Join(ctx, "lobby"))
		_, err := agent.Poll(ctx)
		req.NoError(err)
	}

	quit, err := alice.Execute(ctx, "/msg bob the secret")
	req.NoError(err)
	req.False(quit)

	fresh, err := bob.Poll(ctx)
	req.NoError(err)
	req.Contains(contents(fresh), "alice:the secret")
	req.Contains(bobOut.String(), "alice -> bob: the secret")

	fresh, err = carol.Poll(ctx)
	req.NoError(err)
	req.NotContains(contents(fresh), "alice:the secret")
}

func TestAgent_RefusalsAreReturned(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	fixture := newChatFixture(t)
	alice, _ := fixture.agent()
	other, _ := fixture.agent()

	req.NoError(alice.Register(ctx, "alice"))
	req.ErrorIs(other.Register(ctx, "alice"), errors.ErrRequestRefused)
	req.Empty(other.User())

	req.ErrorIs(alice.Join(ctx, "nowhere"), errors.ErrRequestRefused)
	req.Empty(alice.Room())
	req.ErrorIs(alice.Send(ctx, nil, "hello?"), errors.ErrNotInRoom)
	req.ErrorIs(alice.Leave(ctx), errors.ErrRequestRefused)
	req.ErrorIs(other.Join(ctx, "lobby"), errors.ErrInvalidArgument)
}

func TestAgent_LeaveStopsPolling(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	fixture := newChatFixture(t)
	alice, _ := fixture.agent()

	req.NoError(alice.Register(ctx, "alice"))
	req.NoError(alice.CreateRoom(ctx, "lobby"))
	req.NoError(alice.Join(ctx, "lobby"))
	req.NoError(alice.Leave(ctx))
	req.Empty(alice.Room())

	fresh, err := alice.Poll(ctx)
	req.NoError(err)
	req.Nil(fresh)

	members, err := alice.ListMembers(ctx, "lobby")
	req.NoError(err)
	req.Empty(members)
}

func TestAgent_ListRoomsAndMembers(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	fixture := newChatFixture(t)
	alice, out := fixture.agent()

	req.NoError(alice.Register(ctx, "alice"))
	_, err := alice.Execute(ctx, "/create lobby")
	req.NoError(err)
	_, err = alice.Execute(ctx, "/create games")
	req.NoError(err)
	_, err = alice.Execute(ctx, "/join games")
	req.NoError(err)

	rooms, err := alice.ListRooms(ctx)
	req.NoError(err)
	req.Equal([]string{"games", "lobby"}, rooms)

	members, err := alice.ListMembers(ctx, "")
	req.NoError(err)
	req.Equal([]string{"alice"}, members)
	req.Contains(out.String(), "MEMBERS")
}

func TestAgent_NotConnected(t *testing.T) {
	agent := NewAgent(slog.Default(), NewRenderer(&bytes.Buffer{}, false), time.Second)

	require.ErrorIs(t, agent.Register(context.Background(), "alice"), errors.ErrNotConnected)
}

func TestAgent_Execute(t *testing.T) {
	agent := NewAgent(slog.Default(), NewRenderer(&bytes.Buffer{}, false), time.Second)
	ctx := context.Background()

	tests := []struct {
		name     string
		line     string
		wantQuit bool
		wantErr  error
	}{
		{"blank line", "   ", false, nil},
		{"quit", "/quit", true, nil},
		{"help", "/help", false, nil},
		{"create without name", "/create", false, errors.ErrInvalidArgument},
		{"msg without text", "/msg bob", false, errors.ErrInvalidArgument},
		{"unknown command", "/dance", false, errors.ErrInvalidArgument},
		{"plain text outside a room", "hello", false, errors.ErrNotInRoom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quit, err := agent.Execute(ctx, tt.line)
			require.Equal(t, tt.wantQuit, quit)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPollWorker_StopsOnCancel(t *testing.T) {
	req := require.New(t)
	agent := NewAgent(slog.Default(), NewRenderer(&bytes.Buffer{}, false), time.Second)
	worker := NewPollWorker(slog.Default(), agent, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req.ErrorIs(worker.Run(ctx), context.DeadlineExceeded)
}
