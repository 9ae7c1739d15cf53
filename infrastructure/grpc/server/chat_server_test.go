package server

import (
	"chat-rooms/api/chatv1"
	"chat-rooms/api/discoveryv1"
	"chat-rooms/domain/chat"
	grpcclient "chat-rooms/infrastructure/grpc/client"
	"chat-rooms/repositories"
	"chat-rooms/services"
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

func startServer(t *testing.T) (chatv1.ChatServiceClient, discoveryv1.RegistryClient) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)

	log := slog.Default()
	chatService := services.NewChatService(log, repositories.NewLedgerRepository(db, log), time.Minute, chat.DefaultHistoryLimit, 500)

	listener := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	chatv1.RegisterChatServiceServer(s, NewChatServer(log, chatService))
	discoveryv1.RegisterRegistryServer(s, NewRegistryServer(services.NewDiscoveryService(log)))
	go func() { _ = s.Serve(listener) }()

	conn, err := grpcclient.Dial("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}))
	req.NoError(err)

	t.Cleanup(func() {
		_ = conn.Close()
		s.Stop()
		_ = db.Close()
	})
	return chatv1.NewChatServiceClient(conn), discoveryv1.NewRegistryClient(conn)
}

func senders(messages []chatv1.Message) []string {
	return lo.Map(messages, func(m chatv1.Message, _ int) string { return m.Sender + ":" + m.Content })
}

func TestChatServer_Scenario_JoinSendFetch(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	client, _ := startServer(t)

	resp, err := client.RegisterUser(ctx, &chatv1.RegisterUserRequest{Name: "alice"})
	req.NoError(err)
	req.True(resp.Success)

	resp, err = client.CreateRoom(ctx, &chatv1.CreateRoomRequest{Name: "lobby"})
	req.NoError(err)
	req.True(resp.Success)

	joined, err := client.JoinRoom(ctx, &chatv1.JoinRoomRequest{User: "alice", Room: "lobby"})
	req.NoError(err)
	req.True(joined.Success)
	req.Equal([]string{"alice"}, joined.Members)
	req.Len(joined.Messages, 1)
	req.Equal(chatv1.KindBroadcast, joined.Messages[0].Kind)
	req.Equal(chat.SystemSender, joined.Messages[0].Sender)

	resp, err = client.SendMessage(ctx, &chatv1.SendMessageRequest{User: "alice", Room: "lobby", Content: "hi"})
	req.NoError(err)
	req.True(resp.Success)

	fetched, err := client.FetchMessages(ctx, &chatv1.FetchMessagesRequest{User: "alice", Room: "lobby"})
	req.NoError(err)
	req.True(fetched.Success)
	req.Equal([]string{"SERVER:alice joined the room.", "alice:hi"}, senders(fetched.Messages))
}

func TestChatServer_Scenario_DirectMessage(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	client, _ := startServer(t)

	_, err := client.CreateRoom(ctx, &chatv1.CreateRoomRequest{Name: "lobby"})
	req.NoError(err)
	for _, name := range []string{"alice", "bob", "carol"} {
		resp, err := client.RegisterUser(ctx, &chatv1.RegisterUserRequest{Name: name})
		req.NoError(err)
		req.True(resp.Success)
		joined, err := client.JoinRoom(ctx, &chatv1.JoinRoomRequest{User: name, Room: "lobby"})
		req.NoError(err)
		req.True(joined.Success)
		req.Contains(joined.Members, name)
	}

	resp, err := client.SendMessage(ctx, &chatv1.SendMessageRequest{
		User: "alice", Room: "lobby", Content: "secret", Recipient: lo.ToPtr("bob"),
	})
	req.NoError(err)
	req.True(resp.Success)

	bob, err := client.FetchMessages(ctx, &chatv1.FetchMessagesRequest{User: "bob", Room: "lobby"})
	req.NoError(err)
	direct, found := lo.Find(bob.Messages, func(m chatv1.Message) bool { return m.Content == "secret" })
	req.True(found)
	req.Equal(chatv1.KindDirect, direct.Kind)
	req.Equal("bob", *direct.Recipient)

	carol, err := client.FetchMessages(ctx, &chatv1.FetchMessagesRequest{User: "carol", Room: "lobby"})
	req.NoError(err)
	req.NotContains(senders(carol.Messages), "alice:secret")
}

func TestChatServer_Failures_AreReportedInBand(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	client, _ := startServer(t)

	_, err := client.RegisterUser(ctx, &chatv1.RegisterUserRequest{Name: "alice"})
	req.NoError(err)

	resp, err := client.RegisterUser(ctx, &chatv1.RegisterUserRequest{Name: "alice"})
	req.NoError(err)
	req.False(resp.Success)
	req.Contains(resp.Message, "already in use")

	joined, err := client.JoinRoom(ctx, &chatv1.JoinRoomRequest{User: "alice", Room: "nowhere"})
	req.NoError(err)
	req.False(joined.Success)
	req.NotEmpty(joined.Message)

	members, err := client.ListMembers(ctx, &chatv1.ListMembersRequest{Room: "nowhere"})
	req.NoError(err)
	req.False(members.Success)

	left, err := client.LeaveRoom(ctx, &chatv1.LeaveRoomRequest{User: "alice"})
	req.NoError(err)
	req.False(left.Success)

	fetched, err := client.FetchMessages(ctx, &chatv1.FetchMessagesRequest{User: "alice", Room: "nowhere"})
	req.NoError(err)
	req.False(fetched.Success)

	sent, err := client.SendMessage(ctx, &chatv1.SendMessageRequest{User: "alice", Room: "nowhere", Content: "x"})
	req.NoError(err)
	req.False(sent.Success)
}

func TestChatServer_ListRooms(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	client, _ := startServer(t)

	for _, name := range []string{"b", "a"} {
		_, err := client.CreateRoom(ctx, &chatv1.CreateRoomRequest{Name: name})
		req.NoError(err)
	}

	rooms, err := client.ListRooms(ctx, &chatv1.ListRoomsRequest{})
	req.NoError(err)
	req.True(rooms.Success)
	req.ElementsMatch([]string{"a", "b"}, rooms.Names)
}

func TestRegistryServer(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	_, registry := startServer(t)

	registered, err := registry.Register(ctx, &discoveryv1.RegisterRequest{ServiceName: "ChatService", Host: "localhost", Port: 8001})
	req.NoError(err)
	req.True(registered.Success)

	again, err := registry.Register(ctx, &discoveryv1.RegisterRequest{ServiceName: "ChatService", Host: "localhost", Port: 8002})
	req.NoError(err)
	req.False(again.Success)

	found, err := registry.Lookup(ctx, &discoveryv1.LookupRequest{ServiceName: "ChatService"})
	req.NoError(err)
	req.True(found.Success)
	req.Equal("localhost", found.Host)
	req.Equal(8001, found.Port)

	missing, err := registry.Lookup(ctx, &discoveryv1.LookupRequest{ServiceName: "Other"})
	req.NoError(err)
	req.False(missing.Success)
}
