package e2e

import (
	"bytes"
	"chat-rooms/api/chatv1"
	"chat-rooms/client"
	grpcclient "chat-rooms/infrastructure/grpc/client"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type testChatSuite struct {
	BaseGrpcSuite
}

func TestChatSuite(t *testing.T) {
	suite.Run(t, &testChatSuite{})
}

// unique keeps scenarios independent when the suite targets a long running deployment.
func unique(name string) string {
	return name + "-" + uuid.NewString()[:8]
}

func (s *testChatSuite) newAgent() (*client.Agent, *bytes.Buffer) {
	conn := s.GrpcConn(s.T(), "Registry for agent", s.registryAddr)
	s.T().Cleanup(func() { _ = conn.Close() })

	out := &bytes.Buffer{}
	agent := client.NewAgent(logs.GetLoggerFromLevel(slog.LevelWarn), client.NewRenderer(out, false), s.Config.CallTimeout)
	ctx, cancel := context.WithTimeout(context.Background(), s.Config.CallTimeout)
	defer cancel()
	s.Require().NoError(agent.Connect(ctx, grpcclient.NewDiscoveryClient(conn), s.Config.ServiceName))
	s.T().Cleanup(func() { _ = agent.Close() })
	return agent, out
}

func senders(messages []chatv1.Message) []string {
	return lo.Map(messages, func(m chatv1.Message, _ int) string { return m.Sender + ":" + m.Content })
}

func (s *testChatSuite) TestJoinSendFetch() {
	alice, room := unique("alice"), unique("lobby")

	s.WithChat("Register, create, join, send, fetch", func(ctx context.Context, chat chatv1.ChatServiceClient) {
		resp, err := chat.RegisterUser(ctx, &chatv1.RegisterUserRequest{Name: alice})
		s.Require().NoError(err)
		s.Require().True(resp.Success, resp.Message)

		resp, err = chat.CreateRoom(ctx, &chatv1.CreateRoomRequest{Name: room})
		s.Require().NoError(err)
		s.Require().True(resp.Success, resp.Message)

		joined, err := chat.JoinRoom(ctx, &chatv1.JoinRoomRequest{User: alice, Room: room})
		s.Require().NoError(err)
		s.Require().True(joined.Success, joined.Message)
		s.Require().Equal([]string{alice}, joined.Members)

		resp, err = chat.SendMessage(ctx, &chatv1.SendMessageRequest{User: alice, Room: room, Content: "hi"})
		s.Require().NoError(err)
		s.Require().True(resp.Success, resp.Message)

		fetched, err := chat.FetchMessages(ctx, &chatv1.FetchMessagesRequest{User: alice, Room: room})
		s.Require().NoError(err)
		s.Require().True(fetched.Success, fetched.Message)
		s.Require().Equal([]string{"SERVER:" + alice + " joined the room.", alice + ":hi"}, senders(fetched.Messages))

		left, err := chat.LeaveRoom(ctx, &chatv1.LeaveRoomRequest{User: alice})
		s.Require().NoError(err)
		s.Require().True(left.Success, left.Message)
	})
}

func (s *testChatSuite) TestDuplicateUsernameIsRefused() {
	name := unique("bob")

	s.WithChat("Register the same name twice", func(ctx context.Context, chat chatv1.ChatServiceClient) {
		first, err := chat.RegisterUser(ctx, &chatv1.RegisterUserRequest{Name: name})
		s.Require().NoError(err)
		s.Require().True(first.Success)

		second, err := chat.RegisterUser(ctx, &chatv1.RegisterUserRequest{Name: name})
		s.Require().NoError(err)
		s.Require().False(second.Success)
		s.Require().NotEmpty(second.Message)
	})
}

func (s *testChatSuite) TestAgentsExchangeMessages() {
	ctx := context.Background()
	aliceName, bobName, room := unique("alice"), unique("bob"), unique("agents")
	alice, _ := s.newAgent()
	bob, bobOut := s.newAgent()

	s.Run("Both agents join the room", func() {
		s.Require().NoError(alice.Register(ctx, aliceName))
		s.Require().NoError(bob.Register(ctx, bobName))
		s.Require().NoError(alice.CreateRoom(ctx, room))
		s.Require().NoError(alice.Join(ctx, room))
		s.Require().NoError(bob.Join(ctx, room))

		// the first poll after a join is skipped
		_, err := bob.Poll(ctx)
		s.Require().NoError(err)
	})

	s.Run("Broadcast and direct messages reach bob once", func() {
		_, err := alice.Execute(ctx, "good morning")
		s.Require().NoError(err)
		_, err = alice.Execute(ctx, "/msg "+bobName+" just for you")
		s.Require().NoError(err)

		fresh, err := bob.Poll(ctx)
		s.Require().NoError(err)
		s.Require().Equal([]string{aliceName + ":good morning", aliceName + ":just for you"}, senders(fresh))
		s.Require().Contains(bobOut.String(), aliceName+" -> "+bobName+": just for you")

		again, err := bob.Poll(ctx)
		s.Require().NoError(err)
		s.Require().Empty(again)
	})

	s.Run("Members are listed", func() {
		members, err := bob.ListMembers(ctx, "")
		s.Require().NoError(err)
		s.Require().ElementsMatch([]string{aliceName, bobName}, members)
	})
}

func (s *testChatSuite) TestIdleRoomIsReclaimed() {
	if !s.Config.InProcess() {
		s.T().Skip("reclaim timing is only controlled for the in-process server")
	}
	room := unique("idle")

	s.WithChat("Create a room and leave it empty", func(ctx context.Context, chat chatv1.ChatServiceClient) {
		resp, err := chat.CreateRoom(ctx, &chatv1.CreateRoomRequest{Name: room})
		s.Require().NoError(err)
		s.Require().True(resp.Success)

		s.Require().Eventually(func() bool {
			rooms, err := chat.ListRooms(ctx, &chatv1.ListRoomsRequest{})
			return err == nil && rooms.Success && !lo.Contains(rooms.Names, room)
		}, 5*time.Second, 50*time.Millisecond)
	})
}

func (s *testChatSuite) TestUnknownServiceIsNotResolved() {
	s.WithRegistry("Lookup an unknown service", func(ctx context.Context, registry *grpcclient.DiscoveryClient) {
		_, err := registry.Resolve(ctx, unique("NoSuchService"))
		s.Require().Error(err)
	})
}
