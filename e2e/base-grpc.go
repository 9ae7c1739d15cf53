package e2e

import (
	"chat-rooms/api/chatv1"
	"chat-rooms/api/discoveryv1"
	grpcclient "chat-rooms/infrastructure/grpc/client"
	"chat-rooms/infrastructure/grpc/server"
	"chat-rooms/repositories"
	"chat-rooms/runtime/workers"
	"chat-rooms/services"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	grpc3 "github.com/mama165/sdk-go/grpc"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

type BaseGrpcSuite struct {
	suite.Suite
	Config Config

	registryAddr string
	shutdown     []func()
}

// SetupSuite loads the environment configuration and, unless a deployment is targeted,
// starts a registry and an advertised chat server on loopback ports.
func (s *BaseGrpcSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	if !s.Config.InProcess() {
		s.registryAddr = s.Config.RegistryAddr
		return
	}
	logger := logs.GetLoggerFromLevel(slog.LevelWarn)
	s.registryAddr = s.startRegistry(logger)
	s.startChatServer(logger)
}

func (s *BaseGrpcSuite) TearDownSuite() {
	for i := len(s.shutdown) - 1; i >= 0; i-- {
		s.shutdown[i]()
	}
}

func (s *BaseGrpcSuite) listen() net.Listener {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	s.Require().NoError(err)
	return listener
}

func (s *BaseGrpcSuite) serve(logger *slog.Logger, listener net.Listener, register func(*grpc.Server)) {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(grpc3.UnaryLoggingInterceptor(logger)))
	register(srv)
	go func() { _ = srv.Serve(listener) }()
	s.shutdown = append(s.shutdown, srv.GracefulStop)
}

func (s *BaseGrpcSuite) startRegistry(logger *slog.Logger) string {
	listener := s.listen()
	s.serve(logger, listener, func(srv *grpc.Server) {
		discoveryv1.RegisterRegistryServer(srv, server.NewRegistryServer(services.NewDiscoveryService(logger)))
	})
	return listener.Addr().String()
}

func (s *BaseGrpcSuite) startChatServer(logger *slog.Logger) {
	db, err := badger.Open(badger.DefaultOptions(s.T().TempDir()).WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)
	s.shutdown = append(s.shutdown, func() { _ = db.Close() })

	chatService := services.NewChatService(logger, repositories.NewLedgerRepository(db, logger),
		s.Config.IdleThreshold, 50, 2000)

	ctx, cancel := context.WithCancel(context.Background())
	sup := workers.NewSupervisor(logger, 10*time.Millisecond).
		Add(workers.NewReclaimWorker(logger, chatService, s.Config.ReclaimInterval))
	done := make(chan struct{})
	go func() {
		defer close(done)
		sup.Run(ctx)
	}()
	s.shutdown = append(s.shutdown, func() {
		cancel()
		<-done
	})

	listener := s.listen()
	s.serve(logger, listener, func(srv *grpc.Server) {
		chatv1.RegisterChatServiceServer(srv, server.NewChatServer(logger, chatService))
	})

	s.WithRegistry("Advertise the chat service", func(ctx context.Context, registry *grpcclient.DiscoveryClient) {
		port := listener.Addr().(*net.TCPAddr).Port
		_, err := registry.Advertise(ctx, s.Config.ServiceName, "127.0.0.1", port)
		s.Require().NoError(err)
	})
}

// GrpcConn initializes a gRPC connection with logging, colors, and JSON debugging
func (s *BaseGrpcSuite) GrpcConn(t *testing.T, name string, addr string) *grpc.ClientConn {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)

	conn, err := grpcclient.Dial(addr,
		grpc.WithUnaryInterceptor(func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
			start := time.Now()
			err := invoker(ctx, method, req, reply, cc, opts...)

			logBuilder := strings.Builder{}
			fmt.Fprintf(&logBuilder, "GRPC %s [%s] in %v", method, status.Code(err), time.Since(start))

			// Log full JSON request/response bodies if E2E_DEBUG_JSON is enabled
			if s.Config.DebugJSON {
				fmt.Fprintln(&logBuilder, "\nREQUEST:")
				fmt.Fprintln(&logBuilder, indent(req))
				if err != nil {
					fmt.Fprintln(&logBuilder, "ERROR:", err)
				} else {
					fmt.Fprintln(&logBuilder, "RESPONSE:")
					fmt.Fprintln(&logBuilder, indent(reply))
				}
			}
			t.Log(logBuilder.String())
			return err
		}),
	)
	s.Require().NoError(err, "Failed to connect to gRPC server at "+addr)
	return conn
}

func indent(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}

// WithRegistry provides a discovery client within a contextual test step
func (s *BaseGrpcSuite) WithRegistry(name string, fn func(ctx context.Context, registry *grpcclient.DiscoveryClient)) {
	conn := s.GrpcConn(s.T(), name, s.registryAddr)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), s.Config.CallTimeout)
	defer cancel()

	fn(ctx, grpcclient.NewDiscoveryClient(conn))
}

// WithChat resolves the chat service through the registry and provides a raw client
func (s *BaseGrpcSuite) WithChat(name string, fn func(ctx context.Context, client chatv1.ChatServiceClient)) {
	var addr string
	s.WithRegistry("Resolve "+s.Config.ServiceName, func(ctx context.Context, registry *grpcclient.DiscoveryClient) {
		var err error
		addr, err = registry.Resolve(ctx, s.Config.ServiceName)
		s.Require().NoError(err)
	})

	conn := s.GrpcConn(s.T(), name, addr)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), s.Config.CallTimeout)
	defer cancel()

	fn(ctx, chatv1.NewChatServiceClient(conn))
}
