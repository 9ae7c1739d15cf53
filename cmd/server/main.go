package main

import (
	chatv1 "chat-rooms/api/chatv1"
	grpcclient "chat-rooms/infrastructure/grpc/client"
	"chat-rooms/infrastructure/grpc/server"
	"chat-rooms/internal"
	"chat-rooms/repositories"
	"chat-rooms/runtime/workers"
	"chat-rooms/services"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	grpc3 "github.com/mama165/sdk-go/grpc"
	"github.com/mama165/sdk-go/logs"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Chat server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires storage, the chat service, its workers and the gRPC server,
// then blocks until a signal arrives or a component fails.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.ServerConfig
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database (BadgerDB) holding the username ledger
	db, err := badger.Open(buildBadgerOpts(ctx, config, logger))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	ledger := repositories.NewLedgerRepository(db, logger)
	chatService := services.NewChatService(logger, ledger,
		config.IdleThreshold, config.HistoryLimit, config.MaxContentLength)

	if config.DebugPort != 0 {
		handler := internal.NewDebugHandler(db, "/inspect", repositories.LedgerPrefix, LedgerMapper,
			func() map[string]any { return statsView(chatService.Stats()) })
		internal.StartDebugServer(ctx, logger, config.DebugPort, handler)
	}

	// 3. gRPC Server Setup
	address := net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	s := grpc.NewServer(grpc.ChainUnaryInterceptor(grpc3.UnaryLoggingInterceptor(logger)))
	chatv1.RegisterChatServiceServer(s, server.NewChatServer(logger, chatService))

	// 4. Advertise to the registry. The service is not served unless the registry accepted it.
	if err := advertise(ctx, config, logger, port); err != nil {
		_ = listener.Close()
		return exitRuntime, err
	}

	// 5. Workers & Serve
	sup := workers.NewSupervisor(logger, config.RestartInterval).
		Add(workers.NewReclaimWorker(logger, chatService, config.ReclaimInterval),
			workers.NewStatsWorker(logger, chatService, config.StatsInterval))

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sup.Run(gCtx)
		return nil
	})
	g.Go(func() error {
		logger.Info("Starting gRPC server", "address", listener.Addr().String(), "at", time.Now().UTC())
		for serviceName := range s.GetServiceInfo() {
			logger.Debug("gRPC exposed services", "name", serviceName)
		}
		if err := s.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down gracefully...")
		s.GracefulStop()
		sup.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		return exitRuntime, err
	}
	logger.Info("Program stopped cleanly")
	return exitOK, nil
}

func advertise(ctx context.Context, config internal.ServerConfig, logger *slog.Logger, port int) error {
	conn, err := grpcclient.Dial(config.RegistryAddr)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithTimeout(ctx, config.RegistryTimeout)
	defer cancel()

	message, err := grpcclient.NewDiscoveryClient(conn).Advertise(ctx, config.ServiceName, config.Advertised(), port)
	if err != nil {
		return fmt.Errorf("could not advertise %s to %s: %w", config.ServiceName, config.RegistryAddr, err)
	}
	logger.Info("Advertised to registry", "service", config.ServiceName,
		"host", config.Advertised(), "port", port, "registry", config.RegistryAddr, "message", message)
	return nil
}

func buildBadgerOpts(ctx context.Context, config internal.ServerConfig, logger *slog.Logger) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if logger.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG)
	}
	return options.WithLoggingLevel(badger.WARNING)
}

// LedgerMapper renders a ledger entry for the debug inspector.
func LedgerMapper(key string, val []byte) internal.InspectRow {
	row := internal.DefaultMapper(key, val)
	var ts timestamppb.Timestamp
	if err := proto.Unmarshal(val, &ts); err != nil {
		row.Detail = "Error: unmarshal failed"
		return row
	}
	row.Type = "USER"
	row.Timestamp = ts.AsTime().Format(time.TimeOnly)
	row.Detail = key[len(repositories.LedgerPrefix):]
	return row
}

func statsView(stats services.Stats) map[string]any {
	return map[string]any{
		"Users":          stats.Users,
		"Users in rooms": stats.UsersInRooms,
		"Rooms":          stats.Rooms,
		"Idle rooms":     stats.IdleRooms,
		"Messages":       stats.Messages,
		"Collected at":   stats.CollectedAt.Format(time.RFC3339),
	}
}
