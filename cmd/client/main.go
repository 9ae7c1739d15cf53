package main

import (
	"bufio"
	"chat-rooms/client"
	grpcclient "chat-rooms/infrastructure/grpc/client"
	"chat-rooms/internal"
	"chat-rooms/runtime/workers"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	_ = godotenv.Load()
	var config internal.ClientConfig
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Resolve the chat service through the registry.
	registryConn, err := grpcclient.Dial(config.RegistryAddr)
	if err != nil {
		return exitRuntime, err
	}
	defer func() { _ = registryConn.Close() }()

	out := client.NewRenderer(os.Stdout, config.Colours)
	agent := client.NewAgent(logger, out, config.CallTimeout)
	if err := agent.Connect(ctx, grpcclient.NewDiscoveryClient(registryConn), config.ServiceName); err != nil {
		return exitRuntime, err
	}
	defer func() { _ = agent.Close() }()

	lines := readLines(ctx)

	// 2. Pick a username.
	for agent.User() == "" {
		fmt.Print("Username: ")
		select {
		case <-ctx.Done():
			return exitOK, nil
		case line, ok := <-lines:
			if !ok {
				return exitOK, nil
			}
			if err := agent.Register(ctx, strings.TrimSpace(line)); err != nil {
				out.Error(err)
			}
		}
	}
	out.Info("%s", client.Help)

	// 3. Poll in the background while reading commands.
	sup := workers.NewSupervisor(logger, config.PollInterval).
		Add(client.NewPollWorker(logger, agent, config.PollInterval))
	pollCtx, cancelPoll := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		sup.Run(pollCtx)
	}()
	defer func() {
		cancelPoll()
		<-done
	}()

	for {
		select {
		case <-ctx.Done():
			return exitOK, nil
		case line, ok := <-lines:
			if !ok {
				return exitOK, nil
			}
			quit, err := agent.Execute(ctx, line)
			if err != nil {
				out.Error(err)
			}
			if quit {
				if agent.Room() != "" {
					_ = agent.Leave(ctx)
				}
				return exitOK, nil
			}
		}
	}
}

// readLines forwards stdin lines until EOF or cancellation.
func readLines(ctx context.Context) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
