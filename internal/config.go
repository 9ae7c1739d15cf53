package internal

import (
	"fmt"
	"time"
)

// ServerConfig configures the chat coordination service.
type ServerConfig struct {
	Host             string        `env:"HOST,default=localhost"`
	Port             int           `env:"PORT,default=8001"`
	AdvertiseHost    string        `env:"ADVERTISE_HOST"`
	ServiceName      string        `env:"SERVICE_NAME,default=ChatService"`
	RegistryAddr     string        `env:"REGISTRY_ADDR,default=localhost:5000"`
	RegistryTimeout  time.Duration `env:"REGISTRY_TIMEOUT,default=5s"`
	BadgerFilepath   string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel         string        `env:"LOG_LEVEL,default=INFO"`
	ReclaimInterval  time.Duration `env:"RECLAIM_INTERVAL,default=60s"`
	IdleThreshold    time.Duration `env:"ROOM_IDLE_THRESHOLD,default=5m"`
	HistoryLimit     int           `env:"HISTORY_LIMIT,default=50"`
	MaxContentLength int           `env:"MAX_CONTENT_LENGTH,default=2000"`
	StatsInterval    time.Duration `env:"STATS_INTERVAL,default=30s"`
	RestartInterval  time.Duration `env:"RESTART_INTERVAL,default=1s"`
	// DebugPort serves the ledger inspector when non zero.
	DebugPort int `env:"DEBUG_PORT,default=0"`
}

// Advertised returns the host published to the registry, which may differ from the bind host.
func (c ServerConfig) Advertised() string {
	if c.AdvertiseHost != "" {
		return c.AdvertiseHost
	}
	return c.Host
}

func (c ServerConfig) Validate() error {
	if c.ReclaimInterval <= 0 || c.IdleThreshold <= 0 {
		return fmt.Errorf("RECLAIM_INTERVAL and ROOM_IDLE_THRESHOLD must be positive, got %s and %s",
			c.ReclaimInterval, c.IdleThreshold)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	return nil
}

// RegistryConfig configures the discovery registry.
type RegistryConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     int    `env:"PORT,default=5000"`
	LogLevel string `env:"LOG_LEVEL,default=INFO"`
}

// ClientConfig defines the client-side environment variables.
type ClientConfig struct {
	RegistryAddr string        `env:"REGISTRY_ADDR,default=localhost:5000"`
	ServiceName  string        `env:"SERVICE_NAME,default=ChatService"`
	PollInterval time.Duration `env:"POLL_INTERVAL,default=2s"`
	CallTimeout  time.Duration `env:"CALL_TIMEOUT,default=5s"`
	LogLevel     string        `env:"LOG_LEVEL,default=WARN"`
	Colours      bool          `env:"COLOURS,default=true"`
}
