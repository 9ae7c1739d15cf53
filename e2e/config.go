package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_REGISTRY_ADDR targets an already running deployment. When empty the suite
	// starts a registry and a chat server in-process on loopback ports.
	RegistryAddr string `envconfig:"E2E_REGISTRY_ADDR"`
	ServiceName  string `envconfig:"E2E_SERVICE_NAME" default:"ChatService"`
	// E2E_DEBUG_JSON allows dumping full gRPC request/response bodies as JSON
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours         bool          `envconfig:"E2E_COLOURS" default:"true"`
	IdleThreshold   time.Duration `envconfig:"E2E_ROOM_IDLE_THRESHOLD" default:"300ms"`
	ReclaimInterval time.Duration `envconfig:"E2E_RECLAIM_INTERVAL" default:"50ms"`
	CallTimeout     time.Duration `envconfig:"E2E_CALL_TIMEOUT" default:"10s"`
}

// InProcess reports whether the suite owns the servers it talks to.
func (c Config) InProcess() bool {
	return c.RegistryAddr == ""
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
