package services

import (
	"chat-rooms/errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"
)

type IDiscoveryService interface {
	Register(serviceName, host string, port int) error
	Lookup(serviceName string) (Endpoint, error)
}

// Endpoint is the network location advertised for a service name.
type Endpoint struct {
	Host string `validate:"required,hostname_rfc1123|ip"`
	Port int    `validate:"min=1,max=65535"`
}

func (e Endpoint) Address() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

// DiscoveryService is a static name to address map. There is no TTL, health check or update path.
type DiscoveryService struct {
	mu        sync.Mutex
	endpoints map[string]Endpoint
	validate  *validator.Validate
	log       *slog.Logger
}

func NewDiscoveryService(log *slog.Logger) *DiscoveryService {
	return &DiscoveryService{
		endpoints: make(map[string]Endpoint),
		validate:  validator.New(),
		log:       log,
	}
}

func (d *DiscoveryService) Register(serviceName, host string, port int) error {
	endpoint := Endpoint{Host: host, Port: port}
	if serviceName == "" {
		return fmt.Errorf("%w: service name is required", errors.ErrInvalidArgument)
	}
	if err := d.validate.Struct(endpoint); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidArgument, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.endpoints[serviceName]; ok {
		d.log.Warn("Service already registered", "service", serviceName)
		return fmt.Errorf("%w: %s", errors.ErrServiceAlreadyRegistered, serviceName)
	}
	d.endpoints[serviceName] = endpoint
	d.log.Info("Service registered", "service", serviceName, "address", endpoint.Address())
	return nil
}

func (d *DiscoveryService) Lookup(serviceName string) (Endpoint, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	endpoint, ok := d.endpoints[serviceName]
	if !ok {
		return Endpoint{}, fmt.Errorf("%w: %s", errors.ErrServiceNotFound, serviceName)
	}
	return endpoint, nil
}
