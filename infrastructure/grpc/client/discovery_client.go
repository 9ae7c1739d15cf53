package client

import (
	pb "chat-rooms/api/discoveryv1"
	"chat-rooms/errors"
	"context"
	"fmt"
	"net"
	"strconv"

	"google.golang.org/grpc"
)

// DiscoveryClient talks to the discovery registry.
type DiscoveryClient struct {
	client pb.RegistryClient
}

func NewDiscoveryClient(conn grpc.ClientConnInterface) *DiscoveryClient {
	return &DiscoveryClient{client: pb.NewRegistryClient(conn)}
}

// Advertise registers serviceName at host:port and returns the registry's message.
func (d *DiscoveryClient) Advertise(ctx context.Context, serviceName, host string, port int) (string, error) {
	resp, err := d.client.Register(ctx, &pb.RegisterRequest{ServiceName: serviceName, Host: host, Port: port})
	if err != nil {
		return "", fmt.Errorf("registry unreachable: %w", err)
	}
	if !resp.Success {
		return resp.Message, fmt.Errorf("registration refused: %s", resp.Message)
	}
	return resp.Message, nil
}

// Resolve returns the host:port advertised for serviceName.
func (d *DiscoveryClient) Resolve(ctx context.Context, serviceName string) (string, error) {
	resp, err := d.client.Lookup(ctx, &pb.LookupRequest{ServiceName: serviceName})
	if err != nil {
		return "", fmt.Errorf("registry unreachable: %w", err)
	}
	if !resp.Success {
		return "", fmt.Errorf("%w: %s", errors.ErrServiceNotFound, resp.Message)
	}
	return net.JoinHostPort(resp.Host, strconv.Itoa(resp.Port)), nil
}
