// Package discoveryv1 declares the wire surface of the discovery registry.
package discoveryv1

import (
	"chat-rooms/api/unary"
	"context"

	"google.golang.org/grpc"
)

type RegisterRequest struct {
	ServiceName string `json:"service_name"`
	Host        string `json:"host"`
	Port        int    `json:"port"`
}

type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type LookupRequest struct {
	ServiceName string `json:"service_name"`
}

type LookupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Host    string `json:"host,omitempty"`
	Port    int    `json:"port,omitempty"`
}

const ServiceName = "discovery.v1.Registry"

const (
	Registry_Register_FullMethodName = "/discovery.v1.Registry/Register"
	Registry_Lookup_FullMethodName   = "/discovery.v1.Registry/Lookup"
)

type RegistryServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Lookup(context.Context, *LookupRequest) (*LookupResponse, error)
}

var Registry_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RegistryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary.Handler(Registry_Register_FullMethodName, RegistryServer.Register)},
		{MethodName: "Lookup", Handler: unary.Handler(Registry_Lookup_FullMethodName, RegistryServer.Lookup)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "discovery/v1/registry",
}

func RegisterRegistryServer(s grpc.ServiceRegistrar, srv RegistryServer) {
	s.RegisterService(&Registry_ServiceDesc, srv)
}

type RegistryClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Lookup(ctx context.Context, in *LookupRequest, opts ...grpc.CallOption) (*LookupResponse, error)
}

type registryClient struct {
	cc grpc.ClientConnInterface
}

func NewRegistryClient(cc grpc.ClientConnInterface) RegistryClient {
	return &registryClient{cc: cc}
}

func (c *registryClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return unary.Invoke[RegisterResponse](ctx, c.cc, Registry_Register_FullMethodName, in, opts...)
}

func (c *registryClient) Lookup(ctx context.Context, in *LookupRequest, opts ...grpc.CallOption) (*LookupResponse, error) {
	return unary.Invoke[LookupResponse](ctx, c.cc, Registry_Lookup_FullMethodName, in, opts...)
}
