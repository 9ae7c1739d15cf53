package server

import (
	pb "chat-rooms/api/discoveryv1"
	"chat-rooms/errors"
	"chat-rooms/services"
	"context"
	"fmt"
)

type RegistryServer struct {
	discovery services.IDiscoveryService
}

func NewRegistryServer(discovery services.IDiscoveryService) *RegistryServer {
	return &RegistryServer{discovery: discovery}
}

func (s *RegistryServer) Register(_ context.Context, req *pb.RegisterRequest) (*pb.RegisterResponse, error) {
	if err := s.discovery.Register(req.ServiceName, req.Host, req.Port); err != nil {
		return &pb.RegisterResponse{Success: false, Message: errors.Message(err)}, nil
	}
	return &pb.RegisterResponse{
		Success: true,
		Message: fmt.Sprintf("Service '%s' registered at %s:%d.", req.ServiceName, req.Host, req.Port),
	}, nil
}

func (s *RegistryServer) Lookup(_ context.Context, req *pb.LookupRequest) (*pb.LookupResponse, error) {
	endpoint, err := s.discovery.Lookup(req.ServiceName)
	if err != nil {
		return &pb.LookupResponse{Success: false, Message: errors.Message(err)}, nil
	}
	return &pb.LookupResponse{Success: true, Host: endpoint.Host, Port: endpoint.Port}, nil
}
