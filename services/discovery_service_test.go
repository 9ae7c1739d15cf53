package services

import (
	"chat-rooms/errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscoveryService(t *testing.T) {
	t.Run("should register and look up a service", func(t *testing.T) {
		req := require.New(t)
		svc := NewDiscoveryService(slog.Default())

		req.NoError(svc.Register("ChatService", "localhost", 8001))
		endpoint, err := svc.Lookup("ChatService")

		req.NoError(err)
		req.Equal(Endpoint{Host: "localhost", Port: 8001}, endpoint)
		req.Equal("localhost:8001", endpoint.Address())
	})

	t.Run("should refuse a second registration under the same name", func(t *testing.T) {
		req := require.New(t)
		svc := NewDiscoveryService(slog.Default())
		req.NoError(svc.Register("ChatService", "localhost", 8001))

		err := svc.Register("ChatService", "10.0.0.2", 9000)

		req.ErrorIs(err, errors.ErrServiceAlreadyRegistered)
		endpoint, err := svc.Lookup("ChatService")
		req.NoError(err)
		req.Equal(8001, endpoint.Port)
	})

	t.Run("should report an unknown service", func(t *testing.T) {
		_, err := NewDiscoveryService(slog.Default()).Lookup("Nope")

		require.ErrorIs(t, err, errors.ErrServiceNotFound)
	})

	t.Run("should reject an invalid endpoint", func(t *testing.T) {
		req := require.New(t)
		svc := NewDiscoveryService(slog.Default())

		req.ErrorIs(svc.Register("ChatService", "", 8001), errors.ErrInvalidArgument)
		req.ErrorIs(svc.Register("ChatService", "localhost", 0), errors.ErrInvalidArgument)
		req.ErrorIs(svc.Register("", "localhost", 8001), errors.ErrInvalidArgument)
	})
}
