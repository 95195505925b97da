package sensor

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/tripwire/internal/domain/alarm"
	"github.com/oshokin/tripwire/internal/logger"
	core "github.com/oshokin/tripwire/internal/sensor"
	"github.com/oshokin/tripwire/internal/wire"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	Snapshot(ctx context.Context) *domain.Snapshot
	RecentEvents(ctx context.Context) []core.Event
}

// Server implements the SensorService gRPC API.
type Server struct {
	// service provides the published sensor state.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// GetSensorState returns the latest published snapshot.
func (s *Server) GetSensorState(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	snapshot := s.service.Snapshot(ctx)
	if snapshot == nil {
		return nil, status.Error(codes.Unavailable, "sensor has not ticked yet")
	}

	msg, err := wire.SnapshotToStruct(snapshot)
	if err != nil {
		logger.ErrorKV(ctx, "Failed to encode snapshot", "error", err)

		return nil, status.Error(codes.Internal, "unable to encode snapshot")
	}

	return msg, nil
}

// ListEvents returns the recent notifications, oldest first.
func (s *Server) ListEvents(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	list, err := wire.EventsToList(s.service.RecentEvents(ctx))
	if err != nil {
		logger.ErrorKV(ctx, "Failed to encode events", "error", err)

		return nil, status.Error(codes.Internal, "unable to encode events")
	}

	return list, nil
}
