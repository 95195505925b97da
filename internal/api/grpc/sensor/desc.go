package sensor

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully-qualified gRPC service name.
	ServiceName = "tripwire.v1.SensorService"
	// GetSensorStateMethod is the full method name of GetSensorState.
	GetSensorStateMethod = "/" + ServiceName + "/GetSensorState"
	// ListEventsMethod is the full method name of ListEvents.
	ListEventsMethod = "/" + ServiceName + "/ListEvents"
)

// SensorServiceServer is the server API for tripwire.v1.SensorService.
type SensorServiceServer interface {
	GetSensorState(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	ListEvents(ctx context.Context, req *emptypb.Empty) (*structpb.ListValue, error)
}

// ServiceDesc describes tripwire.v1.SensorService for grpc.Server.RegisterService.
//
//nolint:gochecknoglobals // Service descriptors are package-level by gRPC convention.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SensorServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetSensorState",
			Handler:    getSensorStateHandler,
		},
		{
			MethodName: "ListEvents",
			Handler:    listEventsHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tripwire/v1/sensor.proto",
}

// RegisterSensorServiceServer registers srv on s.
func RegisterSensorServiceServer(s grpc.ServiceRegistrar, srv SensorServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func getSensorStateHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(SensorServiceServer).GetSensorState(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetSensorStateMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SensorServiceServer).GetSensorState(ctx, req.(*emptypb.Empty))
	}

	return interceptor(ctx, in, info, handler)
}

func listEventsHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(SensorServiceServer).ListEvents(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ListEventsMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SensorServiceServer).ListEvents(ctx, req.(*emptypb.Empty))
	}

	return interceptor(ctx, in, info, handler)
}

// SensorServiceClient is the client API for tripwire.v1.SensorService.
type SensorServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewSensorServiceClient wraps cc.
func NewSensorServiceClient(cc grpc.ClientConnInterface) *SensorServiceClient {
	return &SensorServiceClient{cc: cc}
}

// GetSensorState returns the current snapshot.
func (c *SensorServiceClient) GetSensorState(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetSensorStateMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// ListEvents returns the recent event journal.
func (c *SensorServiceClient) ListEvents(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, ListEventsMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
