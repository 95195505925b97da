//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"

	api "github.com/oshokin/tripwire/internal/api/grpc/sensor"
	"github.com/oshokin/tripwire/internal/config"
	domain "github.com/oshokin/tripwire/internal/domain/alarm"
	"github.com/oshokin/tripwire/internal/sensor"
	"github.com/oshokin/tripwire/internal/wire"
)

// Client wraps the gRPC SensorService client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the sentry.
	conn *grpc.ClientConn
	// api is the SensorService client.
	api *api.SensorServiceClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial establishes a gRPC connection to the sentry.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy until native TLS is added.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial sentry: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         api.NewSensorServiceClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// GetSensorState retrieves the current sensor snapshot.
func (c *Client) GetSensorState(ctx context.Context) (*domain.Snapshot, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.GetSensorState(callCtx, new(emptypb.Empty))
	if err != nil {
		return nil, fmt.Errorf("get sensor state: %w", err)
	}

	snapshot, err := wire.SnapshotFromStruct(resp)
	if err != nil {
		return nil, fmt.Errorf("decode sensor state: %w", err)
	}

	return snapshot, nil
}

// ListEvents retrieves the recent event journal, oldest first.
func (c *Client) ListEvents(ctx context.Context) ([]sensor.Event, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.ListEvents(callCtx, new(emptypb.Empty))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events, err := wire.EventsFromList(resp)
	if err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	return events, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
