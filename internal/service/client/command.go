package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oshokin/tripwire/internal/config"
	domain "github.com/oshokin/tripwire/internal/domain/alarm"
	"github.com/oshokin/tripwire/internal/logger"
	"github.com/oshokin/tripwire/internal/sensor"
	"github.com/oshokin/tripwire/internal/service/common"
)

// Options configures the status command.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string

	// ServerAddress overrides server address from config when specified.
	ServerAddress string

	// Output receives the status text; stdout when nil.
	Output io.Writer
}

// defaultRetryInterval defines the delay between attempts while the sentry is unreachable.
const defaultRetryInterval = 1 * time.Second

// statusReader is the part of the gRPC client the status command needs.
type statusReader interface {
	GetSensorState(ctx context.Context) (*domain.Snapshot, error)
	ListEvents(ctx context.Context) ([]sensor.Event, error)
}

// Run fetches and prints the sensor status, retrying until success or cancellation.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "tripwire-status")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	// Use server address from options if provided, otherwise use config.
	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	logger.DebugKV(ctx, "Requesting sensor status", "server_address", serverAddress)

	return fetch(ctx, client, out, defaultRetryInterval)
}

// fetch tries once immediately and then every interval until both calls succeed.
func fetch(ctx context.Context, reader statusReader, out io.Writer, interval time.Duration) error {
	// attempt tries once to read the status, returns true when printed.
	attempt := func() bool {
		snapshot, err := reader.GetSensorState(ctx)
		if err != nil {
			logger.ErrorKV(ctx, "GetSensorState failed", "error", err)
			return false
		}

		events, err := reader.ListEvents(ctx)
		if err != nil {
			logger.ErrorKV(ctx, "ListEvents failed", "error", err)
			return false
		}

		writeStatus(out, snapshot, events)

		return true
	}

	if attempt() {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if attempt() {
				return nil
			}
		}
	}
}

// writeStatus prints the snapshot and then the journal, oldest event first.
func writeStatus(out io.Writer, s *domain.Snapshot, events []sensor.Event) {
	_, _ = fmt.Fprintf(out, "sensor %s: %s at tick %d (%s)\n",
		s.SensorID, s.State, s.Tick, s.Timestamp.Format(time.RFC3339))
	_, _ = fmt.Fprintf(out, "  beam: color=%s endpoint=(%.2f, %.2f) occluded=%t\n",
		s.BeamColor, s.EndpointX, s.EndpointY, s.Occluded)

	if s.IsAlert() {
		_, _ = fmt.Fprintf(out, "  flash: phase=%s intensity=%.3f heartbeats=%d\n",
			s.FlashPhase, s.FlashIntensity, s.Heartbeats)
	}

	if s.LastTrigger != nil {
		_, _ = fmt.Fprintf(out, "  last trigger: %s (target %s) at %s\n",
			s.LastTrigger.Object, s.LastTrigger.Target, s.LastTransition.Format(time.RFC3339))
	}

	_, _ = fmt.Fprintf(out, "events (%d):\n", len(events))

	for _, e := range events {
		line := fmt.Sprintf("  #%d %s %s", e.Tick, e.Elapsed, e.Kind)
		if e.Kind == sensor.EventAlarmTriggered {
			line += " object=" + string(e.Object)
		}

		_, _ = fmt.Fprintln(out, line)
	}
}
