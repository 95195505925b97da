package checker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/tripwire/internal/config"
	domain "github.com/oshokin/tripwire/internal/domain/alarm"
	"github.com/oshokin/tripwire/internal/logger"
	"github.com/oshokin/tripwire/internal/service/common"
)

// Options controls the checker polling behavior and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ServerAddress provides an optional gRPC server address override.
	ServerAddress string
	// PollInterval defines the interval between sensor state checks.
	PollInterval time.Duration
	// Timeout overrides the per-RPC timeout from the config.
	Timeout time.Duration
	// ExitOnAlert stops polling with ErrAlertDetected once the sensor is in alert.
	ExitOnAlert bool
}

// DefaultPollInterval defines the default polling interval for sensor state checks.
const DefaultPollInterval = time.Second

// ErrAlertDetected is returned by Run when ExitOnAlert is set and the sensor is in alert.
var ErrAlertDetected = errors.New("sensor in alert")

// stateReader is the part of the gRPC client the checker needs.
type stateReader interface {
	GetSensorState(ctx context.Context) (*domain.Snapshot, error)
}

// Run polls the sensor state and logs every alarm transition it observes.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "tripwire-checker")

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	timeout := cfg.Timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	// Command line argument overrides config.
	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	operator, err := common.DetectOperator()
	if err != nil {
		return fmt.Errorf("detect operator: %w", err)
	}

	ctx = logger.WithKV(ctx, "operator", operator)

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(timeout))
	if err != nil {
		return fmt.Errorf("dial server: %w", err)
	}

	defer func() {
		_ = client.Close()
	}()

	logger.InfoKV(ctx, "Polling sensor state", "server_address", serverAddress, "interval", pollInterval.String())

	w := new(watcher)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		case <-ticker.C:
			alert, err := w.check(ctx, client)
			if err != nil {
				logger.ErrorKV(ctx, "Check state failed", "error", err)
				continue
			}

			if alert && opts.ExitOnAlert {
				return ErrAlertDetected
			}
		}
	}
}

// watcher remembers the last observed state so that only edges are reported.
type watcher struct {
	// seen is false until the first successful poll.
	seen bool
	// last is the state from the previous successful poll.
	last domain.State
}

// check polls reader once and reports whether the sensor is in alert.
func (w *watcher) check(ctx context.Context, reader stateReader) (bool, error) {
	snapshot, err := reader.GetSensorState(ctx)
	if err != nil {
		return false, err
	}

	if w.seen && snapshot.State == w.last {
		logger.DebugKV(ctx, "Sensor state unchanged", "state", snapshot.State, "tick", snapshot.Tick)
		return snapshot.IsAlert(), nil
	}

	kv := []any{
		"sensor_id", snapshot.SensorID,
		"state", snapshot.State,
		"tick", snapshot.Tick,
		"at", snapshot.Timestamp.Format(time.RFC3339),
	}

	switch {
	case snapshot.IsAlert():
		if snapshot.LastTrigger != nil {
			kv = append(kv, "object", snapshot.LastTrigger.Object, "target", snapshot.LastTrigger.Target)
		}

		logger.WarnKV(ctx, "Sensor in alert", kv...)
	case w.seen:
		logger.InfoKV(ctx, "Sensor back to idle", kv...)
	default:
		logger.InfoKV(ctx, "Sensor idle", kv...)
	}

	w.seen = true
	w.last = snapshot.State

	return snapshot.IsAlert(), nil
}
