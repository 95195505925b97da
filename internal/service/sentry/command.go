package sentry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"

	api "github.com/oshokin/tripwire/internal/api/grpc/sensor"
	"github.com/oshokin/tripwire/internal/config"
	"github.com/oshokin/tripwire/internal/geometry"
	"github.com/oshokin/tripwire/internal/logger"
	repository "github.com/oshokin/tripwire/internal/repository/state"
	"github.com/oshokin/tripwire/internal/scene"
	"github.com/oshokin/tripwire/internal/sensor"
	"github.com/oshokin/tripwire/internal/version"
)

// Options controls the sentry process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// StateFile overrides the snapshot JSON path from the config.
	StateFile string
	// SceneFile overrides the scene YAML path from the config.
	SceneFile string
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the sensor loop and the gRPC server and blocks until ctx is canceled.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "tripwire-sentry")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if level, ok := logger.ParseLogLevel(settings.LogLevel); ok {
		logger.SetLevel(level)
	}

	stateFile := settings.StateFile
	if opts.StateFile != "" {
		stateFile = opts.StateFile
	}

	sceneFile := settings.SceneFile
	if opts.SceneFile != "" {
		sceneFile = opts.SceneFile
	}

	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	world, err := scene.Load(sceneFile)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}

	ctx = logger.WithKV(ctx, "sensor_id", settings.Sensor.ID)

	target := sensor.ResolveTarget(ctx, world, settings.Sensor.TargetPath, settings.Sensor.TargetName)

	detectorOptions, err := settings.Sensor.DetectorOptions(target)
	if err != nil {
		return fmt.Errorf("sensor options: %w", err)
	}

	detector, err := sensor.NewDetector(world, detectorOptions)
	if err != nil {
		return fmt.Errorf("create detector: %w", err)
	}

	svc, err := newService(ctx, settings.Sensor.ID, repository.NewFileRepository(stateFile), settings.EventJournalSize)
	if err != nil {
		return fmt.Errorf("initialise service: %w", err)
	}

	detector.Subscribe(sensor.LogListener{})
	detector.Subscribe(svc)

	loop := &tickLoop{
		world:    world,
		detector: detector,
		service:  svc,
		pose:     settings.Sensor.Pose(),
		interval: settings.TickInterval(),
	}

	// Publish a first snapshot before accepting calls.
	loop.step(ctx)

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer()
	api.RegisterSensorServiceServer(grpcServer, api.NewServer(svc))

	logger.InfoKV(ctx, "Sentry listening",
		"listen_address", listenAddress,
		"scene_file", sceneFile,
		"state_file", stateFile,
		"target", target,
		"tick_interval", loop.interval.String(),
		"version", version.Short())

	if err := serve(ctx, grpcServer, lis, loop); err != nil {
		return err
	}

	logger.Info(ctx, "Sentry stopped")

	return nil
}

// serve runs the tick loop and the gRPC server until ctx is canceled or the
// server fails. Both are stopped before it returns.
func serve(ctx context.Context, grpcServer *grpc.Server, lis net.Listener, loop *tickLoop) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	wg.Go(func() {
		loop.run(ctx)
	})

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		grpcServer.GracefulStop()
		close(done)
	}()

	serveErr := grpcServer.Serve(lis)

	cancel()
	<-done
	wg.Wait()

	if serveErr != nil && !errors.Is(serveErr, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", serveErr)
	}

	return nil
}

// tickLoop drives the scene and the detector at a fixed step.
type tickLoop struct {
	world    *scene.Scene
	detector *sensor.Detector
	service  *service
	pose     geometry.Pose
	interval time.Duration
}

// run ticks until ctx is canceled. Every tick uses the nominal interval as
// its delta, so late ticks do not distort the simulation.
func (l *tickLoop) run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.step(ctx)
		}
	}
}

// step advances the scene and runs one detector tick.
func (l *tickLoop) step(ctx context.Context) {
	l.world.Step(l.interval)
	frame := l.detector.Tick(ctx, l.pose, l.interval)
	l.service.observe(ctx, &frame)
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
// Returns appropriate listen address (e.g., ":8080" for port-only binding).
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Return port-only listen address to bind on all interfaces.
	return ":" + port, nil
}
