package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/tripwire/internal/config"
	"github.com/oshokin/tripwire/internal/service/sentry"
	"github.com/oshokin/tripwire/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// stateFile path where the sensor snapshot is persisted.
	stateFile string
	// sceneFile path to the scene YAML file.
	sceneFile string

	// rootCmd represents the base command for running the sensor.
	rootCmd = &cobra.Command{
		Use:   "tripwire-sentry [listen-address]",
		Short: "Run a tripwire sensor and serve its state over gRPC.",
		Long: `Runs a laser tripwire against a scene and serves the sensor state to clients.

The sensor re-casts its beam every tick at the configured tick rate. When the beam
is blocked by the tracked target or any of its children, the alarm is triggered;
it resets as soon as the beam no longer sees the target. While the alarm is active
a heartbeat is logged every heartbeat period.

Only the port from server_addr config is used for listening (e.g., :50051).
Listen address can be provided as argument to override config (e.g., :9090, 0.0.0.0:8080).
The snapshot is written to the state file on every alarm transition.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &sentry.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				StateFile:     stateFile,
				SceneFile:     sceneFile,
			}

			return sentry.Run(ctx, options)
		},
	}
)

// Execute runs the tripwire-sentry CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&stateFile, "state-file", "s", "", "path to persist the sensor snapshot (overrides config)")
	rootCmd.Flags().StringVar(&sceneFile, "scene", "", "path to the scene file (overrides config)")
}
