package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/tripwire/internal/config"
	"github.com/oshokin/tripwire/internal/service/simulate"
	"github.com/oshokin/tripwire/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// sceneFile overrides the scene from the config.
	sceneFile string
	// ticks to simulate.
	ticks int
	// step is the fixed tick duration; zero uses the config tick rate.
	step time.Duration
	// every prints one frame out of every N.
	every int
	// logLevel for alarm notifications during the run.
	logLevel string

	// rootCmd represents the base command for offline simulation.
	rootCmd = &cobra.Command{
		Use:   "tripwire-sim",
		Short: "Simulate a tripwire sensor against a scene and print a report.",
		Long: `Runs the sensor offline for a fixed number of ticks against a scene file.

Every tick moves patrolling scene nodes by the same step and re-casts the beam, so
the report is reproducible. Each printed frame shows the alarm state in the beam
color, the beam endpoint, the blocking object and the flash intensity.
Frames with alarm notifications are always printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			_, err := simulate.Run(ctx, &simulate.Options{
				ConfigPath: configPath,
				SceneFile:  sceneFile,
				Ticks:      ticks,
				Step:       step,
				Every:      every,
				LogLevel:   logLevel,
				Output:     cmd.OutOrStdout(),
			})

			return err
		},
	}
)

// Execute runs the tripwire-sim CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVar(&sceneFile, "scene", "", "path to the scene file (overrides config)")
	rootCmd.Flags().IntVarP(&ticks, "ticks", "n", simulate.DefaultTicks, "number of ticks to simulate")
	rootCmd.Flags().DurationVar(&step, "step", 0, "tick duration (defaults to 1/tick_rate)")
	rootCmd.Flags().IntVar(&every, "every", 1, "print one frame out of every N")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "error", "log level for alarm notifications")
}
