package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/tripwire/internal/config"
	"github.com/oshokin/tripwire/internal/service/checker"
	"github.com/oshokin/tripwire/internal/service/client"
	"github.com/oshokin/tripwire/internal/version"
)

// exitCodeAlert is returned when --exit-on-alert stops the checker.
const exitCodeAlert = 2

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// pollInterval between two state requests.
	pollInterval time.Duration
	// exitOnAlert stops polling once the sensor is in alert.
	exitOnAlert bool

	// rootCmd represents the base command for polling sensor state.
	rootCmd = &cobra.Command{
		Use:   "tripwire-checker [server-address]",
		Short: "Watch a tripwire sensor and report alarm transitions.",
		Long: `Polls a running tripwire-sentry and logs every alarm transition it sees.

Uses timeout and server settings from configuration file.
Server address can be provided as argument or loaded from configuration file.
With --exit-on-alert the checker exits with status 2 as soon as the sensor is in
alert, which makes it usable from scripts.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use server address argument if provided, otherwise rely on config.
			var serverAddress string
			if len(args) > 0 {
				serverAddress = args[0]
			}

			checkerOptions := &checker.Options{
				ConfigPath:    configPath,
				ServerAddress: serverAddress,
				PollInterval:  pollInterval,
				ExitOnAlert:   exitOnAlert,
			}

			return checker.Run(ctx, checkerOptions)
		},
	}

	// statusCmd prints the current snapshot and the event journal once.
	statusCmd = &cobra.Command{
		Use:   "status [server-address]",
		Short: "Print the sensor state and recent events once.",
		Long: `Connects to the sentry, retrying every second until it answers, and prints the
current snapshot followed by the recent alarm notifications.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var serverAddress string
			if len(args) > 0 {
				serverAddress = args[0]
			}

			return client.Run(ctx, &client.Options{
				ConfigPath:    configPath,
				ServerAddress: serverAddress,
				Output:        cmd.OutOrStdout(),
			})
		},
	}
)

// Execute runs the tripwire-checker CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	err := rootCmd.Execute()

	switch {
	case err == nil:
		return
	case errors.Is(err, checker.ErrAlertDetected):
		os.Exit(exitCodeAlert)
	default:
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		DurationVarP(&pollInterval, "interval", "i", checker.DefaultPollInterval, "interval between state requests")
	rootCmd.Flags().BoolVar(&exitOnAlert, "exit-on-alert", false, "exit with status 2 once the sensor is in alert")

	rootCmd.AddCommand(statusCmd)
}
