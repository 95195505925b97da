// Package version exposes build metadata for the tripwire binaries.
//
// Version, Commit and BuildTime are injected with -ldflags -X at build time.
// Short is logged by the sentry on startup; Full backs the `version` subcommand.
package version
