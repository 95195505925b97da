// Package client implements the one-shot `status` command.
//
// The command connects to a sentry, waits until it answers, and prints the
// current sensor snapshot followed by the recent event journal.
package client
