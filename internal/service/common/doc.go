// Package common holds helpers shared by several services.
//
// It provides a lightweight gRPC client for the sensor service with call
// timeouts, and a helper that identifies the local operator (user@host) for
// log lines.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
