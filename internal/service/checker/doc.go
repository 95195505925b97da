// Package checker polls a running tripwire sentry and reports alarm transitions.
package checker
