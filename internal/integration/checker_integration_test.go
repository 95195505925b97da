package integration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/tripwire/internal/service/checker"
)

// TestChecker_ExitsOnAlert runs the checker against a live sentry whose beam is blocked.
func TestChecker_ExitsOnAlert(t *testing.T) {
	t.Parallel()

	addr := reservePort(t)
	statePath := filepath.Join(t.TempDir(), "state.json")

	stop := startSentry(t, addr, statePath)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := checker.Run(ctx, &checker.Options{
		ConfigPath:   writeSettings(t, addr, statePath),
		PollInterval: 50 * time.Millisecond,
		Timeout:      time.Second,
		ExitOnAlert:  true,
	})
	require.ErrorIs(t, err, checker.ErrAlertDetected)
}

// TestChecker_PollsAndReturnsOnCancel keeps polling until its context is canceled.
func TestChecker_PollsAndReturnsOnCancel(t *testing.T) {
	t.Parallel()

	addr := reservePort(t)
	statePath := filepath.Join(t.TempDir(), "state.json")

	stop := startSentry(t, addr, statePath)
	defer stop()

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- checker.Run(runCtx, &checker.Options{
			ConfigPath:   writeSettings(t, addr, statePath),
			PollInterval: 50 * time.Millisecond,
		})
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()

	require.NoError(t, <-done)
}
