package sentry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domain "github.com/oshokin/tripwire/internal/domain/alarm"
	"github.com/oshokin/tripwire/internal/logger"
	repo "github.com/oshokin/tripwire/internal/repository/state"
	"github.com/oshokin/tripwire/internal/sensor"
)

// service publishes what the detector computes to concurrent readers and
// persists alarm transitions. The tick loop is its only writer.
type service struct {
	// repo handles persistent storage of the snapshot.
	repo repo.Repository
	// sensorID is stamped on every snapshot.
	sensorID string
	// now returns the wall clock; replaced in tests.
	now func() time.Time

	// mu protects every field below.
	mu             sync.RWMutex
	snapshot       *domain.Snapshot
	journal        *journal
	heartbeats     uint64
	lastTrigger    *domain.Trigger
	lastTransition time.Time
}

// newService creates a service backed by the provided repository.
func newService(ctx context.Context, sensorID string, repository repo.Repository, journalSize int) (*service, error) {
	s := &service{
		repo:     repository,
		sensorID: sensorID,
		now:      time.Now,
		journal:  newJournal(journalSize),
	}

	if repository == nil {
		return s, nil
	}

	previous, err := repository.Load(ctx)
	switch {
	case err == nil:
		if previous != nil {
			logger.InfoKV(ctx, "Previous snapshot found",
				"sensor_id", previous.SensorID, "state", previous.State, "at", previous.Timestamp)

			s.lastTrigger = previous.LastTrigger.Clone()
		}
	case errors.Is(err, repo.ErrNotFound):
		// Fresh start.
	default:
		return nil, fmt.Errorf("load state: %w", err)
	}

	return s, nil
}

// OnEvent records a detector notification. It runs on the tick loop.
func (s *service) OnEvent(_ context.Context, event sensor.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.journal.push(event)

	switch event.Kind {
	case sensor.EventHeartbeat:
		s.heartbeats++
	case sensor.EventAlarmTriggered:
		s.lastTrigger = &domain.Trigger{
			Object: string(event.Object),
			Target: string(event.Target),
		}
		s.lastTransition = s.now()
	case sensor.EventAlarmReset:
		s.lastTransition = s.now()
	}
}

// observe publishes the snapshot for frame and persists it on transitions.
func (s *service) observe(ctx context.Context, frame *sensor.Frame) {
	s.mu.Lock()
	s.snapshot = &domain.Snapshot{
		SensorID:       s.sensorID,
		Timestamp:      s.now(),
		State:          frame.State,
		Tick:           frame.Tick,
		FlashPhase:     frame.FlashPhase,
		FlashIntensity: frame.Signal.FlashIntensity,
		BeamColor:      frame.Signal.BeamColor.Hex(),
		Occluded:       frame.Beam.Occluded,
		EndpointX:      frame.Signal.BeamEndpoint.X,
		EndpointY:      frame.Signal.BeamEndpoint.Y,
		Heartbeats:     s.heartbeats,
		LastTrigger:    s.lastTrigger.Clone(),
		LastTransition: s.lastTransition,
	}
	published := s.snapshot.Clone()
	s.mu.Unlock()

	if !frame.Transitioned || s.repo == nil {
		return
	}

	if err := s.repo.Save(ctx, published); err != nil {
		logger.ErrorKV(ctx, "Failed to persist snapshot", "error", err, "tick", frame.Tick)
	}
}

// Snapshot returns the latest published snapshot, nil before the first tick.
func (s *service) Snapshot(_ context.Context) *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot.Clone()
}

// RecentEvents returns the journal, oldest first.
func (s *service) RecentEvents(_ context.Context) []sensor.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.journal.list()
}
