package scan

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trymirror/scanflow/internal/domain"
)

// Session owns the live scanner device and the beam animation for the
// bounded lifetime of one scan. Both resources are acquired together on
// Start and released together on Stop, exactly once per session, on every
// exit path. Sessions are non-restartable.
type Session struct {
	id     string
	device domain.ScannerDevice
	beam   *Beam
	logger *zap.Logger

	mu      sync.Mutex
	started bool
	stopped bool
}

// NewSession creates a session around the given scanner device.
func NewSession(device domain.ScannerDevice, logger *zap.Logger) *Session {
	return &Session{
		id:     uuid.NewString(),
		device: device,
		beam:   NewBeam(DefaultBeamCycle),
		logger: logger,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Beam returns the beam animator, for progress rendering.
func (s *Session) Beam() *Beam {
	return s.beam
}

// Start acquires the scanner device, starts the beam animation, and returns
// the lazy, infinite stream of detections for the lifetime of the session.
// The stream applies no deduplication or rate limiting. Returns an error
// wrapping domain.ErrDeviceBusy when the device cannot be acquired.
func (s *Session) Start(ctx context.Context) (<-chan domain.Detection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil, domain.ErrSessionClosed
	}
	if s.started {
		return nil, fmt.Errorf("session %s already started: %w", s.id, domain.ErrSessionClosed)
	}

	if err := s.device.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("failed to acquire scanner device: %w", err)
	}
	s.beam.Start()
	s.started = true

	s.logger.Info("scan session started", zap.String("session_id", s.id))
	return s.device.Detections(), nil
}

// Stop releases the scanner device and the beam animation together.
// Idempotent: it runs the release exactly once no matter how often it is
// called or how the session ended (detection, denial, screen dismissal).
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true

	if !s.started {
		// Nothing was acquired; mark closed so Start can no longer run.
		return
	}

	s.beam.Stop()
	if err := s.device.Release(); err != nil {
		s.logger.Warn("failed to release scanner device",
			zap.String("session_id", s.id),
			zap.Error(err))
	}

	s.logger.Info("scan session stopped", zap.String("session_id", s.id))
}
