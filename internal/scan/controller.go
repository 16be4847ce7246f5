package scan

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/trymirror/scanflow/internal/classify"
	"github.com/trymirror/scanflow/internal/domain"
)

// statusBuffer bounds the updates channel consumed by the rendering adapter.
const statusBuffer = 16

// Controller orchestrates the acquisition workflow into one observable
// status state machine:
//
//	Initializing -> {PermissionDenied | Unavailable | Active}
//	Active -> Detected (transient, re-enterable on every detection)
//	Initializing/Active -> ImageProcessing (gallery fallback, terminal)
//
// Every failure is recovered into a status value at this boundary; nothing
// propagates to the screen shell and nothing is retried automatically.
type Controller struct {
	gate    *PermissionGate
	session *Session
	picker  domain.GalleryPicker
	logger  *zap.Logger

	mu      sync.Mutex
	status  domain.ScanStatus
	updates chan domain.ScanStatus
}

// NewController wires the gate, session, and gallery picker together.
func NewController(
	gate *PermissionGate,
	session *Session,
	picker domain.GalleryPicker,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		gate:    gate,
		session: session,
		picker:  picker,
		logger:  logger,
		status:  domain.ScanStatus{Kind: domain.StatusInitializing},
		updates: make(chan domain.ScanStatus, statusBuffer),
	}
}

// Run drives the workflow until the stream ends or ctx is canceled.
// The session is released on every exit path, including cancellation while
// a suspension point (permission prompt, device acquisition) is pending.
func (c *Controller) Run(ctx context.Context) error {
	defer c.session.Stop()

	c.setStatus(domain.ScanStatus{Kind: domain.StatusInitializing})

	state, err := c.gate.Request(ctx)
	if err != nil {
		// Screen torn down while the prompt was pending.
		return err
	}

	if state == domain.PermissionDenied {
		c.setStatus(domain.ScanStatus{Kind: domain.StatusPermissionDenied})
		c.logger.Info("camera permission denied, session will not start")
		return nil
	}

	detections, err := c.session.Start(ctx)
	if err != nil {
		c.setStatus(domain.ScanStatus{Kind: domain.StatusUnavailable})
		c.logger.Warn("scanner device unavailable", zap.Error(err))
		return nil
	}

	c.setStatus(domain.ScanStatus{Kind: domain.StatusActive})
	c.logger.Info("scan session active", zap.String("session_id", c.session.ID()))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case d, ok := <-detections:
			if !ok {
				c.logger.Info("detection stream closed")
				return nil
			}
			c.handleDetection(d)
		}
	}
}

// handleDetection classifies the payload and re-emits a Detected status.
// Repeats of the same code are not suppressed: every event re-triggers
// classification and a status update.
func (c *Controller) handleDetection(d domain.Detection) {
	// Detected is re-enterable without leaving Active; once the gallery
	// fallback was taken, detections no longer move the status.
	c.setStatusIf(domain.ScanStatus{
		Kind:           domain.StatusDetected,
		Classification: classify.Classify(d.Payload),
		Payload:        d.Payload,
	}, domain.StatusActive, domain.StatusDetected)
}

// PickFromGallery runs the gallery-fallback path: the user selects an image
// instead of scanning live. On selection the status becomes ImageProcessing.
// No image-based decoder is wired up, so the status deliberately stays there
// and the scanner device is left untouched.
func (c *Controller) PickFromGallery(ctx context.Context) error {
	switch c.Status().Kind {
	case domain.StatusPermissionDenied, domain.StatusUnavailable, domain.StatusImageProcessing:
		// No transition defined from these states.
		return nil
	}

	ref, err := c.picker.Pick(ctx)
	if err != nil {
		return err
	}
	if ref == nil {
		// User cancelled; status unchanged.
		return nil
	}

	// The workflow may have reached a terminal state while the pick was
	// pending (e.g. the permission prompt resolved to Denied), so the
	// transition is re-validated and applied as one step.
	applied := c.setStatusIf(domain.ScanStatus{Kind: domain.StatusImageProcessing},
		domain.StatusInitializing, domain.StatusActive, domain.StatusDetected)
	if !applied {
		c.logger.Info("gallery selection discarded, session no longer accepts it",
			zap.String("image", ref.Path))
		return nil
	}

	c.logger.Warn("gallery image selected but decoding is not wired up",
		zap.String("image", ref.Path),
		zap.Error(domain.ErrDecodeUnsupported))
	return nil
}

// Close tears the workflow down. Safe to call multiple times and while Run
// is blocked on a suspension point.
func (c *Controller) Close() {
	c.session.Stop()
}

// Status returns the single current status value.
func (c *Controller) Status() domain.ScanStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Updates returns the stream of status changes for the rendering adapter.
// The channel is buffered; when the adapter falls behind, the oldest update
// is dropped in favor of the newest (the UI only renders the current value).
func (c *Controller) Updates() <-chan domain.ScanStatus {
	return c.updates
}

func (c *Controller) setStatus(s domain.ScanStatus) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()

	c.publish(s)
}

// setStatusIf applies the transition only when the current status kind is one
// of from. The check and the write are a single step under the mutex, so a
// transition cannot be applied against a stale precondition.
func (c *Controller) setStatusIf(s domain.ScanStatus, from ...domain.StatusKind) bool {
	c.mu.Lock()
	allowed := false
	for _, k := range from {
		if c.status.Kind == k {
			allowed = true
			break
		}
	}
	if !allowed {
		c.mu.Unlock()
		return false
	}
	c.status = s
	c.mu.Unlock()

	c.publish(s)
	return true
}

func (c *Controller) publish(s domain.ScanStatus) {
	for {
		select {
		case c.updates <- s:
			return
		default:
			// Buffer full: drop the oldest update and retry.
			select {
			case <-c.updates:
			default:
			}
		}
	}
}
