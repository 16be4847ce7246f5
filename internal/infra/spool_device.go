package infra

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/trymirror/scanflow/internal/domain"
)

const (
	// deviceLockName marks the spool directory as held by one session.
	deviceLockName = ".scanflow.lock"

	// spoolSettleDelay lets the writer finish before the payload is read.
	spoolSettleDelay = 20 * time.Millisecond

	detectionBuffer = 32
)

// SpoolDevice implements domain.ScannerDevice over a spool directory.
// The opaque scanning capability drops one file per decoded code; each file's
// contents is emitted as one detection, in arrival order, with no
// deduplication. The lock file enforces single-session ownership.
type SpoolDevice struct {
	dir    string
	lock   *deviceLock
	logger *zap.Logger

	mu         sync.Mutex
	acquired   bool
	released   bool
	fsw        *fsnotify.Watcher
	detections chan domain.Detection
	closing    chan struct{}
	wg         sync.WaitGroup
}

// NewSpoolDevice creates a device over the given spool directory.
func NewSpoolDevice(dir string, pm domain.ProcessManager, logger *zap.Logger) *SpoolDevice {
	return &SpoolDevice{
		dir:    dir,
		lock:   newDeviceLock(filepath.Join(dir, deviceLockName), pm),
		logger: logger,
	}
}

// Acquire takes exclusive ownership of the spool directory and starts the
// watch loop. Fails with domain.ErrDeviceBusy when another live session
// holds the lock.
func (d *SpoolDevice) Acquire(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.acquired || d.released {
		return fmt.Errorf("spool device already used: %w", domain.ErrDeviceBusy)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0700); err != nil {
		return fmt.Errorf("failed to create spool directory: %w", err)
	}

	if err := d.lock.acquire(); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		_ = d.lock.release()
		return fmt.Errorf("failed to create spool watcher: %w", err)
	}
	if err := fsw.Add(d.dir); err != nil {
		fsw.Close()
		_ = d.lock.release()
		return fmt.Errorf("failed to watch spool directory: %w", err)
	}

	d.fsw = fsw
	d.detections = make(chan domain.Detection, detectionBuffer)
	d.closing = make(chan struct{})
	d.acquired = true

	d.wg.Add(1)
	go d.loop(fsw, d.detections)

	d.logger.Info("spool device acquired", zap.String("dir", d.dir))
	return nil
}

// Detections returns the stream of decoded payloads. Valid after a
// successful Acquire; closed by Release.
func (d *SpoolDevice) Detections() <-chan domain.Detection {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.detections
}

// Release closes the watcher, drains the loop, and drops the lock.
// Idempotent: releasing twice is a no-op.
func (d *SpoolDevice) Release() error {
	d.mu.Lock()
	if d.released {
		d.mu.Unlock()
		return nil
	}
	d.released = true
	acquired := d.acquired
	fsw := d.fsw
	detections := d.detections
	closing := d.closing
	d.mu.Unlock()

	if !acquired {
		return nil
	}

	close(closing)
	fsw.Close()
	d.wg.Wait()
	close(detections)

	if err := d.lock.release(); err != nil {
		return fmt.Errorf("failed to release device lock: %w", err)
	}

	d.logger.Info("spool device released", zap.String("dir", d.dir))
	return nil
}

func (d *SpoolDevice) loop(fsw *fsnotify.Watcher, detections chan domain.Detection) {
	defer d.wg.Done()

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			d.consume(event.Name, detections)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			d.logger.Warn("spool watcher error", zap.Error(err))
		}
	}
}

// consume reads one spool file, emits its contents, and removes it.
func (d *SpoolDevice) consume(path string, detections chan domain.Detection) {
	time.Sleep(spoolSettleDelay)

	data, err := os.ReadFile(path)
	if err != nil {
		d.logger.Warn("failed to read spool file",
			zap.String("path", path),
			zap.Error(err))
		return
	}
	if err := os.Remove(path); err != nil {
		d.logger.Warn("failed to remove spool file",
			zap.String("path", path),
			zap.Error(err))
	}

	payload := strings.TrimRight(string(data), "\r\n")
	select {
	case detections <- domain.Detection{Payload: payload, DetectedAt: time.Now()}:
	case <-d.closing:
		// Teardown in flight; the consumer is gone.
	}
}

// Ensure SpoolDevice implements domain.ScannerDevice.
var _ domain.ScannerDevice = (*SpoolDevice)(nil)
