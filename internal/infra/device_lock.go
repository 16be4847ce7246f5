package infra

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/trymirror/scanflow/internal/domain"
)

// lockEntry records who holds the scanner device.
// Persisted to a lock file next to the spool directory.
type lockEntry struct {
	PID        int    `json:"pid"`
	Holder     string `json:"holder"`
	AcquiredAt int64  `json:"acquired_at"`
}

// deviceLock enforces exclusive device ownership across processes using a
// lock file. Stale locks (crashed holders) are detected via PID liveness and
// reclaimed; a live holder means the device is busy.
type deviceLock struct {
	path           string
	processManager domain.ProcessManager
}

func newDeviceLock(path string, pm domain.ProcessManager) *deviceLock {
	return &deviceLock{path: path, processManager: pm}
}

// acquire takes the lock. Returns an error wrapping domain.ErrDeviceBusy when
// another live process holds it.
func (l *deviceLock) acquire() error {
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err == nil {
			entry := lockEntry{
				PID:        l.processManager.GetCurrentPID(),
				Holder:     holderName(),
				AcquiredAt: time.Now().Unix(),
			}
			encodeErr := json.NewEncoder(f).Encode(entry)
			closeErr := f.Close()
			if encodeErr != nil {
				os.Remove(l.path)
				return fmt.Errorf("failed to write device lock: %w", encodeErr)
			}
			if closeErr != nil {
				os.Remove(l.path)
				return fmt.Errorf("failed to write device lock: %w", closeErr)
			}
			return nil
		}
		if !os.IsExist(err) {
			return fmt.Errorf("failed to create device lock: %w", err)
		}

		entry, readErr := l.read()
		if readErr != nil || l.isStale(entry) {
			// Unreadable or stale lock from a crashed holder - reclaim it.
			os.Remove(l.path)
			continue
		}

		return fmt.Errorf("device held by pid %d (%s): %w",
			entry.PID, entry.Holder, domain.ErrDeviceBusy)
	}

	return fmt.Errorf("failed to reclaim stale device lock: %w", domain.ErrDeviceBusy)
}

// release drops the lock if this process holds it. Idempotent: a missing
// lock file or a lock held by someone else is a no-op.
func (l *deviceLock) release() error {
	entry, err := l.read()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if entry.PID != l.processManager.GetCurrentPID() {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (l *deviceLock) read() (lockEntry, error) {
	var entry lockEntry
	data, err := os.ReadFile(l.path)
	if err != nil {
		return entry, err
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		return entry, fmt.Errorf("corrupt device lock: %w", err)
	}
	return entry, nil
}

// isStale reports whether the recorded holder is gone. A running PID whose
// process name no longer matches means the PID was recycled.
func (l *deviceLock) isStale(entry lockEntry) bool {
	if !l.processManager.IsRunning(entry.PID) {
		return true
	}
	name, err := l.processManager.NameOf(entry.PID)
	if err != nil {
		return true
	}
	if entry.Holder == "" || name == "" {
		return false
	}
	// The kernel truncates process names, so compare by prefix.
	return !strings.HasPrefix(entry.Holder, name) && !strings.HasPrefix(name, entry.Holder)
}

func holderName() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Base(exe)
}
