package domain

import "context"

// ScannerDevice is the opaque scanning capability. It owns the live camera
// feed and emits already-decoded payloads; no symbology decoding happens on
// this side of the boundary.
type ScannerDevice interface {
	// Acquire takes exclusive ownership of the device.
	// Returns an error wrapping ErrDeviceBusy if another session holds it.
	Acquire(ctx context.Context) error

	// Detections returns the stream of decoded payloads. The channel is
	// valid after a successful Acquire and is closed by Release. Events are
	// delivered in the order the capability emits them.
	Detections() <-chan Detection

	// Release gives the device back. Idempotent: releasing twice is a no-op.
	Release() error
}

// PermissionRequester triggers the platform camera-permission prompt.
// The call may block indefinitely awaiting the user; it aborts when ctx does.
type PermissionRequester interface {
	Request(ctx context.Context) (PermissionState, error)
}

// GalleryPicker selects an image as the scan fallback.
// Pick returns (nil, nil) when the user cancels.
type GalleryPicker interface {
	Pick(ctx context.Context) (*ImageRef, error)
}

// Catalog provides read-only access to the product list.
type Catalog interface {
	// GetAll returns all products in display order.
	GetAll() []Product

	// GetByID returns the product with the given id.
	GetByID(id string) (*Product, error)
}

// FavoritesStore persists the user's favorites. Loaded once at startup;
// the acquisition core never touches it.
type FavoritesStore interface {
	// Add records a product as favorite. Adding twice overwrites.
	Add(p Product) error

	// Remove deletes a favorite by product id.
	Remove(productID string) error

	// List returns all favorites ordered by when they were added.
	List() ([]Favorite, error)

	// Close releases the underlying database connection.
	Close() error
}

// ProcessManager handles OS process queries.
// Implementation: uses gopsutil for cross-platform support.
type ProcessManager interface {
	// IsRunning checks if a PID exists and is running.
	IsRunning(pid int) bool

	// NameOf returns the process name for a PID, or an error if it exited.
	NameOf(pid int) (string, error)

	// GetCurrentPID returns the current process PID.
	GetCurrentPID() int
}
