package domain

import "errors"

// Sentinel errors for the acquisition workflow. All of them are recovered at
// the controller boundary into a status value; none propagate to the shell.
var (
	// ErrDeviceBusy means the scanner device could not be acquired because
	// another session holds it (hardware busy).
	ErrDeviceBusy = errors.New("scanner device busy")

	// ErrDecodeUnsupported means a gallery image was selected but no
	// image-based decoder is wired up.
	ErrDecodeUnsupported = errors.New("image decoding not supported")

	// ErrSessionClosed means an operation was attempted on a stopped session.
	// Sessions are non-restartable: a new session must be created instead.
	ErrSessionClosed = errors.New("scan session closed")
)
