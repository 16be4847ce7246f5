// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// PermissionState tracks camera-access authorization for one session.
type PermissionState string

const (
	PermissionUnrequested PermissionState = "unrequested"
	PermissionGranted     PermissionState = "granted"
	PermissionDenied      PermissionState = "denied"
)

// Classification categorizes a detected payload. Derived per payload,
// never cached beyond the current status.
type Classification string

const (
	ClassificationURL       Classification = "url"
	ClassificationPlainText Classification = "text"
)

// StatusKind identifies the current phase of the acquisition workflow.
type StatusKind string

const (
	StatusInitializing     StatusKind = "initializing"
	StatusPermissionDenied StatusKind = "permission_denied"
	StatusUnavailable      StatusKind = "unavailable"
	StatusActive           StatusKind = "active"
	StatusImageProcessing  StatusKind = "image_processing"
	StatusDetected         StatusKind = "detected"
)

// ScanStatus is the single observable state value the UI renders.
// Classification and Payload are only meaningful when Kind is StatusDetected.
type ScanStatus struct {
	Kind           StatusKind
	Classification Classification
	Payload        string
}

// Message returns the human-readable status string for rendering.
func (s ScanStatus) Message() string {
	switch s.Kind {
	case StatusInitializing:
		return "Requesting camera access..."
	case StatusPermissionDenied:
		return "Camera access denied. Enable camera permission to scan codes."
	case StatusUnavailable:
		return "Camera unavailable. Another session may be using it."
	case StatusActive:
		return "Scanning... point the camera at a code"
	case StatusImageProcessing:
		return "Processing image..."
	case StatusDetected:
		if s.Classification == ClassificationURL {
			return fmt.Sprintf("Link detected: %s", s.Payload)
		}
		return fmt.Sprintf("Code detected: %s", s.Payload)
	default:
		return string(s.Kind)
	}
}

// Detection is one decoded payload emitted by the scanning capability.
// Payloads may be empty and are never deduplicated: every detection event,
// even a repeat of the same code, re-triggers classification.
type Detection struct {
	Payload    string
	DetectedAt time.Time
}

// ImageRef points at a gallery image selected as the scan fallback.
type ImageRef struct {
	Path       string
	SizeBytes  int64
	ModifiedAt time.Time
}

// Product is one catalog entry of the storefront.
// The catalog is read-only; prices are in the store currency.
type Product struct {
	ID       string
	Name     string
	Price    float64
	ImageRef string
}

// ShareURL returns the public link encoded into the product's share code.
func (p Product) ShareURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/p/" + p.ID
}

// Favorite is one persisted favorites entry.
type Favorite struct {
	ProductID string
	Name      string
	Price     float64
	AddedAt   time.Time
}
