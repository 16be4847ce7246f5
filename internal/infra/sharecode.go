package infra

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// defaultShareCodeSize is the PNG edge length in pixels.
const defaultShareCodeSize = 256

// WriteShareCode renders a product share URL as a QR code PNG.
func WriteShareCode(url, path string) error {
	if err := qrcode.WriteFile(url, qrcode.Medium, defaultShareCodeSize, path); err != nil {
		return fmt.Errorf("failed to write share code: %w", err)
	}
	return nil
}

// ShareCodeString renders a product share URL as a terminal-printable QR code.
func ShareCodeString(url string) (string, error) {
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to build share code: %w", err)
	}
	return q.ToSmallString(false), nil
}
