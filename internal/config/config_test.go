package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_MissingFile verifies defaults when no config file exists
func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "https://trymirror.app", cfg.ShareBaseURL)
}

// TestLoad_OverlaysDefaults verifies partial files keep unset defaults
func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("spool_dir: /tmp/spool\n"), 0600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/spool", cfg.SpoolDir)
	assert.Equal(t, Default().GalleryDir, cfg.GalleryDir)
	assert.Equal(t, Default().ShareBaseURL, cfg.ShareBaseURL)
}

// TestLoad_InvalidYAML verifies parse errors surface
func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("spool_dir: [broken\n"), 0600))

	_, err := Load(path)

	assert.Error(t, err)
}
