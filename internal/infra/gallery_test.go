package infra

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDirGalleryPicker_EmptyGallery verifies an empty gallery counts as cancellation
func TestDirGalleryPicker_EmptyGallery(t *testing.T) {
	picker := NewDirGalleryPicker(t.TempDir())

	ref, err := picker.Pick(context.Background())

	require.NoError(t, err)
	assert.Nil(t, ref)
}

// TestDirGalleryPicker_MissingGallery verifies a missing directory counts as cancellation
func TestDirGalleryPicker_MissingGallery(t *testing.T) {
	picker := NewDirGalleryPicker(filepath.Join(t.TempDir(), "nope"))

	ref, err := picker.Pick(context.Background())

	require.NoError(t, err)
	assert.Nil(t, ref)
}

// TestDirGalleryPicker_PicksNewestImage verifies the most recent image wins
func TestDirGalleryPicker_PicksNewestImage(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "old.png")
	newer := filepath.Join(dir, "new.jpg")
	require.NoError(t, os.WriteFile(older, []byte("img"), 0600))
	require.NoError(t, os.WriteFile(newer, []byte("img2"), 0600))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	picker := NewDirGalleryPicker(dir)
	ref, err := picker.Pick(context.Background())

	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, newer, ref.Path)
	assert.Equal(t, int64(4), ref.SizeBytes)
}

// TestDirGalleryPicker_IgnoresNonImages verifies non-image files are skipped
func TestDirGalleryPicker_IgnoresNonImages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600))

	picker := NewDirGalleryPicker(dir)
	ref, err := picker.Pick(context.Background())

	require.NoError(t, err)
	assert.Nil(t, ref)
}

// TestDirGalleryPicker_CanceledContext verifies teardown aborts the pick
func TestDirGalleryPicker_CanceledContext(t *testing.T) {
	picker := NewDirGalleryPicker(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := picker.Pick(ctx)
	assert.Error(t, err)
}
