package infra

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/trymirror/scanflow/internal/domain"
)

// imageExtensions lists the gallery file types offered for the fallback.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// DirGalleryPicker implements domain.GalleryPicker over a gallery directory.
// Picking selects the most recently modified image; an empty directory means
// the user has nothing to pick and counts as cancellation.
type DirGalleryPicker struct {
	dir string
}

// NewDirGalleryPicker creates a picker over the given directory.
func NewDirGalleryPicker(dir string) *DirGalleryPicker {
	return &DirGalleryPicker{dir: dir}
}

// Pick returns the newest image in the gallery, or (nil, nil) when there is
// none to select.
func (p *DirGalleryPicker) Pick(ctx context.Context) (*domain.ImageRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(p.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var newest *domain.ImageRef
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == nil || info.ModTime().After(newest.ModifiedAt) {
			newest = &domain.ImageRef{
				Path:       filepath.Join(p.dir, entry.Name()),
				SizeBytes:  info.Size(),
				ModifiedAt: info.ModTime(),
			}
		}
	}

	return newest, nil
}

// Ensure DirGalleryPicker implements domain.GalleryPicker.
var _ domain.GalleryPicker = (*DirGalleryPicker)(nil)
