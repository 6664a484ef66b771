package gallery

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"foodscanner/imageprocessor"
	"foodscanner/logging"
)

// StoredExtension is the fixed extension every gallery entry is written
// with, regardless of the source format.
const StoredExtension = ".jpg"

// ErrStorageWrite reports that a labeled image could not be persisted.
var ErrStorageWrite = errors.New("gallery write failed")

// pathLocks serializes concurrent writes to the same derived filename so a
// reader never observes a partially-written entry. Last writer wins.
var pathLocks sync.Map

func lockFor(path string) *sync.Mutex {
	v, _ := pathLocks.LoadOrStore(path, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// StorageFilename derives the gallery filename for a label: lowercase,
// spaces replaced with underscores, fixed extension. The label is the
// identity key of a gallery entry, so equal labels map to the same file.
func StorageFilename(label string) string {
	name := strings.ToLower(strings.TrimSpace(label))
	return strings.ReplaceAll(name, " ", "_") + StoredExtension
}

// SaveLabeled decodes the image at sourcePath, resizes it to the canonical
// resolution and stores it in galleryDir under the label-derived filename,
// replacing any prior entry with the same label. The image is written to a
// unique temp file and renamed into place so the final path is either the
// complete image or absent. Returns the stored path.
func SaveLabeled(sourcePath, label, galleryDir string) (string, error) {
	if strings.TrimSpace(label) == "" {
		return "", fmt.Errorf("%w: empty label", ErrStorageWrite)
	}

	src := gocv.IMRead(sourcePath, gocv.IMReadColor)
	if src.Empty() {
		src.Close()
		return "", fmt.Errorf("%w: cannot decode source image %s", ErrStorageWrite, sourcePath)
	}
	defer src.Close()

	// Stored entries use the same canonical size as the comparison
	// pipeline so later scans are apples-to-apples.
	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(src, &resized, image.Point{X: imageprocessor.CanonicalWidth, Y: imageprocessor.CanonicalHeight}, 0, 0, gocv.InterpolationLinear)

	if err := os.MkdirAll(galleryDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: cannot create gallery directory %s: %v", ErrStorageWrite, galleryDir, err)
	}

	storedPath := filepath.Join(galleryDir, StorageFilename(label))

	mu := lockFor(storedPath)
	mu.Lock()
	defer mu.Unlock()

	// Leading dot keeps the temp file out of gallery enumeration; the
	// .jpg suffix tells the encoder which format to write.
	tempPath := filepath.Join(galleryDir, "."+uuid.NewString()+StoredExtension)
	if ok := gocv.IMWrite(tempPath, resized); !ok {
		os.Remove(tempPath)
		return "", fmt.Errorf("%w: cannot encode image to %s", ErrStorageWrite, tempPath)
	}

	if err := os.Rename(tempPath, storedPath); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("%w: cannot move image into place: %v", ErrStorageWrite, err)
	}

	logging.LogInfo("Labeled image stored: %s -> %s", label, storedPath)
	return storedPath, nil
}
