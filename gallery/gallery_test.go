package gallery

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"foodscanner/imageprocessor"
)

func writeTexturedImage(t *testing.T, path string, w, h, seed int) {
	t.Helper()

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(40, 40, 40, 0), h, w, gocv.MatTypeCV8UC3)
	defer img.Close()

	colors := []color.RGBA{
		{R: 230, G: 40, B: 40, A: 255},
		{R: 40, G: 230, B: 40, A: 255},
		{R: 40, G: 40, B: 230, A: 255},
	}

	step := w / 8
	for i := 0; i < 24; i++ {
		x := (i*37 + seed*19) % (w - step)
		y := (i*53 + seed*31) % (h - step/2 - 6)
		gocv.Rectangle(&img, image.Rect(x, y, x+step, y+step/2+4), colors[(i+seed)%len(colors)], -1)
	}

	require.True(t, gocv.IMWrite(path, img), "failed to write fixture %s", path)
}

func TestStorageFilename(t *testing.T) {
	assert.Equal(t, "red_apple.jpg", StorageFilename("Red Apple"))
	assert.Equal(t, "banana.jpg", StorageFilename("banana"))
	assert.Equal(t, "green_thai_curry.jpg", StorageFilename("  Green Thai Curry "))
}

func TestDisplayLabel(t *testing.T) {
	assert.Equal(t, "Red Apple", DisplayLabel("red_apple"))
	assert.Equal(t, "Banana", DisplayLabel("banana"))
	assert.Equal(t, "Green Thai Curry", DisplayLabel("green_thai_curry"))
}

func TestSaveLabeledStoresCanonicalImage(t *testing.T) {
	srcDir := t.TempDir()
	galleryDir := filepath.Join(t.TempDir(), "gallery")

	src := filepath.Join(srcDir, "upload.png")
	writeTexturedImage(t, src, 640, 480, 1)

	storedPath, err := SaveLabeled(src, "Red Apple", galleryDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(galleryDir, "red_apple.jpg"), storedPath)

	stored := gocv.IMRead(storedPath, gocv.IMReadColor)
	defer stored.Close()
	require.False(t, stored.Empty())
	assert.Equal(t, imageprocessor.CanonicalWidth, stored.Cols())
	assert.Equal(t, imageprocessor.CanonicalHeight, stored.Rows())
}

func TestSaveLabeledOverwritesSameLabel(t *testing.T) {
	srcDir := t.TempDir()
	galleryDir := filepath.Join(t.TempDir(), "gallery")

	first := filepath.Join(srcDir, "first.png")
	second := filepath.Join(srcDir, "second.png")
	writeTexturedImage(t, first, 224, 224, 1)
	writeTexturedImage(t, second, 224, 224, 2)

	_, err := SaveLabeled(first, "Red Apple", galleryDir)
	require.NoError(t, err)
	_, err = SaveLabeled(second, "Red Apple", galleryDir)
	require.NoError(t, err)

	files, err := os.ReadDir(galleryDir)
	require.NoError(t, err)
	// Same label means same derived filename: one file, last writer wins,
	// and no temp files left behind
	require.Len(t, files, 1)
	assert.Equal(t, "red_apple.jpg", files[0].Name())
}

func TestSaveLabeledUndecodableSource(t *testing.T) {
	srcDir := t.TempDir()
	galleryDir := filepath.Join(t.TempDir(), "gallery")

	src := filepath.Join(srcDir, "garbage.png")
	require.NoError(t, os.WriteFile(src, []byte("not an image"), 0o644))

	_, err := SaveLabeled(src, "Red Apple", galleryDir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageWrite)

	// Failure must leave nothing behind
	files, err := os.ReadDir(galleryDir)
	if err == nil {
		assert.Empty(t, files)
	}
}

func TestSaveLabeledEmptyLabel(t *testing.T) {
	src := filepath.Join(t.TempDir(), "upload.png")
	writeTexturedImage(t, src, 224, 224, 1)

	_, err := SaveLabeled(src, "   ", t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageWrite)
}

func TestListFiltersToImages(t *testing.T) {
	dir := t.TempDir()

	writeTexturedImage(t, filepath.Join(dir, "red_apple.jpg"), 224, 224, 1)
	writeTexturedImage(t, filepath.Join(dir, "banana.png"), 224, 224, 2)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.jpg"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	entries, err := List(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byLabel := map[string]string{}
	for _, e := range entries {
		byLabel[e.Label] = e.Display
	}
	assert.Equal(t, "Banana", byLabel["banana"])
	assert.Equal(t, "Red Apple", byLabel["red_apple"])
}

func TestListMissingDirectoryIsEmptyGallery(t *testing.T) {
	entries, err := List(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
