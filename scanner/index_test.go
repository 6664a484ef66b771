package scanner

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodscanner/database"
	"foodscanner/gallery"
	"foodscanner/imageprocessor"
)

func TestBuildIndexEntry(t *testing.T) {
	galleryDir := filepath.Join(t.TempDir(), "gallery")

	source := filepath.Join(t.TempDir(), "upload.png")
	writeTexturedImage(t, source, 640, 480, 1)

	storedPath, err := gallery.SaveLabeled(source, "Red Apple", galleryDir)
	require.NoError(t, err)

	entry, err := BuildIndexEntry("red_apple", storedPath)
	require.NoError(t, err)

	assert.Equal(t, "red_apple", entry.Label)
	assert.Equal(t, storedPath, entry.Path)
	assert.Equal(t, "jpg", entry.Format)
	assert.Equal(t, imageprocessor.CanonicalWidth, entry.Width)
	assert.Equal(t, imageprocessor.CanonicalHeight, entry.Height)
	assert.Greater(t, entry.DescriptorCount, 0)
	assert.Len(t, entry.AverageHash, 64)
}

func TestBuildIndexEntryUndecodable(t *testing.T) {
	_, err := BuildIndexEntry("ghost", filepath.Join(t.TempDir(), "missing.jpg"))
	require.Error(t, err)
	assert.ErrorIs(t, err, imageprocessor.ErrDecode)
}

func TestRebuildIndex(t *testing.T) {
	galleryDir := filepath.Join(t.TempDir(), "gallery")

	source := filepath.Join(t.TempDir(), "upload.png")
	writeTexturedImage(t, source, 224, 224, 1)

	for _, label := range []string{"Red Apple", "Banana"} {
		_, err := gallery.SaveLabeled(source, label, galleryDir)
		require.NoError(t, err)
	}

	db, err := database.InitDatabase(filepath.Join(t.TempDir(), "gallery.db"))
	require.NoError(t, err)
	defer db.Close()

	stats, err := RebuildIndex(db, IndexOptions{GalleryDir: galleryDir})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalEntries)

	entries, err := database.ListEntries(db)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "banana", entries[0].Label)
	assert.Equal(t, "red_apple", entries[1].Label)
}

func TestRebuildIndexEmptyGallery(t *testing.T) {
	db, err := database.InitDatabase(filepath.Join(t.TempDir(), "gallery.db"))
	require.NoError(t, err)
	defer db.Close()

	stats, err := RebuildIndex(db, IndexOptions{GalleryDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalEntries)
}
