package scanner

import (
	"database/sql"
	"path/filepath"
	"strings"
	"sync"

	"foodscanner/database"
	"foodscanner/gallery"
	"foodscanner/imageprocessor"
	"foodscanner/logging"
	"foodscanner/signalhandler"
	"foodscanner/types"
)

// IndexOptions configures a gallery index rebuild.
type IndexOptions struct {
	GalleryDir string
	MaxWorkers int
}

// BuildIndexEntry computes the index metadata for one stored gallery image:
// canonical dimensions, descriptor count, average hash and best-effort EXIF
// fields.
func BuildIndexEntry(label, path string) (types.IndexEntry, error) {
	img, err := imageprocessor.LoadNormalized(path)
	if err != nil {
		return types.IndexEntry{}, err
	}
	defer img.Close()

	_, desc := imageprocessor.ExtractFeatures(img)
	defer desc.Close()

	hash, err := imageprocessor.ComputeAverageHash(img)
	if err != nil {
		return types.IndexEntry{}, err
	}

	md := gallery.ReadMetadata(path)

	return types.IndexEntry{
		Label:           label,
		Path:            path,
		Format:          strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		Width:           img.Cols(),
		Height:          img.Rows(),
		DescriptorCount: desc.Rows(),
		AverageHash:     hash,
		CameraModel:     md.CameraModel,
		CapturedAt:      md.CapturedAt,
	}, nil
}

// RebuildIndex re-derives index metadata for every gallery entry on a
// bounded worker pool and atomically replaces the index contents. Entries
// that cannot be processed are dropped from the index and counted as
// errors; they do not abort the rebuild.
func RebuildIndex(db *sql.DB, opts IndexOptions) (*types.IndexStats, error) {
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = signalhandler.GetOptimalProcs()
	}

	entries, err := gallery.List(opts.GalleryDir)
	if err != nil {
		return nil, err
	}

	tracker := newProgressTracker(len(entries))
	tracker.start()
	defer tracker.stop()

	var (
		wg      sync.WaitGroup
		mutex   sync.Mutex
		indexed []types.IndexEntry
	)
	semaphore := make(chan struct{}, opts.MaxWorkers)

	for _, entry := range entries {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(entry types.GalleryEntry) {
			defer wg.Done()
			defer func() { <-semaphore }()

			row, err := BuildIndexEntry(entry.Label, entry.Path)
			if err != nil {
				logging.LogWarning("Index rebuild skipping %s: %v", entry.Path, err)
				tracker.recordError()
				return
			}

			mutex.Lock()
			indexed = append(indexed, row)
			mutex.Unlock()
			tracker.recordProcessed()
		}(entry)
	}

	wg.Wait()

	if err := database.ReplaceAll(db, indexed); err != nil {
		return nil, err
	}

	return database.GetIndexStats(db)
}
