package gallery

import (
	exiftool "github.com/barasher/go-exiftool"

	"foodscanner/logging"
)

// Metadata carries the EXIF fields recorded in the gallery index.
type Metadata struct {
	CameraModel string
	CapturedAt  string
}

// ReadMetadata extracts EXIF metadata from an image, best effort. Any
// failure (exiftool missing, unreadable file, absent tags) yields zero
// values; metadata must never fail a label or index operation.
func ReadMetadata(path string) Metadata {
	et, err := exiftool.NewExiftool()
	if err != nil {
		logging.LogWarning("exiftool unavailable, skipping metadata for %s: %v", path, err)
		return Metadata{}
	}
	defer et.Close()

	metas := et.ExtractMetadata(path)
	if len(metas) == 0 {
		return Metadata{}
	}
	fm := metas[0]
	if fm.Err != nil {
		logging.DebugLog("metadata extraction failed for %s: %v", path, fm.Err)
		return Metadata{}
	}

	var md Metadata
	if model, err := fm.GetString("Model"); err == nil {
		md.CameraModel = model
	}
	if captured, err := fm.GetString("DateTimeOriginal"); err == nil {
		md.CapturedAt = captured
	}
	return md
}
