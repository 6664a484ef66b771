package gallery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"foodscanner/types"
)

// IsImageFile reports whether a lowercase file extension is one of the
// formats stored in the gallery.
func IsImageFile(ext string) bool {
	return ext == ".jpg" || ext == ".jpeg" || ext == ".png"
}

// DisplayLabel converts a storage label to its display form: underscores
// become spaces, words are title-cased.
func DisplayLabel(storageLabel string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(storageLabel, "_", " "))
}

// List enumerates the gallery directory and returns one entry per stored
// image, in directory order. A missing directory is an empty gallery, not
// an error; dotfiles (including in-flight temp writes) are ignored.
func List(dir string) ([]types.GalleryEntry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read gallery directory %s: %w", dir, err)
	}

	var entries []types.GalleryEntry
	for _, e := range dirEntries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !IsImageFile(strings.ToLower(filepath.Ext(name))) {
			continue
		}

		label := strings.TrimSuffix(name, filepath.Ext(name))
		entries = append(entries, types.GalleryEntry{
			Label:    label,
			Display:  DisplayLabel(label),
			Filename: name,
			Path:     filepath.Join(dir, name),
		})
	}

	return entries, nil
}
