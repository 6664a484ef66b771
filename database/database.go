package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"foodscanner/types"
)

// InitDatabase opens the gallery index database and ensures its schema.
// The index holds derived metadata only; the gallery directory remains the
// source of truth for which entries exist.
func InitDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS gallery_entries (
		label TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		format TEXT,
		width INTEGER,
		height INTEGER,
		descriptor_count INTEGER,
		average_hash TEXT,
		camera_model TEXT,
		captured_at TEXT,
		labeled_at TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_average_hash ON gallery_entries(average_hash);`

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create gallery index schema: %v", err)
	}

	return db, nil
}

// UpsertEntry stores the index row for one labeled entry, replacing any
// prior row with the same label. Mirrors the writer's overwrite semantics.
func UpsertEntry(db *sql.DB, entry types.IndexEntry) error {
	stmt, err := db.Prepare(`
		INSERT OR REPLACE INTO gallery_entries (
			label, path, format, width, height, descriptor_count,
			average_hash, camera_model, captured_at, labeled_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("cannot prepare statement for %s: %v", entry.Label, err)
	}
	defer stmt.Close()

	labeledAt := entry.LabeledAt
	if labeledAt == "" {
		labeledAt = time.Now().Format(time.RFC3339)
	}

	_, err = stmt.Exec(
		entry.Label,
		entry.Path,
		entry.Format,
		entry.Width,
		entry.Height,
		entry.DescriptorCount,
		entry.AverageHash,
		entry.CameraModel,
		entry.CapturedAt,
		labeledAt,
	)
	if err != nil {
		return fmt.Errorf("cannot store index entry for %s: %v", entry.Label, err)
	}

	return nil
}

// ReplaceAll atomically replaces the whole index with the given entries.
// Used by the index rebuild so a failed rebuild leaves the old index intact.
func ReplaceAll(db *sql.DB, entries []types.IndexEntry) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("cannot begin index transaction: %v", err)
	}

	if _, err := tx.Exec("DELETE FROM gallery_entries"); err != nil {
		tx.Rollback()
		return fmt.Errorf("cannot clear gallery index: %v", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO gallery_entries (
			label, path, format, width, height, descriptor_count,
			average_hash, camera_model, captured_at, labeled_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("cannot prepare index insert: %v", err)
	}
	defer stmt.Close()

	now := time.Now().Format(time.RFC3339)
	for _, entry := range entries {
		labeledAt := entry.LabeledAt
		if labeledAt == "" {
			labeledAt = now
		}
		_, err := stmt.Exec(
			entry.Label,
			entry.Path,
			entry.Format,
			entry.Width,
			entry.Height,
			entry.DescriptorCount,
			entry.AverageHash,
			entry.CameraModel,
			entry.CapturedAt,
			labeledAt,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("cannot insert index entry for %s: %v", entry.Label, err)
		}
	}

	return tx.Commit()
}

// ListEntries returns all index rows ordered by label.
func ListEntries(db *sql.DB) ([]types.IndexEntry, error) {
	rows, err := db.Query(`
		SELECT label, path, format, width, height, descriptor_count,
		       average_hash, camera_model, captured_at, labeled_at
		FROM gallery_entries ORDER BY label
	`)
	if err != nil {
		return nil, fmt.Errorf("cannot query gallery index: %v", err)
	}
	defer rows.Close()

	var entries []types.IndexEntry
	for rows.Next() {
		var e types.IndexEntry
		err := rows.Scan(
			&e.Label, &e.Path, &e.Format, &e.Width, &e.Height,
			&e.DescriptorCount, &e.AverageHash, &e.CameraModel,
			&e.CapturedAt, &e.LabeledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("cannot scan index row: %v", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// GetIndexStats retrieves summary statistics about the gallery index.
func GetIndexStats(db *sql.DB) (*types.IndexStats, error) {
	var stats types.IndexStats

	err := db.QueryRow("SELECT COUNT(*) FROM gallery_entries").Scan(&stats.TotalEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to count index entries: %v", err)
	}

	err = db.QueryRow("SELECT COUNT(DISTINCT average_hash) FROM gallery_entries").Scan(&stats.UniqueHashes)
	if err != nil {
		return nil, fmt.Errorf("failed to count unique hashes: %v", err)
	}

	err = db.QueryRow("SELECT COUNT(*) FROM gallery_entries WHERE descriptor_count = 0").Scan(&stats.EmptyFeatures)
	if err != nil {
		return nil, fmt.Errorf("failed to count featureless entries: %v", err)
	}

	return &stats, nil
}
