// Package syncdb persists the per-item state observed at the end of the
// last successful sync. The synchronizer compares this state against the
// local directory and the remote listing to tell edits apart from
// deletions on either side.
//
// The database is a single JSON file. It is loaded fully into memory and
// written back atomically (temp file + rename), so a crash mid-save never
// leaves a truncated database behind.
package syncdb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const formatVersion = 1

// Record captures the observed state of one synced item as of the last
// successful transfer. Path is the item key relative to the sync roots.
// ModTime is the local file's mtime and RemoteTime the remote object's;
// the synchronizer detects a side as changed when its current time no
// longer equals the recorded one.
type Record struct {
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	ModTime    time.Time `json:"modTime"`
	RemoteTime time.Time `json:"remoteTime"`
	SyncTime   time.Time `json:"syncTime"`
}

type fileFormat struct {
	Version int      `json:"version"`
	Records []Record `json:"records"`
}

// DB is an in-memory view of the sync-state database bound to its backing
// file. It is not safe for concurrent use.
type DB struct {
	path    string
	records map[string]Record
}

// Open loads the database at path. A missing file yields an empty
// database; Save will create it.
func Open(path string) (*DB, error) {
	db := &DB{
		path:    path,
		records: make(map[string]Record),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return db, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading sync database: %w", err)
	}
	if len(data) == 0 {
		return db, nil
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error parsing sync database: %w", err)
	}
	if f.Version > formatVersion {
		return nil, fmt.Errorf("sync database version %d is newer than supported version %d", f.Version, formatVersion)
	}

	for _, rec := range f.Records {
		db.records[rec.Path] = rec
	}

	return db, nil
}

// Path returns the backing file path.
func (db *DB) Path() string {
	return db.path
}

// Len returns the number of records.
func (db *DB) Len() int {
	return len(db.records)
}

// Record returns the record for path, reporting whether one exists.
func (db *DB) Record(path string) (Record, bool) {
	rec, ok := db.records[path]
	return rec, ok
}

// SetRecord inserts or replaces the record keyed by rec.Path.
func (db *DB) SetRecord(rec Record) {
	db.records[rec.Path] = rec
}

// DeleteRecord removes the record for path. Removing an absent record is
// not an error.
func (db *DB) DeleteRecord(path string) {
	delete(db.records, path)
}

// Records returns all records sorted by path.
func (db *DB) Records() []Record {
	recs := make([]Record, 0, len(db.records))
	for _, rec := range db.records {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Path < recs[j].Path })
	return recs
}

// Save writes the database back to its file. The write goes to a temp
// file in the same directory which is then renamed over the target.
func (db *DB) Save() error {
	f := fileFormat{
		Version: formatVersion,
		Records: db.Records(),
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding sync database: %w", err)
	}

	dir := filepath.Dir(db.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating sync database directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(db.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("error creating temp sync database: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("error writing sync database: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error writing sync database: %w", err)
	}
	if err := os.Rename(tmpName, db.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error replacing sync database: %w", err)
	}

	return nil
}
