package db

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrStaleWrite indicates the database file changed on disk after it was
// loaded; writing back would clobber someone else's edit.
var ErrStaleWrite = errors.New("database changed on disk since load")

// Load reads and decodes the database at path. The content hash of the bytes
// read is retained so a later Save can detect concurrent edits.
func Load(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read database")
	}

	var database Database
	if err := yaml.Unmarshal(data, &database); err != nil {
		return nil, errors.Wrapf(err, "failed to parse database %s", path)
	}

	database.path = path
	database.loadedSum = checksum(data)
	return &database, nil
}

// Path returns the file the database was loaded from, if any.
func (d *Database) Path() string {
	return d.path
}

// Save writes the database back to the file it was loaded from. The write is
// refused with ErrStaleWrite when the on-disk content no longer matches the
// loaded snapshot.
func (d *Database) Save() error {
	if d.path == "" {
		return errors.New("database was not loaded from a file; use SaveTo")
	}

	current, err := os.ReadFile(d.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to re-read database before save")
	}
	if err == nil && d.loadedSum != "" && checksum(current) != d.loadedSum {
		return errors.Wrap(ErrStaleWrite, d.path)
	}

	return d.writeAtomic(d.path)
}

// SaveTo writes the database to a different path without the stale-write
// check.
func (d *Database) SaveTo(path string) error {
	return d.writeAtomic(path)
}

// writeAtomic marshals the document and replaces the target via a temp file
// rename in the same directory, so readers never observe a partial write.
func (d *Database) writeAtomic(path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return errors.Wrap(err, "failed to marshal database")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".instrio-db-*.yaml")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to write database")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close temp file")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Wrap(err, "failed to replace database")
	}

	d.path = path
	d.loadedSum = checksum(data)
	return nil
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
