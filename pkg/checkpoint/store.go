// Package checkpoint persists the collection cursor: a single non-negative
// integer naming the next unprocessed item index. One file per data source.
//
// The cursor is only ever advanced after a batch has been durably written,
// so a killed run resumes from the last completed batch. Saves are atomic
// (temp file + rename) so a crash mid-save never leaves a torn file.
package checkpoint

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrMalformed indicates the checkpoint file exists but does not contain a
// single base-10 integer. This is fatal rather than treated as 0: silently
// restarting from 0 would re-collect an entire dataset behind the
// operator's back.
var ErrMalformed = errors.New("malformed checkpoint file")

// Store reads and writes one cursor file.
type Store struct {
	path string
}

// NewStore returns a store for the given file path.
// The file does not need to exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the checkpoint file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored cursor. A missing file is a normal first-run
// condition and yields 0. Content that is not a single non-negative integer
// fails with ErrMalformed.
func (s *Store) Load() (int, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read checkpoint %s: %w", s.path, err)
	}

	text := strings.TrimSpace(string(data))
	value, err := strconv.Atoi(text)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: %s contains %q", ErrMalformed, s.path, text)
	}
	return value, nil
}

// Save overwrites the cursor with the given value. The value is written to a
// temp file in the same directory, synced, then renamed over the target so
// readers never observe a partial write.
func (s *Store) Save(value int) error {
	if value < 0 {
		return fmt.Errorf("checkpoint value must be non-negative, got %d", value)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp checkpoint: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := fmt.Fprintf(tmp, "%d\n", value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp checkpoint: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp checkpoint: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename checkpoint into place: %w", err)
	}
	return nil
}

// Reset writes 0, forcing the next run to start from the beginning.
// The output file is not touched; truncation is the caller's decision.
func (s *Store) Reset() error {
	return s.Save(0)
}
