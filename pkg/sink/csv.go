// Package sink writes collected records to an append-only CSV file with a
// fixed column schema. The header is written exactly once per dataset; every
// batch append opens, writes, syncs and closes the file so a crash between
// batches always leaves a complete, readable file behind.
package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/steamharvest/steamharvest/pkg/record"
)

// CSV is a schema-on-write CSV sink. Record fields not in the schema are
// dropped; schema columns absent from a record are written blank.
type CSV struct {
	path   string
	schema record.Schema
}

// NewCSV returns a sink for the given file path and column schema.
// The schema is fixed for the lifetime of the sink.
func NewCSV(path string, schema record.Schema) *CSV {
	return &CSV{path: path, schema: schema}
}

// Path returns the output file path.
func (c *CSV) Path() string {
	return c.path
}

// Schema returns the column schema.
func (c *CSV) Schema() record.Schema {
	return c.schema
}

// Init prepares the output file for a run. With cursor 0 it truncates the
// file and writes the header row; with a nonzero cursor it is a no-op, the
// file is assumed to carry a header from the run being resumed.
func (c *CSV) Init(cursor int) error {
	if cursor != 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("create output file %s: %w", c.path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(c.schema); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush header: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}

// Append writes one row per record to the end of the file. The file is
// opened, written, synced and closed within the call; nothing is buffered
// across batches.
func (c *CSV) Append(batch []record.Record) error {
	if len(batch) == 0 {
		return nil
	}

	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open output file %s: %w", c.path, err)
	}

	w := csv.NewWriter(f)
	row := make([]string, len(c.schema))
	for _, rec := range batch {
		for i, column := range c.schema {
			row[i] = rec.Field(column)
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush batch: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}
