package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dharmasatrya/fleetdesk/internal/models"
	"github.com/dharmasatrya/fleetdesk/internal/schema"
)

type CSVFile struct {
	path   string
	schema schema.Schema
}

func NewCSVFile(path string, s schema.Schema) *CSVFile {
	return &CSVFile{path: path, schema: s}
}

func (f *CSVFile) Path() string {
	return f.path
}

func (f *CSVFile) LoadAll(ctx context.Context) ([]models.Record, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.Record{}, nil
		}
		return nil, fmt.Errorf("open %s: %w", f.path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []models.Record{}, nil
		}
		return nil, fmt.Errorf("read header of %s: %w", f.path, err)
	}

	records := make([]models.Record, 0)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cells, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			// Keep the row slot; its fields decode as defaults.
			cells = nil
		} else if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.path, err)
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(cells) {
				row[name] = cells[i]
			}
		}
		records = append(records, f.schema.Decode(row))
	}
	return records, nil
}

// SaveAll writes to a temporary file next to the target and renames it over the target.
func (f *CSVFile) SaveAll(ctx context.Context, records []models.Record) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := f.write(ctx, tmp, records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

func (f *CSVFile) write(ctx context.Context, out io.Writer, records []models.Record) error {
	w := csv.NewWriter(out)
	w.UseCRLF = true
	if err := w.Write(f.schema.Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		cells, err := f.schema.Encode(rec)
		if err != nil {
			return err
		}
		if err := w.Write(cells); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func (f *CSVFile) Close() error {
	return nil
}
