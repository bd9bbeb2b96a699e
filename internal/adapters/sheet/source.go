// Package sheet loads the raw score grid from a CSV export.
package sheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Source yields the raw sheet as rows of cells.
type Source interface {
	Fetch(ctx context.Context) ([][]string, error)
}

// parseCSV reads a ragged CSV grid. Rows may have different widths.
func parseCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	grid, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return grid, nil
}

// FileSource reads the sheet from a local CSV file.
type FileSource struct {
	path string
}

// NewFileSource returns a source reading path on every fetch.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch opens and parses the file.
func (s *FileSource) Fetch(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer f.Close()
	return parseCSV(f)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([][]string, error)

// Fetch calls f.
func (f SourceFunc) Fetch(ctx context.Context) ([][]string, error) { return f(ctx) }
