// Package csv writes identifications as comma-separated reports
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/analysis"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
)

// Header is the first row of every report
var Header = []string{"scan#", "peptide", "site", "glycan", "score"}

// Writer writes one row per distinct (scan, site, peptide, glycan)
type Writer struct {
	w    *csv.Writer
	seen map[string]bool
	rows int
}

// NewWriter writes the header row to out
func NewWriter(out io.Writer) (*Writer, error) {
	w := &Writer{w: csv.NewWriter(out), seen: make(map[string]bool)}
	if err := w.w.Write(Header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return w, nil
}

// WriteResult writes a result unless an identical row was already written
func (w *Writer) WriteResult(r analysis.SearchResult) error {
	peptide := core.Interpret(r.Peptide)
	key := fmt.Sprintf("%d|%d|%s|%s", r.Scan, r.ModifySite, peptide, r.GlycanName)
	if w.seen[key] {
		return nil
	}
	w.seen[key] = true

	row := []string{
		strconv.Itoa(r.Scan),
		peptide,
		strconv.Itoa(r.ModifySite),
		r.GlycanName,
		strconv.FormatFloat(core.RoundFloat(r.Score, 6), 'f', -1, 64),
	}
	if err := w.w.Write(row); err != nil {
		return fmt.Errorf("failed to write scan %d: %w", r.Scan, err)
	}
	w.rows++
	return nil
}

// Rows returns the number of data rows written
func (w *Writer) Rows() int {
	return w.rows
}

// Flush writes any buffered rows
func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}

// WriteFile writes a complete report to path
func WriteFile(path string, results []analysis.SearchResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	w, err := NewWriter(f)
	if err != nil {
		f.Close()
		return err
	}
	for _, r := range results {
		if err := w.WriteResult(r); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
