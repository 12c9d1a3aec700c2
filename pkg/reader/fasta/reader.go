// Package fasta reads protein databases in FASTA format
package fasta

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/protein"
)

// Read parses every record of a FASTA stream. Sequences are upper-cased
// and records with an empty sequence are dropped.
func Read(r io.Reader) ([]protein.Protein, error) {
	template := linear.NewSeq("", nil, alphabet.Protein)
	scanner := seqio.NewScanner(fasta.NewReader(r, template))

	var proteins []protein.Protein
	for scanner.Next() {
		s, ok := scanner.Seq().(*linear.Seq)
		if !ok {
			return nil, fmt.Errorf("unexpected sequence type %T", scanner.Seq())
		}
		sequence := strings.ToUpper(s.Seq.String())
		if sequence == "" {
			continue
		}
		proteins = append(proteins, protein.Protein{ID: s.Name(), Sequence: sequence})
	}
	if err := scanner.Error(); err != nil {
		return nil, fmt.Errorf("failed to read FASTA: %w", err)
	}
	return proteins, nil
}

// ReadFile parses a FASTA file
func ReadFile(path string) ([]protein.Protein, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FASTA file: %w", err)
	}
	defer f.Close()

	proteins, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return proteins, nil
}
