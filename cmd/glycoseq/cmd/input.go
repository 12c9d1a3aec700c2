package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/reader/mgf"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/reader/mzml"
)

// readSpectra loads every MS/MS scan of an MGF or mzML file, picking the
// format by extension
func readSpectra(path string) ([]*core.Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spectra file: %w", err)
	}
	defer f.Close()

	var spectra []*core.Spectrum
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mgf":
		spectra, err = mgf.NewReader(f).ReadAll()
	case ".mzml":
		spectra, err = mzml.NewReader(f).ReadAll()
	default:
		return nil, fmt.Errorf("unsupported spectra format '%s' (expected .mgf or .mzML)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	for _, s := range spectra {
		s.SourceFile = filepath.Base(path)
	}
	return spectra, nil
}
