package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/analysis"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/writer/sqlite"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <file>",
	Short: "Summarize a spectra file or a results database",
	Long: `Print statistics for an input spectra file (.mgf, .mzML) or for a
SQLite results database written by 'glycoseq search --db'.

For spectra the scan count, charge states and m/z ranges are reported.
For a database the stored settings and the target and decoy score
distributions are reported.

Example:
  glycoseq summarize run.mgf
  glycoseq summarize run.db`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	path := args[0]
	if isDatabase(path) {
		return summarizeDatabase(path)
	}

	spectra, err := readSpectra(path)
	if err != nil {
		return err
	}
	summarizeSpectra(path, spectra)
	return nil
}

func isDatabase(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

func summarizeSpectra(path string, spectra []*core.Spectrum) {
	fmt.Printf("File: %s\n", path)
	fmt.Printf("Spectra: %d\n", len(spectra))
	if len(spectra) == 0 {
		return
	}

	charges := make(map[int]int)
	peaks := 0
	loMZ, hiMZ := spectra[0].MZRange()
	minMZ, maxMZ := spectra[0].PrecursorMZ, spectra[0].PrecursorMZ
	minRT, maxRT := spectra[0].Retention, spectra[0].Retention
	for _, s := range spectra {
		charges[s.PrecursorCharge]++
		peaks += len(s.Peaks)
		lo, hi := s.MZRange()
		loMZ = min(loMZ, lo)
		hiMZ = max(hiMZ, hi)
		minMZ = min(minMZ, s.PrecursorMZ)
		maxMZ = max(maxMZ, s.PrecursorMZ)
		minRT = min(minRT, s.Retention)
		maxRT = max(maxRT, s.Retention)
	}

	fmt.Printf("Precursor m/z: %.4f - %.4f\n", minMZ, maxMZ)
	fmt.Printf("Fragment m/z: %.4f - %.4f\n", loMZ, hiMZ)
	fmt.Printf("Retention: %.2f - %.2f min\n", minRT, maxRT)
	fmt.Printf("Peaks per spectrum: %.1f\n", float64(peaks)/float64(len(spectra)))

	zs := make([]int, 0, len(charges))
	for z := range charges {
		zs = append(zs, z)
	}
	sort.Ints(zs)
	for _, z := range zs {
		fmt.Printf("  charge %d: %d\n", z, charges[z])
	}
}

func summarizeDatabase(path string) error {
	params, err := sqlite.ReadParameters(path)
	if err != nil {
		return err
	}
	results, err := sqlite.ReadResults(path)
	if err != nil {
		return err
	}

	fmt.Printf("Database: %s\n", path)
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s = %s\n", name, params[name])
	}

	targets, decoys := analysis.Split(results)
	fmt.Printf("Targets: %s\n", analysis.Summarize(targets))
	fmt.Printf("Decoys:  %s\n", analysis.Summarize(decoys))
	return nil
}
