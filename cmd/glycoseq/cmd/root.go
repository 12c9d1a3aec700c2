// Package cmd provides CLI command implementations
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/config"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "glycoseq",
	Short: "glycoseq - glycopeptide identification from MS/MS spectra",
	Long: `glycoseq identifies N-glycopeptides in tandem mass spectra by matching
observed peaks against peptides digested from a protein database combined
with an enumerated space of complex, hybrid and high-mannose glycans.

Features:
- MGF and mzML spectrum input, FASTA protein databases
- Multi-protease digestion with missed cleavages and dynamic modifications
- Glycan fragment matching and peptide backbone evidence
- Target-decoy false discovery rate control
- CSV and SQLite reports`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (YAML, TOML or JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(glycansCmd)
	rootCmd.AddCommand(digestCmd)
	rootCmd.AddCommand(summarizeCmd)
}

// configFlags maps config keys to the flag names that override them
var configFlags = map[string]string{
	"threads":                    "threads",
	"classes":                    "classes",
	"glycan.hexnac":              "hexnac",
	"glycan.hex":                 "hex",
	"glycan.fuc":                 "fuc",
	"glycan.neuac":               "neuac",
	"glycan.neugc":               "neugc",
	"ms1.value":                  "ms1",
	"ms1.kind":                   "ms1-kind",
	"ms2.value":                  "ms2",
	"ms2.kind":                   "ms2-kind",
	"digestion.proteases":        "proteases",
	"digestion.missed-cleavages": "missed-cleavages",
	"digestion.min-length":       "min-length",
	"digestion.max-length":       "max-length",
	"digestion.modifications":    "modifications",
	"peaks.top-n":                "top-n",
	"peaks.intensity-cutoff":     "cutoff",
	"fdr":                        "fdr",
	"missing-ceiling":            "missing-ceiling",
	"coelution":                  "coelution",
}

// addGlycanFlags registers the glycan space flags
func addGlycanFlags(flags *pflag.FlagSet) {
	flags.String("classes", "C", "Glycan classes: C (complex), H (hybrid), M (high mannose), e.g. CHM")
	flags.Int("hexnac", 12, "Maximum HexNAc residues")
	flags.Int("hex", 12, "Maximum Hex residues")
	flags.Int("fuc", 5, "Maximum Fuc residues")
	flags.Int("neuac", 4, "Maximum NeuAc residues")
	flags.Int("neugc", 0, "Maximum NeuGc residues")
}

// addDigestionFlags registers the protein digestion flags
func addDigestionFlags(flags *pflag.FlagSet) {
	flags.String("proteases", "TG", "Proteases applied in order: T (trypsin), G (GluC), C (chymotrypsin), P (pepsin)")
	flags.Int("missed-cleavages", 2, "Maximum missed cleavages")
	flags.Int("min-length", 0, "Minimum peptide length (0 = no limit)")
	flags.Int("max-length", 0, "Maximum peptide length (0 = no limit)")
	flags.StringSlice("modifications", nil, "Dynamic modifications: oxidation, deamidation")
}

// loadConfig merges defaults, the config file, environment and the flags
// set on cmd
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v, err := config.New(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	for key, name := range configFlags {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return config.Config{}, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	c, err := config.Load(v)
	if err != nil {
		return c, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

// newLogger returns the structured logger handed to library packages
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
