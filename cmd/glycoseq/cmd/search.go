package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/analysis"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/config"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/dispatch"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/glycan"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/metrics"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/protein"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/reader/fasta"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/writer/csv"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/writer/sqlite"
)

var (
	spectraFile string
	fastaFile   string
	decoyFile   string
	reportFile  string
	dbFile      string
	metricsAddr string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Identify glycopeptides in an MGF or mzML file",
	Long: `Search tandem mass spectra against N-glycopeptides built from a FASTA
protein database and an enumerated glycan space.

Peptides carrying an N-X-S/T sequon are digested from the target proteins.
Decoy peptides come from reversed proteins unless --decoy supplies a decoy
database. Identifications are filtered by target-decoy FDR and written as a
CSV report, optionally together with a SQLite database of every result.

Example:
  glycoseq search -i run.mgf -d human.fasta -o report.csv --fdr 0.01
  glycoseq search -i run.mzML -d human.fasta -o report.csv --db run.db --classes CHM`,
	RunE: runSearch,
}

func init() {
	flags := searchCmd.Flags()
	flags.StringVarP(&spectraFile, "input", "i", "", "Input spectra file (.mgf or .mzML) (required)")
	flags.StringVarP(&fastaFile, "database", "d", "", "Protein database FASTA file (required)")
	flags.StringVar(&decoyFile, "decoy", "", "Decoy protein FASTA file (default: reversed database)")
	flags.StringVarP(&reportFile, "output", "o", "", "Output CSV report (required)")
	flags.StringVar(&dbFile, "db", "", "Also write all results to a SQLite database")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while searching, e.g. :9090")

	flags.Int("threads", 6, "Number of search workers")
	flags.Float64("ms1", 10, "Precursor tolerance")
	flags.String("ms1-kind", "ppm", "Precursor tolerance unit: ppm or dalton")
	flags.Float64("ms2", 0.01, "Fragment tolerance")
	flags.String("ms2-kind", "dalton", "Fragment tolerance unit: ppm or dalton")
	flags.Float64("fdr", 0.01, "Accepted false discovery rate")
	flags.Int("missing-ceiling", 4, "Unmatched glycan extensions allowed in a row")
	flags.Float64("coelution", 0, "Retention window in minutes for co-elution rescoring (0 = off)")
	flags.Int("top-n", 0, "Keep only the N most intense peaks (0 = all)")
	flags.Float64("cutoff", 0, "Minimum relative intensity in percent of the base peak")
	addGlycanFlags(flags)
	addDigestionFlags(flags)

	searchCmd.MarkFlagRequired("input")
	searchCmd.MarkFlagRequired("database")
	searchCmd.MarkFlagRequired("output")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ms1, _ := cfg.MS1.Tolerance()
	ms2, _ := cfg.MS2.Tolerance()
	logger := newLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	// Peptides
	targets, decoys, err := loadPeptides(cfg)
	if err != nil {
		return err
	}
	fmt.Printf("Digested %d target and %d decoy glycopeptide sequences\n", len(targets), len(decoys))
	if len(targets) == 0 {
		return fmt.Errorf("no peptide in %s carries an N-glycosylation sequon", fastaFile)
	}

	// Glycans
	classes, _ := cfg.GlycanClasses()
	universe, err := glycan.Build(cfg.Glycan, classes...)
	if err != nil {
		return err
	}
	fmt.Printf("Built %d glycans (%s)\n", universe.Len(), formatClasses(universe))

	// Spectra
	spectra, err := readSpectra(spectraFile)
	if err != nil {
		return err
	}
	for _, s := range spectra {
		cfg.Peaks.Apply(s)
	}
	fmt.Printf("Read %d spectra from %s\n", len(spectra), spectraFile)

	recorder := metrics.NewRecorder()
	if metricsAddr != "" {
		srv := serveMetrics(metricsAddr, recorder)
		defer shutdown(srv)
	}

	peptides := append(append([]string{}, targets...), decoys...)
	d, err := dispatch.New(spectra, peptides, universe, analysis.NewAnalyzer(decoys), dispatch.Options{
		Workers:        cfg.Threads,
		MS1:            ms1,
		MS2:            ms2,
		MissingCeiling: cfg.MissingCeiling,
		Logger:         logger,
		Metrics:        recorder,
	})
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := d.Dispatch(ctx)
	if err != nil {
		return fmt.Errorf("search interrupted: %w", err)
	}
	fmt.Printf("Searched %d spectra in %s, %d candidate results\n", len(spectra), time.Since(start).Round(time.Millisecond), len(results))

	if cfg.CoElution > 0 {
		analysis.NewCoElution(cfg.CoElution).Update(results)
	}

	// FDR
	filter, err := analysis.NewFDRFilter(cfg.FDR)
	if err != nil {
		return err
	}
	filter.Init(analysis.Split(results))
	accepted := filter.Filter()
	if cutoff, ok := filter.Cutoff(); ok {
		fmt.Printf("Score cutoff at %.1f%% FDR: %.4f\n", cfg.FDR*100, cutoff)
	} else {
		fmt.Fprintf(os.Stderr, "Warning: no decoy matches, FDR filtering skipped\n")
	}

	if err := csv.WriteFile(reportFile, accepted); err != nil {
		return err
	}
	fmt.Printf("Wrote %d identifications to %s\n", len(accepted), reportFile)
	fmt.Printf("Accepted scores: %s\n", analysis.Summarize(accepted))

	if dbFile != "" {
		if err := writeDatabase(dbFile, cfg, spectra, results); err != nil {
			return err
		}
		fmt.Printf("Wrote %d results to %s\n", len(results), dbFile)
	}
	return nil
}

// loadPeptides digests the target and decoy databases. Decoy sequences that
// also occur among the targets are dropped.
func loadPeptides(cfg config.Config) (targets, decoys []string, err error) {
	proteins, err := fasta.ReadFile(fastaFile)
	if err != nil {
		return nil, nil, err
	}
	fmt.Printf("Read %d proteins from %s\n", len(proteins), fastaFile)

	var decoyProteins []protein.Protein
	if decoyFile != "" {
		if decoyProteins, err = fasta.ReadFile(decoyFile); err != nil {
			return nil, nil, err
		}
	} else {
		decoyProteins = protein.Reverse(proteins)
	}

	if targets, err = digest(cfg, proteins); err != nil {
		return nil, nil, err
	}
	all, err := digest(cfg, decoyProteins)
	if err != nil {
		return nil, nil, err
	}

	seen := make(map[string]bool, len(targets))
	for _, p := range targets {
		seen[p] = true
	}
	for _, p := range all {
		if !seen[p] {
			decoys = append(decoys, p)
		}
	}
	return targets, decoys, nil
}

// digest returns the sequon-carrying peptides of proteins with every
// configured modification variant. Peptides with residues of unknown mass
// are dropped with a warning.
func digest(cfg config.Config, proteins []protein.Protein) ([]string, error) {
	digester, err := cfg.Digester()
	if err != nil {
		return nil, err
	}
	opts, err := core.ParseModificationOptions(cfg.Digestion.Modifications)
	if err != nil {
		return nil, err
	}

	var peptides []string
	dropped := 0
	for _, p := range digester.Digest(proteins, protein.ContainsNGlycosite) {
		if !core.KnownResidues(p) {
			dropped++
			continue
		}
		peptides = append(peptides, p)
	}
	if dropped > 0 {
		fmt.Fprintf(os.Stderr, "Warning: skipped %d peptides with unknown residues (e.g. X, B, Z, U)\n", dropped)
	}
	return core.ExpandModifications(peptides, opts.Modifications(), protein.ContainsNGlycosite), nil
}

// writeDatabase stores every result with its spectrum and the run settings
func writeDatabase(path string, cfg config.Config, spectra []*core.Spectrum, results []analysis.SearchResult) error {
	w, err := sqlite.NewWriter(path)
	if err != nil {
		return err
	}

	byScan := make(map[int]*core.Spectrum, len(spectra))
	for _, s := range spectra {
		byScan[s.Scan] = s
	}
	for _, r := range results {
		if err := w.WriteResult(r); err != nil {
			w.Close()
			return err
		}
		if s, ok := byScan[r.Scan]; ok {
			if err := w.WriteSpectrum(s); err != nil {
				w.Close()
				return err
			}
		}
	}
	if err := w.WriteParameters(parameters(cfg)); err != nil {
		w.Close()
		return err
	}
	return w.Finalize()
}

// parameters flattens the settings recorded alongside the results
func parameters(cfg config.Config) map[string]string {
	return map[string]string{
		"input":           spectraFile,
		"database":        fastaFile,
		"decoy":           decoyFile,
		"threads":         strconv.Itoa(cfg.Threads),
		"classes":         cfg.Classes,
		"glycan":          fmt.Sprintf("%+v", cfg.Glycan),
		"ms1":             fmt.Sprintf("%g %s", cfg.MS1.Value, cfg.MS1.Kind),
		"ms2":             fmt.Sprintf("%g %s", cfg.MS2.Value, cfg.MS2.Kind),
		"proteases":       cfg.Digestion.Proteases,
		"missedCleavages": strconv.Itoa(cfg.Digestion.MissedCleavages),
		"modifications":   strings.Join(cfg.Digestion.Modifications, ","),
		"topN":            strconv.Itoa(cfg.Peaks.TopN),
		"intensityCutoff": strconv.FormatFloat(cfg.Peaks.IntensityCutoff, 'g', -1, 64),
		"fdr":             strconv.FormatFloat(cfg.FDR, 'g', -1, 64),
		"missingCeiling":  strconv.Itoa(cfg.MissingCeiling),
		"coelution":       strconv.FormatFloat(cfg.CoElution, 'g', -1, 64),
	}
}

// serveMetrics exposes the recorder on addr until shutdown
func serveMetrics(addr string, recorder *metrics.Recorder) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "Warning: metrics server: %v\n", err)
		}
	}()
	fmt.Printf("Serving metrics on %s/metrics\n", addr)
	return srv
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
}

// formatClasses renders per-class structure counts, e.g. "Complex: 120"
func formatClasses(u *glycan.Universe) string {
	counts := u.CountByClass()
	parts := make([]string, 0, len(u.Classes()))
	for _, c := range u.Classes() {
		parts = append(parts, fmt.Sprintf("%s: %d", c, counts[c]))
	}
	return strings.Join(parts, ", ")
}
