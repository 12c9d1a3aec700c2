package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/analysis"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/fragment"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/glycan"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/metrics"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/precursor"
)

// Options configures a Dispatcher
type Options struct {
	Workers        int
	MS1            core.Tolerance
	MS2            core.Tolerance
	MissingCeiling int               // 0 stops at the first unmatched extension
	Logger         *slog.Logger      // nil discards
	Metrics        *metrics.Recorder // nil records nothing
}

// Dispatcher runs the search pipeline over a queue of spectra. The glycan
// universe, peptide list and analyzer are shared read-only; every worker
// owns its matchers.
type Dispatcher struct {
	queue    *Queue
	peptides []string
	universe *glycan.Universe
	analyzer *analysis.Analyzer
	masses   *core.MassCache
	opts     Options
	logger   *slog.Logger

	mu      sync.Mutex
	results []analysis.SearchResult
}

// New creates a dispatcher. Tolerances are validated here so workers
// cannot fail on construction.
func New(spectra []*core.Spectrum, peptides []string, universe *glycan.Universe, analyzer *analysis.Analyzer, opts Options) (*Dispatcher, error) {
	if err := opts.MS1.Validate(); err != nil {
		return nil, fmt.Errorf("precursor tolerance: %w", err)
	}
	if err := opts.MS2.Validate(); err != nil {
		return nil, fmt.Errorf("fragment tolerance: %w", err)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.MissingCeiling < 0 {
		return nil, fmt.Errorf("missing ceiling must not be negative, got %d", opts.MissingCeiling)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Dispatcher{
		queue:    NewQueue(spectra),
		peptides: peptides,
		universe: universe,
		analyzer: analyzer,
		masses:   core.NewMassCache(),
		opts:     opts,
		logger:   logger,
	}, nil
}

// Dispatch searches every queued spectrum and returns the best results per
// spectrum ordered by scan. Cancellation is checked between spectra.
func (d *Dispatcher) Dispatch(ctx context.Context) ([]analysis.SearchResult, error) {
	start := time.Now()
	d.logger.Info("search started",
		slog.Int("spectra", d.queue.Len()),
		slog.Int("peptides", len(d.peptides)),
		slog.Int("glycans", d.universe.Len()),
		slog.Int("workers", d.opts.Workers))

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for i := 0; i < d.opts.Workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := d.work(ctx, id); err != nil {
				errOnce.Do(func() { firstErr = err })
			}
		}(i)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	analysis.SortByScan(d.results)
	d.logger.Info("search finished",
		slog.Int("results", len(d.results)),
		slog.Duration("duration", time.Since(start)))
	return d.results, nil
}

// worker holds the per-goroutine matchers
type worker struct {
	precursor *precursor.Matcher
	glycans   *fragment.Matcher
	backbone  *fragment.PeptideMatcher
}

func (d *Dispatcher) newWorker() (*worker, error) {
	pm, err := precursor.New(d.opts.MS1, d.masses)
	if err != nil {
		return nil, err
	}
	pm.Init(d.peptides, d.universe)

	gm, err := fragment.New(d.opts.MS2, d.universe,
		fragment.WithMassCache(d.masses),
		fragment.WithMissingCeiling(d.opts.MissingCeiling))
	if err != nil {
		return nil, err
	}

	bm, err := fragment.NewPeptideMatcher(d.opts.MS2)
	if err != nil {
		return nil, err
	}
	return &worker{precursor: pm, glycans: gm, backbone: bm}, nil
}

func (d *Dispatcher) work(ctx context.Context, id int) error {
	w, err := d.newWorker()
	if err != nil {
		return err
	}

	var local []analysis.SearchResult
	searched := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		spectrum, ok := d.queue.TryPop()
		if !ok {
			break
		}
		local = append(local, d.search(w, spectrum)...)
		searched++
	}

	d.mu.Lock()
	d.results = append(d.results, local...)
	d.mu.Unlock()

	d.logger.Debug("worker finished",
		slog.Int("worker", id),
		slog.Int("spectra", searched),
		slog.Int("results", len(local)))
	return nil
}

// search runs the pipeline on one spectrum
func (d *Dispatcher) search(w *worker, spectrum *core.Spectrum) []analysis.SearchResult {
	if err := spectrum.Validate(); err != nil {
		d.logger.Warn("skipping spectrum", slog.String("spectrum", spectrum.Name()), slog.Any("error", err))
		d.opts.Metrics.SkipSpectrum()
		return nil
	}

	start := time.Now()
	candidates := w.precursor.Match(spectrum.PrecursorMZ, spectrum.PrecursorCharge)

	var results []analysis.SearchResult
	if len(candidates) > 0 {
		matches := w.glycans.Search(spectrum.Peaks, spectrum.PrecursorCharge, candidates)
		backbone := w.backbone.Search(spectrum.Peaks, spectrum.PrecursorCharge, candidates)
		results = d.analyzer.Analyze(spectrum, matches, backbone)
	}

	d.opts.Metrics.ObserveSpectrum(candidates.Pairs(), len(results) > 0, time.Since(start))
	for _, r := range results {
		d.opts.Metrics.AddIdentifications(1, r.Decoy)
	}
	return results
}
