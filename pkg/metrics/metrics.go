// Package metrics exposes search progress as Prometheus metrics
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "glycoseq"

// Recorder collects search metrics on its own registry. A nil *Recorder
// records nothing.
type Recorder struct {
	registry        *prometheus.Registry
	spectra         *prometheus.CounterVec
	candidates      prometheus.Histogram
	identifications *prometheus.CounterVec
	duration        prometheus.Histogram
}

// NewRecorder creates a recorder with a private registry
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		spectra: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spectra_total",
			Help:      "Spectra processed, by outcome",
		}, []string{"outcome"}),
		candidates: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "precursor_candidates",
			Help:      "Peptide-glycan pairs matching a precursor",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		identifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identifications_total",
			Help:      "Best-scoring identifications, by database",
		}, []string{"database"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "spectrum_search_seconds",
			Help:      "Time spent searching one spectrum",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 16), // 0.1ms to ~3s
		}),
	}
}

// Registry returns the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveSpectrum records one searched spectrum
func (r *Recorder) ObserveSpectrum(candidates int, identified bool, elapsed time.Duration) {
	if r == nil {
		return
	}
	outcome := "unidentified"
	if identified {
		outcome = "identified"
	}
	r.spectra.WithLabelValues(outcome).Inc()
	r.candidates.Observe(float64(candidates))
	r.duration.Observe(elapsed.Seconds())
}

// SkipSpectrum records a spectrum that could not be searched
func (r *Recorder) SkipSpectrum() {
	if r == nil {
		return
	}
	r.spectra.WithLabelValues("skipped").Inc()
}

// AddIdentifications counts identifications from the target or decoy database
func (r *Recorder) AddIdentifications(n int, decoy bool) {
	if r == nil || n == 0 {
		return
	}
	database := "target"
	if decoy {
		database = "decoy"
	}
	r.identifications.WithLabelValues(database).Add(float64(n))
}
