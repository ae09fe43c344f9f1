package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	derrors "git.home.luguber.info/inful/tapsite/internal/foundation/errors"
)

const namespace = "tapsite"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg            *prom.Registry
	stageDuration  *prom.HistogramVec
	buildDuration  prom.Histogram
	buildOutcome   *prom.CounterVec
	pages          prom.Counter
	rows           prom.Counter
	collections    prom.Gauge
	versionLookups *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the metrics on reg, or on a
// fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		pages: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_written_total",
			Help:      "Profile pages written",
		}),
		rows: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "profile_rows_total",
			Help:      "Data rows rendered across all profile pages",
		}),
		collections: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "collections",
			Help:      "Profile collections found by the last build",
		}),
		versionLookups: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "version_lookups_total",
			Help:      "Version lookups by result",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.buildOutcome, pr.pages, pr.rows, pr.collections, pr.versionLookups)
	return pr
}

// Registry returns the registry the metrics live on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcome) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddPages(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.pages.Add(float64(n))
}

func (p *PrometheusRecorder) AddRows(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.rows.Add(float64(n))
}

func (p *PrometheusRecorder) SetCollections(n int) {
	if p == nil {
		return
	}
	p.collections.Set(float64(n))
}

func (p *PrometheusRecorder) IncVersionLookup(found bool) {
	if p == nil {
		return
	}
	res := "unavailable"
	if found {
		res = "found"
	}
	p.versionLookups.WithLabelValues(res).Inc()
}

// WriteTextfile writes the current values to path in the textfile collector
// format. The file is replaced atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "write metrics textfile").
			WithContext("path", path).Build()
	}
	return nil
}
