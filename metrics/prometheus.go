package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg           *prom.Registry
	phaseDuration *prom.HistogramVec
	parsed        *prom.CounterVec
	exported      *prom.CounterVec
	assets        prom.Counter
	buildOutcome  *prom.CounterVec
}

// NewPrometheusRecorder constructs the build metrics and registers them with reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		phaseDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "quire",
			Name:      "phase_duration_seconds",
			Help:      "Duration of individual build phases",
			Buckets:   prom.DefBuckets,
		}, []string{"phase"}),
		parsed: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "quire",
			Name:      "parsed_total",
			Help:      "Content files parsed by kind",
		}, []string{"kind"}),
		exported: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "quire",
			Name:      "exported_total",
			Help:      "HTML files written by kind",
		}, []string{"kind"}),
		assets: prom.NewCounter(prom.CounterOpts{
			Namespace: "quire",
			Name:      "assets_copied_total",
			Help:      "Asset files mirrored into the output",
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "quire",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.phaseDuration, pr.parsed, pr.exported, pr.assets, pr.buildOutcome)
	return pr
}

// Registry returns the registry the metrics are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.reg
}

func (p *PrometheusRecorder) ObservePhaseDuration(phase string, d time.Duration) {
	p.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncParsed(kind string) {
	p.parsed.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncExported(kind string) {
	p.exported.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncAssetsCopied() {
	p.assets.Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

// WriteTextfile writes the current metrics in the text exposition format to filename.
func (p *PrometheusRecorder) WriteTextfile(filename string) error {
	if err := prom.WriteToTextfile(filename, p.reg); err != nil {
		return fmt.Errorf("WriteTextfile: %w", err)
	}
	return nil
}
