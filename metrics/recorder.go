// Package metrics records build metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics can be
// switched on without nil checks anywhere in the pipeline. PrometheusRecorder
// is the real implementation; its registry can be written to a node_exporter
// textfile at the end of a build.
package metrics

import "time"

// Unit kinds used as label values.
const (
	KindIndex = "index"
	KindPage  = "page"
)

// Build outcomes used as label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Recorder defines the observability hooks of a build.
type Recorder interface {
	ObservePhaseDuration(phase string, d time.Duration)
	IncParsed(kind string)
	IncExported(kind string)
	IncAssetsCopied()
	IncBuildOutcome(outcome string)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObservePhaseDuration(string, time.Duration) {}
func (NoopRecorder) IncParsed(string)                           {}
func (NoopRecorder) IncExported(string)                         {}
func (NoopRecorder) IncAssetsCopied()                           {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
