package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for resolution runs.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveResolveDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	AddStageItems(stage string, resolved, unresolved int)
	AddDiagnostics(kind string, n int)
	SetGraphSize(entity string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveResolveDuration(time.Duration)       {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) AddStageItems(string, int, int)             {}
func (NoopRecorder) AddDiagnostics(string, int)                 {}
func (NoopRecorder) SetGraphSize(string, int)                   {}
