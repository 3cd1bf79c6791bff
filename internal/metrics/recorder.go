package metrics

import "time"

// Recorder defines observability hooks for dispatch metrics.
type Recorder interface {
	ObserveDispatchDuration(platform string, d time.Duration)
	IncDispatchOutcome(platform, result string)
	IncDispatchSkipped(platform string)
	SetOutputSize(platform string, bytes int64)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveDispatchDuration(string, time.Duration) {}
func (NoopRecorder) IncDispatchOutcome(string, string)             {}
func (NoopRecorder) IncDispatchSkipped(string)                     {}
func (NoopRecorder) SetOutputSize(string, int64)                   {}
