package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg              *prom.Registry
	dispatchDuration *prom.HistogramVec
	dispatchOutcome  *prom.CounterVec
	dispatchSkipped  *prom.CounterVec
	outputSize       *prom.GaugeVec
}

// Player builds take minutes; DefBuckets top out at 10s.
var dispatchBuckets = []float64{5, 15, 30, 60, 120, 300, 600, 1200, 2400, 3600}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		dispatchDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "autobuilder",
			Name:      "dispatch_duration_seconds",
			Help:      "Duration of player build dispatches",
			Buckets:   dispatchBuckets,
		}, []string{"platform"}),
		dispatchOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "autobuilder",
			Name:      "dispatch_outcomes_total",
			Help:      "Dispatch outcomes by platform and build result",
		}, []string{"platform", "result"}),
		dispatchSkipped: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "autobuilder",
			Name:      "dispatch_skipped_total",
			Help:      "Dispatches skipped because no scene is enabled",
		}, []string{"platform"}),
		outputSize: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "autobuilder",
			Name:      "output_size_bytes",
			Help:      "Total size of the last successful build output",
		}, []string{"platform"}),
	}
	reg.MustRegister(pr.dispatchDuration, pr.dispatchOutcome, pr.dispatchSkipped, pr.outputSize)
	return pr
}

func (p *PrometheusRecorder) ObserveDispatchDuration(platform string, d time.Duration) {
	if p == nil || p.dispatchDuration == nil {
		return
	}
	p.dispatchDuration.WithLabelValues(platform).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncDispatchOutcome(platform, result string) {
	if p == nil || p.dispatchOutcome == nil {
		return
	}
	p.dispatchOutcome.WithLabelValues(platform, result).Inc()
}

func (p *PrometheusRecorder) IncDispatchSkipped(platform string) {
	if p == nil || p.dispatchSkipped == nil {
		return
	}
	p.dispatchSkipped.WithLabelValues(platform).Inc()
}

func (p *PrometheusRecorder) SetOutputSize(platform string, bytes int64) {
	if p == nil || p.outputSize == nil {
		return
	}
	p.outputSize.WithLabelValues(platform).Set(float64(bytes))
}

// WriteTextfile writes the recorder's registry in the text exposition format.
// The file is written atomically so a concurrent node_exporter scrape never
// sees a partial file.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
