package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "symgraph"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg             *prom.Registry
	stageDuration   *prom.HistogramVec
	resolveDuration prom.Histogram
	stageResults    *prom.CounterVec
	stageItems      *prom.CounterVec
	diagnostics     *prom.CounterVec
	graphSize       *prom.GaugeVec
}

// NewPrometheusRecorder constructs and registers the collectors on reg, or on
// a fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "stage_duration_seconds",
		Help:      "Duration of individual resolver stages",
		Buckets:   prom.DefBuckets,
	}, []string{"stage"})
	pr.resolveDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "resolve_duration_seconds",
		Help:      "Total resolution duration",
		Buckets:   prom.DefBuckets,
	})
	pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "stage_results_total",
		Help:      "Stage result counts by outcome",
	}, []string{"stage", "result"})
	pr.stageItems = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "stage_items_total",
		Help:      "Items handled by each stage, by outcome",
	}, []string{"stage", "outcome"})
	pr.diagnostics = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "diagnostics_total",
		Help:      "Graph diagnostics by kind",
	}, []string{"kind"})
	pr.graphSize = prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "graph_entities",
		Help:      "Entities in the resolved graph",
	}, []string{"entity"})
	reg.MustRegister(pr.stageDuration, pr.resolveDuration, pr.stageResults,
		pr.stageItems, pr.diagnostics, pr.graphSize)
	return pr
}

// Registry returns the registry the collectors are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveResolveDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.resolveDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) AddStageItems(stage string, resolved, unresolved int) {
	if p == nil {
		return
	}
	p.stageItems.WithLabelValues(stage, "resolved").Add(float64(resolved))
	p.stageItems.WithLabelValues(stage, "unresolved").Add(float64(unresolved))
}

func (p *PrometheusRecorder) AddDiagnostics(kind string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.diagnostics.WithLabelValues(kind).Add(float64(n))
}

func (p *PrometheusRecorder) SetGraphSize(entity string, n int) {
	if p == nil {
		return
	}
	p.graphSize.WithLabelValues(entity).Set(float64(n))
}

// WriteTextfile writes the recorder's registry in the text exposition format.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
