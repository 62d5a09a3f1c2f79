package metrics

import (
	"fmt"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	reg           *prom.Registry
	stageDuration *prom.HistogramVec
	buildDuration prom.Histogram
	pageDuration  prom.Histogram
	pageResults   *prom.CounterVec
	buildOutcome  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docsite",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docsite",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.pageDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docsite",
			Name:      "page_duration_seconds",
			Help:      "Duration of the transform, menu, layout and write pipeline for one page",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		})
		pr.pageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "page_results_total",
			Help:      "Source file outcomes (rendered, skipped, excluded, failed)",
		}, []string{"result"})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.pageDuration, pr.pageResults, pr.buildOutcome)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObservePageDuration(d time.Duration) {
	if p == nil || p.pageDuration == nil {
		return
	}
	p.pageDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPageResult(result PageResult) {
	if p == nil || p.pageResults == nil {
		return
	}
	p.pageResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

// WriteTextfile writes the registry in the text exposition format, suitable for
// the node exporter textfile collector.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if p == nil || p.reg == nil {
		return nil
	}
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
