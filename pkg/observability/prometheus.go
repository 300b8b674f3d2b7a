package observability

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kgraph"

// Prometheus is a [Recorder] backed by Prometheus collectors.
type Prometheus struct {
	steps        *prometheus.CounterVec
	stepSeconds  *prometheus.HistogramVec
	visibleNodes prometheus.Histogram
	artifactSize *prometheus.HistogramVec
	cache        *prometheus.CounterVec
	cacheBytes   *prometheus.CounterVec
	calls        *prometheus.CounterVec
	callSeconds  *prometheus.HistogramVec
}

// NewPrometheus creates the collectors and registers them with reg. It
// panics if any of them is already registered.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_steps_total",
			Help:      "Pipeline steps by step and outcome.",
		}, []string{"step", "outcome"}),
		stepSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_step_duration_seconds",
			Help:      "Pipeline step latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"step"}),
		visibleNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_visible_nodes",
			Help:      "Visible nodes per relayout.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		artifactSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_artifact_bytes",
			Help:      "Rendered artifact size by format.",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
		}, []string{"format"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache lookups and writes by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache.",
		}, []string{"key_type"}),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_client_requests_total",
			Help:      "Outbound HTTP attempts by host and status.",
		}, []string{"host", "status"}),
		callSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_client_duration_seconds",
			Help:      "Outbound HTTP latency of attempts that got a response.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"host"}),
	}

	reg.MustRegister(
		p.steps, p.stepSeconds, p.visibleNodes, p.artifactSize,
		p.cache, p.cacheBytes,
		p.calls, p.callSeconds,
	)
	return p
}

func (p *Prometheus) Step(_ context.Context, ev StepEvent) {
	outcome := "ok"
	if ev.Err != nil {
		outcome = "error"
	}
	p.steps.WithLabelValues(string(ev.Step), outcome).Inc()
	p.stepSeconds.WithLabelValues(string(ev.Step)).Observe(ev.Duration.Seconds())
	if ev.Err != nil {
		return
	}
	switch ev.Step {
	case StepLayout:
		p.visibleNodes.Observe(float64(ev.Size))
	case StepRender:
		p.artifactSize.WithLabelValues(ev.Subject).Observe(float64(ev.Size))
	}
}

func (p *Prometheus) Cache(_ context.Context, ev CacheEvent) {
	p.cache.WithLabelValues(ev.KeyType, string(ev.Result)).Inc()
	if ev.Result == CacheSet {
		p.cacheBytes.WithLabelValues(ev.KeyType).Add(float64(ev.Bytes))
	}
}

func (p *Prometheus) Call(_ context.Context, ev CallEvent) {
	if ev.Status == 0 {
		p.calls.WithLabelValues(ev.Host, "error").Inc()
		return
	}
	p.calls.WithLabelValues(ev.Host, strconv.Itoa(ev.Status)).Inc()
	p.callSeconds.WithLabelValues(ev.Host).Observe(ev.Duration.Seconds())
}

var _ Recorder = (*Prometheus)(nil)
