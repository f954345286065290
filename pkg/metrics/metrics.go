package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resolve outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeInvalid  = "invalid"
)

// Recorder holds counters only. A nil *Recorder records nothing.
type Recorder struct {
	registry      *prometheus.Registry
	resolves      *prometheus.CounterVec
	proxyBytes    prometheus.Counter
	proxyFailures *prometheus.CounterVec
	requests      *prometheus.HistogramVec
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		resolves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ytresolver",
			Name:      "resolve_total",
			Help:      "Resolve requests by outcome.",
		}, []string{"outcome"}),
		proxyBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ytresolver",
			Name:      "proxy_bytes_total",
			Help:      "Bytes relayed from upstream to clients.",
		}),
		proxyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ytresolver",
			Name:      "proxy_failures_total",
			Help:      "Proxy requests that failed, by stage.",
		}, []string{"stage"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ytresolver",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
	r.registry.MustRegister(
		r.resolves,
		r.proxyBytes,
		r.proxyFailures,
		r.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) Resolve(outcome string) {
	if r == nil {
		return
	}
	r.resolves.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ProxyBytes(n int64) {
	if r == nil || n <= 0 {
		return
	}
	r.proxyBytes.Add(float64(n))
}

// ProxyFailure stage is "validate", "upstream" or "stream".
func (r *Recorder) ProxyFailure(stage string) {
	if r == nil {
		return
	}
	r.proxyFailures.WithLabelValues(stage).Inc()
}

func (r *Recorder) ObserveRequest(route, status string, seconds float64) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(route, status).Observe(seconds)
}

// Handler exposes this recorder's registry only.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
