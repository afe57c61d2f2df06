package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"rsvpbot/internal/ports/output"
)

var _ output.Metrics = (*Recorder)(nil)

// Recorder exposes the bot's activity as Prometheus collectors.
type Recorder struct {
	registry *prometheus.Registry

	scanDuration    prometheus.Histogram
	scanMessages    prometheus.Gauge
	scanCycles      prometheus.Counter
	scanFailures    *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	reactionRemoved *prometheus.CounterVec
	dialogues       *prometheus.CounterVec
}

// NewRecorder registers the bot collectors, plus the Go runtime and process
// collectors, on a dedicated registry.
func NewRecorder(namespace string) *Recorder {
	if namespace == "" {
		namespace = "rsvpbot"
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		scanDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Duration of a scan cycle in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		scanMessages: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scan_messages",
			Help:      "Messages examined by the last scan cycle",
		}),
		scanCycles: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_cycles_total",
			Help:      "Total number of scan cycles",
		}),
		scanFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_failures_total",
			Help:      "Scan errors by reason",
		}, []string{"reason"}),
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Reminders sent by milestone",
		}, []string{"stage"}),
		reactionRemoved: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reactions_removed_total",
			Help:      "Reactions removed from event records",
		}, []string{"reason"}),
		dialogues: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dialogues_total",
			Help:      "Event creation dialogues by outcome",
		}, []string{"outcome"}),
	}
}

// Registry is the registry to expose over HTTP.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ScanCycle(d time.Duration, scanned int) {
	r.scanCycles.Inc()
	r.scanDuration.Observe(d.Seconds())
	r.scanMessages.Set(float64(scanned))
}

func (r *Recorder) ScanFailure(reason string) {
	r.scanFailures.WithLabelValues(reason).Inc()
}

func (r *Recorder) NotificationSent(stage string) {
	r.notifications.WithLabelValues(stage).Inc()
}

func (r *Recorder) ReactionRemoved(reason string) {
	r.reactionRemoved.WithLabelValues(reason).Inc()
}

func (r *Recorder) Dialogue(outcome string) {
	r.dialogues.WithLabelValues(outcome).Inc()
}
