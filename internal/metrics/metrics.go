// Package metrics exposes a run's progress as Prometheus gauges and
// counters, the same shape as the teacher's queue Collector but themed
// around one ssh-para run instead of a long-lived job queue: there is
// no dispatch/dead-letter distinction here, only running/pending/done
// counts and the per-job duration distribution.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every metric one ssh-para run reports. Callers
// register it against a dedicated prometheus.Registry (not the global
// default) so a test process can build more than one without panicking
// on duplicate registration.
type Collector struct {
	jobsRunning prometheus.Gauge
	jobsPending prometheus.Gauge
	jobsDone    *prometheus.CounterVec // labeled by terminal state
	jobDuration prometheus.Histogram
	etaSeconds  prometheus.Gauge
}

// NewCollector builds a Collector and registers its metrics against reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		jobsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sshpara_jobs_running",
			Help: "Jobs currently executing.",
		}),
		jobsPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sshpara_jobs_pending",
			Help: "Jobs not yet dispatched to a worker.",
		}),
		jobsDone: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sshpara_jobs_done_total",
			Help: "Jobs that reached a terminal state, by state.",
		}, []string{"state"}),
		jobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sshpara_job_duration_seconds",
			Help:    "Per-host job duration, excluding ssh transport failures (exit 255).",
			Buckets: prometheus.DefBuckets,
		}),
		etaSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sshpara_eta_seconds",
			Help: "Estimated seconds remaining until the run completes.",
		}),
	}

	reg.MustRegister(c.jobsRunning, c.jobsPending, c.jobsDone, c.jobDuration, c.etaSeconds)
	return c
}

// SetRunning and SetPending report the current slot occupancy.
func (c *Collector) SetRunning(n int) { c.jobsRunning.Set(float64(n)) }
func (c *Collector) SetPending(n int) { c.jobsPending.Set(float64(n)) }

// RecordTerminal bumps the done counter for state and, unless the job
// was an ssh transport failure (exit 255, excluded per the ETA
// averaging rule), observes its duration.
func (c *Collector) RecordTerminal(state string, durationSeconds float64, transportFailure bool) {
	c.jobsDone.WithLabelValues(state).Inc()
	if !transportFailure {
		c.jobDuration.Observe(durationSeconds)
	}
}

// SetETA reports the supervisor's current ETA estimate. Callers should
// skip this while hasETA is false rather than publish a zero value.
func (c *Collector) SetETA(seconds float64) {
	c.etaSeconds.Set(seconds)
}

// Handler returns an http.Handler serving reg's registered metrics in
// the Prometheus text exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// StartServer serves reg's metrics at /metrics on port until the
// process exits or the listener errors.
func StartServer(port int, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(reg))
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
