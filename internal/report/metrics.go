package report

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are gauges describing the last launch attempt. Every value can be
// read straight off a single Result.
type Metrics struct {
	registry *prometheus.Registry

	exitCode  prometheus.Gauge
	duration  prometheus.Gauge
	timestamp prometheus.Gauge
	outcome   *prometheus.GaugeVec
}

// NewMetrics creates the gauges on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		exitCode: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hblaunch_last_run_exit_code",
			Help: "Exit status of the last launch attempt",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hblaunch_last_run_duration_seconds",
			Help: "Wall time of the last launched process in seconds",
		}),
		timestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hblaunch_last_run_timestamp_seconds",
			Help: "Unix time the last launch attempt finished",
		}),
		outcome: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hblaunch_last_run_outcome",
			Help: "1 for the outcome of the last launch attempt, 0 for the others",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.exitCode, m.duration, m.timestamp, m.outcome)
	return m
}

// Record sets every gauge from r.
func (m *Metrics) Record(r *Result) {
	m.exitCode.Set(float64(r.ExitCode))
	m.duration.Set(r.Duration.Seconds())
	m.timestamp.Set(float64(r.EndTime.UnixNano()) / 1e9)
	for _, o := range Outcomes {
		v := 0.0
		if o == r.Outcome {
			v = 1
		}
		m.outcome.WithLabelValues(string(o)).Set(v)
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
