package core

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsRecorder observes gateway operations. Implementations must be safe
// for concurrent use.
type MetricsRecorder interface {
	ObserveMutation(op string, err error)
	ObserveBackup(op string, err error)
}

type noopMetrics struct{}

func (noopMetrics) ObserveMutation(string, error) {}
func (noopMetrics) ObserveBackup(string, error)   {}

// PrometheusMetrics records gateway counters on a prometheus registry.
type PrometheusMetrics struct {
	mutations *prometheus.CounterVec
	backups   *prometheus.CounterVec
}

// NewPrometheusMetrics registers the gateway counters on reg and returns the
// recorder. A nil registry falls back to the default registerer.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &PrometheusMetrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "launchcore",
			Name:      "mutations_total",
			Help:      "Gateway mutations by operation and outcome.",
		}, []string{"op", "outcome"}),
		backups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "launchcore",
			Name:      "backup_operations_total",
			Help:      "Backup operations by kind and outcome.",
		}, []string{"op", "outcome"}),
	}
	reg.MustRegister(m.mutations, m.backups)
	return m
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveMutation counts one gateway mutation.
func (m *PrometheusMetrics) ObserveMutation(op string, err error) {
	m.mutations.WithLabelValues(op, outcome(err)).Inc()
}

// ObserveBackup counts one backup operation.
func (m *PrometheusMetrics) ObserveBackup(op string, err error) {
	m.backups.WithLabelValues(op, outcome(err)).Inc()
}
