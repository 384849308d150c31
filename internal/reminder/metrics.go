package reminder

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeSent        = "sent"
	OutcomeFailed      = "failed"
	OutcomeIneligible  = "already_sent"
	OutcomeNoRecipient = "no_recipient"
)

// Trigger labels.
const (
	TriggerDaily  = "daily"
	TriggerManual = "manual"
	TriggerSingle = "single"
)

// Metrics counts reminder activity.
type Metrics struct {
	reminders *prometheus.CounterVec
	sweeps    *prometheus.CounterVec
	lastSweep prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg when it is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		reminders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskdash_reminders_total",
				Help: "Reminder decisions per active task, by outcome",
			},
			[]string{"outcome"},
		),
		sweeps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskdash_reminder_sweeps_total",
				Help: "Reminder sweeps executed, by trigger",
			},
			[]string{"trigger"},
		),
		lastSweep: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "taskdash_reminder_last_sweep_timestamp_seconds",
				Help: "Unix time of the last completed sweep",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.reminders, m.sweeps, m.lastSweep)
	}
	return m
}

func (m *Metrics) observe(outcome string) {
	if m == nil {
		return
	}
	m.reminders.WithLabelValues(outcome).Inc()
}

// ObserveSweep counts a finished sweep.
func (m *Metrics) ObserveSweep(trigger string, at time.Time) {
	if m == nil {
		return
	}
	m.sweeps.WithLabelValues(trigger).Inc()
	m.lastSweep.Set(float64(at.Unix()))
}

// ObserveSingle counts a manual single-task send.
func (m *Metrics) ObserveSingle(err error) {
	if m == nil {
		return
	}
	m.sweeps.WithLabelValues(TriggerSingle).Inc()
	if err != nil {
		m.observe(OutcomeFailed)
		return
	}
	m.observe(OutcomeSent)
}
