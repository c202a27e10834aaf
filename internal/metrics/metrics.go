// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Actions      *prometheus.CounterVec
	Buzzes       *prometheus.CounterVec
	Cues         *prometheus.CounterVec
	TimerTicks   prometheus.Counter
	RelayDropped *prometheus.CounterVec
	Viewers      *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizmaster_actions_total",
				Help: "Moderator actions received, by action type",
			},
			[]string{"action"},
		),
		Buzzes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizmaster_buzzes_total",
				Help: "Buzzes received, by arbitration outcome",
			},
			[]string{"outcome"},
		),
		Cues: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizmaster_cues_total",
				Help: "Sound cues emitted",
			},
			[]string{"cue"},
		),
		TimerTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quizmaster_timer_ticks_total",
			Help: "Countdown ticks",
		}),
		RelayDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizmaster_relay_dropped_total",
				Help: "Events dropped because a relay queue was full",
			},
			[]string{"relay"},
		),
		Viewers: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "quizmaster_viewers",
				Help: "Connected viewers, by transport",
			},
			[]string{"transport"},
		),
	}
	reg.MustRegister(m.Actions, m.Buzzes, m.Cues, m.TimerTicks, m.RelayDropped, m.Viewers)
	return m
}
