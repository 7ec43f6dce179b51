package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	StatusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_status_transitions_total",
			Help: "Status writes accepted by the transition policy",
		},
		[]string{"from", "to", "source"},
	)
	TransitionsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_status_transitions_rejected_total",
			Help: "Status writes refused by the transition policy",
		},
		[]string{"policy"},
	)
	SweepRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_sweep_runs_total",
			Help: "Daily sweep runs by outcome",
		},
		[]string{"outcome"},
	)
	SweepAdvanced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "task_sweep_advanced_total",
			Help: "Tasks moved from pending to in_progress by the sweep",
		},
	)
	SweepFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "task_sweep_failures_total",
			Help: "Per-task persistence failures during the sweep",
		},
	)
)

func init() {
	prometheus.MustRegister(StatusTransitions)
	prometheus.MustRegister(TransitionsRejected)
	prometheus.MustRegister(SweepRuns)
	prometheus.MustRegister(SweepAdvanced)
	prometheus.MustRegister(SweepFailures)
}
