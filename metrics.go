package rrr_arm

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK          = "ok"
	outcomeUnreachable = "unreachable"
	outcomeLimit       = "limit"
)

// Metrics holds the simulator's Prometheus collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	solves          *prometheus.CounterVec
	trajectories    *prometheus.CounterVec
	workspacePoints prometheus.Gauge
	historyPoints   prometheus.Gauge
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		solves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rrr_solves_total",
				Help: "Inverse kinematics solves by outcome",
			},
			[]string{"outcome"},
		),
		trajectories: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rrr_trajectories_total",
				Help: "Executed paths by result",
			},
			[]string{"result"},
		),
		workspacePoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rrr_workspace_points",
			Help: "Number of sampled workspace grid points",
		}),
		historyPoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rrr_history_points",
			Help: "Number of points in the end effector trail",
		}),
	}
	m.Registry.MustRegister(m.solves, m.trajectories, m.workspacePoints, m.historyPoints)
	return m
}

func (m *Metrics) observeSolve(err error) {
	m.solves.WithLabelValues(solveOutcome(err)).Inc()
}

func (m *Metrics) observeTrajectory(completed bool) {
	if completed {
		m.trajectories.WithLabelValues("completed").Inc()
		return
	}
	m.trajectories.WithLabelValues("aborted").Inc()
}

func solveOutcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrLimitExceeded):
		return outcomeLimit
	default:
		return outcomeUnreachable
	}
}
