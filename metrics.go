package userlogic

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus collectors of one group.
type Metrics struct {
	users         *prometheus.GaugeVec
	spawned       *prometheus.CounterVec
	destroyed     *prometheus.CounterVec
	uncomfortable *prometheus.GaugeVec
	simTime       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		users: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "roomsim_users",
				Help: "Number of users in the room by state",
			},
			[]string{"state"},
		),
		spawned: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roomsim_users_spawned_total",
				Help: "Total number of users that entered the room",
			},
			[]string{"role"},
		),
		destroyed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roomsim_users_left_total",
				Help: "Total number of users that left the room",
			},
			[]string{"role"},
		),
		uncomfortable: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "roomsim_users_uncomfortable",
				Help: "Number of users freezing or sweating",
			},
			[]string{"feeling"},
		),
		simTime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "roomsim_simulation_seconds",
				Help: "Simulated time in seconds",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(m.users, m.spawned, m.destroyed, m.uncomfortable, m.simTime)
	}
	return m
}

// RecordSpawn counts a user entering the room.
func (m *Metrics) RecordSpawn(role Role) {
	m.spawned.WithLabelValues(role.String()).Inc()
}

// RecordDestroyed counts a user leaving the room.
func (m *Metrics) RecordDestroyed(role Role) {
	m.destroyed.WithLabelValues(role.String()).Inc()
}

// Observe sets the gauges from the live users.
func (m *Metrics) Observe(users []*Agent, simSeconds float64) {
	counts := make(map[UserState]int)
	freezing, sweating := 0, 0
	for _, a := range users {
		counts[a.State()]++
		if a.IsFreezing() {
			freezing++
		}
		if a.IsSweating() {
			sweating++
		}
	}

	for _, s := range AllUserStates() {
		m.users.WithLabelValues(s.String()).Set(float64(counts[s]))
	}
	m.uncomfortable.WithLabelValues("freezing").Set(float64(freezing))
	m.uncomfortable.WithLabelValues("sweating").Set(float64(sweating))
	m.simTime.Set(simSeconds)
}
