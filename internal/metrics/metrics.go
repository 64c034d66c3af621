// Package metrics holds the Prometheus collectors of the signaling relay.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "huddle"

type Metrics struct {
	rooms        prometheus.Gauge
	participants prometheus.Gauge
	lifecycle    *prometheus.CounterVec
	relay        *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		rooms: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms",
			Help:      "Rooms currently open.",
		}),
		participants: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "participants",
			Help:      "Participants currently bound to a room.",
		}),
		lifecycle: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lifecycle_total",
			Help:      "Room lifecycle requests by operation and result.",
		}, []string{"op", "result"}),
		relay: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_total",
			Help:      "Relayed messages by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}
}

func (m *Metrics) SetOccupancy(rooms, participants int) {
	if m == nil {
		return
	}
	m.rooms.Set(float64(rooms))
	m.participants.Set(float64(participants))
}

func (m *Metrics) ObserveLifecycle(op, result string) {
	if m == nil {
		return
	}
	m.lifecycle.WithLabelValues(op, result).Inc()
}

func (m *Metrics) ObserveRelay(kind, outcome string) {
	if m == nil {
		return
	}
	m.relay.WithLabelValues(kind, outcome).Inc()
}
