package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	roomsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "highsociety_rooms_open",
		Help: "Rooms currently tracked by the relay.",
	})
	eventsRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "highsociety_events_relayed_total",
		Help: "Events fanned out to room seats, by type.",
	}, []string{"type"})
	broadcastsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "highsociety_broadcasts_dropped_total",
		Help: "Messages dropped because a client was lagging.",
	})
	reconnectAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "highsociety_reconnect_accepted_total",
		Help: "Rejoin attempts matching a tracked seat.",
	})
	reconnectRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "highsociety_reconnect_rejected_total",
		Help: "Rejoin attempts refused for an unknown seat.",
	})
)
