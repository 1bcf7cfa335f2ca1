package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "matchserver"

// Metrics groups the collectors updated by the dispatcher.
type Metrics struct {
	Connections     prometheus.Gauge
	Rooms           prometheus.Gauge
	RoomsInProgress prometheus.Gauge
	QueueWaiting    prometheus.Gauge
	Sessions        prometheus.Gauge

	Messages       *prometheus.CounterVec
	ProtocolErrors prometheus.Counter
	Rejections     *prometheus.CounterVec
	GamesFinished  *prometheus.CounterVec
	DroppedSends   prometheus.Counter
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections",
			Help:      "Number of open client connections.",
		}),
		Rooms: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms",
			Help:      "Number of rooms in the pool.",
		}),
		RoomsInProgress: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms_in_progress",
			Help:      "Number of rooms with a running game.",
		}),
		QueueWaiting: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_waiting",
			Help:      "1 when a connection waits for an opponent.",
		}),
		Sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Number of logged in connections.",
		}),
		Messages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Decoded client messages by signifier.",
		}, []string{"signifier"}),
		ProtocolErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_errors_total",
			Help:      "Client messages that could not be decoded.",
		}),
		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Client requests answered with a negative outcome, by signifier.",
		}, []string{"signifier"}),
		GamesFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Finished games by outcome.",
		}, []string{"outcome"}),
		DroppedSends: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_sends_total",
			Help:      "Outbound messages that could not be queued for a connection.",
		}),
	}
}

func boolToFloat(v bool) float64 {
	if v {
		return 1
	}

	return 0
}

// SetState mirrors a state snapshot into the gauges.
func (that *Metrics) SetState(rooms, inProgress, sessions int, waiting bool) {
	that.Rooms.Set(float64(rooms))
	that.RoomsInProgress.Set(float64(inProgress))
	that.Sessions.Set(float64(sessions))
	that.QueueWaiting.Set(boolToFloat(waiting))
}
