package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Polls         *prometheus.CounterVec // result: ok | error
	Notifications *prometheus.CounterVec // type: status | failure
	Errors        *prometheus.CounterVec // kind: homework.Kind
	LastSuccess   prometheus.Gauge
}

// New регистрирует счётчики в reg; nil — значит prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Polls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "homework_bot_polls_total",
			Help: "Poll cycles by result",
		}, []string{"result"}),
		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "homework_bot_notifications_total",
			Help: "Messages delivered to the chat by type",
		}, []string{"type"}),
		Errors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "homework_bot_errors_total",
			Help: "Failed poll cycles by error kind",
		}, []string{"kind"}),
		LastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Name: "homework_bot_last_success_timestamp_seconds",
			Help: "Unix time of the last fully successful poll cycle",
		}),
	}
}

func (m *Metrics) PollOK(at time.Time) {
	if m == nil {
		return
	}
	m.Polls.WithLabelValues("ok").Inc()
	m.LastSuccess.Set(float64(at.Unix()))
}

func (m *Metrics) PollFailed(kind string) {
	if m == nil {
		return
	}
	m.Polls.WithLabelValues("error").Inc()
	m.Errors.WithLabelValues(kind).Inc()
}

func (m *Metrics) Notified(typ string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(typ).Inc()
}
