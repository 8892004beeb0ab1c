package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics структура для метрик Prometheus
type Metrics struct {
	UpdatesProcessed      *prometheus.CounterVec
	ErrorsTotal           prometheus.Counter
	PanicsTotal           prometheus.Counter
	RateLimited           prometheus.Counter
	UpdateProcessingTime  prometheus.Histogram
	RegistrationsComplete prometheus.Counter
	ClientsCreated        prometheus.Counter
	RemindersSent         prometheus.Counter
}

// NewMetrics регистрирует метрики бота в reg (prometheus.DefaultRegisterer в main)
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UpdatesProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "salesbot_updates_processed_total",
			Help: "Processed Telegram updates by kind",
		}, []string{"kind"}),

		ErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "salesbot_errors_total",
			Help: "Unexpected errors while handling updates",
		}),

		PanicsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "salesbot_panics_total",
			Help: "Recovered panics in update handlers",
		}),

		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "salesbot_rate_limited_total",
			Help: "Updates rejected by the per-user rate limit",
		}),

		UpdateProcessingTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "salesbot_update_processing_time_seconds",
			Help:    "Time spent processing updates",
			Buckets: prometheus.DefBuckets,
		}),

		RegistrationsComplete: factory.NewCounter(prometheus.CounterOpts{
			Name: "salesbot_registrations_completed_total",
			Help: "Managers who accepted the terms",
		}),

		ClientsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "salesbot_clients_created_total",
			Help: "Clients added by managers",
		}),

		RemindersSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "salesbot_reminders_sent_total",
			Help: "Due reminders delivered to managers",
		}),
	}
}
