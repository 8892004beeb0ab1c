package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salesbot",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status code.",
		},
		[]string{"endpoint", "code"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register(reg prometheus.Registerer) {
	once.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		reg.MustRegister(httpRequests)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string, code int) {
	httpRequests.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
}
