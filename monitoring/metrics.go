package monitoring

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)

var (
	DatabaseQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total database queries",
		},
		[]string{"operation"},
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_cache_lookups_total",
			Help: "Client list cache lookups by result",
		},
		[]string{"result"},
	)
)

// GatewayRequests counts calls made by the terminal client to the API.
var GatewayRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "crm_gateway_requests_total",
		Help: "Requests sent by the CRM client, by operation and outcome",
	},
	[]string{"operation", "outcome"},
)

var registerOnce sync.Once

// Init registers every collector with the default registry. Safe to call
// more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestsTotal)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(DatabaseQueries)
		prometheus.MustRegister(CacheLookups)
		prometheus.MustRegister(GatewayRequests)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
