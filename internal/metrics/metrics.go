package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "snowpool"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	grpcRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grpc_requests_total",
			Help:      "gRPC requests by method and status code.",
		},
		[]string{"method", "code"},
	)

	serviceRequestsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "service_requests_submitted_total",
			Help:      "Service requests submitted by postal code.",
		},
		[]string{"postal_code"},
	)

	operatorServicesSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operator_services_submitted_total",
			Help:      "Operator service listings submitted by postal code.",
		},
		[]string{"postal_code"},
	)

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Bookings created by initial status.",
		},
		[]string{"status"},
	)

	priceQuotes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_quotes_total",
			Help:      "Price previews served.",
		},
	)

	rateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the rate limiter.",
		},
	)

	currentDemand = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "current_demand",
			Help:      "Pending or confirmed service requests per postal code.",
		},
		[]string{"postal_code"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			grpcRequests,
			serviceRequestsSubmitted,
			operatorServicesSubmitted,
			bookingsCreated,
			priceQuotes,
			rateLimited,
			currentDemand,
		)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncGRPC(method, code string) {
	grpcRequests.WithLabelValues(method, code).Inc()
}

func IncServiceRequest(postalCode string) {
	serviceRequestsSubmitted.WithLabelValues(postalCode).Inc()
}

func IncOperatorService(postalCode string) {
	operatorServicesSubmitted.WithLabelValues(postalCode).Inc()
}

func IncBooking(status string) {
	bookingsCreated.WithLabelValues(status).Inc()
}

func IncQuote() {
	priceQuotes.Inc()
}

func IncRateLimited() {
	rateLimited.Inc()
}

// SetCurrentDemand records the live demand of a postal area.
func SetCurrentDemand(postalCode string, count int) {
	currentDemand.WithLabelValues(postalCode).Set(float64(count))
}
