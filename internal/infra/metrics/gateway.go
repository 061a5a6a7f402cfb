package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		gatewayRequestsTotal,
		gatewayRequestDuration,
	)
}

var (
	// result: ok|http_error|code_error|transport_error|decode_error
	gatewayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Calls to the payment gateway API by method, endpoint and result.",
		},
		[]string{"method", "endpoint", "result"},
	)

	gatewayRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "Latency of payment gateway API calls in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "endpoint"},
	)
)

// ObserveGatewayCall records one API round trip. The endpoint label is the first
// path segment so ids do not explode cardinality.
func ObserveGatewayCall(method, path, result string, d time.Duration) {
	ep := endpoint(path)
	gatewayRequestsTotal.WithLabelValues(strings.ToUpper(method), ep, norm(result)).Inc()
	gatewayRequestDuration.WithLabelValues(strings.ToUpper(method), ep).Observe(d.Seconds())
}

func endpoint(path string) string {
	path = strings.Trim(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "root"
	}
	return path
}

// StatusClass turns 404 into "4xx".
func StatusClass(code int) string {
	if code <= 0 {
		return "none"
	}
	return strconv.Itoa(code/100) + "xx"
}
