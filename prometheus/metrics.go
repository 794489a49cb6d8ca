package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "voicehub_login_total",
			Help: "Total number of login attempts",
		},
	)

	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "voicehub_register_total",
			Help: "Total number of user registrations",
		},
	)

	OrgSwitchCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "voicehub_org_switch_total",
			Help: "Total number of active-organization switches",
		},
	)

	OrgOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voicehub_org_operations_total",
			Help: "Total number of organization operations",
		},
		[]string{"operation"}, // "create", "switch", "add_member", "transfer", etc.
	)

	AgentOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voicehub_agent_operations_total",
			Help: "Total number of voice agent operations",
		},
		[]string{"operation"}, // "create", "update", "delete", "list"
	)

	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voicehub_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voicehub_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"},
	)

	PermissionDeniedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voicehub_permission_denied_total",
			Help: "Total number of RBAC denials by action",
		},
		[]string{"action", "role"},
	)
)

// Histogram metrics
var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "voicehub_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "voicehub_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	ActiveTokensGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "voicehub_active_tokens",
			Help: "Number of currently active authentication tokens",
		},
	)

	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "voicehub_info",
			Help: "Information about the voicehub service",
		},
		[]string{"version"},
	)
)

func init() {
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(OrgSwitchCounter)
	prometheus.MustRegister(OrgOperationCounter)
	prometheus.MustRegister(AgentOperationCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(PermissionDeniedCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	prometheus.MustRegister(ActiveTokensGauge)
	prometheus.MustRegister(InfoGauge)

	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// IncreaseActiveTokens increments the active tokens gauge
func IncreaseActiveTokens() {
	ActiveTokensGauge.Inc()
}

// DecreaseActiveTokens decrements the active tokens gauge
func DecreaseActiveTokens() {
	ActiveTokensGauge.Dec()
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordOrgOperation records an organization operation
func RecordOrgOperation(operation string) {
	OrgOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordAgentOperation records a voice agent operation
func RecordAgentOperation(operation string) {
	AgentOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordPermissionDenied records an RBAC denial by action and acting role
func RecordPermissionDenied(action string, role string) {
	PermissionDeniedCounter.With(prometheus.Labels{"action": action, "role": role}).Inc()
}
