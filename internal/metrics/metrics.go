package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lead outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeUpstream = "upstream_error"
	OutcomeError    = "error"
)

var (
	LeadsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prebook_leads_submitted_total",
			Help: "Total number of lead submissions by outcome",
		},
		[]string{"outcome"},
	)

	CRMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prebook_crm_request_duration_seconds",
			Help:    "Duration of CRM lead creation calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status_class"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prebook_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	AuditWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prebook_audit_write_failures_total",
			Help: "Lead audit records that could not be written",
		},
	)
)

// StatusClass buckets an HTTP status code as "2xx", "4xx" and so on. Zero
// means no response was received.
func StatusClass(code int) string {
	switch {
	case code <= 0:
		return "none"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
