package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Submission lifecycle metrics
	SubmissionsReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_intake_submissions_received_total",
		Help: "Total number of contact form submissions received",
	}, []string{"source"})
	SubmissionsStored = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_intake_submissions_stored_total",
		Help: "Total number of contact submissions persisted",
	}, []string{"source"})
	SubmissionsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_intake_submissions_rejected_total",
		Help: "Total number of contact submissions rejected by validation",
	}, []string{"source", "reason"})
	SubmissionsStoreFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_intake_submissions_store_failed_total",
		Help: "Total number of contact submissions that failed to persist",
	}, []string{"source"})
	RateLimitedRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_intake_rate_limited_requests_total",
		Help: "Total number of submission requests dropped by rate limiting",
	}, []string{"source"})

	// Mail queue metrics
	MailQueued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_intake_mail_queued_total",
		Help: "Total number of notification emails enqueued for sending",
	}, []string{"host"})
	MailSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_intake_mail_sent_total",
		Help: "Total number of notification emails sent successfully",
	}, []string{"host"})
	MailFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_intake_mail_failed_total",
		Help: "Total number of notification emails that failed after all retries",
	}, []string{"host"})
	MailRetryScheduled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_intake_mail_retry_scheduled_total",
		Help: "Total number of mail send retries scheduled",
	}, []string{"host"})
	MailQueueDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_intake_mail_queue_dropped_total",
		Help: "Total number of emails dropped because the queue was full or shutting down",
	}, []string{"host"})
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_intake_mail_send_success_total",
		Help: "Total number of successful SMTP deliveries",
	}, []string{"host"})
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_intake_mail_send_failure_total",
		Help: "Total number of failed SMTP delivery attempts",
	}, []string{"host"})

	// API endpoint metrics
	APIEndpointRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_intake_api_requests_total",
		Help: "Total number of requests per API endpoint",
	}, []string{"endpoint"})
	APIEndpointErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_intake_api_errors_total",
		Help: "Total number of error responses per API endpoint and status code",
	}, []string{"endpoint", "status"})
	APIEndpointDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "contact_intake_api_request_duration_seconds",
		Help:    "Request handling duration per API endpoint",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	// Audit trail metrics
	AuditEventsEmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_intake_audit_events_emitted_total",
		Help: "Total number of audit events written per sink",
	}, []string{"sink"})
	AuditEventsFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_intake_audit_events_failed_total",
		Help: "Total number of audit events a sink failed to write",
	}, []string{"sink"})
	AuditEventsDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_intake_audit_events_dropped_total",
		Help: "Total number of audit events dropped because the queue was full",
	}, []string{"sink"})
)

func init() {
	prometheus.MustRegister(SubmissionsReceived)
	prometheus.MustRegister(SubmissionsStored)
	prometheus.MustRegister(SubmissionsRejected)
	prometheus.MustRegister(SubmissionsStoreFailed)
	prometheus.MustRegister(RateLimitedRequests)
	prometheus.MustRegister(MailQueued)
	prometheus.MustRegister(MailSent)
	prometheus.MustRegister(MailFailed)
	prometheus.MustRegister(MailRetryScheduled)
	prometheus.MustRegister(MailQueueDropped)
	prometheus.MustRegister(MailSendSuccess)
	prometheus.MustRegister(MailSendFailure)
	prometheus.MustRegister(APIEndpointRequests)
	prometheus.MustRegister(APIEndpointErrors)
	prometheus.MustRegister(APIEndpointDuration)
	prometheus.MustRegister(AuditEventsEmitted)
	prometheus.MustRegister(AuditEventsFailed)
	prometheus.MustRegister(AuditEventsDropped)
}

// MetricsHandler returns an http.Handler exposing Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
