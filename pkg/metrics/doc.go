// Package metrics defines Prometheus metrics for the contact-intake service,
// covering submission intake, mail delivery, the audit trail, and rate
// limiting.
package metrics
