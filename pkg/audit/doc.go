// Package audit records an event trail for contact submissions. Events are
// fanned out asynchronously to the configured sinks: the structured logger
// and, when configured, a Kafka topic.
package audit
