// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies what happened to a contact submission.
type EventType string

const (
	// EventSubmissionReceived is emitted when a POST reaches the handler.
	EventSubmissionReceived EventType = "contact.submission.received"
	// EventSubmissionStored is emitted after the submission row is persisted.
	EventSubmissionStored EventType = "contact.submission.stored"
	// EventSubmissionRejected is emitted when validation rejects a post.
	EventSubmissionRejected EventType = "contact.submission.rejected"
	// EventNotificationQueued is emitted when the notification email is
	// handed to the mail queue.
	EventNotificationQueued EventType = "contact.notification.queued"
)

// Actor describes who performed the submission.
type Actor struct {
	Email     string `json:"email,omitempty"`
	SourceIP  string `json:"sourceIP,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
}

// Event is a single audit trail entry.
type Event struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Actor     Actor             `json:"actor"`
	// Reference is the submission reference the event belongs to, when one
	// exists (rejected posts have none).
	Reference string            `json:"reference,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

// NewEvent creates an event with a fresh ID and the current timestamp.
func NewEvent(eventType EventType, actor Actor, reference string) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Actor:     actor,
		Reference: reference,
	}
}

// WithDetail attaches a key/value detail and returns the event for chaining.
func (e *Event) WithDetail(key, value string) *Event {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}
