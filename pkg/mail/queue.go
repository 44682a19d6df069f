// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package mail

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/telekom/contact-intake/pkg/metrics"
)

// QueueItem is a single notification email with retry bookkeeping.
type QueueItem struct {
	Reference string
	Receivers []string
	Subject   string
	Body      string
	Attempt   int
	CreatedAt time.Time
	NextRetry time.Time
	Succeeded bool
}

// Queue sends notification emails asynchronously with exponential backoff
// retries. Submissions are never blocked on SMTP availability.
type Queue struct {
	sender           Sender
	queue            chan *QueueItem
	log              *zap.SugaredLogger
	maxRetries       int
	initialBackoffMs int
	maxQueueSize     int
	wg               sync.WaitGroup
	ctx              context.Context
	cancel           context.CancelFunc
}

// NewQueue creates a mail queue. Zero or negative parameters fall back to
// defaults (5 retries, 10s initial backoff, 1000 queued items).
func NewQueue(sender Sender, log *zap.SugaredLogger, maxRetries, initialBackoffMs, maxQueueSize int) *Queue {
	if maxRetries <= 0 {
		maxRetries = 5
	}
	if initialBackoffMs <= 0 {
		initialBackoffMs = 10000
	}
	if maxQueueSize <= 0 {
		maxQueueSize = 1000
	}

	log.Infow("Initializing mail queue",
		"maxRetries", maxRetries,
		"initialBackoffMs", initialBackoffMs,
		"maxQueueSize", maxQueueSize)

	ctx, cancel := context.WithCancel(context.Background())

	return &Queue{
		sender:           sender,
		queue:            make(chan *QueueItem, maxQueueSize),
		log:              log,
		maxRetries:       maxRetries,
		initialBackoffMs: initialBackoffMs,
		maxQueueSize:     maxQueueSize,
		ctx:              ctx,
		cancel:           cancel,
	}
}

// Start begins the background worker for processing emails.
func (q *Queue) Start() {
	q.wg.Add(1)
	go q.worker()
	q.log.Info("Mail queue worker started")
}

// Enqueue adds a notification email to the queue for sending.
func (q *Queue) Enqueue(reference string, receivers []string, subject, body string) error {
	if len(receivers) == 0 {
		q.log.Errorw("Cannot enqueue email: empty receivers list",
			"reference", reference,
			"subject", subject)
		metrics.MailQueueDropped.WithLabelValues(q.sender.GetHost()).Inc()
		return fmt.Errorf("cannot enqueue email with no receivers")
	}

	select {
	case <-q.ctx.Done():
		q.log.Errorw("Cannot enqueue, queue is shutting down", "reference", reference)
		metrics.MailQueueDropped.WithLabelValues(q.sender.GetHost()).Inc()
		return fmt.Errorf("queue is shutting down")
	default:
	}

	item := &QueueItem{
		Reference: reference,
		Receivers: receivers,
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now(),
		NextRetry: time.Now(),
	}

	select {
	case q.queue <- item:
		metrics.MailQueued.WithLabelValues(q.sender.GetHost()).Inc()
		q.log.Debugw("Email queued for sending",
			"reference", reference,
			"receivers", len(receivers),
			"subject", subject)
		return nil
	case <-q.ctx.Done():
		metrics.MailQueueDropped.WithLabelValues(q.sender.GetHost()).Inc()
		return fmt.Errorf("queue is shutting down")
	default:
		metrics.MailQueueDropped.WithLabelValues(q.sender.GetHost()).Inc()
		q.log.Errorw("Mail queue is full, dropping message",
			"reference", reference,
			"queueSize", q.maxQueueSize)
		return fmt.Errorf("mail queue is full (capacity: %d)", q.maxQueueSize)
	}
}

// worker processes items from the queue and retries failed sends.
func (q *Queue) worker() {
	defer q.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			q.log.Errorw("panic in mail queue worker recovered", "panic", r)
			metrics.MailFailed.WithLabelValues(q.sender.GetHost()).Inc()
			// Restart the worker to maintain processing capacity
			q.wg.Add(1)
			go q.worker()
		}
	}()

	pending := make([]*QueueItem, 0)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-q.ctx.Done():
			q.log.Info("Mail queue worker shutting down")
			q.processPending(pending)
			return

		case item := <-q.queue:
			if item != nil {
				q.processItem(item)
				if !item.Succeeded && item.Attempt < q.maxRetries {
					pending = append(pending, item)
				}
			}

		case <-ticker.C:
			now := time.Now()
			remaining := make([]*QueueItem, 0)
			for _, item := range pending {
				if !item.Succeeded && now.After(item.NextRetry) {
					q.processItem(item)
				}
				if !item.Succeeded && item.Attempt < q.maxRetries {
					remaining = append(remaining, item)
				}
			}
			pending = remaining
		}
	}
}

// processItem attempts one send and schedules a retry on failure.
func (q *Queue) processItem(item *QueueItem) {
	item.Attempt++

	err := q.sender.Send(item.Receivers, item.Subject, item.Body)
	if err == nil {
		q.log.Infow("Queued email sent",
			"reference", item.Reference,
			"attempt", item.Attempt,
			"receivers", len(item.Receivers))
		metrics.MailSent.WithLabelValues(q.sender.GetHost()).Inc()
		item.Succeeded = true
		return
	}

	if item.Attempt < q.maxRetries {
		backoffMs := q.calculateBackoff(item.Attempt)
		item.NextRetry = time.Now().Add(time.Duration(backoffMs) * time.Millisecond)

		q.log.Warnw("Email send failed, scheduling retry",
			"reference", item.Reference,
			"attempt", item.Attempt,
			"error", err,
			"retryIn", fmt.Sprintf("%dms", backoffMs))
		metrics.MailRetryScheduled.WithLabelValues(q.sender.GetHost()).Inc()
	} else {
		q.log.Errorw("Email send failed after all retries",
			"reference", item.Reference,
			"attempts", item.Attempt,
			"error", err,
			"subject", item.Subject)
		metrics.MailFailed.WithLabelValues(q.sender.GetHost()).Inc()
	}
}

// processPending gives remaining items one final attempt on shutdown.
func (q *Queue) processPending(items []*QueueItem) {
	q.log.Infow("Processing pending items on shutdown", "count", len(items))
	for _, item := range items {
		if item.Attempt < q.maxRetries {
			q.processItem(item)
		}
	}
}

// calculateBackoff computes exponential backoff capped at 30 minutes.
func (q *Queue) calculateBackoff(attempt int) int {
	backoffMs := int(float64(q.initialBackoffMs) * math.Pow(2, float64(attempt-1)))
	if backoffMs > 1800000 {
		backoffMs = 1800000
	}
	return backoffMs
}

// Stop gracefully shuts down the queue, waiting for the worker up to the
// context deadline.
func (q *Queue) Stop(ctx context.Context) error {
	q.log.Info("Stopping mail queue")
	q.cancel()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.log.Info("Mail queue stopped gracefully")
		return nil
	case <-ctx.Done():
		q.log.Warn("Mail queue shutdown timeout, some items may not have been processed")
		return ctx.Err()
	}
}

// Length returns the current number of items in the queue.
func (q *Queue) Length() int {
	return len(q.queue)
}
