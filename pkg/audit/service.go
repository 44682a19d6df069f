// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/telekom/contact-intake/pkg/metrics"
)

const drainTimeout = 10 * time.Second

// Service fans audit events out to the configured sinks through a bounded
// asynchronous queue. Emit never blocks the request path; when the queue is
// full the event is dropped and counted.
type Service struct {
	sinks  []Sink
	logger *zap.Logger
	queue  chan *Event
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewService creates an audit service writing to the given sinks.
func NewService(logger *zap.Logger, queueSize int, sinks ...Sink) *Service {
	if queueSize <= 0 {
		queueSize = 1000
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		sinks:  sinks,
		logger: logger.Named("audit-service"),
		queue:  make(chan *Event, queueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	s.wg.Add(1)
	go s.worker()
	return s
}

// Emit queues an audit event for delivery. It never blocks; events are
// dropped (and counted) when the queue is full or the service is closed.
func (s *Service) Emit(event *Event) {
	select {
	case <-s.ctx.Done():
		metrics.AuditEventsDropped.WithLabelValues("queue").Inc()
		return
	default:
	}

	select {
	case s.queue <- event:
	default:
		metrics.AuditEventsDropped.WithLabelValues("queue").Inc()
		s.logger.Warn("audit queue full, dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}
}

// worker delivers queued events to every sink.
func (s *Service) worker() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			s.drain()
			return
		case event := <-s.queue:
			s.deliver(event)
		}
	}
}

// drain writes events still queued at shutdown, bounded by drainTimeout.
func (s *Service) drain() {
	deadline := time.Now().Add(drainTimeout)
	for {
		select {
		case event := <-s.queue:
			if time.Now().After(deadline) {
				metrics.AuditEventsDropped.WithLabelValues("queue").Inc()
				continue
			}
			s.deliver(event)
		default:
			return
		}
	}
}

func (s *Service) deliver(event *Event) {
	if event == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	for _, sink := range s.sinks {
		if err := sink.Write(ctx, event); err != nil {
			metrics.AuditEventsFailed.WithLabelValues(sink.Name()).Inc()
			s.logger.Warn("audit sink write failed",
				zap.String("sink", sink.Name()),
				zap.String("event_id", event.ID),
				zap.Error(err))
			continue
		}
		metrics.AuditEventsEmitted.WithLabelValues(sink.Name()).Inc()
	}
}

// Close stops the worker, drains the queue, and closes all sinks.
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()

	var firstErr error
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
