package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/croftlabs/verdant/internal/port/messagequeue"
)

// instrumentedQueue decorates a queue so every publish is counted.
type instrumentedQueue struct {
	messagequeue.Queue
	metrics *Metrics
}

// InstrumentQueue wraps q so publishes increment the events counter,
// labeled by subject.
func InstrumentQueue(q messagequeue.Queue, m *Metrics) messagequeue.Queue {
	return &instrumentedQueue{Queue: q, metrics: m}
}

func (q *instrumentedQueue) Publish(ctx context.Context, subject string, data []byte) error {
	err := q.Queue.Publish(ctx, subject, data)
	q.metrics.EventsPublished.Add(ctx, 1, metric.WithAttributes(
		attribute.String("subject", subject),
		attribute.Bool("failed", err != nil),
	))
	return err
}
