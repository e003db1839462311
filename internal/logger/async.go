package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Closer flushes and stops a logging backend on shutdown.
type Closer interface {
	Close()
}

type nopCloser struct{}

func (nopCloser) Close() {}

// pipeline is the buffered delivery path shared by an AsyncHandler and
// every derivative created through WithAttrs or WithGroup. Sharing it keeps
// one channel and one drop counter per logger, not per attribute set.
type pipeline struct {
	records chan queued
	workers sync.WaitGroup
	dropped atomic.Int64
}

type queued struct {
	handler slog.Handler
	record  slog.Record
}

// AsyncHandler decouples request handling from log encoding. Records are
// queued and encoded by background workers; when the queue is full the
// record is dropped rather than blocking the request path.
type AsyncHandler struct {
	inner slog.Handler
	pipe  *pipeline
}

// NewAsyncHandler wraps inner with a queue of the given capacity drained by
// the given number of workers.
func NewAsyncHandler(inner slog.Handler, capacity, workers int) *AsyncHandler {
	p := &pipeline{records: make(chan queued, capacity)}
	for range workers {
		p.workers.Add(1)
		go p.run()
	}
	return &AsyncHandler{inner: inner, pipe: p}
}

func (p *pipeline) run() {
	defer p.workers.Done()
	for q := range p.records {
		_ = q.handler.Handle(context.Background(), q.record)
	}
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle queues the record, pairing it with this handler's attribute set so
// derivatives encode with their own attrs.
func (h *AsyncHandler) Handle(_ context.Context, rec slog.Record) error { //nolint:gocritic // slog.Handler interface requires value receiver
	select {
	case h.pipe.records <- queued{handler: h.inner, record: rec}:
	default:
		h.pipe.dropped.Add(1)
	}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{inner: h.inner.WithAttrs(attrs), pipe: h.pipe}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{inner: h.inner.WithGroup(name), pipe: h.pipe}
}

// DroppedCount reports how many records were discarded on queue overflow.
func (h *AsyncHandler) DroppedCount() int64 {
	return h.pipe.dropped.Load()
}

// Close drains the queue and stops the workers. Records queued before the
// call are delivered.
func (h *AsyncHandler) Close() {
	close(h.pipe.records)
	h.pipe.workers.Wait()
}
