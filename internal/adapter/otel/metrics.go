package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "verdant"

// Metrics holds the service's metric instruments.
type Metrics struct {
	RequestsTotal   metric.Int64Counter
	RequestDuration metric.Float64Histogram
	EventsPublished metric.Int64Counter
}

// NewMetrics creates all metric instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.RequestsTotal, err = meter.Int64Counter("verdant.http.requests",
		metric.WithDescription("Number of HTTP requests handled"))
	if err != nil {
		return nil, err
	}

	m.RequestDuration, err = meter.Float64Histogram("verdant.http.duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"))
	if err != nil {
		return nil, err
	}

	m.EventsPublished, err = meter.Int64Counter("verdant.events.published",
		metric.WithDescription("Number of change events published"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
