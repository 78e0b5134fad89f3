package track

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/abcnews/content-carousel/internal/track"

// OTelCounter mirrors increments into an OpenTelemetry counter.
type OTelCounter struct {
	counter metric.Int64Counter
}

// NewOTelCounter creates a counter on m. A nil meter uses the global provider
// (no-op unless one is configured).
func NewOTelCounter(m metric.Meter) (*OTelCounter, error) {
	if m == nil {
		m = otel.Meter(instrumentationName)
	}
	c, err := m.Int64Counter(
		"carousel.behaviour.count",
		metric.WithDescription("Carousel behaviour answers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating behaviour counter: %w", err)
	}
	return &OTelCounter{counter: c}, nil
}

// Increment adds one to the counter for the increment's attributes.
func (o *OTelCounter) Increment(ctx context.Context, inc Increment) error {
	o.counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("group", inc.Group),
		attribute.String("question", inc.Question),
		attribute.String("answer", inc.Answer),
	))
	return nil
}
