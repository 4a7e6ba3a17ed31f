package aigateway

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/meetingscribe/workprogress/internal/aigateway"

// Metrics tracks which tier answered questions.
type Metrics struct {
	askSource metric.Int64Counter
}

// NewMetrics registers gateway instruments against the global meter provider.
func NewMetrics(logger *zap.Logger) *Metrics {
	m := &Metrics{}
	meter := otel.Meter(instrumentationName)

	var err error
	m.askSource, err = meter.Int64Counter(
		"aigateway.ask.source_total",
		metric.WithDescription("Answers by serving tier: database, ai, fallback"),
		metric.WithUnit("{answer}"),
	)
	if err != nil && logger != nil {
		logger.Warn("failed to create ask source counter", zap.Error(err))
	}
	return m
}

// RecordAsk records the tier that produced an answer.
func (m *Metrics) RecordAsk(ctx context.Context, source string) {
	if m.askSource == nil {
		return
	}
	m.askSource.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}
