package workprogress

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/meetingscribe/workprogress/internal/workprogress"

// Metrics holds data-access layer metrics.
type Metrics struct {
	meter      metric.Meter
	logger     *zap.Logger
	duration   metric.Float64Histogram
	readSource metric.Int64Counter
	errors     metric.Int64Counter
}

// NewMetrics creates a Metrics instance. Instruments register against the
// global meter provider; the host application wires the exporter.
func NewMetrics(logger *zap.Logger) *Metrics {
	m := &Metrics{
		meter:  otel.Meter(instrumentationName),
		logger: logger,
	}
	m.init()
	return m
}

func (m *Metrics) init() {
	var err error

	m.duration, err = m.meter.Float64Histogram(
		"workprogress.operation.duration_seconds",
		metric.WithDescription("Duration of data-access operations in seconds, labeled by operation (tasks, create_task, start_session, ...)"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		m.logger.Warn("failed to create duration histogram", zap.Error(err))
	}

	m.readSource, err = m.meter.Int64Counter(
		"workprogress.read.source_total",
		metric.WithDescription("Read results by serving tier: remote, cache, stale_cache, mirror, empty"),
		metric.WithUnit("{read}"),
	)
	if err != nil {
		m.logger.Warn("failed to create read source counter", zap.Error(err))
	}

	m.errors, err = m.meter.Int64Counter(
		"workprogress.operation.errors_total",
		metric.WithDescription("Operation errors after taxonomy translation, labeled by operation"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		m.logger.Warn("failed to create errors counter", zap.Error(err))
	}
}

// RecordOperation records one operation's duration and error status.
func (m *Metrics) RecordOperation(ctx context.Context, op string, d time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("operation", op))
	if m.duration != nil {
		m.duration.Record(ctx, d.Seconds(), attrs)
	}
	if err != nil && m.errors != nil {
		m.errors.Add(ctx, 1, attrs)
	}
}

// RecordReadSource records which tier served a read.
func (m *Metrics) RecordReadSource(ctx context.Context, op, source string) {
	if m.readSource == nil {
		return
	}
	m.readSource.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("source", source),
	))
}
