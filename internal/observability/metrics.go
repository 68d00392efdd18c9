package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const metricNamespace = "flor-web"

// Metrics records storefront counters. Instruments that fail to register are skipped.
type Metrics struct {
	mutations      metric.Int64Counter
	applies        metric.Int64Counter
	items          metric.Int64Histogram
	mutationsReady bool
	appliesReady   bool
	itemsReady     bool
}

// MetricsOption customises NewMetrics.
type MetricsOption func(*metricsConfig)

type metricsConfig struct {
	meter  metric.Meter
	logger *zap.Logger
}

// WithMeter overrides the global meter provider.
func WithMeter(m metric.Meter) MetricsOption {
	return func(c *metricsConfig) { c.meter = m }
}

// WithMetricsLogger reports registration failures.
func WithMetricsLogger(l *zap.Logger) MetricsOption {
	return func(c *metricsConfig) { c.logger = l }
}

// NewMetrics registers the cart and catalogue instruments.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := metricsConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.meter == nil {
		cfg.meter = otel.GetMeterProvider().Meter(metricNamespace)
	}

	m := &Metrics{}
	var err error
	m.mutations, err = cfg.meter.Int64Counter(
		"flor.cart.mutations",
		metric.WithDescription("Persisted cart mutations by operation"),
	)
	if err != nil {
		cfg.logger.Warn("metrics: unable to register cart mutation counter", zap.Error(err))
	}
	m.mutationsReady = err == nil

	m.items, err = cfg.meter.Int64Histogram(
		"flor.cart.items",
		metric.WithDescription("Line items held by the cart after a mutation"),
	)
	if err != nil {
		cfg.logger.Warn("metrics: unable to register cart size histogram", zap.Error(err))
	}
	m.itemsReady = err == nil

	m.applies, err = cfg.meter.Int64Counter(
		"flor.catalogue.applies",
		metric.WithDescription("Filter and sort passes over the catalogue grid"),
	)
	if err != nil {
		cfg.logger.Warn("metrics: unable to register catalogue apply counter", zap.Error(err))
	}
	m.appliesReady = err == nil
	return m
}

// RecordMutation implements cart.Recorder.
func (m *Metrics) RecordMutation(ctx context.Context, op string, items int) {
	if m == nil {
		return
	}
	if m.mutationsReady {
		m.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	}
	if m.itemsReady {
		m.items.Record(ctx, int64(items))
	}
}

// RecordApply counts one panel apply with the number of visible cards.
func (m *Metrics) RecordApply(ctx context.Context, visible int) {
	if m == nil || !m.appliesReady {
		return
	}
	m.applies.Add(ctx, 1, metric.WithAttributes(attribute.Bool("empty", visible == 0)))
}
