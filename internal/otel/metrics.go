package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "fermibench"

// Metrics holds all OTEL metric instruments for fermibench.
// All counters are cumulative (monotonic) and safe for concurrent use.
type Metrics struct {
	// LLM token counters (partitioned by provider + model via attributes)
	InputTokens  metric.Int64Counter
	OutputTokens metric.Int64Counter

	// Evaluation counter (partitioned by outcome: pass, fail, error)
	Evaluations metric.Int64Counter

	// Unit-conversion counter (partitioned by result: same, factor, invalid)
	Conversions metric.Int64Counter

	// Conversion cache counters
	ConversionCacheHits   metric.Int64Counter
	ConversionCacheMisses metric.Int64Counter
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.InputTokens, err = meter.Int64Counter("llm.tokens.input",
		metric.WithDescription("Total LLM input tokens consumed"),
		metric.WithUnit("{token}"))
	if err != nil {
		return nil, err
	}

	m.OutputTokens, err = meter.Int64Counter("llm.tokens.output",
		metric.WithDescription("Total LLM output tokens consumed"),
		metric.WithUnit("{token}"))
	if err != nil {
		return nil, err
	}

	m.Evaluations, err = meter.Int64Counter("evaluations.total",
		metric.WithDescription("Total question evaluations partitioned by outcome (pass, fail, error)"))
	if err != nil {
		return nil, err
	}

	m.Conversions, err = meter.Int64Counter("conversions.total",
		metric.WithDescription("Total unit conversions partitioned by result (same, factor, invalid)"))
	if err != nil {
		return nil, err
	}

	m.ConversionCacheHits, err = meter.Int64Counter("conversion_cache.hits",
		metric.WithDescription("Number of conversion cache hits (unit pair seen before)"))
	if err != nil {
		return nil, err
	}

	m.ConversionCacheMisses, err = meter.Int64Counter("conversion_cache.misses",
		metric.WithDescription("Number of conversion cache misses"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordTokens records LLM token usage on the metric counters.
func (m *Metrics) RecordTokens(ctx context.Context, provider, model string, input, output int64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("llm.provider", provider),
		attribute.String("llm.model", model),
	)
	m.InputTokens.Add(ctx, input, attrs)
	m.OutputTokens.Add(ctx, output, attrs)
}

// RecordEvaluation records a scored question with the given outcome.
func (m *Metrics) RecordEvaluation(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.Evaluations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("evaluation.outcome", outcome),
	))
}

// RecordConversion records a unit conversion with the given result kind.
func (m *Metrics) RecordConversion(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.Conversions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("conversion.result", result),
	))
}

// RecordConversionCacheHit records a conversion cache hit.
func (m *Metrics) RecordConversionCacheHit(ctx context.Context) {
	if m == nil {
		return
	}
	m.ConversionCacheHits.Add(ctx, 1)
}

// RecordConversionCacheMiss records a conversion cache miss.
func (m *Metrics) RecordConversionCacheMiss(ctx context.Context) {
	if m == nil {
		return
	}
	m.ConversionCacheMisses.Add(ctx, 1)
}
