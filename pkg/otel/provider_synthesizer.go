package otel

import (
	"context"
	"time"

	"github.com/adrianliechti/avatar/pkg/avatar"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type Synthesizer interface {
	Observable
	avatar.Provider
}

type observableSynthesizer struct {
	model    string
	provider string

	synthesizer avatar.Provider

	durationMetric metric.Float64Histogram
	outcomeMetric  metric.Int64Counter
}

func NewSynthesizer(provider, model string, p avatar.Provider) Synthesizer {
	meter := otel.Meter(instrumentationName)

	durationMetric, _ := meter.Float64Histogram("avatar.synthesis.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of avatar synthesis jobs from submission to terminal state"),
	)

	outcomeMetric, _ := meter.Int64Counter("avatar.synthesis.outcomes",
		metric.WithDescription("Avatar synthesis jobs by outcome"),
	)

	return &observableSynthesizer{
		synthesizer: p,

		model:    model,
		provider: provider,

		durationMetric: durationMetric,
		outcomeMetric:  outcomeMetric,
	}
}

func (p *observableSynthesizer) otelSetup() {
}

func (p *observableSynthesizer) Synthesize(ctx context.Context, input string, options *avatar.SynthesizeOptions) (*avatar.Synthesis, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "synthesize "+p.model, trace.WithAttributes(
		String("avatar.provider", p.provider),
		String("avatar.model", p.model),
	))
	defer span.End()

	timestamp := time.Now()

	result, err := p.synthesizer.Synthesize(ctx, input, options)

	attrs := []KeyValue{
		String("avatar.provider", p.provider),
		String("avatar.model", p.model),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		p.outcomeMetric.Add(ctx, 1, metric.WithAttributes(KeyValues(attrs, []KeyValue{String("avatar.outcome", "error")})...))

		return result, err
	}

	span.SetAttributes(
		String("avatar.job.id", result.ID),
		String("avatar.job.status", string(result.Status)),
		String("avatar.outcome", string(result.Outcome)),
		Int("avatar.polls", result.Polls),
	)

	if !result.Succeeded() {
		span.SetStatus(codes.Error, "synthesis "+string(result.Outcome))
	}

	attrs = append(attrs, String("avatar.outcome", string(result.Outcome)))

	p.durationMetric.Record(ctx, time.Since(timestamp).Seconds(), metric.WithAttributes(attrs...))
	p.outcomeMetric.Add(ctx, 1, metric.WithAttributes(attrs...))

	return result, nil
}
