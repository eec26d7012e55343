package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/kbukum/ingestd"

// Execution outcomes recorded on the pipeline execution counter.
const (
	OutcomeSuccess   = "success"
	OutcomeRecovered = "recovered"
	OutcomeFailed    = "failed"
)

// Metrics holds the service's metric instruments.
type Metrics struct {
	executionTotal    metric.Int64Counter
	executionDuration metric.Float64Histogram
	reloadTotal       metric.Int64Counter
	pipelineCount     metric.Int64Gauge
}

// NewMetrics creates the instruments on the global meter.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	executionTotal, err := meter.Int64Counter("pipeline.execution.total",
		metric.WithDescription("Pipeline executions by pipeline and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.execution.total counter: %w", err)
	}

	executionDuration, err := meter.Float64Histogram("pipeline.execution.duration",
		metric.WithDescription("Pipeline execution duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.execution.duration histogram: %w", err)
	}

	reloadTotal, err := meter.Int64Counter("pipeline.reload.total",
		metric.WithDescription("Definition cache reload passes"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.reload.total counter: %w", err)
	}

	pipelineCount, err := meter.Int64Gauge("pipeline.count",
		metric.WithDescription("Number of loaded pipelines"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.count gauge: %w", err)
	}

	return &Metrics{
		executionTotal:    executionTotal,
		executionDuration: executionDuration,
		reloadTotal:       reloadTotal,
		pipelineCount:     pipelineCount,
	}, nil
}

// RecordExecution records one pipeline execution.
func (m *Metrics) RecordExecution(ctx context.Context, pipeline, outcome string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("pipeline", pipeline),
		attribute.String("outcome", outcome),
	)
	m.executionTotal.Add(ctx, 1, attrs)
	m.executionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("pipeline", pipeline),
	))
}

// RecordReload records a reconciliation pass and the resulting cache size.
func (m *Metrics) RecordReload(ctx context.Context, pipelines int) {
	m.reloadTotal.Add(ctx, 1)
	m.pipelineCount.Record(ctx, int64(pipelines))
}
