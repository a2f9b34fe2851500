package httpclient

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/robusthttp/observability"
)

// clientMetrics bundles the instruments a client records. All
// instruments come from the globally registered meter provider, so
// without a configured SDK they are no-ops.
type clientMetrics struct {
	requests        metric.Int64Counter
	retries         metric.Int64Counter
	rateLimited     metric.Int64Counter
	circuitRejected metric.Int64Counter
	failures        metric.Int64Counter
	duration        metric.Float64Histogram

	clientAttr attribute.KeyValue
}

func newClientMetrics(meter metric.Meter, clientName string) (*clientMetrics, error) {
	m := &clientMetrics{clientAttr: attribute.String("client", clientName)}
	if meter == nil {
		meter = observability.Meter("robusthttp")
	}

	var err error
	if m.requests, err = meter.Int64Counter("httpclient.requests",
		metric.WithDescription("Requests entering the pipeline")); err != nil {
		return nil, err
	}
	if m.retries, err = meter.Int64Counter("httpclient.retries",
		metric.WithDescription("Retry attempts performed")); err != nil {
		return nil, err
	}
	if m.rateLimited, err = meter.Int64Counter("httpclient.rate_limited",
		metric.WithDescription("Requests rejected by the local rate limiter")); err != nil {
		return nil, err
	}
	if m.circuitRejected, err = meter.Int64Counter("httpclient.circuit_rejected",
		metric.WithDescription("Requests rejected by an open circuit breaker")); err != nil {
		return nil, err
	}
	if m.failures, err = meter.Int64Counter("httpclient.failures",
		metric.WithDescription("Terminally failed requests")); err != nil {
		return nil, err
	}
	if m.duration, err = meter.Float64Histogram("httpclient.request_duration",
		metric.WithDescription("Final attempt duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *clientMetrics) recordRequest(ctx context.Context, method string) {
	m.requests.Add(ctx, 1, metric.WithAttributes(m.clientAttr, attribute.String("method", method)))
}

func (m *clientMetrics) recordRetry(ctx context.Context, kind Kind) {
	m.retries.Add(ctx, 1, metric.WithAttributes(m.clientAttr, attribute.String("kind", kind.String())))
}

func (m *clientMetrics) recordRateLimited(ctx context.Context) {
	m.rateLimited.Add(ctx, 1, metric.WithAttributes(m.clientAttr))
}

func (m *clientMetrics) recordCircuitRejected(ctx context.Context) {
	m.circuitRejected.Add(ctx, 1, metric.WithAttributes(m.clientAttr))
}

func (m *clientMetrics) recordFailure(ctx context.Context, kind Kind) {
	m.failures.Add(ctx, 1, metric.WithAttributes(m.clientAttr, attribute.String("kind", kind.String())))
}

func (m *clientMetrics) recordDuration(ctx context.Context, seconds float64, status int) {
	m.duration.Record(ctx, seconds, metric.WithAttributes(m.clientAttr, attribute.Int("status", status)))
}
