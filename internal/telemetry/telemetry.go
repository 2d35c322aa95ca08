// Package telemetry wires the connection multiplexer and request codec to
// a structured log sink and OpenTelemetry metrics/tracing, the way the
// rest of this client wires third-party collaborators instead of
// reinventing them.
package telemetry

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Fields is a small structured key/value bag passed through to the Log
// sink, avoiding fmt.Sprintf-built messages for anything a caller might
// want to query.
type Fields map[string]any

// Telemetry bundles a logger, a meter, and a tracer behind the shapes
// this client's connection and codec layers call through.
type Telemetry struct {
	Log    logr.Logger
	meter  metric.Meter
	tracer trace.Tracer

	produceMessages metric.Int64Counter
	produceBytes    metric.Int64Counter
	produceSaved    metric.Int64Counter
}

// Option configures a Telemetry at construction.
type Option func(*config)

type config struct {
	log            logr.Logger
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	serviceName    string
}

// WithLogger overrides the default stdr-backed logger.
func WithLogger(log logr.Logger) Option {
	return func(c *config) { c.log = log }
}

// WithMeterProvider installs a custom otel MeterProvider; the default is
// a no-op provider.
func WithMeterProvider(p metric.MeterProvider) Option {
	return func(c *config) { c.meterProvider = p }
}

// WithTracerProvider installs a custom otel TracerProvider.
func WithTracerProvider(p trace.TracerProvider) Option {
	return func(c *config) { c.tracerProvider = p }
}

// New builds a Telemetry. With no options it logs through stdr at the
// standard library's default logger and uses no-op otel meter and tracer
// providers; the global otel providers are not consulted.
func New(serviceName string, opts ...Option) *Telemetry {
	cfg := config{
		log:         stdr.New(nil),
		serviceName: serviceName,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var meter metric.Meter
	if cfg.meterProvider != nil {
		meter = cfg.meterProvider.Meter(cfg.serviceName)
	} else {
		meter = noop.NewMeterProvider().Meter(cfg.serviceName)
	}

	var tracer trace.Tracer
	if cfg.tracerProvider != nil {
		tracer = cfg.tracerProvider.Tracer(cfg.serviceName)
	} else {
		tracer = tracenoop.NewTracerProvider().Tracer(cfg.serviceName)
	}

	t := &Telemetry{Log: cfg.log, meter: meter, tracer: tracer}

	t.produceMessages, _ = meter.Int64Counter("produce.messages",
		metric.WithDescription("messages encoded into Produce requests"))
	t.produceBytes, _ = meter.Int64Counter("produce.bytes",
		metric.WithDescription("encoded bytes written for Produce requests"))
	t.produceSaved, _ = meter.Int64Counter("produce.bytes_compressed",
		metric.WithDescription("bytes saved by compression when encoding Produce requests"))

	return t
}

// NotifyProduce records one Produce encode's message/byte counters and
// logs a one-line summary with humanized byte sizes. It matches the
// shape of protocol.ProduceTelemetryFunc so it can be installed directly
// via RequestContext.WithTelemetry.
func (t *Telemetry) NotifyProduce(count, requestBytes, compressedBytes int) {
	ctx := context.Background()
	t.produceMessages.Add(ctx, int64(count))
	t.produceBytes.Add(ctx, int64(requestBytes))
	if compressedBytes > 0 {
		t.produceSaved.Add(ctx, int64(compressedBytes))
	}
	t.Log.V(1).Info("produce encoded",
		"messages", count,
		"size", humanize.Bytes(uint64(requestBytes)),
		"saved", humanize.Bytes(uint64(compressedBytes)),
	)
}

// SendSpan starts one OpenTelemetry span per Connection.send call,
// tagged with the attributes a caller would need to correlate a slow or
// failed send back to its wire-level request.
func (t *Telemetry) SendSpan(ctx context.Context, endpoint string, apiKey int16, apiVersion int16, correlationID int32) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "kafkaclient.send",
		trace.WithAttributes(
			attribute.String("kafka.broker", endpoint),
			attribute.Int64("kafka.api_key", int64(apiKey)),
			attribute.Int64("kafka.api_version", int64(apiVersion)),
			attribute.Int64("kafka.correlation_id", int64(correlationID)),
		),
	)
}

// Fields attaches a Fields bag to a log call as alternating key/value
// pairs, the shape logr.Logger.Info expects.
func (f Fields) asKeysAndValues() []any {
	kv := make([]any, 0, len(f)*2)
	for k, v := range f {
		kv = append(kv, k, v)
	}
	return kv
}

// Info logs msg at the info level with fields attached.
func (t *Telemetry) Info(msg string, fields Fields) {
	t.Log.Info(msg, fields.asKeysAndValues()...)
}

// Error logs msg at the error level with fields attached.
func (t *Telemetry) Error(err error, msg string, fields Fields) {
	t.Log.Error(err, msg, fields.asKeysAndValues()...)
}
