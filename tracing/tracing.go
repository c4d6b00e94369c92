// Package tracing records upload runs as OpenTelemetry spans: one span per
// run, per walked directory, per page operation and per HTTP call.
package tracing

import (
	"context"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/olgasafonova/confluence-upload/internal/version"
)

const TracerName = "confluence-upload"

// Span attribute keys
const (
	AttrOperation = attribute.Key("confluence.api.operation")
	AttrSpace     = attribute.Key("confluence.space")
	AttrTitle     = attribute.Key("confluence.page.title")
	AttrPageID    = attribute.Key("confluence.page.id")
	AttrOutcome   = attribute.Key("confluence.page.outcome")

	AttrDir       = attribute.Key("uploader.dir")
	AttrDepth     = attribute.Key("uploader.depth")
	AttrRootTitle = attribute.Key("uploader.root_title")
	AttrParentID  = attribute.Key("uploader.parent_id")
	AttrCreated   = attribute.Key("uploader.created")
	AttrSkipped   = attribute.Key("uploader.skipped")
	AttrFailed    = attribute.Key("uploader.failed")
)

// Config holds tracing configuration
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Enabled        bool
	OTLPEndpoint   string // If set, uses OTLP exporter; otherwise pretty-printed to Writer
	Writer         io.Writer
	SampleRate     float64
}

// DefaultConfig reads OTEL_ENABLED, OTEL_EXPORTER_OTLP_ENDPOINT and
// OTEL_ENVIRONMENT. Tracing is off unless one of the first two is set.
func DefaultConfig() Config {
	env := os.Getenv("OTEL_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	return Config{
		ServiceName:    TracerName,
		ServiceVersion: version.Version,
		Environment:    env,
		Enabled:        os.Getenv("OTEL_ENABLED") == "true" || endpoint != "",
		OTLPEndpoint:   endpoint,
		SampleRate:     1.0,
	}
}

// Setup installs the global tracer provider and returns its shutdown func.
// When tracing is disabled the shutdown func is a no-op.
func Setup(ctx context.Context, config Config) (func(context.Context) error, error) {
	if !config.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
			attribute.String("environment", config.Environment),
		),
	)
	if err != nil {
		return nil, err
	}

	var exporter sdktrace.SpanExporter
	if config.OTLPEndpoint != "" {
		exporter, err = otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(config.OTLPEndpoint),
			otlptracehttp.WithInsecure(),
		)
	} else {
		// never stdout: it carries the report or the MCP protocol
		w := config.Writer
		if w == nil {
			w = os.Stderr
		}
		exporter, err = stdouttrace.New(
			stdouttrace.WithPrettyPrint(),
			stdouttrace.WithWriter(w),
		)
	}
	if err != nil {
		return nil, err
	}

	var sampler sdktrace.Sampler
	switch {
	case config.SampleRate >= 1.0:
		sampler = sdktrace.AlwaysSample()
	case config.SampleRate <= 0:
		sampler = sdktrace.NeverSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(config.SampleRate)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

// Tracer returns the uploader's tracer from the global provider
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// StartSpan starts a new span with the given name and returns the context and span
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}

// StartPageSpan starts "confluence.<operation>_page" for one page in space
func StartPageSpan(ctx context.Context, operation, space, title string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		AttrOperation.String(operation),
		AttrSpace.String(space),
	}
	if title != "" {
		attrs = append(attrs, AttrTitle.String(title))
	}
	return StartSpan(ctx, "confluence."+operation+"_page", trace.WithAttributes(attrs...))
}

// EndPage records the outcome of a page operation. A non-nil err marks the
// span as failed.
func EndPage(span trace.Span, outcome, id string, err error) {
	span.SetAttributes(AttrOutcome.String(outcome))
	if id != "" {
		span.SetAttributes(AttrPageID.String(id))
	}
	RecordError(span, err)
}

// StartRunSpan starts the span covering a whole upload run
func StartRunSpan(ctx context.Context, dir, rootTitle, parentID string) (context.Context, trace.Span) {
	return StartSpan(ctx, "uploader.upload", trace.WithAttributes(
		AttrDir.String(dir),
		AttrRootTitle.String(rootTitle),
		AttrParentID.String(parentID),
	))
}

// StartWalkSpan starts the span for one directory level
func StartWalkSpan(ctx context.Context, dir string, depth int) (context.Context, trace.Span) {
	return StartSpan(ctx, "uploader.walk", trace.WithAttributes(
		AttrDir.String(dir),
		AttrDepth.Int(depth),
	))
}

// AddCounts attaches page tallies to a run or walk span
func AddCounts(span trace.Span, created, skipped, failed int) {
	span.SetAttributes(
		AttrCreated.Int(created),
		AttrSkipped.Int(skipped),
		AttrFailed.Int(failed),
	)
}

// AddToolAttributes adds standard tool attributes to a span
func AddToolAttributes(span trace.Span, toolName, category string) {
	span.SetAttributes(
		attribute.String("mcp.tool.name", toolName),
		attribute.String("mcp.tool.category", category),
	)
}

// RecordError records err on the span and sets an error status. nil is a no-op.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
