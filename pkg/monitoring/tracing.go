package monitoring

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/exporters/autoexport"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// tracerName is the instrumentation scope name registered with OTel.
const tracerName = "coredb-operator"

// Annotation keys used to carry trace context from the admission webhook
// to the reconciler. The standard W3C header names are prefixed so the
// keys are valid Kubernetes annotations owned by this operator.
const (
	annotationTraceparent   = "coredb.io/traceparent"
	annotationTracestate    = "coredb.io/tracestate"
	annotationTraceparentTS = "coredb.io/traceparent-ts"
)

// traceContextTTL bounds how long an annotated trace context is accepted
// as a span parent. Reconciles triggered long after the admission that
// stamped the annotation should start a fresh trace instead of extending
// a long-finished one.
const traceContextTTL = 10 * time.Minute

// Tracer is the package-level OTel tracer for the operator.
// It returns a noop tracer when no TracerProvider is registered,
// making instrumentation zero-cost in the default configuration.
var Tracer = otel.Tracer(tracerName)

// InitTracing configures the global OTel tracer provider with an OTLP
// exporter resolved from the standard OTEL_* environment variables.
// When OTEL_EXPORTER_OTLP_ENDPOINT is unset, tracing stays disabled and
// the returned shutdown function is a noop.
func InitTracing(ctx context.Context, serviceName, serviceVersion string) (func(context.Context) error, error) {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := autoexport.NewSpanExporter(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OTel resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	// Re-acquire the package tracer so spans go to the new provider.
	Tracer = tp.Tracer(tracerName)

	return tp.Shutdown, nil
}

// StartReconcileSpan starts a new span for a controller reconciliation.
// The span is annotated with the Kubernetes resource name, namespace, and kind.
// Callers must call span.End() when the operation completes.
func StartReconcileSpan(ctx context.Context, spanName, name, namespace, kind string) (context.Context, trace.Span) {
	ctx, span := Tracer.Start(ctx, spanName,
		trace.WithAttributes(
			attribute.String("k8s.resource.name", name),
			attribute.String("k8s.namespace", namespace),
			attribute.String("k8s.resource.kind", kind),
		),
	)
	return ctx, span
}

// StartChildSpan starts a child span under the current trace context.
// Use this for sub-operations within a reconciliation (e.g., ReconcileSecret, UpdateStatus).
func StartChildSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	return Tracer.Start(ctx, spanName)
}

// RecordSpanError records an error on a span and sets the span status to Error.
// If err is nil, this is a no-op.
func RecordSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// InjectTraceContext writes the current span context into the given
// annotation map under operator-owned keys, together with a timestamp
// used for staleness checks on extraction. Invalid span contexts are
// ignored and leave the map untouched.
func InjectTraceContext(ctx context.Context, annotations map[string]string) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return
	}

	carrier := propagation.MapCarrier{}
	propagation.TraceContext{}.Inject(ctx, carrier)

	traceparent, ok := carrier["traceparent"]
	if !ok {
		return
	}
	annotations[annotationTraceparent] = traceparent
	if tracestate, ok := carrier["tracestate"]; ok {
		annotations[annotationTracestate] = tracestate
	}
	annotations[annotationTraceparentTS] = strconv.FormatInt(time.Now().Unix(), 10)
}

// ExtractTraceContext reads a trace context previously stored by
// InjectTraceContext. The second return value reports whether the
// annotation is stale: older than traceContextTTL, or missing its
// timestamp. Callers should start a fresh root span for stale contexts.
func ExtractTraceContext(annotations map[string]string) (context.Context, bool) {
	ctx := context.Background()

	traceparent, ok := annotations[annotationTraceparent]
	if !ok || traceparent == "" {
		return ctx, false
	}

	stale := true
	if raw, ok := annotations[annotationTraceparentTS]; ok {
		if ts, err := strconv.ParseInt(raw, 10, 64); err == nil &&
			time.Since(time.Unix(ts, 0)) < traceContextTTL {
			stale = false
		}
	}

	carrier := propagation.MapCarrier{"traceparent": traceparent}
	if tracestate, ok := annotations[annotationTracestate]; ok {
		carrier["tracestate"] = tracestate
	}
	return propagation.TraceContext{}.Extract(ctx, carrier), stale
}

// EnrichLoggerWithTrace returns a context whose logger carries the
// current trace and span IDs, so operator log lines can be correlated
// with exported spans. The context is returned unchanged when it holds
// no valid span.
func EnrichLoggerWithTrace(ctx context.Context) context.Context {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ctx
	}
	logger := log.FromContext(ctx).WithValues(
		"trace_id", sc.TraceID().String(),
		"span_id", sc.SpanID().String(),
	)
	return log.IntoContext(ctx, logger)
}
