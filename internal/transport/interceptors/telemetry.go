package interceptors

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"admin-console/desktop/internal/audit"
)

const instrumentationName = "admin-console/desktop/transport"

// Telemetry returns an interceptor that records one client span per request, named
// "<action> <resource>", plus a request counter and a duration histogram. The trace context is
// propagated in the request headers. Nil providers fall back to the globals.
func Telemetry(tp trace.TracerProvider, mp metric.MeterProvider) Interceptor {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	tracer := tp.Tracer(instrumentationName)
	meter := mp.Meter(instrumentationName)

	requests, err := meter.Int64Counter("console.http.requests",
		metric.WithDescription("Backend requests sent by the console"))
	if err != nil {
		slog.Warn("telemetry: request counter unavailable", "err", err)
	}
	duration, err := meter.Float64Histogram("console.http.duration",
		metric.WithDescription("Backend request duration"), metric.WithUnit("ms"))
	if err != nil {
		slog.Warn("telemetry: duration histogram unavailable", "err", err)
	}
	propagator := propagation.TraceContext{}

	return func(req *http.Request, next Handler) (*http.Response, error) {
		route := routeOf(req)
		ar := audit.ParseRoute(req.Method, route)
		ctx, span := tracer.Start(req.Context(), ar.Action+" "+ar.Resource,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("http.request.method", req.Method),
				attribute.String("url.path", route),
				attribute.String("console.action", ar.Action),
				attribute.String("console.resource", ar.Resource),
			))
		defer span.End()

		req = req.Clone(ctx)
		propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

		start := time.Now()
		resp, err := next(req)
		elapsed := float64(time.Since(start).Microseconds()) / 1000

		outcome := "error"
		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case resp != nil:
			outcome = fmt.Sprint(resp.StatusCode)
			span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
			if resp.StatusCode >= 400 {
				span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
			}
		}

		attrs := metric.WithAttributes(
			attribute.String("console.action", ar.Action),
			attribute.String("console.resource", ar.Resource),
			attribute.String("outcome", outcome),
		)
		if requests != nil {
			requests.Add(ctx, 1, attrs)
		}
		if duration != nil {
			duration.Record(ctx, elapsed, attrs)
		}
		return resp, err
	}
}
