package interceptors

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTelemetry_RecordsSpanAndMetrics(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	ic := Telemetry(tp, mp)
	req := httptest.NewRequest(http.MethodGet, "http://example.com/v1/users/42", nil)
	req = req.WithContext(WithRoute(req.Context(), "/users/42"))

	var sent *http.Request
	next := func(r *http.Request) (*http.Response, error) {
		sent = r
		return &http.Response{StatusCode: http.StatusNotFound, Body: http.NoBody}, nil
	}
	if _, err := ic(req, next); err != nil {
		t.Fatalf("interceptor: %v", err)
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	if spans[0].Name() != "get user" {
		t.Errorf("span name = %q, want %q", spans[0].Name(), "get user")
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("404 span status = %v, want Error", spans[0].Status().Code)
	}
	if sent.Header.Get("traceparent") == "" {
		t.Error("trace context should be propagated")
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}
	if !names["console.http.requests"] || !names["console.http.duration"] {
		t.Errorf("metrics = %v, want request counter and duration histogram", names)
	}
}

func TestTelemetry_TransportError(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	ic := Telemetry(tp, sdkmetric.NewMeterProvider())

	req := httptest.NewRequest(http.MethodPost, "http://example.com/auth/signin", nil)
	want := errors.New("connection refused")
	if _, err := ic(req, func(*http.Request) (*http.Response, error) { return nil, want }); err != want {
		t.Fatalf("err = %v, want passthrough", err)
	}
	spans := sr.Ended()
	if len(spans) != 1 || spans[0].Name() != "login auth" {
		t.Fatalf("spans = %v", spans)
	}
	if spans[0].Status().Code != codes.Error {
		t.Error("span should carry the error status")
	}
}
