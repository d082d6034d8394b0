// Package otel builds the console's OpenTelemetry providers. Spans and metrics come from the
// transport interceptors, log records from the event emitter in this package. Export is OTLP
// over gRPC; without a collector endpoint the providers still record locally and export nothing.
package otel

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
	"google.golang.org/grpc"
)

// A console command runs for seconds, so batches are flushed far sooner than SDK defaults.
const (
	batchTimeout   = 2 * time.Second
	metricInterval = 15 * time.Second
)

// Options describes the console process to the collector.
type Options struct {
	// Endpoint is the OTLP gRPC collector (host:port or URL; any path is ignored). Empty disables export.
	Endpoint string
	// Insecure forces plaintext; otherwise only https endpoints use TLS.
	Insecure bool

	ServiceName    string
	ServiceVersion string
	Environment    string // APP_ENV, reported as deployment.environment.name
}

// Providers holds the OpenTelemetry providers handed to the interceptors and emitters.
type Providers struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *metric.MeterProvider
	LoggerProvider *sdklog.LoggerProvider
	Resource       *resource.Resource

	shutdown []func(context.Context) error
}

// NewProviders builds providers for opts. Exporters dial lazily, so a missing collector is not
// an error here.
func NewProviders(ctx context.Context, opts Options) (*Providers, error) {
	res, err := consoleResource(opts)
	if err != nil {
		return nil, err
	}
	p := &Providers{Resource: res}

	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		p.TracerProvider = sdktrace.NewTracerProvider(sdktrace.WithResource(res))
		p.MeterProvider = metric.NewMeterProvider(metric.WithResource(res))
		p.LoggerProvider = sdklog.NewLoggerProvider(sdklog.WithResource(res))
		p.shutdown = []func(context.Context) error{p.TracerProvider.Shutdown, p.MeterProvider.Shutdown, p.LoggerProvider.Shutdown}
		return p, nil
	}

	target, insecure, err := collectorTarget(endpoint, opts.Insecure)
	if err != nil {
		return nil, err
	}
	dial := grpc.WithUserAgent(opts.ServiceName + "/" + opts.ServiceVersion)

	traceOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(target), otlptracegrpc.WithDialOption(dial)}
	metricOpts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(target), otlpmetricgrpc.WithDialOption(dial)}
	logOpts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(target), otlploggrpc.WithDialOption(dial)}
	if insecure {
		traceOpts = append(traceOpts, otlptracegrpc.WithInsecure())
		metricOpts = append(metricOpts, otlpmetricgrpc.WithInsecure())
		logOpts = append(logOpts, otlploggrpc.WithInsecure())
	}

	traceExp, err := otlptracegrpc.New(ctx, traceOpts...)
	if err != nil {
		return nil, fmt.Errorf("otel: trace exporter: %w", err)
	}
	p.TracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExp, sdktrace.WithBatchTimeout(batchTimeout)),
		sdktrace.WithResource(res),
	)
	p.shutdown = append(p.shutdown, p.TracerProvider.Shutdown)

	metricExp, err := otlpmetricgrpc.New(ctx, metricOpts...)
	if err != nil {
		_ = p.Shutdown(ctx)
		return nil, fmt.Errorf("otel: metric exporter: %w", err)
	}
	p.MeterProvider = metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(metricExp, metric.WithInterval(metricInterval))),
		metric.WithResource(res),
	)
	p.shutdown = append(p.shutdown, p.MeterProvider.Shutdown)

	logExp, err := otlploggrpc.New(ctx, logOpts...)
	if err != nil {
		_ = p.Shutdown(ctx)
		return nil, fmt.Errorf("otel: log exporter: %w", err)
	}
	p.LoggerProvider = sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExp, sdklog.WithExportInterval(batchTimeout))),
		sdklog.WithResource(res),
	)
	p.shutdown = append(p.shutdown, p.LoggerProvider.Shutdown)
	return p, nil
}

// Shutdown flushes and stops the providers, last created first.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(p.shutdown) - 1; i >= 0; i-- {
		if err := p.shutdown[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	p.shutdown = nil
	return errors.Join(errs...)
}

func consoleResource(opts Options) (*resource.Resource, error) {
	kvs := []attribute.KeyValue{
		semconv.ServiceName(opts.ServiceName),
		semconv.ServiceVersion(opts.ServiceVersion),
	}
	if opts.Environment != "" {
		kvs = append(kvs, semconv.DeploymentEnvironmentName(opts.Environment))
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		kvs = append(kvs, semconv.HostName(host))
	}
	return resource.Merge(resource.Default(), resource.NewWithAttributes(semconv.SchemaURL, kvs...))
}

// collectorTarget reduces endpoint to the host:port the gRPC exporters dial and decides on TLS.
func collectorTarget(endpoint string, insecureOverride bool) (string, bool, error) {
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("otel: invalid OTLP endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("otel: invalid OTLP endpoint %q: missing host", endpoint)
	}
	return u.Host, insecureOverride || u.Scheme != "https", nil
}
