// Package tracing installs the process-wide OpenTelemetry tracer provider.
package tracing

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Options configures the tracer provider.
type Options struct {
	ServiceName string
	Environment string
	// Endpoint is the OTLP/gRPC collector, either host:port or a URL.
	// Empty keeps spans in process without exporting them.
	Endpoint string
	Insecure bool
}

// Provider wraps the SDK tracer provider.
type Provider struct {
	tp        *sdktrace.TracerProvider
	exporting bool
}

// Setup builds a tracer provider and installs it as the global provider
// along with the W3C trace-context propagator. extra options are applied
// last, which lets tests attach span processors.
func Setup(ctx context.Context, opts Options, extra ...sdktrace.TracerProviderOption) (*Provider, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", opts.ServiceName),
			attribute.String("deployment.environment", opts.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	}
	exporting := opts.Endpoint != ""
	if exporting {
		exporter, err := otlptrace.New(ctx, otlptracegrpc.NewClient(clientOptions(opts)...))
		if err != nil {
			return nil, fmt.Errorf("failed to create exporter: %w", err)
		}
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter))
	}
	tpOpts = append(tpOpts, extra...)

	tp := sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return &Provider{tp: tp, exporting: exporting}, nil
}

func clientOptions(opts Options) []otlptracegrpc.Option {
	if strings.Contains(opts.Endpoint, "://") {
		return []otlptracegrpc.Option{otlptracegrpc.WithEndpointURL(opts.Endpoint)}
	}
	out := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(opts.Endpoint)}
	if opts.Insecure {
		out = append(out, otlptracegrpc.WithInsecure())
	}
	return out
}

// Exporting reports whether spans are shipped to a collector.
func (p *Provider) Exporting() bool {
	return p.exporting
}

// Tracer returns a named tracer from this provider.
func (p *Provider) Tracer(name string) trace.Tracer {
	return p.tp.Tracer(name)
}

// Shutdown flushes pending spans and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.tp.Shutdown(ctx)
}
