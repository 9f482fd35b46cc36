package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetupInstallsGlobalProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	rec := tracetest.NewSpanRecorder()
	p, err := Setup(context.Background(), Options{ServiceName: "profnet-test", Environment: "test"},
		sdktrace.WithSpanProcessor(rec))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	assert.False(t, p.Exporting())

	_, span := otel.Tracer("test").Start(context.Background(), "global")
	span.End()
	_, span = p.Tracer("test").Start(context.Background(), "direct")
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "global", ended[0].Name())
	assert.Equal(t, "direct", ended[1].Name())

	var service string
	for _, kv := range ended[0].Resource().Attributes() {
		if kv.Key == "service.name" {
			service = kv.Value.AsString()
		}
	}
	assert.Equal(t, "profnet-test", service)
}

func TestClientOptions(t *testing.T) {
	assert.Len(t, clientOptions(Options{Endpoint: "http://collector:4317"}), 1)
	assert.Len(t, clientOptions(Options{Endpoint: "collector:4317"}), 1)
	assert.Len(t, clientOptions(Options{Endpoint: "collector:4317", Insecure: true}), 2)
}
