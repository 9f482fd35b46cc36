package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ashureev/profnet/internal/config"
	"github.com/ashureev/profnet/internal/content"
	"github.com/ashureev/profnet/internal/metrics"
	"github.com/ashureev/profnet/internal/realtime"
	"github.com/ashureev/profnet/internal/session"
	"github.com/ashureev/profnet/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestRouter(t *testing.T, opts ...func(*routerDeps)) http.Handler {
	t.Helper()
	kv := store.NewMemory()
	sessions := session.New(kv)
	require.NoError(t, sessions.Bootstrap(context.Background()))
	posts := content.New()
	t.Cleanup(func() {
		sessions.Close()
		posts.Close()
	})

	deps := routerDeps{
		cfg:      &config.Config{CORSAllowedOrigins: []string{"*"}},
		kv:       kv,
		sessions: sessions,
		content:  posts,
		hub:      realtime.NewHub(nil),
		metrics:  metrics.New(prometheus.NewRegistry()),
	}
	for _, opt := range opts {
		opt(&deps)
	}
	return newRouter(deps)
}

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(w.Result().Body)
	require.NoError(t, err)
	return w.Code, string(body)
}

func TestRouterServesAPI(t *testing.T) {
	h := newTestRouter(t)

	code, body := get(t, h, "/api/session")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"state":"anonymous"`)

	code, _ = get(t, h, "/health")
	assert.Equal(t, http.StatusOK, code)

	code, _ = get(t, h, "/livez")
	assert.Equal(t, http.StatusOK, code)
}

func TestRouterExposesMetrics(t *testing.T) {
	h := newTestRouter(t)
	get(t, h, "/api/posts")

	code, body := get(t, h, "/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `profnet_http_requests_total{method="GET",route="/api/posts",status="200"} 1`)
}

func TestRouterTracesRequests(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	h := newTestRouter(t, func(d *routerDeps) { d.tracer = tp.Tracer("router") })

	code, _ := get(t, h, "/api/posts/missing")
	assert.Equal(t, http.StatusNotFound, code)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/posts/{id}", spans[0].Name())
}

func TestRouterFallsBackToSPA(t *testing.T) {
	h := newTestRouter(t)

	code, body := get(t, h, "/network")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `<div id="root">`)
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := usersCmd()
	root.SetOut(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestUsersSeedThenList(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", config.StorageSQLite)
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "profnet.db"))
	t.Setenv("PORT", "8080")
	t.Setenv("GRPC_PORT", "")

	out := runCLI(t, "seed")
	assert.Contains(t, out, session.DemoEmail)

	out = runCLI(t, "list")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "EMAIL")
	assert.Contains(t, lines[1], "demo-1")
	assert.Contains(t, lines[1], "John Doe")
}
