package main

import (
	"net/http"

	"github.com/ashureev/profnet/internal/api"
	"github.com/ashureev/profnet/internal/config"
	"github.com/ashureev/profnet/internal/content"
	"github.com/ashureev/profnet/internal/identity"
	"github.com/ashureev/profnet/internal/metrics"
	"github.com/ashureev/profnet/internal/middleware"
	"github.com/ashureev/profnet/internal/realtime"
	"github.com/ashureev/profnet/internal/session"
	"github.com/ashureev/profnet/internal/store"
	"github.com/ashureev/profnet/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
)

type routerDeps struct {
	cfg      *config.Config
	kv       store.KV
	sessions *session.Service
	content  *content.Store
	hub      *realtime.Hub
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

func newRouter(d routerDeps) http.Handler {
	baseHandler := api.NewHandler(d.sessions, d.content)
	healthHandler := api.NewHealthHandler(d.kv, 0)
	wsHandler := realtime.NewHandler(d.hub, d.sessions, d.content, d.cfg.CORSAllowedOrigins, d.cfg.IsDevelopment())

	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	if d.tracer != nil {
		r.Use(middleware.Tracing(d.tracer))
	}
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/livez"))
	r.Use(middleware.CORS(d.cfg.CORSAllowedOrigins))
	if d.metrics != nil {
		r.Use(middleware.Metrics(d.metrics))
	}
	r.Use(identity.Middleware(d.sessions))

	healthHandler.RegisterHealth(r)
	api.NewSessionHandler(baseHandler).RegisterRoutes(r)
	api.NewContentHandler(baseHandler).RegisterRoutes(r)

	r.Get("/ws/events", wsHandler.ServeHTTP)
	if d.metrics != nil {
		r.Handle("/metrics", d.metrics.Handler())
	}

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	return r
}
