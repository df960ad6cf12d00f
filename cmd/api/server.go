package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "bookshelf/docs"
	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/httpx"
	"bookshelf/internal/platform/database"
)

// newRouter wires every endpoint and the middleware stack. Background work
// started here stops when ctx is canceled.
func newRouter(ctx context.Context, cfg config.Config, db *database.DB, logger *zap.Logger) http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.DB, string(db.Driver())),
	)

	metrics := httpx.NewMetrics()
	registry.MustRegister(metrics)

	router := http.NewServeMux()

	router.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONSuccess(w, httpx.StatusResponse{Status: "ok"})
	})
	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	router.Handle("GET /api-docs/", httpSwagger.Handler(httpSwagger.URL("/api-docs/doc.json")))

	bookRepo := book.NewSQLRepository(db, cfg.QueryTimeout)
	bookService := book.NewService(bookRepo)
	book.NewHTTPHandler(bookService, logger.Named("book")).RegisterRoutes(router)

	middlewares := []func(http.Handler) http.Handler{
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(logger.Named("access")),
		httpx.RecoveryMiddleware(logger),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.CORSOrigins),
	}
	if cfg.RateLimit.RPS > 0 {
		middlewares = append(middlewares, httpx.NewRateLimitMiddleware(ctx, cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware)
	}
	middlewares = append(middlewares,
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
		// innermost, so the matched route pattern is visible
		metrics.Middleware,
	)

	return httpx.Chain(router, middlewares...)
}
