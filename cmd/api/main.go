// Package main is the entry point for the trip gateway server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/hayabusatrip/gateway/internal/apiclient"
	"github.com/hayabusatrip/gateway/internal/config"
	"github.com/hayabusatrip/gateway/internal/handler"
	"github.com/hayabusatrip/gateway/internal/metrics"
	"github.com/hayabusatrip/gateway/internal/middleware"
	"github.com/hayabusatrip/gateway/internal/notify"
	"github.com/hayabusatrip/gateway/internal/service"
	"github.com/hayabusatrip/gateway/internal/session"
	"github.com/hayabusatrip/gateway/internal/upload"
)

// maxRequestBody caps request body sizes. It must fit a multipart image
// upload plus the JSON part.
const maxRequestBody = 12 << 20

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log
	// aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Upstream clients -------------------------------------------------
	storage := upload.NewStorage(cfg.StorageURL)
	client := apiclient.New(cfg.UpstreamAPIURL, storage)

	// --- Services ---------------------------------------------------------
	sessions := session.NewStore()
	notifier := notify.NewSlogNotifier(logger)
	trips := service.NewTripService(client, notifier)
	spots := service.NewSpotService(client, client, notifier)
	users := service.NewUserService(client, sessions, notifier)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger →
	// Recoverer → CORS → body cap → metrics.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe
	// behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxRequestBody))
	r.Use(metrics.NewMiddleware())

	r.Handle("/metrics", metrics.Handler())

	srvHandler := handler.NewServer(trips, spots, users, sessions, cfg.PageSize)
	r.Mount("/", srvHandler.Routes(middleware.NewAuthHandler([]byte(cfg.JWTSecret))))

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
