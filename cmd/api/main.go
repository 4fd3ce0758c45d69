package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"tasklist/internal/analytics"
	"tasklist/internal/config"
	"tasklist/internal/logger"
	"tasklist/internal/middleware"
	"tasklist/internal/storage"
	"tasklist/internal/tasks"
	"tasklist/internal/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("tasklist", "info").WithError(err).Fatal("invalid configuration")
	}
	log := logger.New("tasklist", cfg.LogLevel)

	backend, err := storage.Open(cfg.Storage, cfg.DB)
	if err != nil {
		log.WithError(err).Fatal("failed to open storage")
	}
	defer backend.Close()

	store := tasks.NewStore(tasks.NewRepository(backend, cfg.Storage.Key), log)
	loaded, err := store.Load(context.Background())
	if err != nil {
		// Refuse to start rather than overwrite unreadable data on the next save.
		log.WithError(err).Fatal("failed to load tasks")
	}
	analytics.TrackCount(len(loaded))
	store.OnChange(func(ts []tasks.Task) { analytics.TrackCount(len(ts)) })

	events := analytics.NewRecorder(log)
	events.Log(context.Background(), analytics.Envelope{Platform: "web"}, analytics.EventTasksLoaded, map[string]any{
		"task_count": len(loaded),
		"driver":     cfg.Storage.Driver,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(cfg, store, events, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("addr", cfg.Addr).Info("server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown failed")
	}
}

// newRouter mounts every route behind the middleware chain.
func newRouter(cfg *config.Config, store *tasks.Store, events *analytics.Recorder, log *logrus.Entry) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	mux.Handle("/metrics", middleware.MetricsHandler())

	tasks.NewHandler(store, view.NewHTML(), events, log).Register(mux)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id", "X-Session-Id", "X-Platform", "X-App-Version", middleware.CSRFHeader},
	})

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Metrics,
		middleware.Logging(log),
		middleware.SecurityHeaders,
		c.Handler,
		middleware.CSRF,
	)
}
