package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pinboard-server/config"
	"pinboard-server/core"
	"pinboard-server/handlers/api/discovery"
	"pinboard-server/handlers/api/health"
	"pinboard-server/handlers/api/posts"
	"pinboard-server/middleware"
	"pinboard-server/stores"
	"pinboard-server/unsplash"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

func setupRouter(store core.PostStore, gateway core.PhotoGateway, origins []string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", posts.UserHeader, middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/", health.HandleHealth(store))
	r.Get("/favicon.ico", health.HandleFavicon())

	r.Route("/api", func(r chi.Router) {
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", posts.HandleList(store))
			r.Post("/", posts.HandleCreate(store))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", posts.HandleGet(store))
				r.Put("/", posts.HandleUpdate(store))
				r.Delete("/", posts.HandleDelete(store))
			})
		})
		r.Get("/discovery", discovery.HandleDiscovery(gateway))
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func waitForShutdown(srv *http.Server, store core.PostStore) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-quit
	logrus.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("server forced to shutdown")
	}
	if err := store.Close(); err != nil {
		logrus.WithError(err).Error("failed to close store")
	}
	logrus.Info("server exited")
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}

	listenAddress := flag.String("listen", "", "The address to listen on (overrides LISTEN_ADDR).")
	logLevel := flag.String("loglevel", "", "The log level (debug, info, warn, error); overrides LOG_LEVEL.")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if *listenAddress != "" {
		cfg.ListenAddr = *listenAddress
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	store, err := stores.GetStore(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open post store")
	}
	gateway := unsplash.NewClient(cfg.UnsplashBaseURL, cfg.UnsplashAccessKey)
	if cfg.UnsplashAccessKey == "" {
		logrus.Warn("UNSPLASH_ACCESS_KEY is not set, discovery will fail")
	}

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: setupRouter(store, gateway, cfg.Origins()),
	}

	logrus.WithField("addr", cfg.ListenAddr).Info("starting server")
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	logrus.Debug("Server is running in the background")
	waitForShutdown(srv, store)
}
