package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"petapintar/internal/auth"
	"petapintar/internal/config"
	"petapintar/internal/events"
	"petapintar/internal/logger"
	"petapintar/internal/reports"
	"petapintar/internal/server"
	"petapintar/internal/storage"
	"petapintar/internal/store"
	"petapintar/pkg/graceful"
	"petapintar/pkg/routing"
)

func main() {
	config.LoadEnv()
	log := logger.Setup()
	cfg := config.FromEnv()

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	db, err := store.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Error("cannot connect to database", "error", err)
		return
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		log.Error("cannot ensure schema", "error", err)
		return
	}
	log.Info("connected to PostgreSQL")

	var images *storage.ImageStore
	if cfg.MinioEndpoint != "" {
		images, err = storage.NewImageStore(ctx, storage.Options{
			Endpoint:      cfg.MinioEndpoint,
			AccessKey:     cfg.MinioAccessKey,
			SecretKey:     cfg.MinioSecretKey,
			UseSSL:        cfg.MinioUseSSL,
			Bucket:        cfg.MinioBucket,
			PublicBaseURL: cfg.PublicBaseURL,
		})
		if err != nil {
			log.Error("cannot connect to object storage", "error", err)
			return
		}
	} else {
		log.Warn("MINIO_ENDPOINT not set, image uploads disabled")
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.KafkaBroker != "" {
		kp := events.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
		log.Info("publishing report events", "broker", cfg.KafkaBroker, "topic", cfg.KafkaTopic)
	}

	locations := db.Locations()
	reportStore := db.Reports()

	srv := server.New(server.Deps{
		Locations:     locations,
		Reports:       reportStore,
		Submitter:     reports.NewSubmitter(reportStore, publisher, log),
		Reconciler:    reports.NewReconciler(locations, reportStore, publisher, log),
		Resolver:      routing.NewClient(cfg.RoutingBaseURL),
		Images:        images,
		Auth:          auth.NewService(cfg.JWTSecret),
		AdminUser:     cfg.AdminUser,
		AdminPassword: cfg.AdminPassword,
		Log:           log,
	})

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown", "error", err)
		}
	}()

	log.Info("server listening", "addr", cfg.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", "error", err)
	}
}
