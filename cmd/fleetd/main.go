package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"fleet-ops-backend/config"
	"fleet-ops-backend/internal/api"
	"fleet-ops-backend/internal/audit"
	"fleet-ops-backend/internal/compliance"
	"fleet-ops-backend/internal/db"
	"fleet-ops-backend/internal/enginehours"
	"fleet-ops-backend/internal/maintenance"
	"fleet-ops-backend/internal/notification"
	"fleet-ops-backend/internal/remote"
	"fleet-ops-backend/internal/store"
	"fleet-ops-backend/internal/tour"
)

func main() {
	logger := log.New(os.Stdout, "fleetd ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	recorder := audit.NewRecorder(appStore)

	pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, &webpushOptions)
	pool.Start(ctx)

	maint := maintenance.NewManager(appStore, recorder)
	policy := enginehours.PolicyByName(cfg.Engine.MeterPolicy)
	tours := tour.NewManager(appStore, recorder, maint, policy, pool.Dispatch)

	var bridge remote.Client
	if cfg.Sync.Enabled {
		bridge = remote.NewClient(&cfg.Sync)

		outbox := remote.NewOutboxWorker(appStore, bridge, cfg.Sync.OutboxInterval)
		go outbox.Run(ctx)

		// Every refresh ends with a compliance pass; critical findings go
		// out through the push pool.
		refresher := remote.NewRefresher(appStore, bridge, cfg.Sync.RefreshInterval, func(ctx context.Context) {
			snap, err := appStore.Snapshot(ctx)
			if err != nil {
				logger.Printf("compliance pass skipped: %v", err)
				return
			}
			alerts := compliance.Scan(snap.Boats, snap.Personnel, snap.Tours, snap.Tasks, time.Now().UTC())
			for _, a := range alerts {
				if a.Severity != compliance.SeverityCritical {
					continue
				}
				pool.Dispatch(notification.Alert{
					Category: notification.CategoryCompliance,
					Title:    fmt.Sprintf("%s compliance alert", a.Type),
					Body:     a.Name,
				})
			}
		})
		go refresher.Run(ctx)
	} else {
		logger.Println("remote sync is disabled; running on local state only")
	}

	handler := api.NewHandler(appStore, recorder, tours, maint, bridge, &webpushOptions)
	router := api.NewRouter(handler,
		time.Duration(cfg.Server.CacheTTLSeconds)*time.Second,
		cfg.Server.RateLimitPerSec)
	if cfg.Server.RequestIPHeader != "" {
		// Rate limiting keys on client IP; behind a proxy the real address
		// arrives in this header.
		router.TrustedPlatform = cfg.Server.RequestIPHeader
	}
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
