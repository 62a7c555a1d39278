// Package main provides the entry point for the rating service API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/football-elo/internal/api"
	"github.com/yourusername/football-elo/internal/config"
	"github.com/yourusername/football-elo/internal/database"
	"github.com/yourusername/football-elo/internal/health"
	applogger "github.com/yourusername/football-elo/internal/logger"
	"github.com/yourusername/football-elo/internal/metrics"
	"github.com/yourusername/football-elo/internal/notify"
	"github.com/yourusername/football-elo/internal/repository"
	"github.com/yourusername/football-elo/internal/scheduler"
	"github.com/yourusername/football-elo/internal/service"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := applogger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"season":      cfg.Season.Year,
	}).Info("Football ELO service starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	repos := repository.NewRepositories(db)

	predictionService := service.NewPredictionService(repos, appLog)
	scoringService := service.NewScoringService(db, repos, predictionService, appLog)
	snapshotService := service.NewSnapshotService(repos, appLog)
	auditLog := applogger.NewAuditLogger(appLog)

	// Sinks observe committed scoring events: the snapshot cache flushes,
	// connected dashboards get a push, and the webhook fires if configured.
	scoringService.AddSink(snapshotService)

	var hub *api.Hub
	if cfg.Server.EnableLiveStream {
		hub = api.NewHub(appLog)
		scoringService.AddSink(hub)
	}

	if cfg.Notify.Enabled {
		notifier := notify.NewWebhookNotifier(&cfg.Notify, appLog)
		scoringService.AddSink(notifier)
		appLog.WithField("webhook_url", cfg.Notify.WebhookURL).Info("Webhook notifier enabled")
	}

	apiServer := api.NewServer(
		&cfg.Server,
		cfg.Season.Year,
		snapshotService,
		scoringService,
		predictionService,
		hub,
		auditLog,
		appLog,
	)

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     version,
		Port:        cfg.Server.HealthPort,
		Logger:      appLog,
		DB:          db,
	})

	sched := scheduler.NewScheduler(&cfg.Scheduler, predictionService, appLog)
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	go func() {
		if err := healthServer.Start(); err != nil {
			appLog.WithError(err).Error("Health server stopped")
		}
	}()

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server stopped")
			}
		}()
	}

	go func() {
		if err := apiServer.Start(); err != nil {
			appLog.WithError(err).Fatal("API server failed")
		}
	}()

	healthServer.SetReady(true)
	appLog.Info("Service ready")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("Error during API server shutdown")
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Error during metrics server shutdown")
		}
	}
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("Error during health server shutdown")
	}

	appLog.Info("Football ELO service shut down successfully")
}
