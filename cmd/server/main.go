package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/akarmiris/riskalloc/internal/config"
	"github.com/akarmiris/riskalloc/internal/database"
	"github.com/akarmiris/riskalloc/internal/modules/analysis"
	"github.com/akarmiris/riskalloc/internal/modules/diagnostics"
	"github.com/akarmiris/riskalloc/internal/scheduler"
	"github.com/akarmiris/riskalloc/internal/server"
	"github.com/akarmiris/riskalloc/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New(logger.Config{
		Level:  "info",
		Pretty: true,
	})

	log.Info().Msg("Starting riskalloc")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Reconfigure logging from the environment
	log = logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	// Initialize archive database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Wire up services
	repo := analysis.NewRepository(db.Conn(), log)
	analysisService := analysis.NewService(repo, log)
	analysisHandler := analysis.NewHandler(analysisService, repo, log)
	diagnosticsService := diagnostics.NewService(log)
	diagnosticsHandler := diagnostics.NewHandler(diagnosticsService, log)

	// Initialize scheduler
	sched := scheduler.New(log)

	// Register background jobs
	if err := registerJobs(sched, log, cfg, db, repo, analysisService); err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}

	sched.Start()
	defer sched.Stop()

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:        cfg.Port,
		Log:         log,
		DB:          db,
		Config:      cfg,
		DevMode:     cfg.DevMode,
		Analysis:    analysisHandler,
		Diagnostics: diagnosticsHandler,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func registerJobs(
	sched *scheduler.Scheduler,
	log zerolog.Logger,
	cfg *config.Config,
	db *database.DB,
	repo *analysis.Repository,
	service *analysis.Service,
) error {
	if cfg.AnalysisSchedule != "" {
		// Scheduled runs leave the seed unset so every run draws fresh
		job := scheduler.NewAnalysisJob(scheduler.AnalysisJobConfig{
			Log:          log,
			Service:      service,
			WatchlistCSV: cfg.WatchlistCSV,
			HistoryDir:   cfg.HistoryDir,
			Params: analysis.Params{
				PortfolioWorth: cfg.PortfolioWorth,
				Confidence:     cfg.Confidence,
				Simulations:    cfg.Simulations,
			},
		})
		if err := sched.AddJob(cfg.AnalysisSchedule, job); err != nil {
			return fmt.Errorf("failed to register analysis job: %w", err)
		}
	}

	if cfg.MaintenanceSchedule != "" {
		job := scheduler.NewMaintenanceJob(scheduler.MaintenanceJobConfig{
			Log:        log,
			DB:         db,
			Repo:       repo,
			RetainRuns: cfg.RetainRuns,
		})
		if err := sched.AddJob(cfg.MaintenanceSchedule, job); err != nil {
			return fmt.Errorf("failed to register maintenance job: %w", err)
		}
	}

	return nil
}
