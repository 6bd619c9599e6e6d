package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/studyflow/studyflow/internal/api"
	"github.com/studyflow/studyflow/internal/config"
	"github.com/studyflow/studyflow/internal/db"
	"github.com/studyflow/studyflow/internal/jobs"
	"github.com/studyflow/studyflow/internal/logger"
	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/repository/sqlite"
	"github.com/studyflow/studyflow/internal/review"
	"github.com/studyflow/studyflow/internal/services"
	"github.com/studyflow/studyflow/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("StudyFlow Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("log_worker_count=%d", cfg.LogWorkerCount)
	log.Debug("log_queue_size=%d", cfg.LogQueueSize)
	log.Debug("request_retention=%g", cfg.RequestRetention)
	log.Debug("maximum_interval_days=%d", cfg.MaximumIntervalDays)
	log.Debug("session_duration_minutes=%d", cfg.SessionDurationMinutes)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	profileRepo := sqlite.NewProfileRepository(database.DB)
	subjectRepo := sqlite.NewSubjectRepository(database.DB)
	logRepo := sqlite.NewStudyLogRepository(database.DB)
	seqRepo := sqlite.NewSequenceRepository(database.DB)
	settingsRepo := sqlite.NewSettingsRepository(database.DB)
	cardRepo := sqlite.NewFlashcardRepository(database.DB)

	// Worker pool for fire-and-forget study-log writes
	logPool := worker.NewPool(cfg.LogWorkerCount, cfg.LogQueueSize)

	// Services
	profileService := services.NewProfileService(profileRepo)
	studyService := services.NewStudyService(subjectRepo, logRepo, seqRepo)
	plannerService := services.NewPlannerService(subjectRepo, seqRepo)
	flashcardService := services.NewFlashcardService(cardRepo, review.Scheduler{
		RequestRetention: cfg.RequestRetention,
		MaximumInterval:  cfg.MaximumIntervalDays,
	})
	queue := jobs.NewWorkerQueue(logPool, studyService)
	pomodoroService := services.NewPomodoroService(settingsRepo, subjectRepo, seqRepo, queue, models.PomodoroSettings{
		ShortBreakSeconds:    cfg.ShortBreakSeconds,
		LongBreakSeconds:     cfg.LongBreakSeconds,
		CyclesUntilLongBreak: cfg.CyclesUntilLongBreak,
	})

	srv := &api.Server{
		DB:               database.DB,
		ProfileService:   profileService,
		StudyService:     studyService,
		PlannerService:   plannerService,
		FlashcardService: flashcardService,
		PomodoroService:  pomodoroService,
	}

	ctx, cancel := context.WithCancel(context.Background())
	logPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Shutdown HTTP server first so no new log jobs arrive, then drain
	// the pool.
	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping worker pool")
	cancel()
	logPool.Stop()

	log.Info("===========================================")
	log.Info("StudyFlow Server Stopped")
	log.Info("===========================================")
}
