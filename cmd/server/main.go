package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avendano/learntrack/internal/api"
	"github.com/avendano/learntrack/internal/config"
	"github.com/avendano/learntrack/internal/db"
	"github.com/avendano/learntrack/internal/logger"
	"github.com/avendano/learntrack/internal/repository/sqlite"
	"github.com/avendano/learntrack/internal/services"
	"github.com/avendano/learntrack/internal/study"
	"github.com/avendano/learntrack/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Learntrack Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("session_ttl_minutes=%d", cfg.SessionTTLMinutes)
	log.Debug("sweep_interval_seconds=%d", cfg.SweepIntervalSec)
	log.Debug("history_worker_count=%d", cfg.HistoryWorkers)
	log.Debug("history_queue_size=%d", cfg.HistoryQueueSize)

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
	deckRepo := sqlite.NewDeckRepository(database.DB)
	cardRepo := sqlite.NewCardRepository(database.DB)
	historyRepo := sqlite.NewReviewHistoryRepository(database.DB)

	// Background history writer
	historyPool := worker.NewPool(cfg.HistoryWorkers, cfg.HistoryQueueSize)

	// Study session manager
	manager := study.NewManager(cardRepo, time.Duration(cfg.SessionTTLMinutes)*time.Minute)

	// Services
	deckService := services.NewDeckService(deckRepo, cardRepo)
	cardService := services.NewCardService(cardRepo, deckRepo, historyRepo)
	studyService := services.NewStudyService(manager, deckService, historyRepo, historyPool)

	srv := &api.Server{
		DeckService:  deckService,
		CardService:  cardService,
		StudyService: studyService,
		DBPinger:     database.DB,
	}

	ctx, cancel := context.WithCancel(context.Background())
	historyPool.Start(ctx)
	manager.Sweep(ctx, time.Duration(cfg.SweepIntervalSec)*time.Second)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping background workers")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping history pool")
	historyPool.Stop()

	log.Info("===========================================")
	log.Info("Learntrack Server Stopped")
	log.Info("===========================================")
}
