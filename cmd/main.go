package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"youtube_trend_collector/config"
	deliverycron "youtube_trend_collector/internal/delivery/cron"
	"youtube_trend_collector/internal/delivery/httpapi"
	"youtube_trend_collector/internal/domain"
	"youtube_trend_collector/internal/infrastructure/notify"
	"youtube_trend_collector/internal/infrastructure/ytsearch"
	"youtube_trend_collector/internal/logger"
	"youtube_trend_collector/internal/repository/sqlite"
	"youtube_trend_collector/internal/usecase"
)

func main() {
	once := flag.Bool("once", false, "run a single collection pass and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logManager, err := logger.Initialize(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logManager.Close()

	logger.Info().Println("Starting YouTube Trend Collector...")

	// Initialize database
	db, err := sqlite.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error().Printf("Failed to open database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	keywordRepo := sqlite.NewKeywordRepository(db)
	videoRepo := sqlite.NewVideoRepository(db)
	trendRepo := sqlite.NewTrendRepository(db)
	runRepo := sqlite.NewCollectionRunRepository(db)

	if err := bootstrapKeywords(cfg, keywordRepo); err != nil {
		logger.Error().Printf("Failed to seed keywords from config: %v", err)
		os.Exit(1)
	}

	// Initialize services and use cases
	searcher := ytsearch.NewService(cfg)
	notifier := notify.NewFromConfig(cfg)
	aggregator := usecase.NewTrendAggregator(keywordRepo, videoRepo, trendRepo)
	collector := usecase.NewCollector(cfg, keywordRepo, videoRepo, runRepo, searcher, aggregator, notifier)

	if *once {
		runOnce(collector, cfg.ResultLimit)
		return
	}

	// Initialize scheduler and HTTP API
	scheduler := deliverycron.NewScheduler(cfg, collector)
	server := httpapi.NewServer(cfg, keywordRepo, trendRepo, runRepo, collector, scheduler)

	if err := scheduler.Start(); err != nil {
		logger.Error().Printf("Failed to start scheduler: %v", err)
		os.Exit(1)
	}

	if err := server.Start(); err != nil {
		logger.Error().Printf("Failed to start HTTP server: %v", err)
		scheduler.Stop()
		os.Exit(1)
	}

	logger.Info().Println("YouTube Trend Collector is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info().Println("Shutting down...")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Printf("HTTP server shutdown error: %v", err)
	}

	logger.Info().Println("Shutdown complete")
}

// runOnce performs a single full collection pass, for cron-less operation.
func runOnce(collector *usecase.Collector, limit int) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	report, err := collector.CollectAll(ctx, limit)
	if err != nil {
		logger.Error().Printf("Collection run failed: %v", err)
		os.Exit(1)
	}
	logger.Info().Printf("Collection run finished (status=%s, keywords=%d, videos=%d)",
		report.Status, report.KeywordCount, report.TotalVideos)
}

// bootstrapKeywords seeds the keyword table from the config file. Existing
// keywords are updated only when the configured category or active flag
// differs, so manual changes through the API survive restarts.
func bootstrapKeywords(cfg *config.Config, repo domain.KeywordRepository) error {
	for _, entry := range cfg.BootstrapKeywords {
		if entry.Name == "" {
			continue
		}

		active := true
		if entry.IsActive != nil {
			active = *entry.IsActive
		}

		existing, err := repo.GetByName(entry.Name)
		if err != nil {
			return err
		}

		if existing == nil {
			keyword := &domain.Keyword{
				Name:     entry.Name,
				Category: entry.Category,
				IsActive: active,
			}
			if err := repo.Save(keyword); err != nil {
				return err
			}
			logger.Info().Printf("Seeded keyword %q from config", entry.Name)
			continue
		}

		if existing.Category != entry.Category || existing.IsActive != active {
			existing.Category = entry.Category
			existing.IsActive = active
			if err := repo.Save(existing); err != nil {
				return err
			}
			logger.Info().Printf("Updated keyword %q from config", entry.Name)
		}
	}
	return nil
}
