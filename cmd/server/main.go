package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"log/slog"

	"github.com/civicpulse/civicpulse/internal/api"
	"github.com/civicpulse/civicpulse/internal/config"
	"github.com/civicpulse/civicpulse/internal/database"
	"github.com/civicpulse/civicpulse/internal/detector"
	"github.com/civicpulse/civicpulse/internal/engine"
	"github.com/civicpulse/civicpulse/internal/geo"
	"github.com/civicpulse/civicpulse/internal/ingestion"
	"github.com/civicpulse/civicpulse/internal/logging"
	"github.com/civicpulse/civicpulse/internal/metrics"
	"github.com/civicpulse/civicpulse/internal/notifier"
	"github.com/civicpulse/civicpulse/internal/scheduler"
	"github.com/civicpulse/civicpulse/internal/sentiment"
	"github.com/civicpulse/civicpulse/internal/server"
	"github.com/civicpulse/civicpulse/internal/summarizer"
	"github.com/civicpulse/civicpulse/internal/triage"
	"github.com/civicpulse/civicpulse/internal/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to init logger", "error", err)
		os.Exit(1)
	}

	logger.Info("starting civicpulse")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Report store: PostgreSQL when configured, in-memory otherwise.
	var store ingestion.ReportStore
	if cfg.Database.URL != "" {
		logger.Info("connecting to database")
		dbCfg := database.DefaultConfig()
		dbCfg.URL = cfg.Database.URL
		db, err := database.Connect(ctx, dbCfg)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		repo := database.NewPostgresReportRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
		store = repo
		logger.Info("database connected")
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory report store")
		store = ingestion.NewMemorySource()
	}

	// Summary cache: optional Redis.
	var cache *summarizer.Cache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, summaries will be regenerated per request", "error", err)
		} else {
			cache = summarizer.NewCache(client, cfg.Redis.CacheTTL)
			logger.Info("summary cache enabled", "ttl", cfg.Redis.CacheTTL)
		}
	}

	// Image labeler: OpenAI vision when a key is configured, mock otherwise.
	var labeler vision.Labeler
	if cfg.Vision.APIKey != "" {
		visionCfg := vision.DefaultConfig()
		visionCfg.APIKey = cfg.Vision.APIKey
		if cfg.Vision.Model != "" {
			visionCfg.Model = cfg.Vision.Model
		}
		labeler = vision.NewOpenAILabeler(visionCfg, logger)
		logger.Info("vision labeler enabled", "model", visionCfg.Model)
	} else {
		logger.Warn("OPENAI_API_KEY not set, using mock image labeler")
		labeler = vision.NewMockLabeler()
	}

	collector, err := metrics.NewCollector()
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}

	analyzer := sentiment.NewAnalyzer(sentiment.DefaultConfig())
	resolver := geo.NewResolver(geo.DefaultGazetteer())
	eng := engine.New(
		store,
		analyzer,
		detector.NewDetector(detector.DefaultRules(), resolver),
		notifier.NewComposer(),
		summarizer.NewGenerator(analyzer),
		resolver,
		cache,
		collector,
		logging.Component(logger, "engine"),
		engine.Config{Window: cfg.Analysis.Window()},
	)

	analysisScheduler := scheduler.NewAnalysisScheduler(eng, cfg.Analysis.Interval, logging.Component(logger, "scheduler"))
	go analysisScheduler.Start(ctx)

	// Setup HTTP routes
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", collector.Handler())

	logger.Info("setting up REST API")
	handler := api.NewHandler(eng, triage.NewClassifier(), analyzer, labeler, store, logging.Component(logger, "api"))
	api.SetupRoutes(mux, handler)

	srv := server.New(cfg.Server, logger, collector.InstrumentHandler(mux))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("received signal, shutting down", "signal", sig.String())
	}

	analysisScheduler.Stop()
	cancel()

	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
