package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RuumaLilja/tech-collector-mcp/app/aggregator"
	"github.com/RuumaLilja/tech-collector-mcp/app/api"
	"github.com/RuumaLilja/tech-collector-mcp/app/cfg"
	"github.com/RuumaLilja/tech-collector-mcp/app/config"
	"github.com/RuumaLilja/tech-collector-mcp/app/database"
	"github.com/RuumaLilja/tech-collector-mcp/app/recommend"
	"github.com/RuumaLilja/tech-collector-mcp/app/sources"
	"github.com/RuumaLilja/tech-collector-mcp/app/summarize"
	syncpkg "github.com/RuumaLilja/tech-collector-mcp/app/sync"
	"github.com/RuumaLilja/tech-collector-mcp/app/tasks"
)

func main() {
	appConfig, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appConfig.Debug)

	slog.Info("Starting Tech Collector server", "version", appConfig.Version)

	db, err := database.NewConnection(appConfig.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appConfig.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appConfig.DBPath, "migration_version", version, "dirty", dirty)

	repo, err := database.NewArticleRepository(db)
	if err != nil {
		slog.Error("Failed to initialize article repository", "error", err)
		os.Exit(1)
	}

	loader := config.NewLoader(appConfig.SourcesDir)
	sourceConfigs, err := loader.LoadAll()
	if err != nil {
		slog.Error("Failed to load source configurations", "error", err)
		os.Exit(1)
	}

	srcs := buildSources(sourceConfigs, appConfig)
	if len(srcs) == 0 {
		slog.Warn("No enabled sources configured, falling back to defaults")
		srcs = defaultSources(appConfig)
	}
	slog.Info("Sources configured", "count", len(srcs))

	agg := aggregator.New(srcs)
	recommender := recommend.New(repo, appConfig.Epsilon, appConfig.DecayRate)
	syncService := syncpkg.NewService(agg, repo, syncpkg.Options{
		Concurrency: appConfig.SyncConcurrency,
		RetryCount:  appConfig.SyncRetryCount,
		RetryDelay:  time.Duration(appConfig.SyncRetryDelay) * time.Millisecond,
		ChunkDelay:  time.Duration(appConfig.SyncChunkDelay) * time.Millisecond,
	})

	var summarizeService *summarize.Service
	if appConfig.GeminiAPIKey != "" {
		summarizer := summarize.NewGeminiSummarizer(appConfig.GeminiAPIKey, appConfig.GeminiModel)
		summarizeService = summarize.NewService(summarizer, appConfig.UserAgent)
		slog.Info("Summarization enabled", "model", appConfig.GeminiModel)
	} else {
		slog.Info("Summarization disabled (GEMINI_API_KEY not set)")
	}

	scheduler := tasks.NewScheduler(syncService)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appConfig.WorkerCount, "interval_seconds", appConfig.SchedulerInterval)

	apiHandler := api.NewHandler(repo, agg, recommender, syncService, summarizeService, len(srcs))
	server := api.NewServer(apiHandler, appConfig.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appConfig.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Shutdown complete")
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func buildSources(configs map[string]*config.SourceConfig, appConfig *cfg.Cfg) []aggregator.Source {
	srcs := make([]aggregator.Source, 0, len(configs))

	for file, sc := range configs {
		if !sc.Settings.Enabled {
			slog.Debug("Source disabled, skipping", "file", file, "kind", sc.Source.Kind)
			continue
		}

		timeout := sc.Settings.GetTimeout()

		var adapter sources.Adapter
		switch sc.Source.Kind {
		case "devto":
			adapter = sources.NewDevtoAdapter("", appConfig.UserAgent, timeout)
		case "qiita":
			adapter = sources.NewQiitaAdapter("", appConfig.QiitaToken, appConfig.UserAgent, timeout)
		case "hackernews":
			adapter = sources.NewHackerNewsAdapter("", appConfig.UserAgent, timeout)
		case "newsapi":
			if appConfig.NewsAPIKey == "" {
				slog.Warn("NewsAPI source configured but NEWSAPI_KEY not set, skipping", "file", file)
				continue
			}
			adapter = sources.NewNewsAPIAdapter("", appConfig.NewsAPIKey, sc.Settings.Country, appConfig.UserAgent, timeout)
		case "rss":
			adapter = sources.NewRSSAdapter(sc.Source.Name, sc.Source.URL, appConfig.UserAgent, timeout)
		default:
			continue
		}

		srcs = append(srcs, aggregator.Source{
			Adapter: adapter,
			Query:   sc.Settings.Tag,
			Count:   sc.Settings.Count,
		})
	}

	return srcs
}

func defaultSources(appConfig *cfg.Cfg) []aggregator.Source {
	adapters := []sources.Adapter{
		sources.NewDevtoAdapter("", appConfig.UserAgent, 0),
		sources.NewQiitaAdapter("", appConfig.QiitaToken, appConfig.UserAgent, 0),
		sources.NewHackerNewsAdapter("", appConfig.UserAgent, 0),
	}

	if appConfig.NewsAPIKey != "" {
		adapters = append(adapters, sources.NewNewsAPIAdapter("", appConfig.NewsAPIKey, "us", appConfig.UserAgent, 0))
	}

	srcs := make([]aggregator.Source, len(adapters))
	for i, a := range adapters {
		srcs[i] = aggregator.Source{Adapter: a}
	}
	return srcs
}
