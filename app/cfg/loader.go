package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./articles.db" description:"Path to the SQLite database file"`

	// Application configuration
	SourcesDir        string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing source configuration files"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for scheduled tasks"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"30" description:"Scheduler interval in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Collection configuration
	CountPerSource int    `long:"count-per-source" env:"COUNT_PER_SOURCE" default:"10" description:"Target number of articles collected per source"`
	Period         string `long:"period" env:"PERIOD" default:"weekly" description:"Default collection period (daily, weekly, monthly)"`

	// Recommendation configuration
	Epsilon      float64 `long:"epsilon" env:"EPSILON" default:"0.2" description:"Exploration ratio for recommendations"`
	DecayRate    float64 `long:"decay-rate" env:"DECAY_RATE" default:"0.0001" description:"Exponential freshness decay rate per day"`
	HistoryLimit int     `long:"history-limit" env:"HISTORY_LIMIT" default:"100" description:"Number of stored articles considered as rating history"`

	// Sync configuration
	SyncConcurrency int `long:"sync-concurrency" env:"SYNC_CONCURRENCY" default:"2" description:"Number of articles persisted in parallel"`
	SyncRetryCount  int `long:"sync-retry-count" env:"SYNC_RETRY_COUNT" default:"2" description:"Number of retries per article on persistence failure"`
	SyncRetryDelay  int `long:"sync-retry-delay" env:"SYNC_RETRY_DELAY" default:"800" description:"Delay between retries in milliseconds"`
	SyncChunkDelay  int `long:"sync-chunk-delay" env:"SYNC_CHUNK_DELAY" default:"200" description:"Delay between chunks in milliseconds"`

	// Source credentials
	QiitaToken string `long:"qiita-token" env:"QIITA_TOKEN" description:"Qiita API access token (optional)"`
	NewsAPIKey string `long:"newsapi-key" env:"NEWSAPI_KEY" description:"NewsAPI key (optional)"`

	// Summarization configuration
	GeminiAPIKey string `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Gemini API key for article summarization (optional)"`
	GeminiModel  string `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-2.0-flash" description:"Gemini model used for summarization"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Tech Collector/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Tokyo)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:            raw.DBPath,
		SourcesDir:        raw.SourcesDir,
		Port:              raw.Port,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		APIAccessKey:      raw.APIAccessKey,
		CountPerSource:    raw.CountPerSource,
		Period:            raw.Period,
		Epsilon:           raw.Epsilon,
		DecayRate:         raw.DecayRate,
		HistoryLimit:      raw.HistoryLimit,
		SyncConcurrency:   raw.SyncConcurrency,
		SyncRetryCount:    raw.SyncRetryCount,
		SyncRetryDelay:    raw.SyncRetryDelay,
		SyncChunkDelay:    raw.SyncChunkDelay,
		QiitaToken:        raw.QiitaToken,
		NewsAPIKey:        raw.NewsAPIKey,
		GeminiAPIKey:      raw.GeminiAPIKey,
		GeminiModel:       raw.GeminiModel,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
