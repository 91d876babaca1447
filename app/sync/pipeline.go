package sync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/RuumaLilja/tech-collector-mcp/app/article"
)

// UpsertResult reports what the store did with one article. The pipeline
// never decides create-vs-update itself; it only relays what the store
// reported.
type UpsertResult struct {
	Created bool
	Updated bool
}

// UpsertFunc writes one article to the record store.
type UpsertFunc func(ctx context.Context, a article.Article) (UpsertResult, error)

// Options tune the pipeline. The defaults are the values the external
// store's rate limits were measured against.
type Options struct {
	Concurrency int
	RetryCount  int
	RetryDelay  time.Duration
	ChunkDelay  time.Duration
}

// DefaultOptions keeps concurrent writes low enough for rate-limited
// stores and retries transient failures twice.
func DefaultOptions() Options {
	return Options{
		Concurrency: 2,
		RetryCount:  2,
		RetryDelay:  800 * time.Millisecond,
		ChunkDelay:  200 * time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Concurrency < 1 {
		o.Concurrency = def.Concurrency
	}
	if o.RetryCount < 0 {
		o.RetryCount = def.RetryCount
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = def.RetryDelay
	}
	if o.ChunkDelay < 0 {
		o.ChunkDelay = def.ChunkDelay
	}
	return o
}

// Run upserts articles in chunks of size Concurrency, with a short pause
// between chunks and per-item retry. An item that still fails after
// exhausting its retries is recorded with its last error; it never blocks
// sibling items or later chunks. The returned summary always covers every
// input article, even under partial failure.
func Run(ctx context.Context, articles []article.Article, upsert UpsertFunc, opts Options) Summary {
	opts = opts.withDefaults()

	slog.Info("Starting batch sync", "articles", len(articles), "concurrency", opts.Concurrency)
	startTime := time.Now()

	results := make([]Result, 0, len(articles))

	for start := 0; start < len(articles); start += opts.Concurrency {
		end := min(start+opts.Concurrency, len(articles))
		chunk := articles[start:end]

		chunkResults := make([]Result, len(chunk))
		var wg sync.WaitGroup
		for i, a := range chunk {
			wg.Add(1)
			go func(i int, a article.Article) {
				defer wg.Done()
				chunkResults[i] = processArticle(ctx, a, upsert, opts)
			}(i, a)
		}
		wg.Wait()

		results = append(results, chunkResults...)

		// Pause between chunks so the store's rate limits are respected.
		if end < len(articles) {
			sleep(ctx, opts.ChunkDelay)
		}
	}

	summary := Summarize(results)

	slog.Info("Batch sync completed",
		"total", summary.Total, "success", summary.Success, "failed", summary.Failed,
		"duration", time.Since(startTime).String())

	return summary
}

// processArticle upserts one article with up to RetryCount additional
// attempts, recording the final outcome and the attempt count.
func processArticle(ctx context.Context, a article.Article, upsert UpsertFunc, opts Options) Result {
	id := a.URL
	if id == "" {
		id = a.Fingerprint
	}

	var lastErr string

	for attempt := 0; attempt <= opts.RetryCount; attempt++ {
		res, err := upsert(ctx, a)
		if err == nil {
			if attempt > 0 {
				slog.Debug("Upsert succeeded after retry", "id", id, "attempt", attempt+1)
			}
			return Result{
				ID:       id,
				OK:       true,
				Created:  res.Created,
				Updated:  res.Updated,
				Attempts: attempt + 1,
			}
		}

		lastErr = err.Error()
		if attempt < opts.RetryCount {
			slog.Debug("Upsert failed, will retry", "id", id, "attempt", attempt+1, "error", err)
			sleep(ctx, opts.RetryDelay)
		}
	}

	slog.Warn("Upsert failed after exhausting retries",
		"id", id, "attempts", opts.RetryCount+1, "error", lastErr)

	return Result{
		ID:       id,
		OK:       false,
		Error:    lastErr,
		Attempts: opts.RetryCount + 1,
	}
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
