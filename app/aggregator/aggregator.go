package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/RuumaLilja/tech-collector-mcp/app/article"
	"github.com/RuumaLilja/tech-collector-mcp/app/collector"
	"github.com/RuumaLilja/tech-collector-mcp/app/sources"
)

// RunOptions parameterize one aggregation run. CountPerSource is the
// target for sources without a count of their own; Category, when set,
// overrides every source's default query.
type RunOptions struct {
	CountPerSource int
	Period         string
	Category       string
}

// Source pairs an adapter with its per-source settings. Query is the
// default query used when a run names no category. Count, when
// positive, replaces the run-wide per-source target.
type Source struct {
	Adapter sources.Adapter
	Query   string
	Count   int
}

// SourceError records a source that contributed nothing to a run.
type SourceError struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// Result is the unified output of one aggregation run. No cross-source
// order is imposed on Articles; relevance ordering is the scorer's job.
type Result struct {
	Articles []article.Article `json:"articles"`
	Errors   []SourceError     `json:"errors,omitempty"`
}

// Aggregator fans one collector run out across every configured source
// concurrently and merges the settled results. A failing source yields
// zero items and an error record, never an aborted run.
type Aggregator struct {
	sources   []Source
	collector *collector.Collector
	now       func() time.Time
}

func New(srcs []Source) *Aggregator {
	return &Aggregator{
		sources:   srcs,
		collector: collector.New(),
		now:       time.Now,
	}
}

// Run validates options, collects from every source concurrently, and
// returns the fingerprint-deduplicated union.
func (g *Aggregator) Run(ctx context.Context, opts RunOptions) (Result, error) {
	if opts.CountPerSource < 1 || opts.CountPerSource > 100 {
		return Result{}, fmt.Errorf("count per source must be 1-100, got %d", opts.CountPerSource)
	}

	seed, err := collector.PeriodSeed(opts.Period)
	if err != nil {
		return Result{}, err
	}
	windows := collector.Ladder(seed)

	type sourceResult struct {
		source   string
		articles []article.Article
		err      error
	}

	results := make(chan sourceResult, len(g.sources))

	for _, src := range g.sources {
		go func(src Source) {
			query := opts.Category
			if query == "" {
				query = src.Query
			}
			target := opts.CountPerSource
			if src.Count > 0 {
				target = src.Count
			}
			articles, err := g.collector.Run(ctx, src.Adapter, query, target, windows)
			results <- sourceResult{source: src.Adapter.Name(), articles: articles, err: err}
		}(src)
	}

	collectedAt := g.now().UTC()
	seen := make(map[string]struct{})

	var out Result
	for range g.sources {
		res := <-results

		if res.err != nil {
			slog.Warn("Source contributed nothing", "source", res.source, "error", res.err)
			out.Errors = append(out.Errors, SourceError{Source: res.source, Error: res.err.Error()})
			continue
		}

		for _, a := range res.articles {
			if _, dup := seen[a.Fingerprint]; dup {
				continue
			}
			seen[a.Fingerprint] = struct{}{}

			a.CollectedAt = collectedAt
			out.Articles = append(out.Articles, a)
		}
	}

	slog.Info("Aggregation completed",
		"sources", len(g.sources), "articles", len(out.Articles), "failed_sources", len(out.Errors))

	return out, nil
}
