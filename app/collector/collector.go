package collector

import (
	"context"
	"log/slog"
	"time"

	"github.com/RuumaLilja/tech-collector-mcp/app/article"
	"github.com/RuumaLilja/tech-collector-mcp/app/sources"
)

const (
	// PageLimit bounds how many pages are walked per window.
	PageLimit = 3
)

// Collector drives one source adapter through a sequence of widening
// time windows until a target item count is met or all windows are
// exhausted. It never contacts other sources.
type Collector struct {
	perPage int
	now     func() time.Time
}

func New() *Collector {
	return &Collector{
		perPage: sources.DefaultPerPage,
		now:     time.Now,
	}
}

// Run collects up to target de-duplicated post-cutoff articles from the
// adapter. Fetch errors and malformed pages are logged and treated as
// empty, not fatal; only when every window failed outright and nothing
// was collected is the last error returned so the aggregator can record
// the source as unavailable. Returning fewer than target after exhausting
// all windows is not an error.
func (c *Collector) Run(ctx context.Context, adapter sources.Adapter, query string, target int, windows []time.Duration) ([]article.Article, error) {
	collected := make([]article.Article, 0, target)
	seen := make(map[string]struct{})

	var lastErr error
	failedWindows := 0

	for _, window := range windows {
		cutoff := c.now().Add(-window)

		pages := 0
		for page := 1; page <= PageLimit; page++ {
			items, err := adapter.Fetch(ctx, sources.FetchOptions{
				Query:   query,
				Page:    page,
				PerPage: c.perPage,
				Cutoff:  cutoff,
			})
			if err != nil {
				slog.Warn("Source fetch failed, treating window as empty",
					"source", adapter.Name(), "window", window.String(), "page", page, "error", err)
				lastErr = err
				break
			}
			pages++

			if len(items) == 0 {
				break
			}

			for _, item := range items {
				// Items with no parseable publish date never match a
				// window; items older than the cutoff belong to a wider
				// rung.
				if item.PublishedAt == nil || item.PublishedAt.Before(cutoff) {
					continue
				}

				a := fromRaw(adapter.Name(), item)
				if _, dup := seen[a.Fingerprint]; dup {
					continue
				}
				seen[a.Fingerprint] = struct{}{}
				collected = append(collected, a)

				if len(collected) >= target {
					return collected, nil
				}
			}
		}

		if pages == 0 {
			failedWindows++
		}

		slog.Debug("Window exhausted below target",
			"source", adapter.Name(), "window", window.String(), "collected", len(collected), "target", target)
	}

	if len(collected) == 0 && failedWindows == len(windows) && lastErr != nil {
		return nil, lastErr
	}

	return collected, nil
}

// fromRaw maps a source-native item into the canonical article shape.
func fromRaw(source string, item sources.RawItem) article.Article {
	author := item.Author
	if author == "" {
		author = "unknown"
	}

	tags := item.Tags
	if len(tags) == 0 {
		tags = []string{}
	}

	return article.Article{
		URL:         item.URL,
		Title:       item.Title,
		Tags:        tags,
		Fingerprint: article.Fingerprint(source, item.SourceID, item.URL),
		PublishedAt: item.PublishedAt,
		Source:      source,
		Author:      author,
		Raw:         item.Raw,
	}
}
