package sync

import (
	"context"
	"log/slog"

	"github.com/RuumaLilja/tech-collector-mcp/app/aggregator"
	"github.com/RuumaLilja/tech-collector-mcp/app/article"
	"github.com/RuumaLilja/tech-collector-mcp/app/database"
)

// Service runs a full collect-then-persist cycle: aggregate articles
// across every configured source, then upsert them through the pipeline.
type Service struct {
	agg  *aggregator.Aggregator
	repo database.ArticleRepository
	opts Options
}

func NewService(agg *aggregator.Aggregator, repo database.ArticleRepository, opts Options) *Service {
	return &Service{agg: agg, repo: repo, opts: opts}
}

// Run collects articles with the given options and persists them. Source
// failures are carried through as error records; the summary always covers
// every collected article.
func (s *Service) Run(ctx context.Context, opts aggregator.RunOptions) (Summary, []aggregator.SourceError, error) {
	result, err := s.agg.Run(ctx, opts)
	if err != nil {
		return Summary{}, nil, err
	}

	summary := Run(ctx, result.Articles, s.upsert, s.opts)

	slog.Info("Sync cycle finished",
		"collected", len(result.Articles),
		"source_errors", len(result.Errors),
		"persisted", summary.Success,
		"failed", summary.Failed)

	return summary, result.Errors, nil
}

func (s *Service) upsert(ctx context.Context, a article.Article) (UpsertResult, error) {
	res, err := s.repo.Upsert(ctx, a)
	if err != nil {
		return UpsertResult{}, err
	}
	return UpsertResult{Created: res.Created, Updated: res.Updated}, nil
}
