package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/RuumaLilja/tech-collector-mcp/app/aggregator"
	syncpkg "github.com/RuumaLilja/tech-collector-mcp/app/sync"
)

type SyncArticlesTask struct {
	Task
	syncService *syncpkg.Service
	runOpts     aggregator.RunOptions
}

func NewSyncArticlesTask(syncService *syncpkg.Service, runOpts aggregator.RunOptions) *SyncArticlesTask {
	return &SyncArticlesTask{
		Task:        NewTask(TaskTypeSyncArticles, "sync"),
		syncService: syncService,
		runOpts:     runOpts,
	}
}

func (t *SyncArticlesTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	summary, sourceErrors, err := t.syncService.Run(ctx, t.runOpts)
	if err != nil {
		slog.Error("Task failed", "type", "SyncArticles", "error", err)
		return fmt.Errorf("failed to sync articles: %w", err)
	}

	for _, srcErr := range sourceErrors {
		slog.Warn("Source failed during scheduled sync", "source", srcErr.Source, "error", srcErr.Error)
	}

	slog.Info("Task completed",
		"type", "SyncArticles",
		"total", summary.Total,
		"success", summary.Success,
		"failed", summary.Failed,
		"duration", t.GetDuration())

	return nil
}
