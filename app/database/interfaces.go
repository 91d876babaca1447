package database

import (
	"context"
	"time"

	"github.com/RuumaLilja/tech-collector-mcp/app/article"
)

// UpsertResult reports whether the store created or updated a record.
type UpsertResult struct {
	Created bool
	Updated bool
}

// TagCount is one entry of a tag frequency ranking.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// ArticleRepository is the storage port backing the persistence pipeline,
// the recommender, and the API.
type ArticleRepository interface {
	// FindByIdentity looks an article up by URL or fingerprint; either
	// match counts, nil means unknown.
	FindByIdentity(ctx context.Context, url, fingerprint string) (*article.Article, error)

	// Upsert writes an article keyed by its stable identity: an existing
	// record (by fingerprint or URL) is updated, otherwise one is
	// created. Idempotent.
	Upsert(ctx context.Context, a article.Article) (UpsertResult, error)

	// ListHistory returns stored articles, optionally filtered by status,
	// most recently collected first.
	ListHistory(ctx context.Context, status string, limit int) ([]article.Article, error)

	// TopTags returns the most frequent tags across stored articles.
	TopTags(ctx context.Context, limit int) ([]TagCount, error)

	// MarkRead flags an article as read at the given time.
	MarkRead(ctx context.Context, fingerprint string, readAt time.Time) error

	GetArticleCount(ctx context.Context) (int, error)
}
