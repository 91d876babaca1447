package api

import (
	"github.com/RuumaLilja/tech-collector-mcp/app/aggregator"
	"github.com/RuumaLilja/tech-collector-mcp/app/database"
	"github.com/RuumaLilja/tech-collector-mcp/app/recommend"
	"github.com/RuumaLilja/tech-collector-mcp/app/summarize"
	"github.com/RuumaLilja/tech-collector-mcp/app/sync"
)

type Handler struct {
	repo             database.ArticleRepository
	agg              *aggregator.Aggregator
	recommender      *recommend.Recommender
	syncService      *sync.Service
	summarizeService *summarize.Service
	sourceCount      int
	historyLimit     int
	defaultCount     int
	defaultPeriod    string
}

// SyncRequest is the body of POST /api/sync.
type SyncRequest struct {
	CountPerSource int    `json:"count_per_source"`
	Period         string `json:"period"`
	Category       string `json:"category"`
}

// SummarizeRequest is the body of POST /api/summarize.
type SummarizeRequest struct {
	URL      string `json:"url" binding:"required"`
	Title    string `json:"title"`
	Level    string `json:"level"`
	Focus    string `json:"focus"`
	Language string `json:"language"`
}
