package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RuumaLilja/tech-collector-mcp/app/aggregator"
	"github.com/RuumaLilja/tech-collector-mcp/app/cfg"
	"github.com/RuumaLilja/tech-collector-mcp/app/database"
	"github.com/RuumaLilja/tech-collector-mcp/app/recommend"
	"github.com/RuumaLilja/tech-collector-mcp/app/summarize"
	"github.com/RuumaLilja/tech-collector-mcp/app/sync"
)

var errInvalidCount = errors.New("count must be an integer")

func NewHandler(repo database.ArticleRepository, agg *aggregator.Aggregator,
	recommender *recommend.Recommender, syncService *sync.Service,
	summarizeService *summarize.Service, sourceCount int) *Handler {
	c := cfg.Get()

	return &Handler{
		repo:             repo,
		agg:              agg,
		recommender:      recommender,
		syncService:      syncService,
		summarizeService: summarizeService,
		sourceCount:      sourceCount,
		historyLimit:     c.HistoryLimit,
		defaultCount:     c.CountPerSource,
		defaultPeriod:    c.Period,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if count, err := h.repo.GetArticleCount(c.Request.Context()); err == nil {
		health["articles"] = count
	}

	health["sources"] = h.sourceCount

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	count, err := h.repo.GetArticleCount(ctx)
	if err != nil {
		slog.Error("Database error", "operation", "get_article_count", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	stats := map[string]interface{}{
		"articles": count,
		"sources":  h.sourceCount,
	}

	if tags, err := h.repo.TopTags(ctx, 10); err == nil {
		stats["top_tags"] = tags
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIGetArticles(c *gin.Context) {
	opts, err := h.runOptions(c.Query("count"), c.Query("period"), c.Query("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.agg.Run(c.Request.Context(), opts)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) APIGetRecommendations(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	ctx := c.Request.Context()

	history, err := h.repo.ListHistory(ctx, "", h.historyLimit)
	if err != nil {
		slog.Error("Database error", "operation", "list_history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	result, err := h.agg.Run(ctx, aggregator.RunOptions{
		CountPerSource: h.defaultCount,
		Period:         h.defaultPeriod,
	})
	if err != nil {
		slog.Error("Aggregation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to collect candidates"})
		return
	}

	scored, err := h.recommender.Run(ctx, history, result.Articles, limit)
	if err != nil {
		slog.Error("Recommendation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Recommendation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": scored,
		"errors":          result.Errors,
	})
}

func (h *Handler) APISync(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.CountPerSource == 0 {
		req.CountPerSource = h.defaultCount
	}
	if req.Period == "" {
		req.Period = h.defaultPeriod
	}

	summary, sourceErrors, err := h.syncService.Run(c.Request.Context(), aggregator.RunOptions{
		CountPerSource: req.CountPerSource,
		Period:         req.Period,
		Category:       req.Category,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":       summary,
		"source_errors": sourceErrors,
	})
}

func (h *Handler) APISummarize(c *gin.Context) {
	if h.summarizeService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Summarization is not configured"})
		return
	}

	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: url is required"})
		return
	}

	summary, err := h.summarizeService.SummarizeURL(c.Request.Context(), req.URL, req.Title, summarize.Options{
		Level:    req.Level,
		Focus:    req.Focus,
		Language: req.Language,
	})
	if err != nil {
		if strings.Contains(err.Error(), "unsupported summary") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.Error("Summarization failed", "url", req.URL, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Summarization failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":     req.URL,
		"summary": summary,
	})
}

func (h *Handler) APIMarkRead(c *gin.Context) {
	fingerprint := c.Param("fingerprint")
	if fingerprint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fingerprint parameter"})
		return
	}

	err := h.repo.MarkRead(c.Request.Context(), fingerprint, time.Now().UTC())
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		slog.Error("Database error", "operation", "mark_read", "fingerprint", fingerprint, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"fingerprint": fingerprint,
	})
}

func (h *Handler) runOptions(countRaw, period, category string) (aggregator.RunOptions, error) {
	opts := aggregator.RunOptions{
		CountPerSource: h.defaultCount,
		Period:         h.defaultPeriod,
		Category:       category,
	}

	if countRaw != "" {
		count, err := strconv.Atoi(countRaw)
		if err != nil {
			return opts, errInvalidCount
		}
		opts.CountPerSource = count
	}
	if period != "" {
		opts.Period = period
	}

	return opts, nil
}
