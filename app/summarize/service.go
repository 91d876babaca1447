package summarize

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Service fetches an article page, extracts its readable text and hands
// it to the configured summarizer.
type Service struct {
	summarizer Summarizer
	extractor  *ContentExtractor
	client     *http.Client
	userAgent  string
}

func NewService(summarizer Summarizer, userAgent string) *Service {
	return &Service{
		summarizer: summarizer,
		extractor:  NewContentExtractor(),
		client:     &http.Client{Timeout: 30 * time.Second},
		userAgent:  userAgent,
	}
}

func (s *Service) SummarizeURL(ctx context.Context, url, title string, opts Options) (string, error) {
	opts.applyDefaults()
	if err := opts.validate(); err != nil {
		return "", err
	}

	html, err := s.fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}

	text, err := s.extractor.Run(html)
	if err != nil {
		return "", err
	}

	slog.Debug("Summarizing article", "url", url, "level", opts.Level, "focus", opts.Focus)

	prompt := buildPrompt(title, url, text, opts)

	return s.summarizer.Summarize(ctx, prompt, opts)
}

func (s *Service) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
