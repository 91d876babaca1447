package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const newsAPIDefaultEndpoint = "https://newsapi.org/v2"

// NewsAPIAdapter fetches technology headlines from NewsAPI.org. NewsAPI
// has no stable article IDs, so identity falls back to the normalized URL
// downstream.
type NewsAPIAdapter struct {
	endpoint  string
	apiKey    string
	country   string
	userAgent string
	client    *http.Client
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

type newsAPIResponse struct {
	Status       string           `json:"status"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
	Message      string           `json:"message"`
}

func NewNewsAPIAdapter(endpoint, apiKey, country, userAgent string, timeout time.Duration) *NewsAPIAdapter {
	if endpoint == "" {
		endpoint = newsAPIDefaultEndpoint
	}
	if country == "" {
		country = "us"
	}

	return &NewsAPIAdapter{
		endpoint:  endpoint,
		apiKey:    apiKey,
		country:   country,
		userAgent: userAgent,
		client:    newHTTPClient(timeout),
	}
}

func (a *NewsAPIAdapter) Name() string {
	return "newsapi"
}

func (a *NewsAPIAdapter) Fetch(ctx context.Context, opts FetchOptions) ([]RawItem, error) {
	params := url.Values{}
	params.Set("category", "technology")
	params.Set("country", a.country)
	params.Set("page", strconv.Itoa(max(opts.Page, 1)))
	params.Set("pageSize", strconv.Itoa(perPageOrDefault(opts.PerPage)))
	if opts.Query != "" {
		params.Set("q", opts.Query)
	}

	reqURL := fmt.Sprintf("%s/top-headlines?%s", a.endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("X-Api-Key", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch NewsAPI headlines: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result newsAPIResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode NewsAPI response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || result.Status != "ok" {
		return nil, fmt.Errorf("NewsAPI error: HTTP %d: %s", resp.StatusCode, result.Message)
	}

	items := make([]RawItem, 0, len(result.Articles))
	for _, art := range result.Articles {
		if art.URL == "" {
			continue
		}

		raw, _ := json.Marshal(art)

		author := art.Author
		if author == "" {
			author = art.Source.Name
		}

		items = append(items, RawItem{
			Title:       art.Title,
			URL:         art.URL,
			PublishedAt: parseTime(art.PublishedAt),
			Tags:        []string{"News"},
			Author:      author,
			Raw:         raw,
		})
	}

	return items, nil
}
