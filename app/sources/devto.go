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

const devtoDefaultEndpoint = "https://dev.to/api"

// DevtoAdapter fetches articles from the Dev.to public API. With no tag or
// query it falls back to the "rising" article state, mirroring the site's
// trending view.
type DevtoAdapter struct {
	endpoint  string
	userAgent string
	client    *http.Client
}

type devtoArticle struct {
	ID                   int      `json:"id"`
	Title                string   `json:"title"`
	URL                  string   `json:"url"`
	Description          string   `json:"description"`
	PublishedAt          string   `json:"published_at"`
	TagList              []string `json:"tag_list"`
	User                 struct {
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"user"`
	PublicReactionsCount int `json:"public_reactions_count"`
	CommentsCount        int `json:"comments_count"`
	ReadingTimeMinutes   int `json:"reading_time_minutes"`
}

func NewDevtoAdapter(endpoint, userAgent string, timeout time.Duration) *DevtoAdapter {
	if endpoint == "" {
		endpoint = devtoDefaultEndpoint
	}

	return &DevtoAdapter{
		endpoint:  endpoint,
		userAgent: userAgent,
		client:    newHTTPClient(timeout),
	}
}

func (a *DevtoAdapter) Name() string {
	return "devto"
}

func (a *DevtoAdapter) Fetch(ctx context.Context, opts FetchOptions) ([]RawItem, error) {
	params := url.Values{}
	if opts.Query != "" {
		params.Set("tag", opts.Query)
	} else {
		params.Set("state", "rising")
	}
	params.Set("page", strconv.Itoa(max(opts.Page, 1)))
	params.Set("per_page", strconv.Itoa(perPageOrDefault(opts.PerPage)))

	reqURL := fmt.Sprintf("%s/articles?%s", a.endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Dev.to articles: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Dev.to API error: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var articles []devtoArticle
	if err := json.Unmarshal(body, &articles); err != nil {
		return nil, fmt.Errorf("failed to decode Dev.to response: %w", err)
	}

	items := make([]RawItem, 0, len(articles))
	for _, art := range articles {
		raw, _ := json.Marshal(art)

		author := art.User.Name
		if author == "" {
			author = art.User.Username
		}

		items = append(items, RawItem{
			Title:       art.Title,
			URL:         art.URL,
			PublishedAt: parseTime(art.PublishedAt),
			Tags:        art.TagList,
			Author:      author,
			SourceID:    strconv.Itoa(art.ID),
			Raw:         raw,
		})
	}

	return items, nil
}

func perPageOrDefault(perPage int) int {
	if perPage <= 0 {
		return DefaultPerPage
	}
	return perPage
}
