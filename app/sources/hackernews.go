package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const hackerNewsDefaultEndpoint = "https://hacker-news.firebaseio.com/v0"

// HackerNewsAdapter reads the Firebase top-stories listing and resolves
// each story ID to its item record. Item fetches for one page run
// concurrently; a failed or non-story item is skipped rather than failing
// the page.
type HackerNewsAdapter struct {
	endpoint  string
	userAgent string
	client    *http.Client
}

type hackerNewsItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	By          string `json:"by"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	Time        int64  `json:"time"`
	Type        string `json:"type"`
}

func NewHackerNewsAdapter(endpoint, userAgent string, timeout time.Duration) *HackerNewsAdapter {
	if endpoint == "" {
		endpoint = hackerNewsDefaultEndpoint
	}

	return &HackerNewsAdapter{
		endpoint:  endpoint,
		userAgent: userAgent,
		client:    newHTTPClient(timeout),
	}
}

func (a *HackerNewsAdapter) Name() string {
	return "hackernews"
}

func (a *HackerNewsAdapter) Fetch(ctx context.Context, opts FetchOptions) ([]RawItem, error) {
	ids, err := a.fetchTopStoryIDs(ctx)
	if err != nil {
		return nil, err
	}

	perPage := perPageOrDefault(opts.PerPage)
	page := max(opts.Page, 1)

	start := (page - 1) * perPage
	if start >= len(ids) {
		return nil, nil
	}
	end := min(start+perPage, len(ids))
	pageIDs := ids[start:end]

	stories := make([]*hackerNewsItem, len(pageIDs))
	var wg sync.WaitGroup
	for i, id := range pageIDs {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			item, err := a.fetchItem(ctx, id)
			if err != nil {
				return
			}
			stories[i] = item
		}(i, id)
	}
	wg.Wait()

	items := make([]RawItem, 0, len(pageIDs))
	for _, story := range stories {
		if story == nil || story.Type != "story" || story.URL == "" {
			continue
		}

		raw, _ := json.Marshal(story)

		var publishedAt *time.Time
		if story.Time > 0 {
			t := time.Unix(story.Time, 0).UTC()
			publishedAt = &t
		}

		items = append(items, RawItem{
			Title:       story.Title,
			URL:         story.URL,
			PublishedAt: publishedAt,
			Tags:        []string{"HackerNews"},
			Author:      story.By,
			SourceID:    strconv.Itoa(story.ID),
			Raw:         raw,
		})
	}

	return items, nil
}

func (a *HackerNewsAdapter) fetchTopStoryIDs(ctx context.Context) ([]int, error) {
	body, err := a.get(ctx, a.endpoint+"/topstories.json")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top stories: %w", err)
	}

	var ids []int
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode top stories: %w", err)
	}

	return ids, nil
}

func (a *HackerNewsAdapter) fetchItem(ctx context.Context, id int) (*hackerNewsItem, error) {
	body, err := a.get(ctx, fmt.Sprintf("%s/item/%d.json", a.endpoint, id))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch item %d: %w", id, err)
	}

	var item hackerNewsItem
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, fmt.Errorf("failed to decode item %d: %w", id, err)
	}

	return &item, nil
}

func (a *HackerNewsAdapter) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
