package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const qiitaDefaultEndpoint = "https://qiita.com/api/v2"

// Popularity weights for ranking Qiita items: a stock signals stronger
// intent than a like.
const (
	qiitaLikeWeight  = 1
	qiitaStockWeight = 2
)

// QiitaAdapter searches Qiita items via the v2 search API. The cutoff is
// baked into the search query (`created:>...`), and a minimum stock count
// proportional to the window keeps narrow windows focused on items with
// actual traction.
type QiitaAdapter struct {
	endpoint  string
	token     string
	userAgent string
	client    *http.Client
}

type qiitaItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
	Tags      []struct {
		Name string `json:"name"`
	} `json:"tags"`
	User struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"user"`
	LikesCount  int `json:"likes_count"`
	StocksCount int `json:"stocks_count"`
}

func NewQiitaAdapter(endpoint, token, userAgent string, timeout time.Duration) *QiitaAdapter {
	if endpoint == "" {
		endpoint = qiitaDefaultEndpoint
	}

	return &QiitaAdapter{
		endpoint:  endpoint,
		token:     token,
		userAgent: userAgent,
		client:    newHTTPClient(timeout),
	}
}

func (a *QiitaAdapter) Name() string {
	return "qiita"
}

func (a *QiitaAdapter) Fetch(ctx context.Context, opts FetchOptions) ([]RawItem, error) {
	params := url.Values{}
	params.Set("query", buildQiitaQuery(opts))
	params.Set("page", strconv.Itoa(max(opts.Page, 1)))
	params.Set("per_page", strconv.Itoa(perPageOrDefault(opts.PerPage)))

	reqURL := fmt.Sprintf("%s/items?%s", a.endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", a.userAgent)
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Qiita items: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Qiita API error: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var qiitaItems []qiitaItem
	if err := json.Unmarshal(body, &qiitaItems); err != nil {
		return nil, fmt.Errorf("failed to decode Qiita response: %w", err)
	}

	sort.SliceStable(qiitaItems, func(i, j int) bool {
		return qiitaScore(qiitaItems[i]) > qiitaScore(qiitaItems[j])
	})

	items := make([]RawItem, 0, len(qiitaItems))
	for _, it := range qiitaItems {
		raw, _ := json.Marshal(it)

		tags := make([]string, 0, len(it.Tags))
		for _, tag := range it.Tags {
			tags = append(tags, tag.Name)
		}

		author := it.User.Name
		if author == "" {
			author = it.User.ID
		}

		items = append(items, RawItem{
			Title:       it.Title,
			URL:         it.URL,
			PublishedAt: parseTime(it.CreatedAt),
			Tags:        tags,
			Author:      author,
			SourceID:    it.ID,
			Raw:         raw,
		})
	}

	return items, nil
}

func qiitaScore(it qiitaItem) int {
	return it.LikesCount*qiitaLikeWeight + it.StocksCount*qiitaStockWeight
}

func buildQiitaQuery(opts FetchOptions) string {
	var parts []string

	cutoff := opts.Cutoff
	if cutoff.IsZero() {
		cutoff = time.Now().AddDate(0, 0, -7)
	}
	parts = append(parts, "created:>"+cutoff.Format("2006-01-02"))

	// Narrower windows demand more traction, the way the site's own
	// daily/weekly/monthly rankings do.
	switch age := time.Since(cutoff); {
	case age <= 36*time.Hour:
		parts = append(parts, "stocks:>0")
	case age <= 8*24*time.Hour:
		parts = append(parts, "stocks:>5")
	default:
		parts = append(parts, "stocks:>10")
	}

	if opts.Query != "" {
		parts = append(parts, "tag:"+opts.Query)
	}

	return strings.Join(parts, " ")
}
