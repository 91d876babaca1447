package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// RSSAdapter wraps an arbitrary RSS/Atom feed URL behind the same adapter
// capability as the API-backed sources. RSS has no paging, so any page
// past the first is empty; tag filtering matches against item categories.
type RSSAdapter struct {
	name    string
	feedURL string
	parser  *gofeed.Parser
}

func NewRSSAdapter(name, feedURL, userAgent string, timeout time.Duration) *RSSAdapter {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	parser.Client = newHTTPClient(timeout)

	return &RSSAdapter{
		name:    name,
		feedURL: feedURL,
		parser:  parser,
	}
}

func (a *RSSAdapter) Name() string {
	return a.name
}

func (a *RSSAdapter) Fetch(ctx context.Context, opts FetchOptions) ([]RawItem, error) {
	if opts.Page > 1 {
		return nil, nil
	}

	feed, err := a.parser.ParseURLWithContext(a.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", a.feedURL, err)
	}

	perPage := perPageOrDefault(opts.PerPage)

	items := make([]RawItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}
		if opts.Query != "" && !matchesCategory(item.Categories, opts.Query) {
			continue
		}

		raw, _ := json.Marshal(item)

		items = append(items, RawItem{
			Title:       item.Title,
			URL:         item.Link,
			PublishedAt: item.PublishedParsed,
			Tags:        item.Categories,
			Author:      rssAuthor(item),
			SourceID:    item.GUID,
			Raw:         raw,
		})

		if len(items) >= perPage {
			break
		}
	}

	return items, nil
}

func matchesCategory(categories []string, query string) bool {
	for _, c := range categories {
		if strings.EqualFold(c, query) {
			return true
		}
	}
	return false
}

func rssAuthor(item *gofeed.Item) string {
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		return item.Authors[0].Name
	}
	if item.Author != nil {
		return item.Author.Name
	}
	return ""
}
