package article

import (
	"encoding/json"
	"time"
)

// Article statuses as stored in the record store.
const (
	StatusUnread = "unread"
	StatusRead   = "read"
)

// Article is the canonical shape an item takes once it leaves a source
// adapter. Instances are immutable after aggregation; scoring and
// persistence both consume the same value without mutating it.
type Article struct {
	URL         string          `json:"url"`
	Title       string          `json:"title"`
	Tags        []string        `json:"tags"`
	Fingerprint string          `json:"fingerprint"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
	CollectedAt time.Time       `json:"collected_at"`
	Source      string          `json:"source"`
	Author      string          `json:"author"`

	// User history fields, populated only when the article is read back
	// from the record store.
	Rating float64    `json:"rating,omitempty"`
	Status string     `json:"status,omitempty"`
	ReadAt *time.Time `json:"read_at,omitempty"`

	// Raw carries the original per-source payload for downstream
	// formatting. Core logic never inspects it.
	Raw json.RawMessage `json:"-"`
}

// Scored is an article annotated with a relevance score and a
// human-readable justification for it.
type Scored struct {
	Article
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}
