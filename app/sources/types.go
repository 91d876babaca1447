package sources

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/araddon/dateparse"
)

const (
	// DefaultPerPage matches the largest page size the upstream APIs accept.
	DefaultPerPage = 100

	defaultTimeout = 10 * time.Second
)

// RawItem is a source-native record normalized at the adapter boundary.
// It exists only inside one adapter call; the collector maps it into the
// canonical article shape.
type RawItem struct {
	Title       string
	URL         string
	PublishedAt *time.Time
	Tags        []string
	Author      string

	// SourceID is the source's native identifier, empty when the source
	// does not provide one.
	SourceID string

	// Raw is the original payload, carried opaquely for downstream use.
	Raw json.RawMessage
}

// newHTTPClient builds the adapter's client. A non-positive timeout
// falls back to the default.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// parseTime leniently parses a source timestamp. Sources disagree on
// formats and occasionally ship garbage; an unparseable value yields nil
// rather than an error.
func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}

	t, err := dateparse.ParseAny(s)
	if err != nil {
		return nil
	}

	return &t
}
