package sources

import (
	"context"
	"time"
)

// Adapter wraps one feed's native query shape behind a uniform capability.
// Implementations must return an empty slice, not an error, when the
// source simply has no data; errors signal transport or decoding failure.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, opts FetchOptions) ([]RawItem, error)
}

// FetchOptions parameterize a single adapter call. Cutoff is advisory:
// adapters whose upstream API supports date filtering (Qiita) bake it into
// the query, the rest leave post-cutoff filtering to the collector.
type FetchOptions struct {
	Query   string
	Page    int
	PerPage int
	Cutoff  time.Time
}
