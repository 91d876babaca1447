package database

import (
	"fmt"
	"strings"
)

// Canonical article fields the repository reads and writes. The record
// store's actual column names are resolved against these once at startup.
const (
	FieldFingerprint = "fingerprint"
	FieldURL         = "url"
	FieldTitle       = "title"
	FieldTags        = "tags"
	FieldSource      = "source"
	FieldAuthor      = "author"
	FieldStatus      = "status"
	FieldRating      = "rating"
	FieldPublishedAt = "published_at"
	FieldCollectedAt = "collected_at"
	FieldReadAt      = "read_at"
)

// FieldRule maps an ordered list of candidate column names to one
// canonical field. The first candidate present in the store's schema
// wins.
type FieldRule struct {
	Field      string
	Candidates []string
}

// defaultFieldRules tolerate the column spellings seen across store
// generations (an earlier schema used link/content_hash/saved_at) without
// any runtime reflection: the rules are evaluated exactly once against
// the schema the store reports.
var defaultFieldRules = []FieldRule{
	{Field: FieldFingerprint, Candidates: []string{"fingerprint", "content_hash", "simhash", "hash"}},
	{Field: FieldURL, Candidates: []string{"url", "link"}},
	{Field: FieldTitle, Candidates: []string{"title", "name"}},
	{Field: FieldTags, Candidates: []string{"tags", "categories", "labels"}},
	{Field: FieldSource, Candidates: []string{"source", "feed", "site"}},
	{Field: FieldAuthor, Candidates: []string{"author", "creator", "by"}},
	{Field: FieldStatus, Candidates: []string{"status", "state"}},
	{Field: FieldRating, Candidates: []string{"rating", "user_rating"}},
	{Field: FieldPublishedAt, Candidates: []string{"published_at", "pub_date", "published"}},
	{Field: FieldCollectedAt, Candidates: []string{"collected_at", "saved_at", "fetched_at"}},
	{Field: FieldReadAt, Candidates: []string{"read_at"}},
}

// FieldMap is the immutable canonical-field → column-name mapping built
// at repository construction.
type FieldMap map[string]string

// ResolveFieldMap evaluates the ordered rules against the store's
// reported schema. Every canonical field must resolve; a store missing
// one is unusable and the error says which field could not be placed.
func ResolveFieldMap(columns []Column, rules []FieldRule) (FieldMap, error) {
	present := make(map[string]string, len(columns))
	for _, col := range columns {
		present[strings.ToLower(col.Name)] = col.Name
	}

	fields := make(FieldMap, len(rules))
	for _, rule := range rules {
		for _, candidate := range rule.Candidates {
			if name, ok := present[candidate]; ok {
				fields[rule.Field] = name
				break
			}
		}
		if _, ok := fields[rule.Field]; !ok {
			return nil, fmt.Errorf("no column found for field %q (tried %s)",
				rule.Field, strings.Join(rule.Candidates, ", "))
		}
	}

	return fields, nil
}

// Col returns the store column backing a canonical field.
func (m FieldMap) Col(field string) string {
	return m[field]
}
