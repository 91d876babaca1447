package database

import (
	"strings"
	"testing"
)

func currentSchema() []Column {
	return []Column{
		{Name: "id", Type: "INTEGER"},
		{Name: "fingerprint", Type: "TEXT"},
		{Name: "url", Type: "TEXT"},
		{Name: "title", Type: "TEXT"},
		{Name: "tags", Type: "TEXT"},
		{Name: "source", Type: "TEXT"},
		{Name: "author", Type: "TEXT"},
		{Name: "status", Type: "TEXT"},
		{Name: "rating", Type: "REAL"},
		{Name: "published_at", Type: "TEXT"},
		{Name: "collected_at", Type: "TEXT"},
		{Name: "read_at", Type: "TEXT"},
	}
}

func TestResolveFieldMap_CurrentSchema(t *testing.T) {
	fields, err := ResolveFieldMap(currentSchema(), defaultFieldRules)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if fields.Col(FieldFingerprint) != "fingerprint" {
		t.Errorf("Expected fingerprint column, got %q", fields.Col(FieldFingerprint))
	}
	if fields.Col(FieldURL) != "url" {
		t.Errorf("Expected url column, got %q", fields.Col(FieldURL))
	}
}

func TestResolveFieldMap_LegacySchema(t *testing.T) {
	legacy := []Column{
		{Name: "id", Type: "INTEGER"},
		{Name: "content_hash", Type: "TEXT"},
		{Name: "link", Type: "TEXT"},
		{Name: "title", Type: "TEXT"},
		{Name: "categories", Type: "TEXT"},
		{Name: "feed", Type: "TEXT"},
		{Name: "creator", Type: "TEXT"},
		{Name: "state", Type: "TEXT"},
		{Name: "score", Type: "REAL"},
		{Name: "rating", Type: "REAL"},
		{Name: "pub_date", Type: "TEXT"},
		{Name: "saved_at", Type: "TEXT"},
		{Name: "read_at", Type: "TEXT"},
	}

	fields, err := ResolveFieldMap(legacy, defaultFieldRules)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := map[string]string{
		FieldFingerprint: "content_hash",
		FieldURL:         "link",
		FieldTags:        "categories",
		FieldSource:      "feed",
		FieldAuthor:      "creator",
		FieldStatus:      "state",
		FieldPublishedAt: "pub_date",
		FieldCollectedAt: "saved_at",
	}

	for field, col := range expected {
		if got := fields.Col(field); got != col {
			t.Errorf("Field %s resolved to %q, expected %q", field, got, col)
		}
	}
}

func TestResolveFieldMap_CandidateOrderWins(t *testing.T) {
	// Both spellings present: the earlier candidate must win.
	both := append(currentSchema(), Column{Name: "content_hash", Type: "TEXT"})

	fields, err := ResolveFieldMap(both, defaultFieldRules)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if fields.Col(FieldFingerprint) != "fingerprint" {
		t.Errorf("First candidate must win, got %q", fields.Col(FieldFingerprint))
	}
}

func TestResolveFieldMap_CaseInsensitive(t *testing.T) {
	schema := currentSchema()
	for i := range schema {
		schema[i].Name = strings.ToUpper(schema[i].Name)
	}

	fields, err := ResolveFieldMap(schema, defaultFieldRules)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if fields.Col(FieldURL) != "URL" {
		t.Errorf("Expected original column casing preserved, got %q", fields.Col(FieldURL))
	}
}

func TestResolveFieldMap_MissingFieldFails(t *testing.T) {
	incomplete := []Column{
		{Name: "url", Type: "TEXT"},
		{Name: "title", Type: "TEXT"},
	}

	_, err := ResolveFieldMap(incomplete, defaultFieldRules)
	if err == nil {
		t.Fatal("Expected error for schema missing the fingerprint column")
	}
	if !strings.Contains(err.Error(), FieldFingerprint) {
		t.Errorf("Error should name the unresolvable field, got: %v", err)
	}
}
