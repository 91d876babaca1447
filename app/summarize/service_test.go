package summarize

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type stubSummarizer struct {
	lastPrompt string
	summary    string
	err        error
}

func (s *stubSummarizer) Summarize(ctx context.Context, text string, opts Options) (string, error) {
	s.lastPrompt = text
	return s.summary, s.err
}

const articlePage = `
<!DOCTYPE html>
<html>
<head><title>Concurrency Patterns</title></head>
<body>
	<article>
		<h1>Concurrency Patterns</h1>
		<p>Worker pools bound the number of goroutines processing a queue. This article walks through channel-based fan-out and fan-in patterns with realistic error handling.</p>
		<p>Backpressure matters once producers outpace consumers. Buffered channels give you slack, but unbounded buffering only hides the problem until memory runs out.</p>
		<p>Cancellation should propagate through context so that abandoned work stops promptly instead of leaking goroutines behind the scenes.</p>
	</article>
</body>
</html>
`

func TestSummarizeURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articlePage)
	}))
	defer server.Close()

	stub := &stubSummarizer{summary: "- worker pools\n- backpressure"}
	service := NewService(stub, "Test Agent")

	summary, err := service.SummarizeURL(context.Background(), server.URL, "Concurrency Patterns", Options{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if summary != "- worker pools\n- backpressure" {
		t.Errorf("Expected summarizer output, got '%s'", summary)
	}
	if !strings.Contains(stub.lastPrompt, "Worker pools bound") {
		t.Error("Expected prompt to contain extracted article text")
	}
	if !strings.Contains(stub.lastPrompt, "Title: Concurrency Patterns") {
		t.Error("Expected prompt to contain the title")
	}
}

func TestSummarizeURLInvalidOptions(t *testing.T) {
	service := NewService(&stubSummarizer{}, "")

	_, err := service.SummarizeURL(context.Background(), "https://example.com", "", Options{Level: "huge"})
	if err == nil {
		t.Error("Expected error for invalid level")
	}
}

func TestSummarizeURLFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	service := NewService(&stubSummarizer{}, "")

	_, err := service.SummarizeURL(context.Background(), server.URL, "", Options{})
	if err == nil {
		t.Error("Expected error for non-200 response")
	}
}

func TestGeminiSummarizer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "test-model:generateContent") {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":" a summary "}]}}]}`)
	}))
	defer server.Close()

	s := NewGeminiSummarizer("test-key", "test-model")
	s.endpoint = server.URL

	summary, err := s.Summarize(context.Background(), "prompt", Options{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary != "a summary" {
		t.Errorf("Expected trimmed summary, got '%s'", summary)
	}
}

func TestGeminiSummarizerNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[]}`)
	}))
	defer server.Close()

	s := NewGeminiSummarizer("test-key", "test-model")
	s.endpoint = server.URL

	if _, err := s.Summarize(context.Background(), "prompt", Options{}); err == nil {
		t.Error("Expected error for empty candidate list")
	}
}

func TestGeminiSummarizerMissingKey(t *testing.T) {
	s := NewGeminiSummarizer("", "test-model")

	if _, err := s.Summarize(context.Background(), "prompt", Options{}); err == nil {
		t.Error("Expected error when API key is missing")
	}
}
