package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RuumaLilja/tech-collector-mcp/app/article"
)

func testArticles(n int) []article.Article {
	articles := make([]article.Article, n)
	for i := range articles {
		articles[i] = article.Article{
			URL:         fmt.Sprintf("https://example.com/%d", i),
			Fingerprint: fmt.Sprintf("fp%d", i),
		}
	}
	return articles
}

func fastOptions() Options {
	return Options{
		Concurrency: 2,
		RetryCount:  2,
		RetryDelay:  time.Millisecond,
		ChunkDelay:  time.Millisecond,
	}
}

func TestRun_AllSucceed(t *testing.T) {
	upsert := func(_ context.Context, _ article.Article) (UpsertResult, error) {
		return UpsertResult{Created: true}, nil
	}

	summary := Run(context.Background(), testArticles(5), upsert, fastOptions())

	if summary.Total != 5 || summary.Success != 5 || summary.Failed != 0 {
		t.Errorf("Expected 5/5/0, got %d/%d/%d", summary.Total, summary.Success, summary.Failed)
	}
	if len(summary.Errors) != 0 {
		t.Errorf("Expected no errors, got %v", summary.Errors)
	}

	for _, r := range summary.Details {
		if !r.Created || r.Updated {
			t.Errorf("Expected created=true updated=false for %s", r.ID)
		}
		if r.Attempts != 1 {
			t.Errorf("Expected 1 attempt for %s, got %d", r.ID, r.Attempts)
		}
	}
}

func TestRun_RetrySucceedsOnThirdAttempt(t *testing.T) {
	var attempts atomic.Int32
	upsert := func(_ context.Context, _ article.Article) (UpsertResult, error) {
		if attempts.Add(1) <= 2 {
			return UpsertResult{}, errors.New("rate limited")
		}
		return UpsertResult{Updated: true}, nil
	}

	summary := Run(context.Background(), testArticles(1), upsert, fastOptions())

	if summary.Success != 1 {
		t.Fatalf("Expected success after retries, got %+v", summary)
	}
	if got := summary.Details[0].Attempts; got != 3 {
		t.Errorf("Expected 3 attempts, got %d", got)
	}
	if !summary.Details[0].OK {
		t.Error("Expected ok=true")
	}
}

func TestRun_FailureAfterExhaustedRetries(t *testing.T) {
	upsert := func(_ context.Context, a article.Article) (UpsertResult, error) {
		if a.URL == "https://example.com/1" {
			return UpsertResult{}, errors.New("permanent failure")
		}
		return UpsertResult{Created: true}, nil
	}

	summary := Run(context.Background(), testArticles(4), upsert, fastOptions())

	if summary.Total != 4 || summary.Success != 3 || summary.Failed != 1 {
		t.Errorf("Expected 4/3/1, got %d/%d/%d", summary.Total, summary.Success, summary.Failed)
	}

	if len(summary.Errors) != 1 {
		t.Fatalf("Expected one error record, got %d", len(summary.Errors))
	}
	if summary.Errors[0].ID != "https://example.com/1" {
		t.Errorf("Wrong failed ID: %s", summary.Errors[0].ID)
	}
	if summary.Errors[0].Error != "permanent failure" {
		t.Errorf("Expected last error message, got %q", summary.Errors[0].Error)
	}

	for _, r := range summary.Details {
		if r.ID == "https://example.com/1" && r.Attempts != 3 {
			t.Errorf("Failed item should have used all attempts, got %d", r.Attempts)
		}
	}
}

func TestRun_ConcurrencyBound(t *testing.T) {
	var mu sync.Mutex
	inFlight := 0
	peak := 0

	upsert := func(_ context.Context, _ article.Article) (UpsertResult, error) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		time.Sleep(5 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()

		return UpsertResult{Created: true}, nil
	}

	opts := fastOptions()
	opts.Concurrency = 3

	Run(context.Background(), testArticles(9), upsert, opts)

	if peak > 3 {
		t.Errorf("Concurrency bound exceeded: peak %d in-flight upserts", peak)
	}
}

func TestRun_IndependentRuns(t *testing.T) {
	failing := func(_ context.Context, _ article.Article) (UpsertResult, error) {
		return UpsertResult{}, errors.New("down")
	}
	succeeding := func(_ context.Context, _ article.Article) (UpsertResult, error) {
		return UpsertResult{Created: true}, nil
	}

	first := Run(context.Background(), testArticles(1), failing, fastOptions())
	second := Run(context.Background(), testArticles(1), succeeding, fastOptions())

	if first.Failed != 1 {
		t.Errorf("First run should have failed, got %+v", first)
	}
	if second.Success != 1 || second.Failed != 0 {
		t.Errorf("An earlier failing run must not affect a later run, got %+v", second)
	}
}

func TestRun_EmptyInput(t *testing.T) {
	upsert := func(_ context.Context, _ article.Article) (UpsertResult, error) {
		t.Fatal("Upsert must not be called for an empty batch")
		return UpsertResult{}, nil
	}

	summary := Run(context.Background(), nil, upsert, fastOptions())

	if summary.Total != 0 || len(summary.Details) != 0 {
		t.Errorf("Expected empty summary, got %+v", summary)
	}
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{ID: "a", OK: true, Created: true, Attempts: 1},
		{ID: "b", OK: false, Error: "boom", Attempts: 3},
		{ID: "c", OK: true, Updated: true, Attempts: 2},
	}

	summary := Summarize(results)

	if summary.Total != 3 || summary.Success != 2 || summary.Failed != 1 {
		t.Errorf("Expected 3/2/1, got %d/%d/%d", summary.Total, summary.Success, summary.Failed)
	}
	if len(summary.Errors) != 1 || summary.Errors[0].ID != "b" || summary.Errors[0].Error != "boom" {
		t.Errorf("Unexpected error list: %v", summary.Errors)
	}
	if len(summary.Details) != 3 {
		t.Errorf("Details must cover every result, got %d", len(summary.Details))
	}
}
