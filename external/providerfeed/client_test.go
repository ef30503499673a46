package providerfeed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dallasheidt14/PitchRank-sub004/internal/platform/resilience"
	"github.com/dallasheidt14/PitchRank-sub004/internal/usecase"
)

func disabledBreaker() resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{Enabled: false}
}

func TestFetchResults_DecodesAndMapsRows(t *testing.T) {
	t.Parallel()

	var gotPath, gotSince, gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSince = r.URL.Query().Get("since")
		gotToken = r.URL.Query().Get("token")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"teamId":"100","teamName":"FC Dallas 2014B Red","clubName":"FC Dallas","opponentId":"200","opponentName":"Solar SC 2014B","ageGroup":"U12","gender":"M","date":"2026-03-14","home":true,"goalsFor":3,"goalsAgainst":1,"scrapedAt":"2026-03-14T18:00:00Z"},
			{"teamId":"200","teamName":"Solar SC 2014B","opponentId":"100","opponentName":"FC Dallas 2014B Red","ageGroup":"U12","gender":"M","date":"not-a-date","home":false,"goalsFor":1,"goalsAgainst":3}
		]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:        server.URL,
		Token:          "feed-secret",
		CircuitBreaker: disabledBreaker(),
	})
	fixedNow := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return fixedNow }

	records, err := client.FetchResults(context.Background(), "gotsport", time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("fetch results: %v", err)
	}

	if gotPath != "/gotsport/results" {
		t.Fatalf("path = %q, want /gotsport/results", gotPath)
	}
	if gotSince != "2026-03-07" {
		t.Fatalf("since = %q, want 2026-03-07", gotSince)
	}
	if gotToken != "feed-secret" {
		t.Fatalf("token = %q, want feed-secret", gotToken)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	first := records[0]
	if first.Provider != "gotsport" || first.TeamID != "100" || !first.Home {
		t.Fatalf("first record %+v", first)
	}
	if first.GoalsFor == nil || *first.GoalsFor != 3 {
		t.Fatalf("first record goals %+v", first.GoalsFor)
	}
	if !first.Date.Equal(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first record date %v", first.Date)
	}
	if !first.ScrapedAt.Equal(time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)) {
		t.Fatalf("first record scrapedAt %v", first.ScrapedAt)
	}

	// Bad dates pass through as zero values for the pipeline to quarantine.
	second := records[1]
	if !second.Date.IsZero() {
		t.Fatalf("second record date %v, want zero", second.Date)
	}
	if !second.ScrapedAt.Equal(fixedNow) {
		t.Fatalf("second record scrapedAt %v, want clock fallback", second.ScrapedAt)
	}
}

func TestFetchResults_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:        server.URL,
		MaxRetries:     1,
		CircuitBreaker: disabledBreaker(),
	})

	records, err := client.FetchResults(context.Background(), "gotsport", time.Time{})
	if err != nil {
		t.Fatalf("fetch results: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records, want 0", len(records))
	}
	if got := attempts.Load(); got != 2 {
		t.Fatalf("attempts = %d, want 2", got)
	}
}

func TestFetchResults_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:        server.URL,
		MaxRetries:     3,
		CircuitBreaker: disabledBreaker(),
	})

	if _, err := client.FetchResults(context.Background(), "gotsport", time.Time{}); err == nil {
		t.Fatal("expected error for 404 response")
	}
	if got := attempts.Load(); got != 1 {
		t.Fatalf("attempts = %d, want no retries", got)
	}
}

func TestFetchResults_OpenCircuitShortCircuits(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.FetchResults(context.Background(), "gotsport", time.Time{}); err == nil {
		t.Fatal("expected first pull to fail")
	}
	if got := attempts.Load(); got != 1 {
		t.Fatalf("attempts = %d, want 1", got)
	}

	_, err := client.FetchResults(context.Background(), "gotsport", time.Time{})
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable from open circuit, got %v", err)
	}
	if got := attempts.Load(); got != 1 {
		t.Fatalf("attempts = %d, open circuit should not reach the feed", got)
	}
}

func TestFetchResults_RequiresProvider(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{BaseURL: "http://feed.local", CircuitBreaker: disabledBreaker()})

	if _, err := client.FetchResults(context.Background(), "  ", time.Time{}); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTokenRedaction(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText(`Get "http://feed.local/gotsport/results?since=2026-03-07&token=feed-secret": dial tcp: timeout`, "feed-secret")
	if got != `Get "http://feed.local/gotsport/results?since=2026-03-07&token=REDACTED": dial tcp: timeout` {
		t.Fatalf("sanitized text %q still leaks the token", got)
	}

	redacted := redactFeedURL("http://feed.local/gotsport/results?since=2026-03-07&token=feed-secret")
	if redacted != "http://feed.local/gotsport/results?since=2026-03-07&token=REDACTED" {
		t.Fatalf("redacted url %q", redacted)
	}
}
