package mlbstats

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/statsloop/pitchdash/internal/platform/logging"
	"github.com/statsloop/pitchdash/internal/platform/resilience"
	"github.com/statsloop/pitchdash/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		Logger:     logging.NewNop(),
	})
	return client, server
}

func TestGamePksByDate(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/schedule" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("sportId"); got != "17" {
			t.Errorf("expected sportId=17, got=%q", got)
		}
		if got := r.URL.Query().Get("date"); got != "2025-10-07" {
			t.Errorf("expected date=2025-10-07, got=%q", got)
		}
		_, _ = w.Write([]byte(`{"dates":[{"date":"2025-10-07","games":[{"gamePk":748200},{"gamePk":748123},{"gamePk":748123}]}]}`))
	}))

	pks, payloads, err := client.GamePksByDate(context.Background(), "2025-10-07")
	if err != nil {
		t.Fatalf("GamePksByDate: %v", err)
	}
	if len(pks) != 2 || pks[0] != 748123 || pks[1] != 748200 {
		t.Fatalf("expected sorted deduped pks, got=%v", pks)
	}
	if len(payloads) != 1 {
		t.Fatalf("expected one raw payload, got=%d", len(payloads))
	}
	if payloads[0].EntityType != "schedule" || payloads[0].Date != "2025-10-07" {
		t.Fatalf("unexpected payload metadata: %+v", payloads[0])
	}
	if payloads[0].PayloadHash == "" {
		t.Fatal("expected payload hash to be set")
	}
}

func TestGamePksByDate_EmptySchedule(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"dates":[]}`))
	}))

	pks, _, err := client.GamePksByDate(context.Background(), "2025-12-25")
	if err != nil {
		t.Fatalf("GamePksByDate: %v", err)
	}
	if len(pks) != 0 {
		t.Fatalf("expected no pks, got=%v", pks)
	}
}

func TestGamePksByDate_RejectsBadDate(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the provider")
	}))

	_, _, err := client.GamePksByDate(context.Background(), "10/07/2025")
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
}

func TestLiveFeed(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1.1/game/748123/feed/live" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"gamePk":748123,"gameData":{"game":{"type":"A"}},"liveData":{"plays":{"allPlays":[]}}}`))
	}))

	feed, payload, err := client.LiveFeed(context.Background(), 748123)
	if err != nil {
		t.Fatalf("LiveFeed: %v", err)
	}
	if got := feed.StringAt("", "gameData", "game", "type"); got != "A" {
		t.Fatalf("expected game type A, got=%q", got)
	}
	if payload.GamePk != 748123 || payload.EntityType != "live_feed" {
		t.Fatalf("unexpected payload metadata: %+v", payload)
	}
}

func TestLiveFeed_MalformedBody(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"gamePk":`))
	}))

	_, _, err := client.LiveFeed(context.Background(), 748123)
	if err == nil {
		t.Fatal("expected parse error for malformed feed")
	}
}

func TestPersonByID(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/people/694973" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"people":[{"id":694973,"fullName":"Test Pitcher","primaryNumber":"34","currentAge":23,"height":"6' 4\"","weight":215,"active":true,"pitchHand":{"code":"R","description":"Right"},"primaryPosition":{"name":"Pitcher","abbreviation":"P"},"currentTeam":{"name":"Surprise Saguaros"}}]}`))
	}))

	person, payload, err := client.PersonByID(context.Background(), 694973)
	if err != nil {
		t.Fatalf("PersonByID: %v", err)
	}
	if person.FullName != "Test Pitcher" {
		t.Fatalf("expected full name, got=%q", person.FullName)
	}
	if person.PitchHand != "Right" {
		t.Fatalf("expected pitch hand Right, got=%q", person.PitchHand)
	}
	if person.Position != "P" {
		t.Fatalf("expected position P, got=%q", person.Position)
	}
	if person.CurrentTeam != "Surprise Saguaros" {
		t.Fatalf("expected team, got=%q", person.CurrentTeam)
	}
	if person.HeadshotURL == "" {
		t.Fatal("expected headshot url")
	}
	if payload.EntityType != "person" || payload.EntityKey != "694973" {
		t.Fatalf("unexpected payload metadata: %+v", payload)
	}
}

func TestPersonByID_NotFound(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"people":[]}`))
	}))

	_, _, err := client.PersonByID(context.Background(), 999999)
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got=%v", err)
	}
}

func TestExecuteRequest_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"dates":[]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		MaxRetries: 2,
		Logger:     logging.NewNop(),
	})

	_, _, err := client.GamePksByDate(context.Background(), "2025-10-07")
	if err != nil {
		t.Fatalf("expected retry to recover, got=%v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 provider calls, got=%d", got)
	}
}

func TestExecuteRequest_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"bad request"}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		MaxRetries: 3,
		Logger:     logging.NewNop(),
	})

	_, _, err := client.GamePksByDate(context.Background(), "2025-10-07")
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single provider call, got=%d", got)
	}
}

func TestDoJSON_CircuitBreakerRejectsWhenOpen(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
		},
	})

	if _, _, err := client.GamePksByDate(context.Background(), "2025-10-07"); err == nil {
		t.Fatal("expected first call to fail")
	}

	_, _, err := client.GamePksByDate(context.Background(), "2025-10-08")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable while open, got=%v", err)
	}
}
