package scorefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/grzedomin/betpicks/internal/domain/prediction"
	"github.com/grzedomin/betpicks/internal/platform/resilience"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{
		BaseURL:        srv.URL,
		Token:          "secret-token",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})
}

func TestFetchMatches_MapsPayload(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
			t.Errorf("missing bearer credential, got %q", got)
		}
		if got := r.URL.Query().Get("date"); got != "2025-04-10" {
			t.Errorf("expected date=2025-04-10, got %q", got)
		}
		if r.URL.Path != "/tennis/matches" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"matches":[
			{"homeTeamName":"Novak Djokovic","awayTeamName":"Rafael Nadal",
			 "homeTeamScore":2,"awayTeamScore":0,
			 "homeTeamScoreSet1":6,"awayTeamScoreSet1":3,
			 "homeTeamScoreSet2":6,"awayTeamScoreSet2":4},
			{"homeTeamName":"Jannik Sinner","awayTeamName":"Carlos Alcaraz"}
		]}`))
	})

	matches, err := client.FetchMatches(context.Background(), prediction.SportTennis, "2025-04-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}

	played := matches[0]
	if !played.Played() {
		t.Fatal("first match should report a final score")
	}
	if got := played.DisplayScore(false); got != "2:0(6:3, 6:4)" {
		t.Fatalf("display score = %q", got)
	}

	if matches[1].Played() {
		t.Fatal("second match has no score and must not report played")
	}
}

func TestFetchMatches_NonSuccessStatusIsError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})

	_, err := client.FetchMatches(context.Background(), prediction.SportTennis, "2025-04-10")
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestFetchMatches_TableTennisSlug(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/table-tennis/matches" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"matches":[]}`))
	})

	matches, err := client.FetchMatches(context.Background(), prediction.SportTableTennis, "2025-04-11")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected empty match list, got %d", len(matches))
	}
}
