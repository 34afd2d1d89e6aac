package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ewilliams-labs/encore/internal/core/domain"
	"github.com/ewilliams-labs/encore/internal/core/ports"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.Client(), zerolog.Nop(),
		WithBaseURL(srv.URL),
		WithRateLimit(rate.NewLimiter(rate.Inf, 1)),
		WithRetry(3, time.Millisecond),
	)
}

func TestTopArtists(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/top/artists" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("time_range") != "medium_term" {
			t.Errorf("time_range: got %q", q.Get("time_range"))
		}
		if q.Get("limit") != "10" {
			t.Errorf("limit: got %q", q.Get("limit"))
		}
		w.Write([]byte(`{"items": [
			{"id": "a1", "name": "Rosalía", "genres": ["flamenco pop"], "popularity": 88,
			 "followers": {"total": 12345},
			 "images": [{"url": "http://img/big"}, {"url": "http://img/small"}],
			 "external_urls": {"spotify": "http://open/a1"}}
		]}`))
	})

	artists, err := client.TopArtists(context.Background(), ports.WindowMedium, 10)
	if err != nil {
		t.Fatalf("TopArtists: %v", err)
	}
	if len(artists) != 1 {
		t.Fatalf("got %d artists, want 1", len(artists))
	}
	got := artists[0]
	if got.ID != "a1" || got.Name != "Rosalía" || got.Popularity != 88 {
		t.Errorf("artist not mapped: %+v", got)
	}
	if len(got.Genres) != 1 || got.Genres[0] != "flamenco pop" {
		t.Errorf("genres not mapped: %+v", got.Genres)
	}
	if got.ImageURL != "http://img/big" {
		t.Errorf("first image must win, got %q", got.ImageURL)
	}
}

func TestSearchTracksQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "rainy day" || q.Get("type") != "track" {
			t.Errorf("query: got %v", q)
		}
		if q.Get("offset") != "12" {
			t.Errorf("offset: got %q", q.Get("offset"))
		}
		w.Write([]byte(`{"tracks": {"items": [
			{"id": "t1", "name": "Song", "popularity": 61,
			 "album": {"id": "al1", "name": "Album", "images": [{"url": "http://img/al1"}]},
			 "artists": [{"id": "a1", "name": "Artist"}, {"id": "a2", "name": "Second"}],
			 "external_urls": {"spotify": "http://open/t1"}}
		]}}`))
	})

	tracks, err := client.SearchTracks(context.Background(), "rainy day", 8, 12)
	if err != nil {
		t.Fatalf("SearchTracks: %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(tracks))
	}
	got := tracks[0]
	if got.Artist != "Artist" || got.ArtistID != "a1" {
		t.Errorf("first artist must win: %+v", got)
	}
	if got.Album != "Album" || got.CoverURL != "http://img/al1" {
		t.Errorf("album context not flattened: %+v", got)
	}
}

func TestSearchTracksOmitsZeroOffset(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("offset") {
			t.Error("offset must be omitted when zero")
		}
		w.Write([]byte(`{"tracks": {"items": []}}`))
	})
	if _, err := client.SearchTracks(context.Background(), "x", 8, 0); err != nil {
		t.Fatalf("SearchTracks: %v", err)
	}
}

func TestUnauthorizedMapsToDomainError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.CurrentUser(context.Background())
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("got %v, want ErrNotAuthenticated", err)
	}
}

func TestRecentlyPlayedParsesTimestamps(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": [
			{"played_at": "2026-03-14T12:00:00.000Z",
			 "track": {"id": "t1", "name": "Song", "artists": [{"id": "a1", "name": "Artist"}]}}
		]}`))
	})

	plays, err := client.RecentlyPlayed(context.Background(), 20)
	if err != nil {
		t.Fatalf("RecentlyPlayed: %v", err)
	}
	if len(plays) != 1 {
		t.Fatalf("got %d plays, want 1", len(plays))
	}
	if plays[0].Track.ID != "t1" {
		t.Errorf("track not mapped: %+v", plays[0].Track)
	}
	if plays[0].PlayedAt.IsZero() {
		t.Error("played_at not parsed")
	}
}

func TestAudioFeatures(t *testing.T) {
	t.Run("maps entries and skips nulls", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("ids") != "t1,t2" {
				t.Errorf("ids: got %q", r.URL.Query().Get("ids"))
			}
			w.Write([]byte(`{"audio_features": [
				{"id": "t1", "energy": 0.8, "danceability": 0.7, "valence": 0.6, "tempo": 120},
				null
			]}`))
		})

		got, err := client.AudioFeatures(context.Background(), []string{"t1", "t2"})
		if err != nil {
			t.Fatalf("AudioFeatures: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("got %d entries, want 1", len(got))
		}
		if got["t1"].Energy != 0.8 || got["t1"].Tempo != 120 {
			t.Errorf("features not mapped: %+v", got["t1"])
		}
	})

	t.Run("forbidden degrades to empty", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})
		got, err := client.AudioFeatures(context.Background(), []string{"t1"})
		if err != nil {
			t.Fatalf("forbidden must not error: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("got %v, want empty", got)
		}
	})

	t.Run("no ids skips the request", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request")
		})
		got, err := client.AudioFeatures(context.Background(), nil)
		if err != nil || len(got) != 0 {
			t.Fatalf("got %v, %v", got, err)
		}
	})
}

func TestRetryOnRateLimit(t *testing.T) {
	attempts := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"id": "u1", "display_name": "Eve"}`))
	})

	user, err := client.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("got %d attempts, want 2", attempts)
	}
	if user.ID != "u1" {
		t.Errorf("user not mapped: %+v", user)
	}
}

func TestRetryGivesUp(t *testing.T) {
	attempts := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.CurrentUser(context.Background())
	if err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
	if attempts != 3 {
		t.Fatalf("got %d attempts, want 3", attempts)
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 1}, {-5, 1}, {1, 1}, {25, 25}, {50, 50}, {99, 50},
	}
	for _, tc := range tests {
		if got := clampLimit(tc.in); got != tc.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
