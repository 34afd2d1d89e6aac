package services

import (
	"math"
	"strings"
	"testing"

	"github.com/ewilliams-labs/encore/internal/core/domain"
)

func TestGenreRanking(t *testing.T) {
	artists := []domain.Artist{
		{ID: "a", Genres: []string{"rock", "pop"}},
		{ID: "b", Genres: []string{"rock"}},
		{ID: "c", Genres: []string{"jazz"}},
	}

	got := GenreRanking(artists, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 genres, got %v", got)
	}
	if got[0] != "rock" {
		t.Errorf("rock appears twice and must rank first, got %v", got)
	}
	// Ties keep first-appearance order, so the full ranking is stable.
	if got[1] != "pop" || got[2] != "jazz" {
		t.Errorf("tie order not stable: got %v", got)
	}

	// Same input must produce the same output every time.
	for i := 0; i < 10; i++ {
		again := GenreRanking(artists, 3)
		for j := range got {
			if again[j] != got[j] {
				t.Fatalf("ranking not deterministic: %v vs %v", got, again)
			}
		}
	}
}

func TestGenreRankingTruncates(t *testing.T) {
	artists := []domain.Artist{{Genres: []string{"a", "b", "c", "d"}}}
	if got := GenreRanking(artists, 2); len(got) != 2 {
		t.Fatalf("expected 2 genres, got %v", got)
	}
}

func TestBuildAudioProfile(t *testing.T) {
	t.Run("empty input yields empty profile", func(t *testing.T) {
		if p := BuildAudioProfile(nil); !p.Empty() {
			t.Fatalf("expected empty profile, got %v", p)
		}
	})

	t.Run("averages features", func(t *testing.T) {
		p := BuildAudioProfile(map[string]domain.AudioFeatures{
			"t1": {Energy: 0.2, Danceability: 0.4, Valence: 0.6, Tempo: 100},
			"t2": {Energy: 0.4, Danceability: 0.6, Valence: 0.8, Tempo: 140},
		})
		if math.Abs(p["energy"]-0.3) > 1e-9 {
			t.Errorf("energy: got %v, want 0.3", p["energy"])
		}
		if math.Abs(p["tempo"]-120) > 1e-9 {
			t.Errorf("tempo: got %v, want 120", p["tempo"])
		}
	})
}

func TestAudioSimilarity(t *testing.T) {
	profile := domain.AudioProfile{
		"energy":       0.8,
		"danceability": 0.6,
		"valence":      0.5,
		"tempo":        120,
	}

	t.Run("identical vector scores 1.0", func(t *testing.T) {
		feat := domain.AudioFeatures{Energy: 0.8, Danceability: 0.6, Valence: 0.5, Tempo: 120}
		if got := AudioSimilarity(feat, profile); got != 1.0 {
			t.Fatalf("got %v, want 1.0", got)
		}
	})

	t.Run("no profile is neutral", func(t *testing.T) {
		if got := AudioSimilarity(domain.AudioFeatures{}, domain.AudioProfile{}); got != 0.5 {
			t.Fatalf("got %v, want 0.5", got)
		}
	})

	t.Run("always within bounds", func(t *testing.T) {
		extremes := []domain.AudioFeatures{
			{Energy: 0, Danceability: 0, Valence: 0, Tempo: 0},
			{Energy: 1, Danceability: 1, Valence: 1, Tempo: 250},
			{Energy: 0.5, Danceability: 0.5, Valence: 0.5, Tempo: 500},
		}
		for _, feat := range extremes {
			got := AudioSimilarity(feat, profile)
			if got < 0 || got > 1 {
				t.Errorf("similarity %v out of [0,1] for %+v", got, feat)
			}
		}
	})
}

func TestDescribeProfile(t *testing.T) {
	t.Run("empty inputs return the construction fallback", func(t *testing.T) {
		if got := DescribeProfile(nil, nil, ""); got != DescriptionEmptyProfile {
			t.Fatalf("got %q, want %q", got, DescriptionEmptyProfile)
		}
	})

	t.Run("includes artist names and genres", func(t *testing.T) {
		artists := []domain.Artist{
			{Name: "Rosalía", Genres: []string{"flamenco pop"}},
			{Name: "Bad Bunny", Genres: []string{"reggaeton"}},
		}
		got := DescribeProfile(artists, nil, "")
		if !strings.Contains(got, "Rosalía") {
			t.Errorf("description %q missing artist name", got)
		}
		if !strings.Contains(got, "flamenco pop") {
			t.Errorf("description %q missing genre", got)
		}
	})

	t.Run("appends the audio description", func(t *testing.T) {
		artists := []domain.Artist{{Name: "Rosalía"}}
		got := DescribeProfile(artists, nil, "high energy · 120 BPM")
		if !strings.Contains(got, "120 BPM") {
			t.Errorf("description %q missing audio part", got)
		}
	})
}

func TestDescribeAudioProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile domain.AudioProfile
		want    []string
	}{
		{
			name:    "empty profile is silent",
			profile: domain.AudioProfile{},
			want:    nil,
		},
		{
			name: "energetic danceable upbeat",
			profile: domain.AudioProfile{
				"energy": 0.9, "danceability": 0.8, "valence": 0.7, "tempo": 128,
			},
			want: []string{"high energy", "danceable", "upbeat", "128 BPM"},
		},
		{
			name: "mellow melancholic",
			profile: domain.AudioProfile{
				"energy": 0.2, "danceability": 0.3, "valence": 0.2, "tempo": 80,
			},
			want: []string{"mellow", "low-key", "melancholic", "80 BPM"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DescribeAudioProfile(tc.profile)
			if tc.want == nil {
				if got != "" {
					t.Fatalf("expected empty description, got %q", got)
				}
				return
			}
			for _, part := range tc.want {
				if !strings.Contains(got, part) {
					t.Errorf("description %q missing %q", got, part)
				}
			}
		})
	}
}

func TestGenreDistribution(t *testing.T) {
	artists := []domain.Artist{
		{Genres: []string{"rock", "pop"}},
		{Genres: []string{"rock"}},
	}
	got := GenreDistribution(artists, 10)
	if len(got) != 2 {
		t.Fatalf("expected 2 genres, got %v", got)
	}
	if got[0].Name != "rock" || got[0].Count != 2 {
		t.Errorf("got %+v, want rock with count 2 first", got[0])
	}
}
