package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ewilliams-labs/encore/internal/core/domain"
)

// DescriptionEmptyProfile is returned when nothing is known about the user yet.
const DescriptionEmptyProfile = "Music profile under construction"

// descriptionVaried is the fallback when artists are known but carry no
// usable genre or name data.
const descriptionVaried = "Varied music taste"

// profileSampleSize bounds how many of the user's top tracks feed the
// averaged audio profile.
const profileSampleSize = 15

// tempoMarginBPM is the tempo difference that maps to zero similarity.
const tempoMarginBPM = 100.0

// GenreRanking counts genre-tag occurrences across the user's top artists
// and returns the k most frequent. The sort is stable: ties keep the order
// in which genres first appeared, so the ranking is deterministic for a
// fixed input.
func GenreRanking(artists []domain.Artist, k int) []string {
	counts := make(map[string]int)
	var order []string
	for _, a := range artists {
		for _, g := range a.Genres {
			if g == "" {
				continue
			}
			if _, ok := counts[g]; !ok {
				order = append(order, g)
			}
			counts[g]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if k > 0 && len(order) > k {
		order = order[:k]
	}
	return order
}

// BuildAudioProfile averages each feature over the given per-track feature
// records. An empty input yields an empty profile, which downstream code
// treats as "no signal".
func BuildAudioProfile(features map[string]domain.AudioFeatures) domain.AudioProfile {
	if len(features) == 0 {
		return domain.AudioProfile{}
	}

	var energy, dance, valence, tempo float64
	for _, f := range features {
		energy += f.Energy
		dance += f.Danceability
		valence += f.Valence
		tempo += f.Tempo
	}
	n := float64(len(features))

	return domain.AudioProfile{
		"energy":       energy / n,
		"danceability": dance / n,
		"valence":      valence / n,
		"tempo":        tempo / n,
	}
}

// AudioSimilarity scores how close a track's features are to the user's
// averaged profile, in [0, 1]. Energy, danceability and valence compare by
// absolute difference; tempo is normalized over a 100 BPM margin and floored
// at zero. With no profile to compare against the score is a neutral 0.5.
func AudioSimilarity(feat domain.AudioFeatures, profile domain.AudioProfile) float64 {
	if profile.Empty() {
		return 0.5
	}

	energySim := 1 - math.Abs(feat.Energy-profile["energy"])
	danceSim := 1 - math.Abs(feat.Danceability-profile["danceability"])
	valenceSim := 1 - math.Abs(feat.Valence-profile["valence"])
	tempoSim := math.Max(0, 1-math.Abs(feat.Tempo-profile["tempo"])/tempoMarginBPM)

	return clamp01((energySim + danceSim + valenceSim + tempoSim) / 4)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// DescribeAudioProfile renders the averaged profile as a short qualitative
// phrase, or "" when there is no profile.
func DescribeAudioProfile(profile domain.AudioProfile) string {
	if profile.Empty() {
		return ""
	}

	var parts []string
	switch {
	case profile["energy"] > 0.7:
		parts = append(parts, "high energy")
	case profile["energy"] < 0.4:
		parts = append(parts, "mellow")
	}
	switch {
	case profile["danceability"] > 0.7:
		parts = append(parts, "danceable")
	case profile["danceability"] < 0.4:
		parts = append(parts, "low-key")
	}
	switch {
	case profile["valence"] > 0.6:
		parts = append(parts, "upbeat")
	case profile["valence"] < 0.35:
		parts = append(parts, "melancholic")
	}
	parts = append(parts, fmt.Sprintf("%d BPM", int(profile["tempo"])))

	return strings.Join(parts, " · ")
}

// DescribeProfile builds the human-readable profile summary shown alongside
// recommendations: the user's top two artists, their dominant genres, and
// the audio description when one is available.
func DescribeProfile(topArtists []domain.Artist, topTracks []domain.Track, audioDesc string) string {
	if len(topArtists) == 0 {
		return DescriptionEmptyProfile
	}

	var names []string
	for _, a := range topArtists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
		if len(names) == 2 {
			break
		}
	}

	var parts []string
	if len(names) > 0 {
		parts = append(parts, "Fan of "+strings.Join(names, ", "))
	}
	if genres := GenreRanking(topArtists, 2); len(genres) > 0 {
		parts = append(parts, strings.Join(genres, " · "))
	}
	if audioDesc != "" {
		parts = append(parts, audioDesc)
	}

	if len(parts) == 0 {
		return descriptionVaried
	}
	return strings.Join(parts, " · ")
}

// GenreCount pairs a genre tag with how many of the user's top artists
// carry it.
type GenreCount struct {
	Name  string
	Count int
}

// GenreDistribution ranks every genre across the given artists, most
// frequent first, truncated to k entries (k <= 0 means no truncation).
func GenreDistribution(artists []domain.Artist, k int) []GenreCount {
	ranked := GenreRanking(artists, k)
	counts := make(map[string]int)
	for _, a := range artists {
		for _, g := range a.Genres {
			counts[g]++
		}
	}

	out := make([]GenreCount, 0, len(ranked))
	for _, g := range ranked {
		out = append(out, GenreCount{Name: g, Count: counts[g]})
	}
	return out
}
