package services

import (
	"context"
	"math/rand"
	"sort"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/encore/internal/core/domain"
	"github.com/ewilliams-labs/encore/internal/core/ports"
)

// rankSampleSize bounds how many candidates get a feature lookup before
// scoring; the rest keep a neutral similarity.
const rankSampleSize = 30

// jitterSpread is the width of the symmetric popularity jitter applied when
// no audio profile is available (-3..+3).
const jitterSpread = 7

const (
	similarityWeight = 0.6
	popularityWeight = 0.4
)

type scoredTrack struct {
	track domain.Track
	score float64
}

// rankCandidates orders the merged candidate list. With an audio profile it
// scores by similarity blended with popularity; without one it falls back
// to popularity with a little jitter so consecutive calls do not repeat the
// exact same order. The scoring field never leaves this function.
func rankCandidates(
	ctx context.Context,
	catalog ports.CatalogClient,
	log zerolog.Logger,
	rng *rand.Rand,
	candidates []domain.Track,
	profile domain.AudioProfile,
	limit int,
) []domain.Track {
	if len(candidates) == 0 {
		return []domain.Track{}
	}

	if profile.Empty() {
		scored := make([]scoredTrack, len(candidates))
		for i, t := range candidates {
			jitter := rng.Intn(jitterSpread) - jitterSpread/2
			scored[i] = scoredTrack{track: t, score: float64(t.Popularity + jitter)}
		}
		return finish(scored, limit)
	}

	ids := make([]string, 0, rankSampleSize)
	for _, t := range candidates {
		if t.ID == "" {
			continue
		}
		ids = append(ids, t.ID)
		if len(ids) == rankSampleSize {
			break
		}
	}

	features, err := catalog.AudioFeatures(ctx, ids)
	if err != nil {
		// Feature lookup failing at rank time is the same as having no
		// profile at all.
		log.Debug().Err(err).Msg("candidate feature lookup failed, ranking by popularity")
		features = nil
	}

	scored := make([]scoredTrack, len(candidates))
	for i, t := range candidates {
		sim := 0.5
		if feat, ok := features[t.ID]; ok {
			sim = AudioSimilarity(feat, profile)
		}
		score := similarityWeight*sim + popularityWeight*(float64(t.Popularity)/100)
		scored[i] = scoredTrack{track: t, score: score}
	}
	return finish(scored, limit)
}

func finish(scored []scoredTrack, limit int) []domain.Track {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	out := make([]domain.Track, len(scored))
	for i, s := range scored {
		out[i] = s.track
	}
	return out
}
