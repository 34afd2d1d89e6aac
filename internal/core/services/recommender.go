// Package services holds the recommendation assembler: a multi-strategy
// fallback pipeline over the upstream catalog, with best-effort degradation
// whenever a sub-source fails.
package services

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/encore/internal/core/domain"
	"github.com/ewilliams-labs/encore/internal/core/ports"
)

// DescriptionNeedMoreListening invites the user to build up some history
// when no signals are available at all.
const DescriptionNeedMoreListening = "Listen to more music to unlock recommendations"

const (
	defaultLimit = 20
	maxLimit     = 50

	signalArtistLimit = 10
	signalTrackLimit  = 10
	signalRecentLimit = 20

	moodSeedArtists = 2
)

// Request carries the caller-supplied inputs for one recommendation run.
type Request struct {
	UserID string
	Mood   string
	Query  string
	Limit  int
}

// Result is the explained, ranked recommendation list plus the context the
// web layer renders around it.
type Result struct {
	Tracks             []domain.Track
	ProfileDescription string
	ActiveMood         domain.Mood
	Moods              []domain.Mood
}

// Recommender assembles recommendations from an authenticated catalog
// handle. It holds no per-user state beyond the exclusion store; the
// randomness source is injected so tests can pin the seed.
type Recommender struct {
	exclusions ports.ExclusionStore
	rng        *rand.Rand
	log        zerolog.Logger
}

// Option configures a Recommender.
type Option func(*Recommender)

// WithRand replaces the randomness source used for shuffling seeds and
// paging offsets.
func WithRand(rng *rand.Rand) Option {
	return func(r *Recommender) { r.rng = rng }
}

// NewRecommender constructs a Recommender backed by the given exclusion
// store.
func NewRecommender(exclusions ports.ExclusionStore, log zerolog.Logger, opts ...Option) *Recommender {
	r := &Recommender{
		exclusions: exclusions,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		log:        log.With().Str("component", "recommender").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Recommend runs the strategy pipeline against the supplied catalog handle.
// Upstream failures degrade to fewer candidates; the only error this
// returns is an authentication failure, which the web layer turns into a
// redirect to login.
func (r *Recommender) Recommend(ctx context.Context, catalog ports.CatalogClient, req Request) (Result, error) {
	mood := domain.MoodByID(req.Mood)
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	topArtists, err := catalog.TopArtists(ctx, ports.WindowMedium, signalArtistLimit)
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			return Result{}, err
		}
		r.log.Warn().Err(err).Msg("top artists unavailable")
	}
	topTracks, err := catalog.TopTracks(ctx, ports.WindowMedium, signalTrackLimit)
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			return Result{}, err
		}
		r.log.Warn().Err(err).Msg("top tracks unavailable")
	}
	recent, err := catalog.RecentlyPlayed(ctx, signalRecentLimit)
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			return Result{}, err
		}
		r.log.Warn().Err(err).Msg("recent plays unavailable")
	}

	excluded := r.exclusions.Get(req.UserID)
	known := domain.KnownTrackIDs(topTracks, recent)
	for id := range excluded {
		known[id] = struct{}{}
	}

	directMode := mood.ID == domain.MoodArtist || mood.ID == domain.MoodCustom
	if len(topArtists) == 0 && !directMode {
		return Result{
			Tracks:             []domain.Track{},
			ProfileDescription: DescriptionNeedMoreListening,
			ActiveMood:         mood,
			Moods:              domain.Moods(),
		}, nil
	}

	p := newPipeline(catalog, r.rng, r.log, known, limit)

	var profile domain.AudioProfile
	if directMode && req.Query != "" {
		p.customSearch(ctx, req.Query, mood.ID == domain.MoodArtist, excluded)
	} else {
		profile = r.userProfile(ctx, catalog, topTracks)
		r.runStrategies(ctx, p, mood, topArtists, recent)
	}

	tracks := rankCandidates(ctx, catalog, r.log, r.rng, p.candidates, profile, limit)
	r.log.Info().
		Str("mood", mood.ID).
		Int("candidates", len(p.candidates)).
		Int("returned", len(tracks)).
		Bool("audio_profile", !profile.Empty()).
		Msg("recommendations assembled")

	description := DescribeProfile(topArtists, topTracks, DescribeAudioProfile(profile))
	if len(tracks) == 0 {
		description = DescriptionNeedMoreListening
	}

	return Result{
		Tracks:             tracks,
		ProfileDescription: description,
		ActiveMood:         mood,
		Moods:              domain.Moods(),
	}, nil
}

// runStrategies executes the fixed-priority strategy order: discography
// deep dives, mood-augmented search, genre filler, recent-listening drift,
// and a final top-artist fallback when the list is still thin.
func (r *Recommender) runStrategies(ctx context.Context, p *pipeline, mood domain.Mood, topArtists []domain.Artist, recent []domain.Play) {
	seeds := make([]domain.Artist, len(topArtists))
	copy(seeds, topArtists)
	r.rng.Shuffle(len(seeds), func(i, j int) {
		seeds[i], seeds[j] = seeds[j], seeds[i]
	})
	if len(seeds) > maxSeedArtists {
		seeds = seeds[:maxSeedArtists]
	}

	for _, artist := range seeds {
		if p.full() {
			break
		}
		if artist.ID == "" {
			continue
		}
		p.deepCuts(ctx, artist.ID, artist.Name, deepCutsPerArtist, func(name string) string {
			return "From " + name
		})
	}

	if !p.full() {
		p.moodSearch(ctx, r.moodSeeds(topArtists), mood)
	}
	if !p.full() {
		p.genreSearch(ctx, GenreRanking(topArtists, maxGenreSeeds))
	}
	if !p.full() {
		p.drift(ctx, recent, topArtists)
	}
	p.fallback(ctx, topArtists)
}

// moodSeeds picks the seed terms the mood search combines with keywords:
// the user's leading artists plus their dominant genre.
func (r *Recommender) moodSeeds(topArtists []domain.Artist) []string {
	var seeds []string
	for _, a := range topArtists {
		if a.Name != "" {
			seeds = append(seeds, a.Name)
		}
		if len(seeds) == moodSeedArtists {
			break
		}
	}
	if genres := GenreRanking(topArtists, 1); len(genres) > 0 {
		seeds = append(seeds, genres[0])
	}
	return seeds
}

// userProfile averages audio features over a sample of the user's top
// tracks. The feature endpoint may be gone for this app registration, in
// which case the profile stays empty and ranking falls back to popularity.
func (r *Recommender) userProfile(ctx context.Context, catalog ports.CatalogClient, topTracks []domain.Track) domain.AudioProfile {
	ids := make([]string, 0, profileSampleSize)
	for _, t := range topTracks {
		if t.ID == "" {
			continue
		}
		ids = append(ids, t.ID)
		if len(ids) == profileSampleSize {
			break
		}
	}
	if len(ids) == 0 {
		return domain.AudioProfile{}
	}

	features, err := catalog.AudioFeatures(ctx, ids)
	if err != nil {
		r.log.Debug().Err(err).Msg("audio features unavailable, profile stays empty")
		return domain.AudioProfile{}
	}
	return BuildAudioProfile(features)
}

// Describe returns the profile summary shown on the dashboard without
// running the full pipeline.
func (r *Recommender) Describe(ctx context.Context, catalog ports.CatalogClient) (string, error) {
	topArtists, err := catalog.TopArtists(ctx, ports.WindowMedium, signalArtistLimit)
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			return "", err
		}
		return DescriptionEmptyProfile, nil
	}
	topTracks, _ := catalog.TopTracks(ctx, ports.WindowMedium, signalTrackLimit)
	return DescribeProfile(topArtists, topTracks, ""), nil
}
