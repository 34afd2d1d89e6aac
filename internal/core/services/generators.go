package services

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/encore/internal/core/domain"
	"github.com/ewilliams-labs/encore/internal/core/ports"
)

// Bounds for the discography deep-dive and the search strategies. The
// offsets are randomized per call so repeated requests surface different
// tracks.
const (
	maxSeedArtists    = 6
	maxAlbumsPerSeed  = 5
	maxTracksPerAlbum = 5
	deepCutsPerArtist = 8

	moodSearchLimit     = 8
	moodSearchMaxOffset = 16 // offsets 0-15

	genreSearchLimit     = 8
	genreSearchMaxOffset = 21 // offsets 0-20
	maxGenreSeeds        = 3

	driftWindow        = 5
	driftSeedLimit     = 2
	driftCutsPerArtist = 4

	minCandidates         = 8
	fallbackSeedArtists   = 3
	fallbackCutsPerArtist = 5

	customSearchMaxOffset = 41 // offsets 0-40
	customSearchExtra     = 10
)

// pipeline accumulates candidates for one recommendation request. Strategies
// run strictly in sequence, so the seen set needs no locking; the first
// strategy to surface a track wins its explanation text.
type pipeline struct {
	catalog ports.CatalogClient
	rng     *rand.Rand
	log     zerolog.Logger

	known map[string]struct{}
	seen  map[string]struct{}
	quota int

	candidates []domain.Track
}

func newPipeline(catalog ports.CatalogClient, rng *rand.Rand, log zerolog.Logger, known map[string]struct{}, quota int) *pipeline {
	return &pipeline{
		catalog: catalog,
		rng:     rng,
		log:     log,
		known:   known,
		seen:    make(map[string]struct{}),
		quota:   quota,
	}
}

func (p *pipeline) full() bool { return len(p.candidates) >= p.quota }

// add appends a candidate unless its ID is empty, already known to the
// user, or already seen in this call.
func (p *pipeline) add(t domain.Track) bool {
	if t.ID == "" {
		return false
	}
	if _, ok := p.known[t.ID]; ok {
		return false
	}
	if _, ok := p.seen[t.ID]; ok {
		return false
	}
	p.seen[t.ID] = struct{}{}
	p.candidates = append(p.candidates, t)
	return true
}

// deepCuts walks a bounded sample of an artist's recent releases looking
// for tracks the user has not heard. Album listings do not carry popularity
// or preview data, so each accepted track costs one extra detail fetch.
// Any upstream failure along the way contributes zero candidates.
func (p *pipeline) deepCuts(ctx context.Context, artistID, artistName string, perArtist int, explain func(string) string) {
	albums, err := p.catalog.ArtistAlbums(ctx, artistID, maxAlbumsPerSeed)
	if err != nil {
		p.log.Debug().Err(err).Str("artist", artistName).Msg("artist albums unavailable, skipping")
		return
	}

	p.rng.Shuffle(len(albums), func(i, j int) {
		albums[i], albums[j] = albums[j], albums[i]
	})

	found := 0
	for _, album := range albums {
		if found >= perArtist {
			return
		}
		if album.ID == "" {
			continue
		}

		tracks, err := p.catalog.AlbumTracks(ctx, album.ID, maxTracksPerAlbum)
		if err != nil {
			p.log.Debug().Err(err).Str("album", album.Name).Msg("album tracks unavailable, skipping")
			continue
		}

		for _, t := range tracks {
			if found >= perArtist {
				break
			}
			candidate := domain.Track{
				ID:          t.ID,
				Name:        t.Name,
				Artist:      artistName,
				ArtistID:    artistID,
				Album:       album.Name,
				CoverURL:    album.CoverURL,
				Explanation: explain(artistName),
			}
			if candidate.CoverURL == "" {
				candidate.CoverURL = t.CoverURL
			}

			// The listing has no popularity; fetch the full track and
			// degrade to zero popularity when that fails. This is the
			// most request-heavy path in the pipeline.
			// TODO: batch these via the /tracks?ids= endpoint.
			if full, err := p.catalog.Track(ctx, t.ID); err == nil {
				candidate.Popularity = full.Popularity
				candidate.PreviewURL = full.PreviewURL
				candidate.ExternalURL = full.ExternalURL
			}

			if p.add(candidate) {
				found++
			}
		}
	}
}

// moodSearch combines seed artists and genres with one of the mood's
// keywords, paging into the results at a random offset for variety.
func (p *pipeline) moodSearch(ctx context.Context, seeds []string, mood domain.Mood) {
	if len(mood.Keywords) == 0 {
		return
	}
	for _, seed := range seeds {
		if p.full() {
			return
		}
		keyword := mood.Keywords[p.rng.Intn(len(mood.Keywords))]
		query := fmt.Sprintf("%s %s", seed, keyword)
		offset := p.rng.Intn(moodSearchMaxOffset)

		tracks, err := p.catalog.SearchTracks(ctx, query, moodSearchLimit, offset)
		if err != nil {
			p.log.Debug().Err(err).Str("query", query).Msg("mood search failed, skipping")
			continue
		}
		for _, t := range tracks {
			if p.full() {
				return
			}
			t.Explanation = fmt.Sprintf("%s · %s", seed, mood.Label)
			p.add(t)
		}
	}
}

// genreSearch fills remaining quota with plain genre queries.
func (p *pipeline) genreSearch(ctx context.Context, genres []string) {
	for _, genre := range genres {
		if p.full() {
			return
		}
		query := fmt.Sprintf("genre:%q", genre)
		offset := p.rng.Intn(genreSearchMaxOffset)

		tracks, err := p.catalog.SearchTracks(ctx, query, genreSearchLimit, offset)
		if err != nil {
			p.log.Debug().Err(err).Str("genre", genre).Msg("genre search failed, skipping")
			continue
		}
		for _, t := range tracks {
			if p.full() {
				return
			}
			t.Explanation = "Based on " + genre
			p.add(t)
		}
	}
}

// driftSeeds compares the artists of the newest plays against the rest of
// the history. Artists present only in the newest window signal a shift in
// what the user is listening to right now.
func driftSeeds(recent []domain.Play, topArtists []domain.Artist) []domain.Artist {
	if len(recent) <= driftWindow {
		return nil
	}

	older := make(map[string]struct{})
	for _, play := range recent[driftWindow:] {
		if play.Track.Artist != "" {
			older[play.Track.Artist] = struct{}{}
		}
	}

	byName := make(map[string]string, len(topArtists))
	for _, a := range topArtists {
		if a.Name != "" && a.ID != "" {
			byName[a.Name] = a.ID
		}
	}

	var seeds []domain.Artist
	seen := make(map[string]struct{})
	for _, play := range recent[:driftWindow] {
		name := play.Track.Artist
		if name == "" {
			continue
		}
		if _, ok := older[name]; ok {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		id := play.Track.ArtistID
		if id == "" {
			id = byName[name]
		}
		if id == "" {
			continue
		}
		seeds = append(seeds, domain.Artist{ID: id, Name: name})
		if len(seeds) == driftSeedLimit {
			break
		}
	}
	return seeds
}

// drift seeds additional candidates from artists that newly appeared in the
// user's most recent plays.
func (p *pipeline) drift(ctx context.Context, recent []domain.Play, topArtists []domain.Artist) {
	for _, seed := range driftSeeds(recent, topArtists) {
		if p.full() {
			return
		}
		p.deepCuts(ctx, seed.ID, seed.Name, driftCutsPerArtist, func(name string) string {
			return "New direction: " + name
		})
	}
}

// fallback tops the list up from the user's leading artists when the
// earlier strategies left it too thin.
func (p *pipeline) fallback(ctx context.Context, topArtists []domain.Artist) {
	if len(p.candidates) >= minCandidates {
		return
	}
	for _, artist := range topArtists {
		if p.full() || artist.ID == "" {
			return
		}
		p.deepCuts(ctx, artist.ID, artist.Name, fallbackCutsPerArtist, func(name string) string {
			return "More from " + name
		})
	}
}

// customSearch handles the artist-specific and free-text modes: one direct
// search, no strategy pipeline. In artist mode the known-track filter is
// deliberately skipped — a user asking for an artist wants familiar songs
// too — and only previously excluded tracks are withheld in free mode.
func (p *pipeline) customSearch(ctx context.Context, query string, artistMode bool, excluded map[string]struct{}) {
	q := query
	explain := fmt.Sprintf("Search: %q", query)
	if artistMode {
		q = fmt.Sprintf("artist:%q", query)
		explain = "From " + query
	}

	accept := func(tracks []domain.Track) {
		for _, t := range tracks {
			if len(p.candidates) >= p.quota {
				return
			}
			if t.ID == "" {
				continue
			}
			if _, ok := p.seen[t.ID]; ok {
				continue
			}
			if !artistMode {
				if _, ok := excluded[t.ID]; ok {
					continue
				}
			}
			p.seen[t.ID] = struct{}{}
			t.Explanation = explain
			p.candidates = append(p.candidates, t)
		}
	}

	offset := p.rng.Intn(customSearchMaxOffset)
	tracks, err := p.catalog.SearchTracks(ctx, q, p.quota+customSearchExtra, offset)
	if err == nil {
		accept(tracks)
		return
	}

	// A high offset past the end of the result set can fail outright;
	// retry once from the top before giving up.
	p.log.Debug().Err(err).Str("query", q).Int("offset", offset).Msg("custom search failed, retrying without offset")
	tracks, err = p.catalog.SearchTracks(ctx, q, p.quota, 0)
	if err != nil {
		p.log.Debug().Err(err).Str("query", q).Msg("custom search failed, no candidates")
		return
	}
	accept(tracks)
}
