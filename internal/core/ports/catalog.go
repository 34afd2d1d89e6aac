package ports

import (
	"context"

	"github.com/ewilliams-labs/encore/internal/core/domain"
)

// TimeWindow selects how far back listening statistics reach.
type TimeWindow string

const (
	WindowRecent  TimeWindow = "short_term"  // ~4 weeks
	WindowMedium  TimeWindow = "medium_term" // ~6 months
	WindowAllTime TimeWindow = "long_term"
)

// ParseTimeWindow maps an external window name onto a known window,
// defaulting to the medium term.
func ParseTimeWindow(s string) TimeWindow {
	switch TimeWindow(s) {
	case WindowRecent, WindowMedium, WindowAllTime:
		return TimeWindow(s)
	default:
		return WindowMedium
	}
}

// CatalogClient is the upstream music catalog as the core sees it: flat,
// typed records, never raw response maps. Every method is a blocking,
// request-scoped network call.
//
// AudioFeatures is special: the upstream endpoint is deprecated for newer
// app registrations and may legitimately return nothing. Implementations
// map "unauthorized" and "empty" to an empty map, and callers must never
// treat an empty map as fatal.
type CatalogClient interface {
	CurrentUser(ctx context.Context) (domain.User, error)
	TopArtists(ctx context.Context, window TimeWindow, limit int) ([]domain.Artist, error)
	TopTracks(ctx context.Context, window TimeWindow, limit int) ([]domain.Track, error)
	RecentlyPlayed(ctx context.Context, limit int) ([]domain.Play, error)
	SearchTracks(ctx context.Context, query string, limit, offset int) ([]domain.Track, error)
	ArtistAlbums(ctx context.Context, artistID string, limit int) ([]domain.Album, error)
	AlbumTracks(ctx context.Context, albumID string, limit int) ([]domain.Track, error)
	Track(ctx context.Context, id string) (domain.Track, error)
	AudioFeatures(ctx context.Context, ids []string) (map[string]domain.AudioFeatures, error)
}
