package domain

import "time"

// Track is a catalog track, either one the user already knows or a
// recommendation candidate. Candidates are built fresh per request from
// upstream responses; nothing here is persisted except the ID when the
// user excludes a track.
type Track struct {
	ID          string
	Name        string
	Artist      string
	ArtistID    string // optional, not every listing response carries it
	Album       string
	CoverURL    string
	PreviewURL  string
	ExternalURL string
	Popularity  int // 0-100
	Explanation string
}

// Album is a slim album record as returned by an artist discography listing.
type Album struct {
	ID          string
	Name        string
	CoverURL    string
	ReleaseDate string
}

// Play is a single entry from the user's recently-played history.
type Play struct {
	Track    Track
	PlayedAt time.Time
}

// User is the authenticated listener's profile.
type User struct {
	ID          string
	DisplayName string
	Email       string
	Country     string
	Followers   int
	ImageURL    string
	ExternalURL string
	Product     string
}

// KnownTrackIDs collects the IDs of every track the user is assumed to know:
// their top tracks plus their recent plays. Candidates overlapping this set
// are filtered out of recommendations by default.
func KnownTrackIDs(topTracks []Track, recent []Play) map[string]struct{} {
	known := make(map[string]struct{}, len(topTracks)+len(recent))
	for _, t := range topTracks {
		if t.ID != "" {
			known[t.ID] = struct{}{}
		}
	}
	for _, p := range recent {
		if p.Track.ID != "" {
			known[p.Track.ID] = struct{}{}
		}
	}
	return known
}
