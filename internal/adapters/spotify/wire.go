package spotify

// Wire types mirror the upstream JSON shapes. They never leave this
// package; mapper.go flattens them into domain records.

type wireImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type wireExternalURLs struct {
	Spotify string `json:"spotify"`
}

type wireFollowers struct {
	Total int `json:"total"`
}

type wireArtist struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Genres       []string         `json:"genres"`
	Popularity   int              `json:"popularity"`
	Followers    wireFollowers    `json:"followers"`
	Images       []wireImage      `json:"images"`
	ExternalURLs wireExternalURLs `json:"external_urls"`
}

type wireAlbum struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	Images               []wireImage      `json:"images"`
	ReleaseDate          string           `json:"release_date"`
	ReleaseDatePrecision string           `json:"release_date_precision"`
	ExternalURLs         wireExternalURLs `json:"external_urls"`
}

type wireTrack struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Popularity   int              `json:"popularity"`
	PreviewURL   string           `json:"preview_url"`
	DurationMs   int              `json:"duration_ms"`
	Album        wireAlbum        `json:"album"`
	Artists      []wireArtist     `json:"artists"`
	ExternalURLs wireExternalURLs `json:"external_urls"`
}

type wireUser struct {
	ID           string           `json:"id"`
	DisplayName  string           `json:"display_name"`
	Email        string           `json:"email"`
	Country      string           `json:"country"`
	Product      string           `json:"product"`
	Followers    wireFollowers    `json:"followers"`
	Images       []wireImage      `json:"images"`
	ExternalURLs wireExternalURLs `json:"external_urls"`
}

type wirePlayItem struct {
	Track    wireTrack `json:"track"`
	PlayedAt string    `json:"played_at"`
}

type wireAudioFeatures struct {
	ID           string  `json:"id"`
	Energy       float64 `json:"energy"`
	Danceability float64 `json:"danceability"`
	Valence      float64 `json:"valence"`
	Tempo        float64 `json:"tempo"`
}

// Paging envelopes. The upstream wraps most listings in {"items": [...]},
// search results one level deeper under "tracks".

type wireArtistPage struct {
	Items []wireArtist `json:"items"`
}

type wireTrackPage struct {
	Items []wireTrack `json:"items"`
}

type wireAlbumPage struct {
	Items []wireAlbum `json:"items"`
}

type wirePlayPage struct {
	Items []wirePlayItem `json:"items"`
}

type wireSearchResponse struct {
	Tracks wireTrackPage `json:"tracks"`
}

type wireAudioFeaturesResponse struct {
	AudioFeatures []*wireAudioFeatures `json:"audio_features"`
}
