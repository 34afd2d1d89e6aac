package rest

import (
	"time"

	"github.com/ewilliams-labs/encore/internal/core/domain"
	"github.com/ewilliams-labs/encore/internal/core/services"
)

// Response shapes for the frontend. Field names are part of the frontend
// contract; keep them snake_case.

type trackView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	Album       string `json:"album,omitempty"`
	Image       string `json:"image,omitempty"`
	PreviewURL  string `json:"preview_url,omitempty"`
	SpotifyURL  string `json:"spotify_url,omitempty"`
	Popularity  int    `json:"popularity"`
	Explanation string `json:"explanation,omitempty"`
}

func toTrackView(t domain.Track) trackView {
	return trackView{
		ID:          t.ID,
		Name:        t.Name,
		Artist:      t.Artist,
		Album:       t.Album,
		Image:       t.CoverURL,
		PreviewURL:  t.PreviewURL,
		SpotifyURL:  t.ExternalURL,
		Popularity:  t.Popularity,
		Explanation: t.Explanation,
	}
}

func toTrackViews(tracks []domain.Track) []trackView {
	out := make([]trackView, len(tracks))
	for i, t := range tracks {
		out[i] = toTrackView(t)
	}
	return out
}

type artistView struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	Followers  int      `json:"followers"`
	Image      string   `json:"image,omitempty"`
	SpotifyURL string   `json:"spotify_url,omitempty"`
}

func toArtistView(a domain.Artist) artistView {
	genres := a.Genres
	if genres == nil {
		genres = []string{}
	}
	return artistView{
		ID:         a.ID,
		Name:       a.Name,
		Genres:     genres,
		Popularity: a.Popularity,
		Followers:  a.Followers,
		Image:      a.ImageURL,
		SpotifyURL: a.ExternalURL,
	}
}

func toArtistViews(artists []domain.Artist) []artistView {
	out := make([]artistView, len(artists))
	for i, a := range artists {
		out[i] = toArtistView(a)
	}
	return out
}

type playView struct {
	trackView
	PlayedAt time.Time `json:"played_at"`
}

func toPlayViews(plays []domain.Play) []playView {
	out := make([]playView, len(plays))
	for i, p := range plays {
		out[i] = playView{trackView: toTrackView(p.Track), PlayedAt: p.PlayedAt}
	}
	return out
}

type userView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Country    string `json:"country,omitempty"`
	Followers  int    `json:"followers"`
	Image      string `json:"image,omitempty"`
	SpotifyURL string `json:"spotify_url,omitempty"`
	Product    string `json:"product,omitempty"`
}

func toUserView(u domain.User) userView {
	return userView{
		ID:         u.ID,
		Name:       u.DisplayName,
		Email:      u.Email,
		Country:    u.Country,
		Followers:  u.Followers,
		Image:      u.ImageURL,
		SpotifyURL: u.ExternalURL,
		Product:    u.Product,
	}
}

type moodView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

func toMoodViews(moods []domain.Mood) []moodView {
	out := make([]moodView, len(moods))
	for i, m := range moods {
		out[i] = moodView{ID: m.ID, Label: m.Label, Icon: m.Icon}
	}
	return out
}

type genreView struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func toGenreViews(genres []services.GenreCount) []genreView {
	out := make([]genreView, len(genres))
	for i, g := range genres {
		out[i] = genreView{Name: g.Name, Count: g.Count}
	}
	return out
}

type exclusionView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Artist     string    `json:"artist"`
	ExcludedAt time.Time `json:"excluded_at"`
}

func toExclusionViews(exclusions []domain.Exclusion) []exclusionView {
	out := make([]exclusionView, len(exclusions))
	for i, e := range exclusions {
		out[i] = exclusionView{ID: e.TrackID, Name: e.Name, Artist: e.Artist, ExcludedAt: e.ExcludedAt}
	}
	return out
}
