package spotify

import (
	"time"

	"github.com/ewilliams-labs/encore/internal/core/domain"
)

// mapTrackToDomain flattens a raw track: first artist becomes the display
// artist, first album image becomes the cover.
func mapTrackToDomain(wt wireTrack) domain.Track {
	t := domain.Track{
		ID:          wt.ID,
		Name:        wt.Name,
		Album:       wt.Album.Name,
		Popularity:  wt.Popularity,
		PreviewURL:  wt.PreviewURL,
		ExternalURL: wt.ExternalURLs.Spotify,
	}
	if len(wt.Artists) > 0 {
		t.Artist = wt.Artists[0].Name
		t.ArtistID = wt.Artists[0].ID
	}
	if len(wt.Album.Images) > 0 {
		t.CoverURL = wt.Album.Images[0].URL
	}
	return t
}

func mapArtistToDomain(wa wireArtist) domain.Artist {
	a := domain.Artist{
		ID:          wa.ID,
		Name:        wa.Name,
		Genres:      wa.Genres,
		Popularity:  wa.Popularity,
		Followers:   wa.Followers.Total,
		ExternalURL: wa.ExternalURLs.Spotify,
	}
	if len(wa.Images) > 0 {
		a.ImageURL = wa.Images[0].URL
	}
	return a
}

func mapAlbumToDomain(wa wireAlbum) domain.Album {
	al := domain.Album{
		ID:          wa.ID,
		Name:        wa.Name,
		ReleaseDate: wa.ReleaseDate,
	}
	if len(wa.Images) > 0 {
		al.CoverURL = wa.Images[0].URL
	}
	return al
}

func mapUserToDomain(wu wireUser) domain.User {
	u := domain.User{
		ID:          wu.ID,
		DisplayName: wu.DisplayName,
		Email:       wu.Email,
		Country:     wu.Country,
		Product:     wu.Product,
		Followers:   wu.Followers.Total,
		ExternalURL: wu.ExternalURLs.Spotify,
	}
	if len(wu.Images) > 0 {
		u.ImageURL = wu.Images[0].URL
	}
	return u
}

func mapPlayToDomain(wp wirePlayItem) domain.Play {
	playedAt, _ := time.Parse(time.RFC3339, wp.PlayedAt)
	return domain.Play{
		Track:    mapTrackToDomain(wp.Track),
		PlayedAt: playedAt,
	}
}

func mapFeaturesToDomain(wf wireAudioFeatures) domain.AudioFeatures {
	return domain.AudioFeatures{
		Energy:       wf.Energy,
		Danceability: wf.Danceability,
		Valence:      wf.Valence,
		Tempo:        wf.Tempo,
	}
}
