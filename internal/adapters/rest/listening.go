package rest

import (
	"net/http"

	"github.com/ewilliams-labs/encore/internal/core/ports"
	"github.com/ewilliams-labs/encore/internal/core/services"
)

const (
	defaultArtistLimit = 12
	defaultTrackLimit  = 10
	defaultRecentLimit = 20

	genreArtistSample = 50
	genreTopCount     = 15
	summaryGenreCount = 12
)

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	catalog, ok := h.catalog(w, r)
	if !ok {
		return
	}
	user, err := catalog.CurrentUser(r.Context())
	if err != nil {
		h.upstreamError(w, err)
		return
	}
	h.auth.SetUserID(r, user.ID)
	h.writeJSON(w, http.StatusOK, toUserView(user))
}

func (h *Handler) topArtists(w http.ResponseWriter, r *http.Request) {
	catalog, ok := h.catalog(w, r)
	if !ok {
		return
	}
	window := ports.ParseTimeWindow(r.URL.Query().Get("time_range"))
	artists, err := catalog.TopArtists(r.Context(), window, queryLimit(r, defaultArtistLimit))
	if err != nil {
		h.upstreamError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"artists":    toArtistViews(artists),
		"time_range": string(window),
	})
}

func (h *Handler) topTracks(w http.ResponseWriter, r *http.Request) {
	catalog, ok := h.catalog(w, r)
	if !ok {
		return
	}
	window := ports.ParseTimeWindow(r.URL.Query().Get("time_range"))
	tracks, err := catalog.TopTracks(r.Context(), window, queryLimit(r, defaultTrackLimit))
	if err != nil {
		h.upstreamError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"tracks":     toTrackViews(tracks),
		"time_range": string(window),
	})
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	catalog, ok := h.catalog(w, r)
	if !ok {
		return
	}
	plays, err := catalog.RecentlyPlayed(r.Context(), queryLimit(r, defaultRecentLimit))
	if err != nil {
		h.upstreamError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"tracks": toPlayViews(plays)})
}

func (h *Handler) genres(w http.ResponseWriter, r *http.Request) {
	catalog, ok := h.catalog(w, r)
	if !ok {
		return
	}
	artists, err := catalog.TopArtists(r.Context(), ports.WindowAllTime, genreArtistSample)
	if err != nil {
		h.upstreamError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"genres": toGenreViews(services.GenreDistribution(artists, genreTopCount)),
	})
}

// dashboardSummary bundles everything the dashboard needs into one call.
func (h *Handler) dashboardSummary(w http.ResponseWriter, r *http.Request) {
	catalog, ok := h.catalog(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	user, err := catalog.CurrentUser(ctx)
	if err != nil {
		h.upstreamError(w, err)
		return
	}
	h.auth.SetUserID(r, user.ID)

	artists, err := catalog.TopArtists(ctx, ports.WindowMedium, defaultTrackLimit)
	if err != nil {
		h.upstreamError(w, err)
		return
	}
	tracks, err := catalog.TopTracks(ctx, ports.WindowMedium, defaultTrackLimit)
	if err != nil {
		h.upstreamError(w, err)
		return
	}
	plays, err := catalog.RecentlyPlayed(ctx, defaultTrackLimit)
	if err != nil {
		h.upstreamError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"profile":            toUserView(user),
		"top_artists":        toArtistViews(artists),
		"top_tracks":         toTrackViews(tracks),
		"recent_tracks":      toPlayViews(plays),
		"genre_distribution": toGenreViews(services.GenreDistribution(artists, summaryGenreCount)),
	})
}
