package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

func (h *Handler) listExclusions(w http.ResponseWriter, r *http.Request) {
	catalog, ok := h.catalog(w, r)
	if !ok {
		return
	}
	userID, err := h.userID(r.Context(), r, catalog)
	if err != nil {
		h.upstreamError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"exclusions": toExclusionViews(h.store.List(userID)),
	})
}

func (h *Handler) addExclusion(w http.ResponseWriter, r *http.Request) {
	catalog, ok := h.catalog(w, r)
	if !ok {
		return
	}
	userID, err := h.userID(r.Context(), r, catalog)
	if err != nil {
		h.upstreamError(w, err)
		return
	}

	var body struct {
		TrackID string `json:"track_id"`
		Name    string `json:"name"`
		Artist  string `json:"artist"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.TrackID == "" {
		h.writeError(w, http.StatusBadRequest, "track_id is required")
		return
	}

	if err := h.store.Add(userID, body.TrackID, body.Name, body.Artist); err != nil {
		h.log.Error().Err(err).Str("user", userID).Msg("exclusion write failed")
		h.writeError(w, http.StatusInternalServerError, "could not save exclusion")
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]string{"status": "excluded"})
}

func (h *Handler) removeExclusion(w http.ResponseWriter, r *http.Request) {
	catalog, ok := h.catalog(w, r)
	if !ok {
		return
	}
	userID, err := h.userID(r.Context(), r, catalog)
	if err != nil {
		h.upstreamError(w, err)
		return
	}

	trackID := chi.URLParam(r, "trackID")
	if err := h.store.Remove(userID, trackID); err != nil {
		h.log.Error().Err(err).Str("user", userID).Msg("exclusion write failed")
		h.writeError(w, http.StatusInternalServerError, "could not remove exclusion")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
