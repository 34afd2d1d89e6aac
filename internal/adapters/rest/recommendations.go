package rest

import (
	"net/http"
	"strings"

	"github.com/ewilliams-labs/encore/internal/core/services"
)

const recommendationLimit = 20

// recommendations forwards the mood and free-text query to the assembler.
// Degraded upstreams still produce a 200 with whatever could be assembled;
// only a missing session fails.
func (h *Handler) recommendations(w http.ResponseWriter, r *http.Request) {
	catalog, ok := h.catalog(w, r)
	if !ok {
		return
	}

	userID, err := h.userID(r.Context(), r, catalog)
	if err != nil {
		h.upstreamError(w, err)
		return
	}

	result, err := h.recommender.Recommend(r.Context(), catalog, services.Request{
		UserID: userID,
		Mood:   r.URL.Query().Get("mood"),
		Query:  strings.TrimSpace(r.URL.Query().Get("query")),
		Limit:  queryLimit(r, recommendationLimit),
	})
	if err != nil {
		h.upstreamError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"recommendations":     toTrackViews(result.Tracks),
		"profile_description": result.ProfileDescription,
		"moods":               toMoodViews(result.Moods),
		"active_mood":         result.ActiveMood.ID,
	})
}
