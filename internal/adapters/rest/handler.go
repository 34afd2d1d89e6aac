// Package rest is the thin web layer over the recommendation core: session
// handling, query-parameter forwarding, and JSON rendering. No
// recommendation logic lives here.
package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/encore/internal/auth"
	"github.com/ewilliams-labs/encore/internal/core/domain"
	"github.com/ewilliams-labs/encore/internal/core/ports"
	"github.com/ewilliams-labs/encore/internal/core/services"
)

// CatalogFactory builds a catalog client around an authenticated HTTP
// client. Injected so tests can substitute a scripted catalog.
type CatalogFactory func(httpClient *http.Client) ports.CatalogClient

// Handler wires the HTTP surface to the core service.
type Handler struct {
	auth        *auth.Manager
	recommender *services.Recommender
	store       ports.ExclusionStore
	newCatalog  CatalogFactory
	log         zerolog.Logger
	router      chi.Router
}

// NewHandler sets up all routes.
func NewHandler(
	authManager *auth.Manager,
	recommender *services.Recommender,
	store ports.ExclusionStore,
	newCatalog CatalogFactory,
	log zerolog.Logger,
) *Handler {
	h := &Handler{
		auth:        authManager,
		recommender: recommender,
		store:       store,
		newCatalog:  newCatalog,
		log:         log.With().Str("component", "rest").Logger(),
		router:      chi.NewRouter(),
	}
	h.routes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.router.Get("/health", h.health)

	h.router.Get("/login", h.login)
	h.router.Get("/callback", h.callback)
	h.router.Get("/logout", h.logout)

	h.router.Route("/api", func(r chi.Router) {
		r.Get("/me", h.me)
		r.Get("/top/artists", h.topArtists)
		r.Get("/top/tracks", h.topTracks)
		r.Get("/recent", h.recent)
		r.Get("/genres", h.genres)
		r.Get("/dashboard/summary", h.dashboardSummary)
		r.Get("/recommendations", h.recommendations)

		r.Get("/exclusions", h.listExclusions)
		r.Post("/exclusions", h.addExclusion)
		r.Delete("/exclusions/{trackID}", h.removeExclusion)
	})
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- auth routes ---

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.auth.LoginURL(), http.StatusFound)
}

func (h *Handler) callback(w http.ResponseWriter, r *http.Request) {
	// The user may have canceled on the consent screen.
	if r.URL.Query().Get("error") != "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		h.writeError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	if err := h.auth.HandleCallback(r.Context(), w, r.URL.Query().Get("state"), code); err != nil {
		h.log.Warn().Err(err).Msg("oauth callback failed")
		h.writeError(w, http.StatusBadRequest, "authorization failed")
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(w, r)
	http.Redirect(w, r, "/", http.StatusFound)
}

// --- helpers ---

// catalog builds an authenticated catalog client for the request, writing
// the 401 response itself when there is no session. This is the single
// hard failure path in the system.
func (h *Handler) catalog(w http.ResponseWriter, r *http.Request) (ports.CatalogClient, bool) {
	httpClient, err := h.auth.Client(r.Context(), r)
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "not authenticated")
		return nil, false
	}
	return h.newCatalog(httpClient), true
}

// userID resolves the catalog user ID for the session, fetching the
// profile once and caching it.
func (h *Handler) userID(ctx context.Context, r *http.Request, catalog ports.CatalogClient) (string, error) {
	if id := h.auth.UserID(r); id != "" {
		return id, nil
	}
	user, err := catalog.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	h.auth.SetUserID(r, user.ID)
	return user.ID, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("response encode failed")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// upstreamError maps a catalog failure onto a response. Authentication
// failures become 401 so the frontend can redirect to login; anything else
// is a 502 from the upstream.
func (h *Handler) upstreamError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrNotAuthenticated) {
		h.writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	h.log.Error().Err(err).Msg("upstream catalog error")
	h.writeError(w, http.StatusBadGateway, "catalog unavailable")
}

// queryLimit parses a limit parameter clamped to 1-50.
func queryLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if limit < 1 {
		return 1
	}
	if limit > 50 {
		return 50
	}
	return limit
}
