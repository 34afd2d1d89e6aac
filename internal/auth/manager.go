// Package auth handles the OAuth authorization-code flow against the
// Spotify accounts service and keeps per-browser sessions. Its job is to
// hand the rest layer an authenticated *http.Client for the current user;
// everything else in the system is agnostic of how tokens work.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	spotifyauth "golang.org/x/oauth2/spotify"

	"github.com/ewilliams-labs/encore/internal/core/domain"
)

// scopes are the permissions requested from the user on login.
var scopes = []string{
	"user-read-private",
	"user-read-email",
	"user-top-read",
	"user-read-recently-played",
	"user-library-read",
}

const stateTTL = 10 * time.Minute

// Manager owns the oauth2 configuration, the session store, and the
// login-state nonces.
type Manager struct {
	oauth      *oauth2.Config
	cookieName string
	sessions   *sessionStore

	mu     sync.Mutex
	states map[string]time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithEndpoint overrides the accounts-service endpoint (tests point this at
// a local server).
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(m *Manager) { m.oauth.Endpoint = endpoint }
}

// NewManager builds a Manager from app credentials.
func NewManager(clientID, clientSecret, redirectURI, cookieName string, opts ...Option) *Manager {
	m := &Manager{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       scopes,
			Endpoint:     spotifyauth.Endpoint,
		},
		cookieName: cookieName,
		sessions:   newSessionStore(),
		states:     make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LoginURL issues a fresh state nonce and returns the authorization URL to
// redirect the user to. ShowDialog forces the account chooser so several
// people can use one browser.
func (m *Manager) LoginURL() string {
	state := uuid.NewString()
	m.mu.Lock()
	m.states[state] = time.Now().Add(stateTTL)
	m.mu.Unlock()

	return m.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "true"))
}

// consumeState validates and burns a state nonce.
func (m *Manager) consumeState(state string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	deadline, ok := m.states[state]
	if !ok {
		return false
	}
	delete(m.states, state)

	// Sweep anything else that expired while we were here.
	now := time.Now()
	for s, d := range m.states {
		if now.After(d) {
			delete(m.states, s)
		}
	}
	return now.Before(deadline)
}

// HandleCallback exchanges the authorization code for a token and starts a
// session, setting the session cookie on the response.
func (m *Manager) HandleCallback(ctx context.Context, w http.ResponseWriter, state, code string) error {
	if !m.consumeState(state) {
		return fmt.Errorf("auth: unknown or expired state")
	}

	token, err := m.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("auth: code exchange: %w", err)
	}

	id := m.sessions.create(token)
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Logout drops the caller's session and clears the cookie.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(m.cookieName); err == nil {
		m.sessions.delete(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// sessionID extracts the caller's session ID, if any.
func (m *Manager) sessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// LoggedIn reports whether the request carries a live session.
func (m *Manager) LoggedIn(r *http.Request) bool {
	id, ok := m.sessionID(r)
	if !ok {
		return false
	}
	_, ok = m.sessions.get(id)
	return ok
}

// Client returns an authenticated HTTP client for the request's session.
// The underlying token source refreshes expired tokens transparently and
// writes the rotated token back into the session. Returns
// domain.ErrNotAuthenticated when there is no live session.
func (m *Manager) Client(ctx context.Context, r *http.Request) (*http.Client, error) {
	id, ok := m.sessionID(r)
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	token, ok := m.sessions.get(id)
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}

	src := &savingTokenSource{
		inner:     m.oauth.TokenSource(ctx, token),
		sessions:  m.sessions,
		sessionID: id,
		last:      token,
	}
	return oauth2.NewClient(ctx, src), nil
}

// UserID returns the cached catalog user ID for this session, or "".
func (m *Manager) UserID(r *http.Request) string {
	id, ok := m.sessionID(r)
	if !ok {
		return ""
	}
	return m.sessions.userID(id)
}

// SetUserID caches the catalog user ID on the session after the first
// profile fetch.
func (m *Manager) SetUserID(r *http.Request, userID string) {
	if id, ok := m.sessionID(r); ok {
		m.sessions.setUserID(id, userID)
	}
}

// savingTokenSource persists refreshed tokens back into the session so the
// next request skips the refresh round-trip.
type savingTokenSource struct {
	inner     oauth2.TokenSource
	sessions  *sessionStore
	sessionID string
	last      *oauth2.Token
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.inner.Token()
	if err != nil {
		return nil, err
	}
	if s.last == nil || token.AccessToken != s.last.AccessToken {
		s.sessions.setToken(s.sessionID, token)
		s.last = token
	}
	return token, nil
}
