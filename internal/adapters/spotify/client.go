// Package spotify adapts the Spotify Web API to the catalog port. All
// responses are normalized into flat domain records at this boundary; raw
// JSON shapes never escape the package.
package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ewilliams-labs/encore/internal/core/domain"
	"github.com/ewilliams-labs/encore/internal/core/ports"
)

const DefaultBaseURL = "https://api.spotify.com/v1"

// featureBatchMax is the upstream cap on ids per audio-features call.
const featureBatchMax = 100

// Client is an HTTP client for the Spotify Web API. The *http.Client must
// already be authenticated for the current user (an oauth2 client); this
// adapter adds pacing, retries, and response normalization on top.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	limiter     *rate.Limiter
	maxRetries  int
	baseBackoff time.Duration
	log         zerolog.Logger
}

// compile-time interface assertion
var _ ports.CatalogClient = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different API root (tests use an
// httptest server).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithRateLimit replaces the default request pacing.
func WithRateLimit(limiter *rate.Limiter) ClientOption {
	return func(c *Client) { c.limiter = limiter }
}

// WithRetry overrides the retry policy.
func WithRetry(maxRetries int, baseBackoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.baseBackoff = baseBackoff
	}
}

// NewClient constructs a Spotify client around an authenticated HTTP client.
func NewClient(httpClient *http.Client, log zerolog.Logger, opts ...ClientOption) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		httpClient: httpClient,
		baseURL:    DefaultBaseURL,
		// ~10 req/s with small bursts stays comfortably inside the
		// upstream rate window.
		limiter:     rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
		maxRetries:  defaultMaxRetries,
		baseBackoff: defaultBackoff,
		log:         log.With().Str("component", "spotify").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON performs a paced, retried GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("spotify adapter: %w", err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("spotify adapter: %w", err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return fmt.Errorf("spotify adapter: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("spotify adapter: %w", domain.ErrNotAuthenticated)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("spotify adapter: %s status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("spotify adapter: decode %s: %w", path, err)
	}
	return nil
}

// CurrentUser fetches the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (domain.User, error) {
	var wu wireUser
	if err := c.getJSON(ctx, "/me", nil, &wu); err != nil {
		return domain.User{}, err
	}
	return mapUserToDomain(wu), nil
}

// TopArtists fetches the user's most-listened artists for a time window.
func (c *Client) TopArtists(ctx context.Context, window ports.TimeWindow, limit int) ([]domain.Artist, error) {
	query := url.Values{}
	query.Set("time_range", string(window))
	query.Set("limit", strconv.Itoa(clampLimit(limit)))

	var page wireArtistPage
	if err := c.getJSON(ctx, "/me/top/artists", query, &page); err != nil {
		return nil, err
	}

	artists := make([]domain.Artist, 0, len(page.Items))
	for _, wa := range page.Items {
		artists = append(artists, mapArtistToDomain(wa))
	}
	return artists, nil
}

// TopTracks fetches the user's most-listened tracks for a time window.
func (c *Client) TopTracks(ctx context.Context, window ports.TimeWindow, limit int) ([]domain.Track, error) {
	query := url.Values{}
	query.Set("time_range", string(window))
	query.Set("limit", strconv.Itoa(clampLimit(limit)))

	var page wireTrackPage
	if err := c.getJSON(ctx, "/me/top/tracks", query, &page); err != nil {
		return nil, err
	}
	return mapTracks(page.Items), nil
}

// RecentlyPlayed fetches the user's listening history, newest first.
func (c *Client) RecentlyPlayed(ctx context.Context, limit int) ([]domain.Play, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(clampLimit(limit)))

	var page wirePlayPage
	if err := c.getJSON(ctx, "/me/player/recently-played", query, &page); err != nil {
		return nil, err
	}

	plays := make([]domain.Play, 0, len(page.Items))
	for _, wp := range page.Items {
		plays = append(plays, mapPlayToDomain(wp))
	}
	return plays, nil
}

// SearchTracks runs a free-text track search with pagination.
func (c *Client) SearchTracks(ctx context.Context, q string, limit, offset int) ([]domain.Track, error) {
	query := url.Values{}
	query.Set("q", q)
	query.Set("type", "track")
	query.Set("limit", strconv.Itoa(clampLimit(limit)))
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}

	var res wireSearchResponse
	if err := c.getJSON(ctx, "/search", query, &res); err != nil {
		return nil, err
	}
	return mapTracks(res.Tracks.Items), nil
}

// ArtistAlbums lists an artist's most recent albums and singles.
func (c *Client) ArtistAlbums(ctx context.Context, artistID string, limit int) ([]domain.Album, error) {
	query := url.Values{}
	query.Set("include_groups", "album,single")
	query.Set("limit", strconv.Itoa(clampLimit(limit)))

	var page wireAlbumPage
	if err := c.getJSON(ctx, "/artists/"+url.PathEscape(artistID)+"/albums", query, &page); err != nil {
		return nil, err
	}

	albums := make([]domain.Album, 0, len(page.Items))
	for _, wa := range page.Items {
		albums = append(albums, mapAlbumToDomain(wa))
	}
	return albums, nil
}

// AlbumTracks lists the tracks of an album. Listing entries carry no
// popularity or album metadata; callers needing those fetch the full track.
func (c *Client) AlbumTracks(ctx context.Context, albumID string, limit int) ([]domain.Track, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(clampLimit(limit)))

	var page wireTrackPage
	if err := c.getJSON(ctx, "/albums/"+url.PathEscape(albumID)+"/tracks", query, &page); err != nil {
		return nil, err
	}
	return mapTracks(page.Items), nil
}

// Track fetches one full track record.
func (c *Client) Track(ctx context.Context, id string) (domain.Track, error) {
	var wt wireTrack
	if err := c.getJSON(ctx, "/tracks/"+url.PathEscape(id), nil, &wt); err != nil {
		return domain.Track{}, err
	}
	return mapTrackToDomain(wt), nil
}

// AudioFeatures fetches feature vectors for up to 100 tracks. The endpoint
// is deprecated for newer app registrations; 403/404 and empty bodies are
// normal and map to an empty result, never an error. Only authentication
// failures surface.
func (c *Client) AudioFeatures(ctx context.Context, ids []string) (map[string]domain.AudioFeatures, error) {
	out := make(map[string]domain.AudioFeatures)
	if len(ids) == 0 {
		return out, nil
	}
	if len(ids) > featureBatchMax {
		ids = ids[:featureBatchMax]
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("spotify adapter: %w", err)
	}

	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/audio-features?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: %w", err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		c.log.Debug().Err(err).Msg("audio features unavailable")
		return out, nil
	}
	defer resp.Body.Close()

	// Unauthorized is an expected answer here: feature access is gated
	// per app registration, not per session. Degrade to "no signal".
	if resp.StatusCode != http.StatusOK {
		c.log.Debug().Int("status", resp.StatusCode).Msg("audio features unavailable")
		return out, nil
	}

	var res wireAudioFeaturesResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		c.log.Debug().Err(err).Msg("audio features decode failed")
		return out, nil
	}

	for _, wf := range res.AudioFeatures {
		// The upstream returns null entries for tracks it has no
		// analysis for.
		if wf == nil || wf.ID == "" {
			continue
		}
		out[wf.ID] = mapFeaturesToDomain(*wf)
	}
	return out, nil
}

func mapTracks(items []wireTrack) []domain.Track {
	tracks := make([]domain.Track, 0, len(items))
	for _, wt := range items {
		tracks = append(tracks, mapTrackToDomain(wt))
	}
	return tracks
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > 50 {
		return 50
	}
	return limit
}
