// Package exclusions persists the per-user list of dismissed tracks as one
// JSON file per user. Every mutation rewrites the whole file; there is no
// locking, so two simultaneous writers for the same user race and the last
// one wins. Writes are rare and user-scoped, which makes that acceptable.
package exclusions

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/encore/internal/core/domain"
	"github.com/ewilliams-labs/encore/internal/core/ports"
)

// Store is a file-backed exclusion store rooted at a single directory.
type Store struct {
	dir string
	log zerolog.Logger
	now func() time.Time
}

var _ ports.ExclusionStore = (*Store)(nil)

type fileLayout struct {
	Exclusions []domain.Exclusion `json:"exclusions"`
}

// NewStore creates the storage directory if needed.
func NewStore(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("exclusion store: %w", err)
	}
	return &Store{
		dir: dir,
		log: log.With().Str("component", "exclusions").Logger(),
		now: time.Now,
	}, nil
}

// path builds the storage key for a user. The identifier is sanitized
// before touching the filesystem so it can never escape the data directory.
func (s *Store) path(userID string) string {
	safe := domain.SanitizeUserID(userID)
	if safe == "" {
		safe = "anonymous"
	}
	return filepath.Join(s.dir, safe+".json")
}

// load reads a user's file, degrading to an empty list when the file is
// missing or unreadable. Corruption is never surfaced as an error.
func (s *Store) load(userID string) fileLayout {
	raw, err := os.ReadFile(s.path(userID))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("user", domain.SanitizeUserID(userID)).Msg("exclusion file unreadable, treating as empty")
		}
		return fileLayout{}
	}

	var data fileLayout
	if err := json.Unmarshal(raw, &data); err != nil {
		s.log.Warn().Err(err).Str("user", domain.SanitizeUserID(userID)).Msg("exclusion file corrupt, treating as empty")
		return fileLayout{}
	}
	return data
}

func (s *Store) save(userID string, data fileLayout) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("exclusion store: %w", err)
	}
	if err := os.WriteFile(s.path(userID), raw, 0o640); err != nil {
		return fmt.Errorf("exclusion store: %w", err)
	}
	return nil
}

// Get returns the set of excluded track IDs for a user.
func (s *Store) Get(userID string) map[string]struct{} {
	data := s.load(userID)
	ids := make(map[string]struct{}, len(data.Exclusions))
	for _, e := range data.Exclusions {
		if e.TrackID != "" {
			ids[e.TrackID] = struct{}{}
		}
	}
	return ids
}

// Add records a dismissed track. Adding an already-excluded ID is a no-op.
func (s *Store) Add(userID, trackID, name, artist string) error {
	data := s.load(userID)
	for _, e := range data.Exclusions {
		if e.TrackID == trackID {
			return nil
		}
	}
	data.Exclusions = append(data.Exclusions, domain.Exclusion{
		TrackID:    trackID,
		Name:       name,
		Artist:     artist,
		ExcludedAt: s.now(),
	})
	return s.save(userID, data)
}

// Remove deletes a track from the user's exclusions; absent IDs are a no-op.
func (s *Store) Remove(userID, trackID string) error {
	data := s.load(userID)
	kept := data.Exclusions[:0]
	for _, e := range data.Exclusions {
		if e.TrackID != trackID {
			kept = append(kept, e)
		}
	}
	data.Exclusions = kept
	return s.save(userID, data)
}

// List returns the full exclusion records for a user, oldest first.
func (s *Store) List(userID string) []domain.Exclusion {
	data := s.load(userID)
	if data.Exclusions == nil {
		return []domain.Exclusion{}
	}
	return data.Exclusions
}
