package ports

import "github.com/ewilliams-labs/encore/internal/core/domain"

// ExclusionStore keeps the per-user set of dismissed tracks. Add is
// idempotent and Remove is a no-op when the ID is absent. A read that fails
// (missing or corrupt data) degrades to an empty collection rather than an
// error; only write failures surface.
type ExclusionStore interface {
	Get(userID string) map[string]struct{}
	Add(userID, trackID, name, artist string) error
	Remove(userID, trackID string) error
	List(userID string) []domain.Exclusion
}
