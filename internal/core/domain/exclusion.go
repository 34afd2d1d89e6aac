package domain

import (
	"strings"
	"time"
)

// Exclusion is a track the user has dismissed from their recommendations.
// One list is kept per user; IDs within a list are unique.
type Exclusion struct {
	TrackID    string    `json:"id"`
	Name       string    `json:"name"`
	Artist     string    `json:"artist"`
	ExcludedAt time.Time `json:"excluded_at"`
}

// SanitizeUserID reduces a user identifier to the characters that are safe
// to use as a storage key: letters, digits, underscore and hyphen. Anything
// else (path separators, dots) is dropped so an identifier can never
// address a path outside the storage directory.
func SanitizeUserID(userID string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return -1
		}
	}, userID)
}
