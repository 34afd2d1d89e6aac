package domain

// Artist is a catalog artist. Genres are free-text tags with no controlled
// vocabulary; the list may be empty.
type Artist struct {
	ID          string
	Name        string
	Genres      []string
	Popularity  int
	Followers   int
	ImageURL    string
	ExternalURL string
}
