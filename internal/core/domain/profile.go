package domain

// AudioFeatures holds the per-track listening-style features the ranker
// cares about. Values for energy, danceability and valence live in [0, 1];
// tempo is beats per minute.
type AudioFeatures struct {
	Energy       float64
	Danceability float64
	Valence      float64
	Tempo        float64
}

// AudioProfile maps a feature name to its value averaged over a sample of
// the user's favorite tracks. An empty profile is a first-class state: the
// upstream feature endpoint is deprecated for many apps and may return
// nothing, in which case every consumer must treat the profile as "no
// signal" rather than a profile of zeroes.
type AudioProfile map[string]float64

// Empty reports whether the profile carries no signal.
func (p AudioProfile) Empty() bool { return len(p) == 0 }
