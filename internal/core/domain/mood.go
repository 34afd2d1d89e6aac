package domain

// Mood is a named contextual filter. It augments catalog searches with a
// small set of keywords and supplies a display label and icon for the
// frontend. Moods are a pure lookup table, never mutated at runtime.
type Mood struct {
	ID       string
	Label    string
	Icon     string
	Keywords []string
}

// Mood identifiers recognized by the recommender. MoodArtist and MoodCustom
// bypass the strategy pipeline and run a single direct search instead.
const (
	MoodDefault   = "default"
	MoodParty     = "party"
	MoodEmotional = "emotional"
	MoodDance     = "dance"
	MoodChill     = "chill"
	MoodSocial    = "social"
	MoodSeasonal  = "seasonal"
	MoodTrending  = "trending"
	MoodArtist    = "artist"
	MoodCustom    = "custom"
)

var moods = []Mood{
	{ID: MoodDefault, Label: "For you", Icon: "✨"},
	{ID: MoodParty, Label: "Party", Icon: "🎉", Keywords: []string{"party", "club", "hits"}},
	{ID: MoodEmotional, Label: "In my feelings", Icon: "💔", Keywords: []string{"acoustic", "ballad", "sad"}},
	{ID: MoodDance, Label: "Dance", Icon: "🕺", Keywords: []string{"dance", "remix", "electro"}},
	{ID: MoodChill, Label: "Chill", Icon: "🌙", Keywords: []string{"chill", "lofi", "relax"}},
	{ID: MoodSocial, Label: "With friends", Icon: "🍻", Keywords: []string{"sing along", "anthems", "classics"}},
	{ID: MoodSeasonal, Label: "Summer", Icon: "☀️", Keywords: []string{"summer", "sunshine", "beach"}},
	{ID: MoodTrending, Label: "Trending", Icon: "📈", Keywords: []string{"viral", "top hits", "new"}},
	{ID: MoodArtist, Label: "One artist", Icon: "🎤"},
	{ID: MoodCustom, Label: "Free search", Icon: "🔍"},
}

// Moods returns the recognized moods in display order.
func Moods() []Mood {
	out := make([]Mood, len(moods))
	copy(out, moods)
	return out
}

// MoodByID resolves a mood identifier, falling back to the default mood for
// anything unrecognized.
func MoodByID(id string) Mood {
	for _, m := range moods {
		if m.ID == id {
			return m
		}
	}
	return moods[0]
}
