package domain

import "testing"

func TestSanitizeUserID(t *testing.T) {
	tests := []struct{ in, want string }{
		{"spotify_user-123", "spotify_user-123"},
		{"../../etc/passwd", "etcpasswd"},
		{"user.name@example.com", "usernameexamplecom"},
		{"ñandú", "and"},
		{"", ""},
		{"///", ""},
	}
	for _, tc := range tests {
		if got := SanitizeUserID(tc.in); got != tc.want {
			t.Errorf("SanitizeUserID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMoodByID(t *testing.T) {
	if got := MoodByID(MoodParty); got.ID != MoodParty || got.Label != "Party" {
		t.Errorf("got %+v", got)
	}
	if got := MoodByID("nonsense"); got.ID != MoodDefault {
		t.Errorf("unknown mood must fall back to default, got %+v", got)
	}
	if got := MoodByID(""); got.ID != MoodDefault {
		t.Errorf("empty mood must fall back to default, got %+v", got)
	}
}

func TestMoodsReturnsCopy(t *testing.T) {
	first := Moods()
	first[0].Label = "mutated"
	if Moods()[0].Label == "mutated" {
		t.Fatal("Moods must not expose the shared table")
	}
}

func TestKnownTrackIDs(t *testing.T) {
	top := []Track{{ID: "t1"}, {ID: ""}, {ID: "t2"}}
	recent := []Play{{Track: Track{ID: "t2"}}, {Track: Track{ID: "t3"}}, {Track: Track{}}}

	known := KnownTrackIDs(top, recent)
	if len(known) != 3 {
		t.Fatalf("got %d ids, want 3: %v", len(known), known)
	}
	for _, id := range []string{"t1", "t2", "t3"} {
		if _, ok := known[id]; !ok {
			t.Errorf("missing %q", id)
		}
	}
}
