package similarity

import (
	"testing"
)

func TestScoreIdentical(t *testing.T) {
	titles := []string{
		"Fix login crash",
		"Complete GCommon Protobuf 1-1-1 Migration and Missing File Implementation",
		"feat(api): add gRPC health service",
	}
	for _, title := range titles {
		if got := Score(title, title); got != 1.0 {
			t.Errorf("Score(%q, same) = %f, want 1.0", title, got)
		}
	}
}

func TestScoreSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"Fix login crash", "Login crashes on startup"},
		{"Add gRPC health service", "gRPC health endpoint missing"},
		{"Update README with new examples", "Add dark mode toggle"},
		{"", "Non-empty title"},
	}
	for _, p := range pairs {
		ab := Score(p[0], p[1])
		ba := Score(p[1], p[0])
		if ab != ba {
			t.Errorf("Score(%q, %q) = %f but reversed = %f", p[0], p[1], ab, ba)
		}
	}
}

func TestScoreBounds(t *testing.T) {
	pairs := [][2]string{
		{"Fix login crash", "Add dark mode toggle"},
		{"aaaa", "bbbb"},
		{"same title", "same title"},
	}
	for _, p := range pairs {
		got := Score(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Score(%q, %q) = %f, out of [0,1]", p[0], p[1], got)
		}
	}
}

func TestScoreEmptyTitles(t *testing.T) {
	// Titles that normalize to empty are identical by vacuity.
	if got := Score("", ""); got != 1.0 {
		t.Errorf("Score of two empty titles = %f, want 1.0", got)
	}
	if got := Score("fix: 1.2.3", "update #42"); got != 1.0 {
		t.Errorf("Score of two normalize-to-empty titles = %f, want 1.0", got)
	}
}

func TestScoreSubstringBoost(t *testing.T) {
	// One title elaborates the other; containment floors the score at 0.8.
	a := "Add gRPC health service"
	b := "Add gRPC health service for the subtitle manager backend and wire it into deployment checks"
	if got := Score(a, b); got < SubstringFloor {
		t.Errorf("Score(%q, %q) = %f, want >= %f", a, b, got, SubstringFloor)
	}
}

func TestScoreUnrelatedTitlesBelowThreshold(t *testing.T) {
	got := Score("Fix login crash", "Add dark mode toggle")
	if got >= 0.7 {
		t.Errorf("Score of unrelated titles = %f, want < 0.7", got)
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "abc", b: "abc", want: 1.0},
		{name: "disjoint", a: "abc", b: "xyz", want: 0.0},
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "half overlap", a: "ab", b: "ax", want: 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ratio(tt.a, tt.b); got != tt.want {
				t.Errorf("Ratio(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
