package taxonomy

import "testing"

func TestClassifyBackendServices(t *testing.T) {
	c := NewClassifier(DefaultCategories())
	got := c.Classify(&IssueInput{
		Title:  "Add gRPC health service",
		Labels: []string{"enhancement", "module:api"},
	})

	if got.Category != "Backend Services" {
		t.Fatalf("category = %q, want Backend Services (scores %v)", got.Category, got.Scores)
	}
	// module:api label (3) + "grpc" in title (2) + "grpc" in blob (1)
	if got.Scores["Backend Services"] != 6 {
		t.Errorf("Backend Services score = %d, want 6", got.Scores["Backend Services"])
	}
}

func TestClassifyDocumentation(t *testing.T) {
	c := NewClassifier(DefaultCategories())
	got := c.Classify(&IssueInput{Title: "Update README with new examples"})

	if got.Category != "Documentation" {
		t.Fatalf("category = %q, want Documentation (scores %v)", got.Category, got.Scores)
	}
	if got.Scores["Documentation"] <= got.Scores["Backend Services"] {
		t.Errorf("Documentation score %d not above Backend Services %d",
			got.Scores["Documentation"], got.Scores["Backend Services"])
	}
}

func TestClassifyFallback(t *testing.T) {
	c := NewClassifier(DefaultCategories())
	got := c.Classify(&IssueInput{Title: "zzz qqq"})

	if got.Category != Fallback {
		t.Fatalf("category = %q, want %q (scores %v)", got.Category, Fallback, got.Scores)
	}
	for name, score := range got.Scores {
		if score != 0 {
			t.Errorf("score for %q = %d, want 0", name, score)
		}
	}
}

func TestClassifyEmptyIssue(t *testing.T) {
	c := NewClassifier(DefaultCategories())
	got := c.Classify(&IssueInput{})
	if got.Category != Fallback {
		t.Errorf("empty issue category = %q, want %q", got.Category, Fallback)
	}
}

func TestClassifyEmptyTaxonomy(t *testing.T) {
	c := NewClassifier(nil)
	got := c.Classify(&IssueInput{Title: "Add gRPC health service"})
	if got.Category != Fallback {
		t.Errorf("category with empty taxonomy = %q, want %q", got.Category, Fallback)
	}
	if len(got.Scores) != 0 {
		t.Errorf("scores with empty taxonomy = %v, want empty", got.Scores)
	}
}

func TestClassifyTieBreaksOnDefinitionOrder(t *testing.T) {
	cats := []Category{
		{Name: "First", Keywords: []string{"widget"}},
		{Name: "Second", Keywords: []string{"widget"}},
	}
	c := NewClassifier(cats)
	got := c.Classify(&IssueInput{Title: "widget is broken"})
	if got.Category != "First" {
		t.Errorf("tie went to %q, want First", got.Category)
	}
	if got.Scores["First"] != got.Scores["Second"] {
		t.Fatalf("expected a tie, got %v", got.Scores)
	}
}

func TestClassifyLabelCaseInsensitive(t *testing.T) {
	c := NewClassifier(DefaultCategories())
	got := c.Classify(&IssueInput{
		Title:  "Tune the pool",
		Labels: []string{"Module:API"},
	})
	if got.Scores["Backend Services"] < 3 {
		t.Errorf("mixed-case label not counted: scores %v", got.Scores)
	}
}
