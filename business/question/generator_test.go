package question_test

import (
	"strings"
	"testing"

	"github.com/superfeelapi/goInterview/business/question"
	"github.com/superfeelapi/goInterview/foundation/config"
)

func newGenerator(seed int64) *question.Generator {
	cfg := config.Default()
	return question.NewGenerator(question.Settings{
		Templates: cfg.Templates,
		Scenarios: cfg.Scenarios,
		Keywords:  cfg.Keywords,
		Seed:      seed,
	})
}

func TestCategorize(t *testing.T) {
	g := newGenerator(1)

	cases := []struct {
		name   string
		skills []string
		want   []string
	}{
		{"leadership and technical", []string{"lead developer"}, []string{"leadership", "technical"}},
		{"problem solving", []string{"debugging"}, []string{"problem_solving"}},
		{"communication", []string{"presentation skills"}, []string{"communication"}},
		{"substring match is literal", []string{"technical writing"}, nil},
		{"no match", []string{"basket weaving"}, nil},
		{"case insensitive", []string{"TEAM Management"}, []string{"leadership"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := g.Categorize(tc.skills)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	g := newGenerator(42)

	q, err := g.Generate([]string{"team lead"})
	if err != nil {
		t.Fatal(err)
	}

	if q.Text == "" || q.Category == "" || q.Context == "" {
		t.Fatalf("incomplete question: %+v", q)
	}
	if !strings.Contains(q.Text, q.Context) {
		t.Fatalf("expected scenario %q inside question %q", q.Context, q.Text)
	}

	validCategory := false
	for _, category := range config.QuestionCategories {
		if q.Category == category {
			validCategory = true
		}
	}
	if !validCategory {
		t.Fatalf("unexpected category %q", q.Category)
	}
}

func TestGenerateNeverRepeatsScenario(t *testing.T) {
	g := newGenerator(7)

	// "lead developer" matches leadership and technical: 8 scenarios total.
	skills := []string{"lead developer"}

	seen := make(map[string]bool)
	for i := 0; i < 8; i++ {
		q, err := g.Generate(skills)
		if err != nil {
			t.Fatalf("generation %d failed: %v", i, err)
		}
		if seen[q.Context] {
			t.Fatalf("scenario %q repeated within one session", q.Context)
		}
		seen[q.Context] = true
	}

	// Bank exhausted.
	if _, err := g.Generate(skills); err == nil {
		t.Fatal("expected exhaustion error after all scenarios used")
	}
}

func TestGenerateNoMatchingSkills(t *testing.T) {
	g := newGenerator(3)

	if _, err := g.Generate([]string{"basket weaving"}); err == nil {
		t.Fatal("expected error when no skill category matches")
	}
}
