package evaluator

import (
	"strings"
	"unicode"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// matchContent scores each skill against the normalized transcript with
// fuzzy partial matching. A skill is matched when its score reaches the
// threshold (default 70 on the 0-100 scale).
func (e *Evaluator) matchContent(skills SkillSet, transcript string) ContentMatchSignal {
	normalized := normalizeText(transcript)

	matched := make(map[string]int)
	unmatched := make(map[string]int)

	for _, skill := range skills {
		skill = normalizeText(skill)

		var score int
		if skill != "" && normalized != "" {
			score = fuzzy.PartialRatio(skill, normalized)
		}

		if score >= e.matchThreshold {
			matched[skill] = score
		} else {
			unmatched[skill] = score
		}
	}

	var matchPercentage float64
	if len(skills) > 0 {
		matchPercentage = float64(len(matched)) / float64(len(skills)) * 100
	}

	return ContentMatchSignal{
		MatchedSkills:   matched,
		UnmatchedSkills: unmatched,
		MatchPercentage: matchPercentage,
	}
}

// normalizeText lowercases, strips punctuation and collapses whitespace.
func normalizeText(s string) string {
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
