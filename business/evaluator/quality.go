package evaluator

import "strings"

// evaluateAnswer derives the crude keyword metrics for an answer. A
// skill counts as mentioned when it appears as a literal substring of
// the lowercased transcript. That means "go" matches inside "going";
// the behavior is kept as-is because downstream consumers calibrated
// against it.
func evaluateAnswer(skills SkillSet, transcript string) AnswerQualitySignal {
	answer := strings.ToLower(transcript)

	mentioned := make([]string, 0, len(skills))
	for _, skill := range skills {
		if skill != "" && strings.Contains(answer, skill) {
			mentioned = append(mentioned, skill)
		}
	}

	var coverage float64
	if len(skills) > 0 {
		coverage = float64(len(mentioned)) / float64(len(skills))
	}

	completeness := LevelLow
	switch {
	case coverage > 0.7:
		completeness = LevelHigh
	case coverage > 0.3:
		completeness = LevelMedium
	}

	relevance := LevelLow
	if len(mentioned) > 0 {
		relevance = LevelHigh
	}

	return AnswerQualitySignal{
		MentionedSkills: mentioned,
		SkillCoverage:   coverage,
		WordCount:       len(strings.Fields(answer)),
		Completeness:    completeness,
		Relevance:       relevance,
	}
}
