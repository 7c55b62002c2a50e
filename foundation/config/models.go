package config

// Interview holds the per-deployment interview tuning: the question bank,
// the skill keyword tables and the evaluation thresholds.
type Interview struct {
	WindowSeconds    int    `yaml:"window_seconds"`
	MatchThreshold   int    `yaml:"match_threshold"`
	FrameWorkers     int    `yaml:"frame_workers"`
	FallbackLanguage string `yaml:"fallback_language"`

	// Templates maps a question category to sentence templates. Each
	// template carries exactly one %s placeholder for the scenario.
	Templates map[string][]string `yaml:"templates"`

	// Scenarios maps a skill category to the situational phrases that can
	// be formatted into a template.
	Scenarios map[string][]string `yaml:"scenarios"`

	// Keywords maps a skill category to the substrings that place a
	// candidate skill in that category.
	Keywords map[string][]string `yaml:"keywords"`

	// ResumeSkills is the flat keyword list matched against resume text.
	ResumeSkills []string `yaml:"resume_skills"`
}
