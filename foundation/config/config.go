package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// QuestionCategories are the template categories a generated question can
// belong to.
var QuestionCategories = []string{"behavioral", "technical", "situational"}

// SkillCategories are the buckets candidate skills are sorted into.
var SkillCategories = []string{"leadership", "problem_solving", "communication", "technical"}

// Load reads an interview configuration file. Fields left empty in the
// file fall back to the built-in defaults.
func Load(path string) (Interview, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Interview{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Interview{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := validate(cfg); err != nil {
		return Interview{}, fmt.Errorf("validating config file %s: %w", path, err)
	}

	return cfg, nil
}

func validate(cfg Interview) error {
	if cfg.WindowSeconds <= 0 {
		return fmt.Errorf("window_seconds must be greater than 0")
	}

	if cfg.MatchThreshold < 0 || cfg.MatchThreshold > 100 {
		return fmt.Errorf("match_threshold must be within 0..100")
	}

	if cfg.FrameWorkers <= 0 {
		return fmt.Errorf("frame_workers must be greater than 0")
	}

	for _, category := range QuestionCategories {
		templates, exists := cfg.Templates[category]
		if !exists || len(templates) == 0 {
			return fmt.Errorf("category[%s] has no templates", category)
		}
		for _, template := range templates {
			if strings.Count(template, "%s") != 1 {
				return fmt.Errorf("template[%s] must contain exactly one %%s placeholder", template)
			}
		}
	}

	for _, category := range SkillCategories {
		if len(cfg.Keywords[category]) == 0 {
			return fmt.Errorf("skill category[%s] has no keywords", category)
		}
		if len(cfg.Scenarios[category]) == 0 {
			return fmt.Errorf("skill category[%s] has no scenarios", category)
		}
	}

	return nil
}

// Default returns the built-in interview configuration. The question bank
// mirrors the standard behavioral/technical/situational split with four
// templates per category and four scenarios per skill category.
func Default() Interview {
	return Interview{
		WindowSeconds:    30,
		MatchThreshold:   70,
		FrameWorkers:     4,
		FallbackLanguage: "es",

		Templates: map[string][]string{
			"behavioral": {
				"Tell me about a time when you %s.",
				"Describe a situation where you %s.",
				"Give me an example of when you %s.",
				"Share a specific case in which you %s.",
			},
			"technical": {
				"How would you approach a case where you %s?",
				"Explain your experience with a situation where you %s.",
				"What is your understanding of how you %s?",
				"How do you handle it when you %s?",
			},
			"situational": {
				"What would you do if you %s?",
				"How would you handle a situation where you %s?",
				"If you faced a moment where you %s, what would be your approach?",
				"Imagine you are in a situation where you %s. How would you respond?",
			},
		},

		Scenarios: map[string][]string{
			"leadership": {
				"led a team through a challenging project",
				"had to make a difficult decision that affected your team",
				"motivated team members during a rough stretch",
				"resolved a conflict between team members",
			},
			"problem_solving": {
				"faced a complex technical problem",
				"had to debug a critical error under pressure",
				"optimized an underperforming system",
				"found a creative solution to a challenging problem",
			},
			"communication": {
				"explained a complex technical concept to non-technical people",
				"presented your work to senior management",
				"wrote technical documentation",
				"collaborated with different teams",
			},
			"technical": {
				"worked with a new technology or framework",
				"had to pick up a new programming language quickly",
				"designed a scalable system",
				"implemented a complex feature",
			},
		},

		Keywords: map[string][]string{
			"leadership":      {"lead", "manage", "team"},
			"problem_solving": {"solve", "debug", "optimize"},
			"communication":   {"communicate", "present", "write"},
			"technical":       {"program", "code", "develop", "design"},
		},

		ResumeSkills: []string{
			"python", "java", "javascript", "c++", "c#", "ruby", "php",
			"html", "css", "react", "angular", "vue", "node.js", "django",
			"flask", "spring", "sql", "nosql", "mongodb", "postgresql",
			"aws", "azure", "gcp", "docker", "kubernetes", "git", "agile",
			"scrum", "machine learning", "ai", "data science", "big data",
			"tensorflow", "pytorch", "pandas", "numpy", "scikit-learn",
			"devops", "ci/cd", "jenkins", "ansible", "terraform",
			"rest api", "graphql", "microservices", "cloud computing",
			"linux", "unix", "bash", "shell scripting", "networking",
			"security", "cybersecurity", "blockchain", "web development",
			"mobile development", "ios", "android", "swift", "kotlin",
			"go", "leadership", "teamwork", "project management",
		},
	}
}
