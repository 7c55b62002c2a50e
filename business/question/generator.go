// Package question turns a candidate's skill list into interview
// questions: skills are bucketed into skill categories, a scenario is
// drawn from the matching buckets and formatted into a random template.
package question

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"
)

type Question struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	Context  string `json:"context"`
}

type Settings struct {
	Templates map[string][]string
	Scenarios map[string][]string
	Keywords  map[string][]string

	// Seed pins the random source for tests. Zero seeds from the clock.
	Seed int64
}

type Generator struct {
	templates  map[string][]string
	scenarios  map[string][]string
	keywords   map[string][]string
	categories []string
	rng        *rand.Rand
	used       map[string]bool
}

func NewGenerator(s Settings) *Generator {
	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	categories := make([]string, 0, len(s.Templates))
	for category := range s.Templates {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	return &Generator{
		templates:  s.Templates,
		scenarios:  s.Scenarios,
		keywords:   s.Keywords,
		categories: categories,
		rng:        rand.New(rand.NewSource(seed)),
		used:       make(map[string]bool),
	}
}

// Generate produces one question for the skill list. Scenarios already
// used in this session are never handed out again; once every relevant
// scenario is spent the generator reports exhaustion.
func (g *Generator) Generate(skills []string) (Question, error) {
	var available []string
	for _, skillCategory := range g.Categorize(skills) {
		for _, scenario := range g.scenarios[skillCategory] {
			if !g.used[scenario] {
				available = append(available, scenario)
			}
		}
	}

	if len(available) == 0 {
		return Question{}, fmt.Errorf("question: no unused scenarios for skills %v", skills)
	}

	scenario := available[g.rng.Intn(len(available))]
	g.used[scenario] = true

	category := g.categories[g.rng.Intn(len(g.categories))]
	templates := g.templates[category]
	template := templates[g.rng.Intn(len(templates))]

	return Question{
		Text:     fmt.Sprintf(template, scenario),
		Category: category,
		Context:  scenario,
	}, nil
}

// Categorize maps skills to skill categories by keyword membership. A
// skill may land in several categories; the result is sorted for
// deterministic accounting.
func (g *Generator) Categorize(skills []string) []string {
	matched := make(map[string]bool)

	for _, skill := range skills {
		skill = strings.ToLower(skill)
		for category, words := range g.keywords {
			for _, word := range words {
				if strings.Contains(skill, word) {
					matched[category] = true
				}
			}
		}
	}

	categories := make([]string, 0, len(matched))
	for category := range matched {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}
