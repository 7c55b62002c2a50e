// Package resume extracts the candidate skill list from a resume PDF.
package resume

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Analyze extracts the resume text and returns the skills found in it,
// lowercased, deduplicated and sorted. An unreadable resume is an error:
// without a skill list there is nothing to interview about.
func Analyze(path string, keywords []string) ([]string, error) {
	text, err := ExtractText(path)
	if err != nil {
		return nil, fmt.Errorf("resume: extracting text: %w", err)
	}

	skills := ExtractSkills(text, keywords)
	if len(skills) == 0 {
		return nil, fmt.Errorf("resume: no known skills found in %s", path)
	}

	return skills, nil
}

// ExtractText returns the plain text content of a PDF file.
func ExtractText(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// ExtractSkills returns every keyword present in the text. Matching is a
// case-insensitive substring check against the whole document.
func ExtractSkills(text string, keywords []string) []string {
	lowered := strings.ToLower(text)

	seen := make(map[string]bool)
	var skills []string

	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" || seen[keyword] {
			continue
		}
		if strings.Contains(lowered, keyword) {
			seen[keyword] = true
			skills = append(skills, keyword)
		}
	}

	sort.Strings(skills)
	return skills
}
