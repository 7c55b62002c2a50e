package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/superfeelapi/goInterview/foundation/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	if cfg.WindowSeconds != 30 {
		t.Fatalf("expected default window of 30 seconds, got %d", cfg.WindowSeconds)
	}
	if cfg.MatchThreshold != 70 {
		t.Fatalf("expected default match threshold of 70, got %d", cfg.MatchThreshold)
	}

	for _, category := range config.QuestionCategories {
		if len(cfg.Templates[category]) == 0 {
			t.Fatalf("category[%s] has no default templates", category)
		}
	}
	for _, category := range config.SkillCategories {
		if len(cfg.Scenarios[category]) == 0 {
			t.Fatalf("skill category[%s] has no default scenarios", category)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Run("overrides defaults", func(t *testing.T) {
		path := writeConfig(t, "window_seconds: 10\nmatch_threshold: 50\n")

		cfg, err := config.Load(path)
		if err != nil {
			t.Fatal(err)
		}

		if cfg.WindowSeconds != 10 {
			t.Fatalf("expected window of 10 seconds, got %d", cfg.WindowSeconds)
		}
		if cfg.MatchThreshold != 50 {
			t.Fatalf("expected match threshold of 50, got %d", cfg.MatchThreshold)
		}

		// Untouched sections keep their defaults.
		if len(cfg.Scenarios["leadership"]) == 0 {
			t.Fatal("expected default scenarios to survive a partial file")
		}
	})

	t.Run("rejects bad window", func(t *testing.T) {
		path := writeConfig(t, "window_seconds: -1\n")

		if _, err := config.Load(path); err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("rejects template without placeholder", func(t *testing.T) {
		path := writeConfig(t, "templates:\n  behavioral:\n    - \"No placeholder here.\"\n")

		if _, err := config.Load(path); err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := config.Load("does/not/exist.yaml"); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "interview.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
