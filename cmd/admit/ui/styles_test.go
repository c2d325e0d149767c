package ui

import (
	"strings"
	"testing"

	"admitcast/internal/predict"
)

func TestDetectTheme(t *testing.T) {
	t.Setenv("ADMIT_DARK_MODE", "")
	t.Setenv("COLORFGBG", "15;0")
	if !DetectTheme().IsDark {
		t.Error("expected dark theme for black background")
	}

	t.Setenv("COLORFGBG", "0;15")
	if DetectTheme().IsDark {
		t.Error("expected light theme for white background")
	}

	t.Setenv("COLORFGBG", "")
	t.Setenv("ADMIT_DARK_MODE", "1")
	if !DetectTheme().IsDark {
		t.Error("expected dark theme from ADMIT_DARK_MODE")
	}
}

func TestCategoryColor(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range []predict.Category{predict.CategoryHighReach, predict.CategoryReach, predict.CategoryTarget, predict.CategorySafety} {
		seen[string(CategoryColor(c))] = true
		if !strings.Contains(NewStyles(LightTheme()).CategoryBadge(c), c.String()) {
			t.Errorf("badge for %v missing its label", c)
		}
	}
	if len(seen) != 4 {
		t.Errorf("expected four distinct colors, got %d", len(seen))
	}
}

func TestProgressBar(t *testing.T) {
	s := NewStyles(LightTheme())
	bar := s.ProgressBar(2, 4, 10)
	if got := strings.Count(bar, "█"); got != 5 {
		t.Errorf("expected 5 filled cells, got %d", got)
	}
	if got := strings.Count(bar, "░"); got != 5 {
		t.Errorf("expected 5 empty cells, got %d", got)
	}
	if s.ProgressBar(1, 0, 10) != "" {
		t.Error("zero total should render nothing")
	}
}
