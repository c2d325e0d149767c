// Package ui provides the visual styling for the admit terminal wizard.
package ui

import (
	"os"
	"strconv"
	"strings"

	"admitcast/internal/predict"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	// Light Mode Colors (Default)
	LightForeground = lipgloss.Color("#1b2a4a")
	LightPrimary    = lipgloss.Color("#3b3fb6") // Indigo
	LightAccent     = lipgloss.Color("#7c3aed") // Violet
	LightMuted      = lipgloss.Color("#6b7280")
	LightBorder     = lipgloss.Color("#d1d5db")

	// Dark Mode Colors
	DarkForeground = lipgloss.Color("#f2f2f2")
	DarkPrimary    = lipgloss.Color("#a5b4fc")
	DarkAccent     = lipgloss.Color("#c4b5fd")
	DarkMuted      = lipgloss.Color("#9ca3af")
	DarkBorder     = lipgloss.Color("#374151")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#e53935") // Red
	Success     = lipgloss.Color("#22c55e") // Green
	Warning     = lipgloss.Color("#FFC107") // Yellow
	Info        = lipgloss.Color("#2196F3") // Blue
)

// Theme holds the current color scheme
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// DetectTheme picks a theme from COLORFGBG ("fg;bg") or ADMIT_DARK_MODE.
func DetectTheme() Theme {
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		// 0-6 and 8 (dark grey) are dark backgrounds
		if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
			if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
				return DarkTheme()
			}
		}
	}
	if os.Getenv("ADMIT_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	Header   lipgloss.Style
	Footer   lipgloss.Style
	Content  lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style

	Label       lipgloss.Style
	ActiveLabel lipgloss.Style
	Hint        lipgloss.Style
	Selected    lipgloss.Style
	Card        lipgloss.Style
	Bubble      lipgloss.Style

	Error lipgloss.Style
	Steps lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Label: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Width(24),

		ActiveLabel: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			Width(24),

		Hint: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true).
			PaddingLeft(2),

		Selected: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Card: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		Bubble: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Accent),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Steps: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles for the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// CategoryColor maps an admission category to its badge color.
func CategoryColor(c predict.Category) lipgloss.Color {
	switch c {
	case predict.CategorySafety:
		return Success
	case predict.CategoryTarget:
		return Info
	case predict.CategoryReach:
		return Warning
	default:
		return Destructive
	}
}

// CategoryBadge renders the category name on its color.
func (s Styles) CategoryBadge(c predict.Category) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(CategoryColor(c)).
		Padding(0, 1).
		Bold(true).
		Render(c.String())
}

// ProgressBar renders step/total as a fixed-width bar.
func (s Styles) ProgressBar(step, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	if step < 0 {
		step = 0
	}
	if step > total {
		step = total
	}
	filled := step * width / total
	return lipgloss.NewStyle().Foreground(s.Theme.Accent).Render(strings.Repeat("█", filled)) +
		s.Muted.Render(strings.Repeat("░", width-filled))
}
