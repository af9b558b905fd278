package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary = lipgloss.Color("#8B5CF6") // Vivid Purple
	Accent  = lipgloss.Color("#F97316") // Orange
	Success = lipgloss.Color("#22C55E") // Green
	Error   = lipgloss.Color("#F43F5E") // Rose
	TextDim = lipgloss.Color("#94A3B8") // Slate
)

// Styles groups the styles used by command output. The zero-config Plain
// styles render text unchanged, for pipes and tests.
type Styles struct {
	Title     lipgloss.Style
	Label     lipgloss.Style
	Hint      lipgloss.Style
	Correct   lipgloss.Style
	Incorrect lipgloss.Style
	High      lipgloss.Style
	Medium    lipgloss.Style
}

// Color returns the colored styles.
func Color() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary),

		Label: lipgloss.NewStyle().
			Bold(true),

		Hint: lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true),

		Correct: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Incorrect: lipgloss.NewStyle().
			Foreground(Error).
			Bold(true),

		High: lipgloss.NewStyle().
			Foreground(Error).
			Bold(true),

		Medium: lipgloss.NewStyle().
			Foreground(Accent),
	}
}

// Plain returns styles that add no formatting.
func Plain() Styles {
	s := lipgloss.NewStyle()
	return Styles{Title: s, Label: s, Hint: s, Correct: s, Incorrect: s, High: s, Medium: s}
}

// Severity returns the style for an issue severity ("high" or "medium").
func (s Styles) Severity(severity string) lipgloss.Style {
	if severity == "high" {
		return s.High
	}
	return s.Medium
}
