package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the colors of one scheme
type Theme struct {
	Foreground lipgloss.Color
	User       lipgloss.Color
	Assistant  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme ...
func LightTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#101F38"),
		User:       lipgloss.Color("#1565C0"),
		Assistant:  lipgloss.Color("#558B2F"),
		Muted:      lipgloss.Color("#8a94a3"),
		Border:     lipgloss.Color("#dce0e5"),
	}
}

// DarkTheme ...
func DarkTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#f2f2f2"),
		User:       lipgloss.Color("#64B5F6"),
		Assistant:  lipgloss.Color("#8BC34A"),
		Muted:      lipgloss.Color("#6b7a90"),
		Border:     lipgloss.Color("#2a3850"),
		IsDark:     true,
	}
}

// DetectTheme returns dark unless the terminal reports a light background
func DetectTheme() Theme {
	if os.Getenv("CHATBOT_LIGHT_MODE") == "1" {
		return LightTheme()
	}
	if !lipgloss.HasDarkBackground() {
		return LightTheme()
	}
	return DarkTheme()
}

// Styles holds the styled components
type Styles struct {
	Theme Theme

	Header    lipgloss.Style
	Muted     lipgloss.Style
	UserLabel lipgloss.Style
	UserBody  lipgloss.Style
	AILabel   lipgloss.Style
	AIBody    lipgloss.Style
	Input     lipgloss.Style
	Spinner   lipgloss.Style
}

// NewStyles ...
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Foreground(theme.Assistant).
			Bold(true).
			Padding(0, 1),
		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		UserLabel: lipgloss.NewStyle().
			Foreground(theme.User).
			Bold(true).
			MarginTop(1),
		UserBody: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			PaddingLeft(2),
		AILabel: lipgloss.NewStyle().
			Foreground(theme.Assistant).
			Bold(true).
			MarginTop(1),
		AIBody: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			PaddingLeft(2),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		Spinner: lipgloss.NewStyle().
			Foreground(theme.Assistant),
	}
}
