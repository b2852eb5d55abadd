package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the colour palette for the chat view.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Border    lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:   lipgloss.Color("#7C3AED"), // Purple
		Secondary: lipgloss.Color("#06B6D4"), // Cyan
		Muted:     lipgloss.Color("#6C7086"), // Medium gray
		Error:     lipgloss.Color("#F38BA8"), // Red
		Border:    lipgloss.Color("#45475A"), // Border gray
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	Title     lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	Body      lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Input     lipgloss.Style
}

// DefaultStyles builds styles from the default theme.
func DefaultStyles() *Styles {
	t := DefaultTheme()
	return &Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(t.Primary).MarginBottom(1),
		User:      lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Body:      lipgloss.NewStyle().PaddingLeft(2),
		Muted:     lipgloss.NewStyle().Foreground(t.Muted),
		Error:     lipgloss.NewStyle().Foreground(t.Error),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
	}
}
