package dashboard

import "github.com/charmbracelet/lipgloss"

// Theme holds the dashboard styles
type Theme struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Help      lipgloss.Style
	Error     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Header    lipgloss.Style
	Bar       lipgloss.Style
	Card      lipgloss.Style
}

// DefaultTheme returns the standard styles
func DefaultTheme() Theme {
	return Theme{
		Title:     lipgloss.NewStyle().Bold(true),
		Subtitle:  lipgloss.NewStyle().Faint(true),
		Help:      lipgloss.NewStyle().Faint(true),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Tab:       lipgloss.NewStyle().Padding(0, 1).Faint(true),
		ActiveTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(lipgloss.Color("42")),
		Header:    lipgloss.NewStyle().Bold(true),
		Bar:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Card: lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
	}
}
