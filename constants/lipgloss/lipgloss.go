package lipgloss

import "github.com/charmbracelet/lipgloss"

// Shared terminal styles used across commands and the notification sink.
var (
	Red     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
	Yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F1FA8C"))
	Green   = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	BlueSky = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD"))
	Gray    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4"))
	Info    = lipgloss.NewStyle().Foreground(lipgloss.Color("#BD93F9")).Bold(true)

	// BoxStyle frames short notices such as the notification text.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#BD93F9")).
			Padding(0, 1)

	// SeverityStyles maps a warning severity to its display style.
	SeverityStyles = map[string]lipgloss.Style{
		"low":      Gray,
		"medium":   Yellow,
		"high":     Red,
		"critical": Red.Bold(true),
	}
)
