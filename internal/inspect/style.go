package inspect

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#15202b")).
			Background(lipgloss.Color("#5fafd7")).
			Padding(0, 1)

	toolBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#56FF4E")).
			Render

	excludedBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF5F5F")).
				Render

	statusMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#5fafd7", Dark: "#87d7ff"}).
				Render
)

var docStyle = lipgloss.NewStyle().Margin(1, 2)
