package inspect

import (
	"fmt"
	"strings"

	"github.com/apifold/openapi-bridge/internal/routemap"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MainPageKeyMap holds key bindings for the main page actions
type MainPageKeyMap struct {
	open key.Binding
	quit key.Binding
}

func newMainPageKeyMap() *MainPageKeyMap {
	return &MainPageKeyMap{
		open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open Route Browser"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("ctrl+c/q", "Quit"),
		),
	}
}

// MainPageModel represents the summary landing page of the inspector
type MainPageModel struct {
	keys      *MainPageKeyMap
	width     int
	height    int
	decisions []routemap.Decision
	tools     int
	excluded  int
}

// OpenListPageMsg is sent when the user chooses to open the route browser
type OpenListPageMsg struct{}

// NewMainPageModel creates a new main page model
func NewMainPageModel(decisions []routemap.Decision) MainPageModel {
	tools := 0
	for _, d := range decisions {
		if d.Outcome == routemap.OutcomeTool {
			tools++
		}
	}
	return MainPageModel{
		keys:      newMainPageKeyMap(),
		decisions: decisions,
		tools:     tools,
		excluded:  len(decisions) - tools,
	}
}

// Init initializes the model
func (m MainPageModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the main page
func (m MainPageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.open):
			return m, func() tea.Msg {
				return OpenListPageMsg{}
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the main page
func (m MainPageModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render("OpenAPI Bridge Inspector")

	descStyle := lipgloss.NewStyle().
		Padding(1, 0).
		Width(m.width - 4).
		Align(lipgloss.Center)

	description := descStyle.Render(
		"Preview how the configured filters classify the API surface\n" +
			"before exposing it as MCP tools.\n\n" +
			fmt.Sprintf("%s exposed as tools, %s excluded.",
				toolBadgeStyle(fmt.Sprintf("%d routes", m.tools)),
				excludedBadgeStyle(fmt.Sprintf("%d routes", m.excluded))),
	)

	previewStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#5fafd7")).
		Padding(1, 1).
		Width(m.width - 10).
		Align(lipgloss.Left)

	var previewContent strings.Builder
	maxPreviewRoutes := 5
	displayedRoutes := len(m.decisions)
	if displayedRoutes > maxPreviewRoutes {
		displayedRoutes = maxPreviewRoutes
	}

	for i := 0; i < displayedRoutes; i++ {
		d := m.decisions[i]
		badge := toolBadgeStyle("[tool]")
		if d.Outcome != routemap.OutcomeTool {
			badge = excludedBadgeStyle("[excluded]")
		}
		previewContent.WriteString(fmt.Sprintf("%s %s %s\n",
			badge,
			d.Operation.Method,
			d.Operation.Path,
		))
	}

	if len(m.decisions) > maxPreviewRoutes {
		previewContent.WriteString(fmt.Sprintf("\n... and %d more routes", len(m.decisions)-maxPreviewRoutes))
	}

	preview := previewStyle.Render(previewContent.String())

	instructionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5fafd7")).
		Padding(1, 0).
		Width(m.width - 4).
		Align(lipgloss.Center)

	instruction := instructionStyle.Render("Press ENTER to browse the classified routes")

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#626262", Dark: "#A49FA5"}).
		Width(m.width - 4).
		Align(lipgloss.Center)

	help := helpStyle.Render("Press q or Ctrl+C to quit")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		title,
		"",
		description,
		"",
		preview,
		"",
		instruction,
		"",
		help,
	)

	return docStyle.Render(content)
}
