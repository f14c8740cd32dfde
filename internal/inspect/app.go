package inspect

import (
	"github.com/apifold/openapi-bridge/internal/routemap"
	tea "github.com/charmbracelet/bubbletea"
)

// AppModel is the main application model that manages page switching
type AppModel struct {
	mainPage MainPageModel
	listPage ListPageModel
	page     string // "main" or "list"
}

// NewAppModel creates a new AppModel with the provided classification decisions
func NewAppModel(decisions []routemap.Decision) AppModel {
	return AppModel{
		mainPage: NewMainPageModel(decisions),
		listPage: NewListPageModel(decisions),
		page:     "main",
	}
}

// Init initializes the AppModel
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.mainPage.Init(),
		m.listPage.Init(),
	)
}

// Update handles app-level messages and delegates to the appropriate page model
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case OpenListPageMsg:
		m.page = "list"
		cmd := m.listPage.Init()
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "esc" && m.page == "list" {
			m.page = "main"
			return m, nil
		}

	case tea.WindowSizeMsg:
		var cmd tea.Cmd
		var tempModel tea.Model

		// Update all models with the window size
		tempModel, cmd = m.mainPage.Update(msg)
		m.mainPage = tempModel.(MainPageModel)
		cmds = append(cmds, cmd)

		tempModel, cmd = m.listPage.Update(msg)
		m.listPage = tempModel.(ListPageModel)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	// Delegate message to the active page
	var cmd tea.Cmd
	var tempModel tea.Model
	switch m.page {
	case "main":
		tempModel, cmd = m.mainPage.Update(msg)
		m.mainPage = tempModel.(MainPageModel)
		cmds = append(cmds, cmd)
	default: // list
		tempModel, cmd = m.listPage.Update(msg)
		m.listPage = tempModel.(ListPageModel)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the active page
func (m AppModel) View() string {
	switch m.page {
	case "main":
		return m.mainPage.View()
	default: // list
		return m.listPage.View()
	}
}

// GetVisibleDecisions delegates to the list page
func (m AppModel) GetVisibleDecisions() []routemap.Decision {
	return m.listPage.GetVisibleDecisions()
}
