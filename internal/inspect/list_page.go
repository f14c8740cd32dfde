package inspect

import (
	"github.com/apifold/openapi-bridge/internal/inspect/models"
	"github.com/apifold/openapi-bridge/internal/routemap"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"

	tea "github.com/charmbracelet/bubbletea"
)

// listKeyMap holds key bindings for the list actions.
type listKeyMap struct {
	toolsOnly key.Binding
	quit      key.Binding
}

// newListKeyMap creates a new listKeyMap with default bindings.
func newListKeyMap() *listKeyMap {
	return &listKeyMap{
		toolsOnly: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Toggle tools only"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
	}
}

// ListPageModel shows every classification decision as a scrollable list.
type ListPageModel struct {
	list      list.Model
	keys      *listKeyMap
	all       []list.Item
	toolsOnly bool
}

// Init returns the initial command for the list model.
func (m ListPageModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the list, including the tools-only toggle.
func (m ListPageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.toolsOnly):
			m.toolsOnly = !m.toolsOnly
			cmd := m.list.SetItems(m.visibleSet())
			if m.toolsOnly {
				m.list.NewStatusMessage(statusMessageStyle("Showing tool routes only"))
			} else {
				m.list.NewStatusMessage(statusMessageStyle("Showing all routes"))
			}
			return m, cmd
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the decision list.
func (m ListPageModel) View() string {
	return docStyle.Render(m.list.View())
}

func (m ListPageModel) visibleSet() []list.Item {
	if !m.toolsOnly {
		return m.all
	}
	filtered := make([]list.Item, 0, len(m.all))
	for _, item := range m.all {
		if item.(models.DecisionItem).IsTool() {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// NewListPageModel creates a TUI model for a list of classification decisions
func NewListPageModel(decisions []routemap.Decision) ListPageModel {
	listKeys := newListKeyMap()

	items := make([]list.Item, len(decisions))
	for i, d := range decisions {
		items[i] = models.DecisionItem{Decision: d}
	}
	delegateKeyMap := newDelegateKeyMap()
	delegate := newItemDelegate(delegateKeyMap)

	l := list.New(items, delegate, 0, 0)

	l.Title = titleStyle.Render("OpenAPI route classification")
	l.SetShowFilter(true)

	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			listKeys.toolsOnly,
			listKeys.quit,
		}
	}
	return ListPageModel{list: l, keys: listKeys, all: items}
}

// GetVisibleDecisions returns the currently visible (filtered) decisions
func (m ListPageModel) GetVisibleDecisions() []routemap.Decision {
	visible := m.list.VisibleItems()
	result := make([]routemap.Decision, len(visible))
	for i, item := range visible {
		result[i] = item.(models.DecisionItem).Decision
	}
	return result
}
