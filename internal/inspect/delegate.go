package inspect

import (
	"strings"

	"github.com/apifold/openapi-bridge/internal/inspect/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// newItemDelegate returns a list.DefaultDelegate with custom update and help functions.
func newItemDelegate(keys *delegateKeyMap) list.DefaultDelegate {
	d := list.NewDefaultDelegate()

	d.UpdateFunc = func(msg tea.Msg, m *list.Model) tea.Cmd {
		item, ok := m.SelectedItem().(models.DecisionItem)
		if !ok {
			return nil
		}

		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch {
			case key.Matches(msg, keys.inspect):
				return m.NewStatusMessage(statusMessageStyle(decisionDetail(item)))
			}
		}
		return nil
	}

	help := []key.Binding{keys.inspect}

	d.ShortHelpFunc = func() []key.Binding {
		return help
	}

	d.FullHelpFunc = func() [][]key.Binding {
		return [][]key.Binding{help}
	}

	return d
}

// decisionDetail builds the one-line explanation shown when inspecting an item.
func decisionDetail(item models.DecisionItem) string {
	op := item.Decision.Operation

	tags := "no tags"
	if len(op.Tags) > 0 {
		tags = "tags: " + strings.Join(op.Tags, ", ")
	}

	if item.IsTool() {
		return item.Title() + " -> " + item.Decision.ToolName + " (" + tags + ", matched " + item.RuleLabel() + ")"
	}
	return item.Title() + " excluded (" + tags + ", matched " + item.RuleLabel() + ")"
}

// delegateKeyMap holds key bindings for list item actions.
type delegateKeyMap struct {
	inspect key.Binding
}

// ShortHelp returns additional short help entries for the delegate.
func (d delegateKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		d.inspect,
	}
}

// FullHelp returns additional full help entries for the delegate.
func (d delegateKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{
			d.inspect,
		},
	}
}

// newDelegateKeyMap creates a new delegateKeyMap with default bindings.
func newDelegateKeyMap() *delegateKeyMap {
	return &delegateKeyMap{
		inspect: key.NewBinding(
			key.WithKeys("i", "enter"),
			key.WithHelp("i", "Inspect decision"),
		),
	}
}
