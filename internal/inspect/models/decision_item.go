package models

import (
	"fmt"
	"strings"

	"github.com/apifold/openapi-bridge/internal/routemap"
)

// DecisionItem wraps a classification decision for display in the list.
// Implements list.Item
type DecisionItem struct {
	Decision routemap.Decision
}

func (i DecisionItem) Title() string {
	return fmt.Sprintf("%s %s", i.Decision.Operation.Method, i.Decision.Operation.Path)
}

func (i DecisionItem) Description() string {
	if i.Decision.Outcome == routemap.OutcomeTool {
		return "tool: " + i.Decision.ToolName
	}
	return "excluded by " + i.RuleLabel()
}

// RuleLabel names the routing rule responsible for the decision.
func (i DecisionItem) RuleLabel() string {
	if i.Decision.RuleIndex < 0 {
		return "default rule"
	}
	return fmt.Sprintf("rule #%d", i.Decision.RuleIndex)
}

func (i DecisionItem) IsTool() bool {
	return i.Decision.Outcome == routemap.OutcomeTool
}

func (i DecisionItem) FilterValue() string {
	return i.Decision.Operation.Method + " " +
		i.Decision.Operation.Path + " " +
		i.Decision.ToolName + " " +
		strings.Join(i.Decision.Operation.Tags, " ")
}
