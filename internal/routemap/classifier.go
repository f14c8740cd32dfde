package routemap

import (
	"fmt"
	"strings"
)

// Operation is the classifier's view of one OpenAPI operation.
type Operation struct {
	Method string
	Path   string
	Tags   []string
}

func (op Operation) String() string {
	return op.Method + " " + op.Path
}

// Decision records the final disposition of one operation. RuleIndex is the
// index of the first matching rule, or -1 when no rule matched (or no rules
// were given) and the tools-only default applied.
type Decision struct {
	Operation Operation
	ToolName  string
	Outcome   Outcome
	RuleIndex int
}

// NameCollisionError reports two included operations deriving the same tool
// name. It identifies both operations so the operator can tell them apart.
type NameCollisionError struct {
	Name   string
	First  Operation
	Second Operation
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("tool name %q derived from both %s and %s", e.Name, e.First, e.Second)
}

// ToolName derives the deterministic tool name for an operation: the
// lower-cased method joined to the path with slashes collapsed to underscores
// and everything outside [a-z0-9_] dropped. /widget/{id} and /widget/:id
// therefore derive the same name and are caught as a collision.
func ToolName(method, path string) string {
	path = strings.TrimPrefix(path, "/")
	path = strings.ReplaceAll(path, "/", "_")

	var b strings.Builder
	for _, r := range strings.ToLower(method + "_" + path) {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Classify assigns each operation its final disposition. With a nil rule list
// everything becomes a tool. Otherwise rules are evaluated in list order and
// the first match decides; an operation no rule matches defaults to a tool.
// Classification is pure: same inputs, same decisions, in input order.
//
// Returns a *NameCollisionError as soon as two tool-disposed operations derive
// the same name; the mapping is never silently deduplicated.
func Classify(ops []Operation, rules []RoutingRule) ([]Decision, error) {
	decisions := make([]Decision, 0, len(ops))
	seen := make(map[string]Operation, len(ops))

	for _, op := range ops {
		decision := Decision{
			Operation: op,
			Outcome:   OutcomeTool,
			RuleIndex: -1,
		}
		for i := range rules {
			if rules[i].Matches(op) {
				decision.Outcome = rules[i].Outcome
				decision.RuleIndex = i
				break
			}
		}

		if decision.Outcome == OutcomeTool {
			decision.ToolName = ToolName(op.Method, op.Path)
			if prev, ok := seen[decision.ToolName]; ok {
				return nil, &NameCollisionError{Name: decision.ToolName, First: prev, Second: op}
			}
			seen[decision.ToolName] = op
		}

		decisions = append(decisions, decision)
	}

	return decisions, nil
}
