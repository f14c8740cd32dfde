package routemap

import (
	"fmt"
	"strings"

	"github.com/apifold/openapi-bridge/internal/config"
)

// Outcome is the disposition a rule assigns to a matching operation.
type Outcome string

const (
	OutcomeTool    Outcome = "tool"
	OutcomeExclude Outcome = "exclude"
)

// RoutingRule pairs a predicate over {method, path, tags} with an outcome.
// Empty predicate fields impose no constraint on their dimension. Rules are
// immutable once built and only meaningful as part of an ordered list.
type RoutingRule struct {
	Methods []string
	Pattern *PathPattern
	Tags    []string
	Outcome Outcome
}

// Matches reports whether the rule's predicate holds for the operation: the
// conjunction of method membership, path pattern match and tag intersection.
func (r *RoutingRule) Matches(op Operation) bool {
	if len(r.Methods) > 0 && !contains(r.Methods, op.Method) {
		return false
	}
	if !r.Pattern.Matches(op.Path) {
		return false
	}
	if len(r.Tags) > 0 && !intersects(r.Tags, op.Tags) {
		return false
	}
	return true
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, v := range a {
		if contains(b, v) {
			return true
		}
	}
	return false
}

// Build converts validated filter options into the ordered rule list. A nil
// result means no filtering was requested and every operation becomes a tool.
//
// Emission order is the precedence contract under first-match-wins:
//
//  1. one combined TOOL rule when any include criterion (methods,
//     include-paths, include-tags) is present; absent criteria match anything
//  2. one EXCLUDE rule per HTTP method outside the allow-list, so methods
//     not allowed are dropped no matter what later rules would say
//  3. one EXCLUDE rule per exclude-path pattern
//  4. one EXCLUDE rule per excluded tag
//
// Because the include rule comes first, an operation it captures is a tool
// even when a later exclusion (for example an excluded tag it also carries)
// would match; exclusions only see operations the include rule passed over.
func Build(f config.FilterConfig) ([]RoutingRule, error) {
	methods := splitList(f.Methods)
	for i, m := range methods {
		methods[i] = strings.ToUpper(m)
	}
	includePaths := splitList(f.IncludePaths)
	excludePaths := splitList(f.ExcludePaths)
	includeTags := splitList(f.IncludeTags)
	excludeTags := splitList(f.ExcludeTags)

	var rules []RoutingRule

	if len(methods) > 0 || len(includePaths) > 0 || len(includeTags) > 0 {
		rule := RoutingRule{Outcome: OutcomeTool}
		rule.Methods = methods
		if len(includePaths) > 0 {
			pattern, err := CombinePatterns(includePaths)
			if err != nil {
				return nil, fmt.Errorf("include paths: %w", err)
			}
			rule.Pattern = pattern
		}
		rule.Tags = includeTags
		rules = append(rules, rule)
	}

	if len(methods) > 0 {
		for _, m := range allMethods {
			if !contains(methods, m) {
				rules = append(rules, RoutingRule{
					Methods: []string{m},
					Outcome: OutcomeExclude,
				})
			}
		}
	}

	for _, expr := range excludePaths {
		pattern, err := CompilePattern(expr)
		if err != nil {
			return nil, fmt.Errorf("exclude paths: %w", err)
		}
		rules = append(rules, RoutingRule{
			Pattern: pattern,
			Outcome: OutcomeExclude,
		})
	}

	for _, tag := range excludeTags {
		rules = append(rules, RoutingRule{
			Tags:    []string{tag},
			Outcome: OutcomeExclude,
		})
	}

	return rules, nil
}
