// Package routemap converts raw operation filter options into an ordered list
// of routing rules and classifies OpenAPI operations against them. Rules are
// evaluated first-match-wins; the list order is part of the contract.
package routemap

import (
	"fmt"
	"regexp"
	"strings"
)

// PathPattern is a compiled path-matching rule. Matching is unanchored
// substring matching; OpenAPI placeholders such as {id} are plain text unless
// the operator's pattern quotes or wildcards them.
type PathPattern struct {
	source string
	re     *regexp.Regexp
}

// CompilePattern compiles a single operator-supplied pattern.
func CompilePattern(expr string) (*PathPattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid path pattern %q: %w", expr, err)
	}
	return &PathPattern{source: expr, re: re}, nil
}

// CombinePatterns compiles several patterns into a single alternation, so a
// path matching any of them matches the combined pattern. Each source pattern
// is grouped, keeping its own anchors independently scoped.
func CombinePatterns(exprs []string) (*PathPattern, error) {
	if len(exprs) == 1 {
		return CompilePattern(exprs[0])
	}
	grouped := make([]string, 0, len(exprs))
	for _, expr := range exprs {
		// Validate each part on its own so the error names the bad pattern
		if _, err := regexp.Compile(expr); err != nil {
			return nil, fmt.Errorf("invalid path pattern %q: %w", expr, err)
		}
		grouped = append(grouped, "(?:"+expr+")")
	}
	joined := strings.Join(grouped, "|")
	re, err := regexp.Compile(joined)
	if err != nil {
		return nil, fmt.Errorf("invalid combined path pattern %q: %w", joined, err)
	}
	return &PathPattern{source: joined, re: re}, nil
}

// Matches reports whether the concrete request path matches the pattern.
func (p *PathPattern) Matches(path string) bool {
	if p == nil {
		return true
	}
	return p.re.MatchString(path)
}

func (p *PathPattern) String() string {
	if p == nil {
		return ""
	}
	return p.source
}
