package routemap

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/apifold/openapi-bridge/internal/config"
)

// allMethods is the closed set of HTTP methods an operation can carry, in the
// fixed order used when emitting method-exclusion rules.
var allMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}

func isValidMethod(method string) bool {
	for _, m := range allMethods {
		if m == method {
			return true
		}
	}
	return false
}

// splitList parses a comma-separated option into trimmed tokens. An empty
// option yields nil.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// ValidateFilterOptions checks the raw filter options and returns every
// violation it finds as a human-readable message. All checks run; nothing
// short-circuits. An empty result means the configuration is acceptable.
// Methods are upper-cased before checking; tags are never case-normalized.
func ValidateFilterOptions(f config.FilterConfig) []string {
	var errors []string

	if methods := splitList(f.Methods); len(methods) > 0 {
		var invalid []string
		for _, m := range methods {
			if !isValidMethod(strings.ToUpper(m)) {
				invalid = append(invalid, strings.ToUpper(m))
			}
		}
		if len(invalid) > 0 {
			errors = append(errors, fmt.Sprintf(
				"invalid HTTP methods: %s (valid methods: %s)",
				strings.Join(invalid, ", "), strings.Join(allMethods, ", ")))
		}
	}

	for _, group := range []struct {
		label    string
		patterns string
	}{
		{"include", f.IncludePaths},
		{"exclude", f.ExcludePaths},
	} {
		for _, pattern := range splitList(group.patterns) {
			if _, err := regexp.Compile(pattern); err != nil {
				errors = append(errors, fmt.Sprintf("invalid %s path pattern: %s", group.label, pattern))
			}
		}
	}

	return errors
}
