package routemap

import (
	"testing"

	"github.com/apifold/openapi-bridge/internal/config"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_NoFiltersMeansNoRules(t *testing.T) {
	rules, err := Build(config.FilterConfig{})
	require.NoError(t, err)
	assert.Nil(t, rules)
}

func TestBuild_CombinedIncludeRuleComesFirst(t *testing.T) {
	rules, err := Build(config.FilterConfig{
		Methods:      "get,post",
		IncludePaths: "^/users,^/pets",
		IncludeTags:  "public",
	})
	require.NoError(t, err)
	require.NotEmpty(t, rules)

	first := rules[0]
	assert.Equal(t, OutcomeTool, first.Outcome)
	assert.Equal(t, []string{"GET", "POST"}, first.Methods)
	assert.Equal(t, []string{"public"}, first.Tags)
	assert.True(t, first.Pattern.Matches("/users/42"))
	assert.True(t, first.Pattern.Matches("/pets"))
	assert.False(t, first.Pattern.Matches("/orders"))
}

func TestBuild_MethodAllowListEmitsExclusions(t *testing.T) {
	rules, err := Build(config.FilterConfig{Methods: "GET"})
	require.NoError(t, err)

	// one include rule plus one exclusion per method outside the allow-list
	require.Len(t, rules, 1+len(allMethods)-1)
	assert.Equal(t, OutcomeTool, rules[0].Outcome)

	excluded := make(map[string]bool)
	for _, rule := range rules[1:] {
		require.Equal(t, OutcomeExclude, rule.Outcome)
		require.Len(t, rule.Methods, 1)
		assert.Nil(t, rule.Pattern, "method exclusions match any path")
		assert.Empty(t, rule.Tags)
		excluded[rule.Methods[0]] = true
	}
	assert.False(t, excluded["GET"])
	for _, m := range []string{"POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"} {
		assert.True(t, excluded[m], "expected exclusion rule for %s", m)
	}
}

func TestBuild_ExcludeOnlyFiltersEmitNoIncludeRule(t *testing.T) {
	rules, err := Build(config.FilterConfig{
		ExcludePaths: "/admin/.*,/internal/.*",
		ExcludeTags:  "deprecated",
	})
	require.NoError(t, err)
	require.Len(t, rules, 3)

	for _, rule := range rules {
		assert.Equal(t, OutcomeExclude, rule.Outcome)
	}
	// path exclusions stay independent, one rule per pattern
	assert.True(t, rules[0].Pattern.Matches("/admin/users"))
	assert.False(t, rules[0].Pattern.Matches("/internal/x"))
	assert.True(t, rules[1].Pattern.Matches("/internal/x"))
	assert.Equal(t, []string{"deprecated"}, rules[2].Tags)
}

func TestBuild_OrderIsIncludeThenMethodsThenPathsThenTags(t *testing.T) {
	rules, err := Build(config.FilterConfig{
		Methods:      "GET,POST,PUT,PATCH,DELETE,HEAD",
		ExcludePaths: "/admin",
		ExcludeTags:  "internal",
	})
	require.NoError(t, err)
	require.Len(t, rules, 4)

	assert.Equal(t, OutcomeTool, rules[0].Outcome)
	assert.Equal(t, []string{"OPTIONS"}, rules[1].Methods)
	assert.NotNil(t, rules[2].Pattern)
	assert.Equal(t, []string{"internal"}, rules[3].Tags)
}

func TestBuild_InvalidPatternSurfaces(t *testing.T) {
	_, err := Build(config.FilterConfig{IncludePaths: "("})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "include paths")

	_, err = Build(config.FilterConfig{ExcludePaths: "("})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exclude paths")
}

func TestBuild_Idempotent(t *testing.T) {
	filter := config.FilterConfig{
		Methods:      "GET,POST",
		IncludePaths: "^/api",
		ExcludePaths: "/admin/.*",
		ExcludeTags:  "internal",
	}

	a, err := Build(filter)
	require.NoError(t, err)
	b, err := Build(filter)
	require.NoError(t, err)

	diff := cmp.Diff(a, b,
		cmp.Comparer(func(x, y *PathPattern) bool { return x.String() == y.String() }))
	assert.Empty(t, diff)
}
