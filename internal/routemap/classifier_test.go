package routemap

import (
	"testing"

	"github.com/apifold/openapi-bridge/internal/config"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolName(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		want   string
	}{
		{
			name:   "plain path",
			method: "GET",
			path:   "/api/users",
			want:   "get_api_users",
		},
		{
			name:   "placeholder braces stripped",
			method: "POST",
			path:   "/users/{id}/posts",
			want:   "post_users_id_posts",
		},
		{
			name:   "colon style param collapses to the same name",
			method: "GET",
			path:   "/widget/:id",
			want:   "get_widget_id",
		},
		{
			name:   "dots and dashes dropped",
			method: "DELETE",
			path:   "/v1.2/user-profiles",
			want:   "delete_v12_userprofiles",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToolName(tt.method, tt.path))
		})
	}
}

func TestClassify_DefaultInclusion(t *testing.T) {
	ops := []Operation{
		{Method: "GET", Path: "/users"},
		{Method: "POST", Path: "/users"},
		{Method: "DELETE", Path: "/users/{id}", Tags: []string{"admin"}},
	}

	decisions, err := Classify(ops, nil)
	require.NoError(t, err)
	require.Len(t, decisions, len(ops))

	for _, d := range decisions {
		assert.Equal(t, OutcomeTool, d.Outcome)
		assert.Equal(t, -1, d.RuleIndex)
		assert.NotEmpty(t, d.ToolName)
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	op := Operation{Method: "GET", Path: "/users", Tags: []string{"public"}}
	include := RoutingRule{Tags: []string{"public"}, Outcome: OutcomeTool}
	exclude := RoutingRule{Tags: []string{"public"}, Outcome: OutcomeExclude}

	decisions, err := Classify([]Operation{op}, []RoutingRule{include, exclude})
	require.NoError(t, err)
	assert.Equal(t, OutcomeTool, decisions[0].Outcome)
	assert.Equal(t, 0, decisions[0].RuleIndex)

	// changing a later rule that also matches must not change the outcome
	widened, err := Classify([]Operation{op}, []RoutingRule{include, {Outcome: OutcomeExclude}})
	require.NoError(t, err)
	assert.Equal(t, decisions[0].Outcome, widened[0].Outcome)
}

func TestClassify_NoMatchDefaultsToTool(t *testing.T) {
	rules := []RoutingRule{{Tags: []string{"public"}, Outcome: OutcomeExclude}}
	decisions, err := Classify([]Operation{{Method: "GET", Path: "/misc"}}, rules)
	require.NoError(t, err)
	assert.Equal(t, OutcomeTool, decisions[0].Outcome)
	assert.Equal(t, -1, decisions[0].RuleIndex)
}

func TestClassify_MethodExclusionCompleteness(t *testing.T) {
	rules, err := Build(config.FilterConfig{Methods: "GET"})
	require.NoError(t, err)

	ops := []Operation{
		{Method: "GET", Path: "/pets"},
		{Method: "POST", Path: "/pets", Tags: []string{"public"}},
		{Method: "PUT", Path: "/pets/{id}"},
		{Method: "DELETE", Path: "/pets/{id}"},
		{Method: "HEAD", Path: "/pets"},
		{Method: "OPTIONS", Path: "/pets"},
		{Method: "PATCH", Path: "/pets/{id}"},
	}

	decisions, err := Classify(ops, rules)
	require.NoError(t, err)
	for _, d := range decisions {
		if d.Operation.Method == "GET" {
			assert.Equal(t, OutcomeTool, d.Outcome)
		} else {
			assert.Equal(t, OutcomeExclude, d.Outcome,
				"%s must be excluded regardless of path or tag", d.Operation)
		}
	}
}

func TestClassify_NameCollision(t *testing.T) {
	ops := []Operation{
		{Method: "GET", Path: "/widget/{id}"},
		{Method: "GET", Path: "/widget/:id"},
	}

	_, err := Classify(ops, nil)
	require.Error(t, err)

	var collision *NameCollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "get_widget_id", collision.Name)
	assert.Equal(t, ops[0], collision.First)
	assert.Equal(t, ops[1], collision.Second)
	assert.Contains(t, err.Error(), "GET /widget/{id}")
	assert.Contains(t, err.Error(), "GET /widget/:id")
}

func TestClassify_ExcludedOperationsDoNotCollide(t *testing.T) {
	// both would derive the same name but only one is a tool
	rules := []RoutingRule{{Tags: []string{"legacy"}, Outcome: OutcomeExclude}}
	ops := []Operation{
		{Method: "GET", Path: "/widget/{id}"},
		{Method: "GET", Path: "/widget/:id", Tags: []string{"legacy"}},
	}

	decisions, err := Classify(ops, rules)
	require.NoError(t, err)
	assert.Equal(t, OutcomeTool, decisions[0].Outcome)
	assert.Equal(t, OutcomeExclude, decisions[1].Outcome)
}

// Operations tagged with both an included and an excluded tag hit the combined
// include rule first, so the include wins by declared rule order.
func TestClassify_IncludeTagWinsOverExcludeTag(t *testing.T) {
	rules, err := Build(config.FilterConfig{
		IncludeTags: "public",
		ExcludeTags: "admin",
	})
	require.NoError(t, err)

	ops := []Operation{
		{Method: "GET", Path: "/open", Tags: []string{"public"}},
		{Method: "GET", Path: "/both", Tags: []string{"public", "admin"}},
		{Method: "GET", Path: "/hidden", Tags: []string{"internal"}},
	}

	decisions, err := Classify(ops, rules)
	require.NoError(t, err)
	assert.Equal(t, OutcomeTool, decisions[0].Outcome)
	assert.Equal(t, OutcomeTool, decisions[1].Outcome, "include rule is evaluated before the tag exclusion")
	assert.Equal(t, OutcomeTool, decisions[2].Outcome, "no include-everything rule is synthesized; unmatched defaults to tool")
}

func TestClassify_Idempotent(t *testing.T) {
	filter := config.FilterConfig{
		Methods:      "GET,POST",
		ExcludePaths: "/admin",
	}
	ops := []Operation{
		{Method: "GET", Path: "/users"},
		{Method: "POST", Path: "/admin/users"},
		{Method: "DELETE", Path: "/users/{id}"},
	}

	run := func() []Decision {
		rules, err := Build(filter)
		require.NoError(t, err)
		decisions, err := Classify(ops, rules)
		require.NoError(t, err)
		return decisions
	}

	assert.Empty(t, cmp.Diff(run(), run()))
}
