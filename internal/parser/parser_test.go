package parser

import (
	"bytes"
	"testing"

	"github.com/apifold/openapi-bridge/internal/config"
	"github.com/apifold/openapi-bridge/internal/routemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstoreSpec = `{
  "openapi": "3.0.0",
  "info": {"title": "Petstore", "version": "1.0.0"},
  "servers": [{"url": "https://petstore.example.com/v2"}],
  "paths": {
    "/pets": {
      "get": {
        "summary": "List pets",
        "tags": ["pets", "public"],
        "parameters": [
          {"name": "limit", "in": "query", "schema": {"type": "integer"}},
          {"name": "X-Request-Id", "in": "header", "schema": {"type": "string"}}
        ],
        "responses": {"200": {"description": "ok", "content": {"application/json": {"schema": {"type": "array"}}}}}
      },
      "post": {
        "summary": "Create pet",
        "tags": ["pets"],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "properties": {"name": {"type": "string"}},
                "required": ["name"]
              }
            }
          }
        },
        "responses": {"201": {"description": "created"}}
      }
    },
    "/pets/{petId}": {
      "get": {
        "summary": "Get pet",
        "tags": ["pets", "public"],
        "responses": {"200": {"description": "ok"}}
      },
      "delete": {
        "summary": "Delete pet",
        "tags": ["admin"],
        "responses": {"204": {"description": "deleted"}}
      }
    }
  }
}`

const swagger2Spec = `{
  "swagger": "2.0",
  "info": {"title": "Legacy", "version": "1.0.0"},
  "host": "legacy.example.com",
  "basePath": "/api",
  "paths": {
    "/things": {
      "get": {
        "summary": "List things",
        "responses": {"200": {"description": "ok"}}
      }
    }
  }
}`

const petstoreYAML = `openapi: "3.0.0"
info:
  title: Petstore
  version: "1.0.0"
paths:
  /pets:
    get:
      summary: List pets
      responses:
        "200":
          description: ok
`

func newParser(filter config.FilterConfig) *SpecParser {
	return NewSpecParser(&config.Config{Filter: filter})
}

func TestExtractPathParams(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected []string
	}{
		{
			name:     "empty path",
			path:     "",
			expected: nil,
		},
		{
			name:     "path with no params",
			path:     "/api/users",
			expected: nil,
		},
		{
			name:     "path with one param",
			path:     "/api/users/{id}",
			expected: []string{"id"},
		},
		{
			name:     "path with multiple params",
			path:     "/api/users/{id}/posts/{postId}",
			expected: []string{"id", "postId"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractPathParams(tt.path))
		})
	}
}

func TestParseReader_NoFilterIncludesEverything(t *testing.T) {
	p := newParser(config.FilterConfig{})
	require.NoError(t, p.ParseReader(bytes.NewReader([]byte(petstoreSpec))))

	bindings := p.GetToolBindings()
	require.Len(t, bindings, 4)

	names := make([]string, len(bindings))
	for i, b := range bindings {
		names[i] = b.Name
	}
	assert.Equal(t, []string{
		"get_pets",
		"post_pets",
		"get_pets_petid",
		"delete_pets_petid",
	}, names)
}

func TestParseReader_RouteConfigPopulated(t *testing.T) {
	p := newParser(config.FilterConfig{})
	require.NoError(t, p.ParseReader(bytes.NewReader([]byte(petstoreSpec))))

	var listPets *ToolBinding
	for _, b := range p.GetToolBindings() {
		if b.Name == "get_pets" {
			listPets = b
		}
	}
	require.NotNil(t, listPets)

	assert.Equal(t, "GET", listPets.RouteConfig.Method)
	assert.Equal(t, "/pets", listPets.RouteConfig.Path)
	assert.Equal(t, []string{"limit"}, listPets.RouteConfig.MethodConfig.QueryParams)
	assert.Equal(t, []string{"X-Request-Id"}, listPets.RouteConfig.MethodConfig.HeaderParams)
	assert.Equal(t, "application/json", listPets.RouteConfig.Headers["Accept"])
	assert.Equal(t, "List pets", listPets.RouteConfig.Description)
}

func TestParseReader_MethodFilter(t *testing.T) {
	p := newParser(config.FilterConfig{Methods: "GET"})
	require.NoError(t, p.ParseReader(bytes.NewReader([]byte(petstoreSpec))))

	for _, b := range p.GetToolBindings() {
		assert.Equal(t, "GET", b.RouteConfig.Method)
	}
	assert.Len(t, p.GetToolBindings(), 2)

	excluded := 0
	for _, d := range p.GetDecisions() {
		if d.Outcome == routemap.OutcomeExclude {
			excluded++
		}
	}
	assert.Equal(t, 2, excluded)
}

func TestParseReader_TagFilters(t *testing.T) {
	p := newParser(config.FilterConfig{IncludeTags: "public", ExcludeTags: "admin"})
	require.NoError(t, p.ParseReader(bytes.NewReader([]byte(petstoreSpec))))

	names := make(map[string]bool)
	for _, b := range p.GetToolBindings() {
		names[b.Name] = true
	}
	assert.True(t, names["get_pets"])
	assert.True(t, names["get_pets_petid"])
	// post_pets matches no rule, so the tools-only default applies
	assert.True(t, names["post_pets"])
	assert.False(t, names["delete_pets_petid"], "admin-tagged operation is excluded")
}

func TestParseReader_ExcludePaths(t *testing.T) {
	p := newParser(config.FilterConfig{ExcludePaths: `/pets/\{petId\}`})
	require.NoError(t, p.ParseReader(bytes.NewReader([]byte(petstoreSpec))))

	require.Len(t, p.GetToolBindings(), 2)
	for _, b := range p.GetToolBindings() {
		assert.Equal(t, "/pets", b.RouteConfig.Path)
	}
}

func TestParseReader_Swagger2Converted(t *testing.T) {
	p := newParser(config.FilterConfig{})
	require.NoError(t, p.ParseReader(bytes.NewReader([]byte(swagger2Spec))))

	bindings := p.GetToolBindings()
	require.Len(t, bindings, 1)
	assert.Equal(t, "get_things", bindings[0].Name)
}

func TestParseReader_YAMLSpec(t *testing.T) {
	p := newParser(config.FilterConfig{})
	require.NoError(t, p.ParseReader(bytes.NewReader([]byte(petstoreYAML))))
	require.Len(t, p.GetToolBindings(), 1)
	assert.Equal(t, "get_pets", p.GetToolBindings()[0].Name)
}

func TestParseReader_InvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "no version field",
			data: `{"title": "not a spec"}`,
		},
		{
			name: "unsupported openapi version",
			data: `{"openapi": "4.0.0", "paths": {}}`,
		},
		{
			name: "garbage",
			data: "\x00\x01not a document: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParser(config.FilterConfig{})
			assert.Error(t, p.ParseReader(bytes.NewReader([]byte(tt.data))))
		})
	}
}

func TestParseReader_NameCollisionFails(t *testing.T) {
	collidingSpec := `{
  "openapi": "3.0.0",
  "info": {"title": "Colliding", "version": "1.0.0"},
  "paths": {
    "/widget/{id}": {"get": {"responses": {"200": {"description": "ok"}}}},
    "/widget/:id": {"get": {"responses": {"200": {"description": "ok"}}}}
  }
}`
	p := newParser(config.FilterConfig{})
	err := p.ParseReader(bytes.NewReader([]byte(collidingSpec)))
	require.Error(t, err)

	var collision *routemap.NameCollisionError
	assert.ErrorAs(t, err, &collision)
}

func TestDefaultBaseURL(t *testing.T) {
	p := newParser(config.FilterConfig{})
	require.NoError(t, p.ParseReader(bytes.NewReader([]byte(petstoreSpec))))
	assert.Equal(t, "https://petstore.example.com/v2", p.DefaultBaseURL())
}

func TestGenerateTool_InputSchema(t *testing.T) {
	p := newParser(config.FilterConfig{})
	require.NoError(t, p.ParseReader(bytes.NewReader([]byte(petstoreSpec))))

	var getPet *ToolBinding
	for _, b := range p.GetToolBindings() {
		if b.Name == "get_pets_petid" {
			getPet = b
		}
	}
	require.NotNil(t, getPet)

	props := getPet.Tool.InputSchema.Properties
	require.Contains(t, props, "petId")
	assert.Contains(t, getPet.Tool.InputSchema.Required, "petId")
}
