package parser

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/apifold/openapi-bridge/internal/requester"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mark3labs/mcp-go/mcp"
)

// generateTool creates the MCP tool definition for one included operation.
// The tool name is the one the classifier derived, so names stay consistent
// between the binding map and the registered tools.
func (p *SpecParser) generateTool(name string, descriptor OperationDescriptor, route *requester.RouteConfig) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(fmt.Sprintf("%s %s \n %s", route.Method, route.Path, route.Description)),
	}

	// Path parameters are always required
	for _, param := range extractPathParams(route.Path) {
		opts = append(opts, mcp.WithString(param,
			mcp.Required(),
			mcp.Description(fmt.Sprintf("Path parameter: %s", param)),
		))
	}

	for _, param := range route.MethodConfig.QueryParams {
		opts = append(opts, mcp.WithString(param,
			mcp.Description(fmt.Sprintf("Query parameter: %s", param)),
		))
	}

	for _, param := range route.MethodConfig.HeaderParams {
		opts = append(opts, mcp.WithString(param,
			mcp.Description(fmt.Sprintf("Header parameter: %s", param)),
		))
	}

	switch route.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		if schema, required := firstBodySchema(descriptor.Operation); schema != nil {
			opts = append(opts, schemaToToolOption(schema, "body", required))
		}
	}

	return mcp.NewTool(name, opts...)
}

// firstBodySchema returns the request body schema and its required flag. When
// the body declares several content types their properties are merged into
// one object schema, since the tool input has a single body argument.
func firstBodySchema(operation *openapi3.Operation) (*openapi3.SchemaRef, bool) {
	if operation == nil || operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil, false
	}
	content := operation.RequestBody.Value.Content
	required := operation.RequestBody.Value.Required

	if len(content) == 0 {
		return nil, false
	}
	if len(content) == 1 {
		for _, mediaType := range content {
			return mediaType.Schema, required
		}
	}

	merged := &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type:       &openapi3.Types{"object"},
			Properties: make(openapi3.Schemas),
		},
	}
	for _, mediaType := range content {
		if mediaType.Schema == nil || mediaType.Schema.Value == nil {
			continue
		}
		for propName, propSchema := range mediaType.Schema.Value.Properties {
			merged.Value.Properties[propName] = propSchema
		}
	}
	return merged, required
}

// extractPathParams extracts {param} placeholders from a path template
func extractPathParams(path string) []string {
	var params []string
	for _, part := range strings.Split(path, "/") {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			params = append(params, strings.TrimSuffix(strings.TrimPrefix(part, "{"), "}"))
		}
	}
	return params
}
