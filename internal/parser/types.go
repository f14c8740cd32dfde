package parser

import (
	"io"

	"github.com/apifold/openapi-bridge/internal/config"
	"github.com/apifold/openapi-bridge/internal/requester"
	"github.com/apifold/openapi-bridge/internal/routemap"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mark3labs/mcp-go/mcp"
)

// OperationDescriptor is one operation lifted out of the document: the
// classifier's view plus the underlying OpenAPI operation for tool
// generation. Immutable once extracted.
type OperationDescriptor struct {
	Method    string
	Path      string
	Tags      []string
	Summary   string
	Operation *openapi3.Operation
}

// ToolBinding is the final output unit for one included operation: the
// unique tool name, the MCP tool definition, and the call template the
// requester materializes HTTP requests from.
type ToolBinding struct {
	Name        string
	RouteConfig *requester.RouteConfig
	Tool        mcp.Tool
}

// Parser handles parsing of OpenAPI specifications
type Parser interface {
	// Init loads and parses an OpenAPI document from a file path or URL
	Init(specSource string) error
	// ParseReader parses an OpenAPI document from a reader
	ParseReader(reader io.Reader) error
	// GetToolBindings returns the bindings for operations classified as tools
	GetToolBindings() []*ToolBinding
	// GetDecisions returns every operation's classification decision
	GetDecisions() []routemap.Decision
	// DefaultBaseURL returns the document's first server URL, if any
	DefaultBaseURL() string
}

// SpecParser parses OpenAPI documents and classifies their operations
// against the configured filter options.
type SpecParser struct {
	doc       *openapi3.T
	filter    config.FilterConfig
	bindings  []*ToolBinding
	decisions []routemap.Decision
}
