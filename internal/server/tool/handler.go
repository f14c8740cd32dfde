// Package tool provides tool invocation handling for the MCP server.
package tool

import (
	"context"
	"fmt"
	"net/http"

	"github.com/apifold/openapi-bridge/internal/requester"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handler turns route executors into MCP tool handlers.
type Handler struct{}

// NewHandler creates a new tool handler.
func NewHandler() *Handler {
	return &Handler{}
}

// CreateHandler creates the handler function for a specific tool. Each
// invocation builds and sends one independent outbound request; upstream
// error statuses are tool results, not transport errors.
func (h *Handler) CreateHandler(tool *mcp.Tool, executor requester.RouteExecutor) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params := request.GetArguments()
		resp, err := executor(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("failed to execute request for tool %s: %w", tool.Name, err)
		}

		if resp.StatusCode >= http.StatusBadRequest {
			return mcp.NewToolResultError(fmt.Sprintf("HTTP Error %d: %s", resp.StatusCode, string(resp.Body))), nil
		}

		return mcp.NewToolResultText(string(resp.Body)), nil
	}
}
