// Package server hosts the MCP server that exposes the classified OpenAPI
// operations as callable tools over STDIO, SSE, or streamable HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/apifold/openapi-bridge/internal/config"
	"github.com/apifold/openapi-bridge/internal/logger"
	"github.com/apifold/openapi-bridge/internal/parser"
	"github.com/apifold/openapi-bridge/internal/requester"
	"github.com/apifold/openapi-bridge/internal/server/handler"
	"github.com/apifold/openapi-bridge/internal/server/tool"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// shutdownTimeout is the maximum time to wait for server shutdown
	shutdownTimeout = 5 * time.Second
)

// Server exposes the tool bindings over the configured transport. The binding
// map is built once here, before serving starts; afterwards it is immutable
// shared state and tool invocations only read it.
type Server struct {
	config    *config.Config
	parser    parser.Parser
	mcp       *mcpserver.MCPServer
	requester *requester.HTTPRequester
	handler   *handler.Handler
	tool      *tool.Handler
}

// NewServer creates a new MCP server instance with the provided
// configuration. All configuration and classification failures surface here,
// as construction errors, never during live request handling.
func NewServer(cfg *config.Config, p parser.Parser, requester *requester.HTTPRequester) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if p == nil {
		return nil, fmt.Errorf("parser cannot be nil")
	}
	if requester == nil {
		return nil, fmt.Errorf("requester cannot be nil")
	}

	mcpServer := mcpserver.NewMCPServer(
		cfg.Server.Name,
		cfg.Server.Version,
	)

	srv := &Server{
		config:    cfg,
		parser:    p,
		mcp:       mcpServer,
		requester: requester,
		handler:   handler.NewHandler(),
		tool:      tool.NewHandler(),
	}

	if err := srv.setupTools(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (s *Server) setupTools() error {
	if err := s.parser.Init(s.config.SpecSource); err != nil {
		return fmt.Errorf("failed to initialize parser: %w", err)
	}

	// Fall back to the document's first server URL when no base URL was
	// configured; the requester shares this config instance
	if s.config.EndpointConfig.BaseURL == "" {
		s.config.EndpointConfig.BaseURL = s.parser.DefaultBaseURL()
		if s.config.EndpointConfig.BaseURL == "" {
			return fmt.Errorf("no base URL configured and the document declares no servers")
		}
		logger.Info("Using base URL from spec", zap.String("base_url", s.config.EndpointConfig.BaseURL))
	}

	bindings := s.parser.GetToolBindings()
	if len(bindings) == 0 {
		logger.Warn("No operations were classified as tools; the server will expose nothing")
	}

	for _, binding := range bindings {
		executor, err := s.requester.BuildRouteExecutor(binding.RouteConfig)
		if err != nil {
			return fmt.Errorf("failed to build executor for tool %s: %w", binding.Name, err)
		}

		logger.Debug("Registering tool",
			zap.String("name", binding.Name),
			zap.String("operation", binding.RouteConfig.Method+" "+binding.RouteConfig.Path),
		)
		s.mcp.AddTool(binding.Tool, s.tool.CreateHandler(&binding.Tool, executor))
	}
	return nil
}

func (s *Server) ServeSSE(ctx context.Context) error {
	logger.Info("Starting SSE server")

	sseServer := mcpserver.NewSSEServer(
		s.mcp,
		mcpserver.WithBaseURL(fmt.Sprintf("http://%s:%d", s.config.Server.Host, s.config.Server.Port)),
	)

	return s.serveHTTP(ctx, sseServer, "SSE")
}

func (s *Server) ServeHTTP(ctx context.Context) error {
	logger.Info("Starting HTTP server")
	httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
	return s.serveHTTP(ctx, httpServer, "HTTP")
}

func (s *Server) serveHTTP(ctx context.Context, mcpHandler http.Handler, mode string) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: s.handler.CreateHTTPHandler(mcpHandler),
	}

	// Channel for server errors
	errChan := make(chan error, 1)

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server",
			zap.String("mode", mode),
			zap.String("address", addr),
		)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down server",
			zap.String("mode", mode),
			zap.Duration("timeout", shutdownTimeout),
		)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil

	case err := <-errChan:
		return err
	}
}

func (s *Server) ServeSTDIO(ctx context.Context) error {
	logger.Info("Starting STDIO server")
	stdioServer := mcpserver.NewStdioServer(s.mcp)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// Start starts the server in the configured mode (SSE, HTTP, or STDIO).
func (s *Server) Start(ctx context.Context) error {
	logger.Info("Starting server",
		zap.String("mode", string(s.config.Server.Mode)),
		zap.String("version", s.config.Server.Version),
	)

	switch s.config.Server.Mode {
	case config.ServerModeSSE:
		return s.ServeSSE(ctx)
	case config.ServerModeHTTP:
		return s.ServeHTTP(ctx)
	case config.ServerModeSTDIO:
		return s.ServeSTDIO(ctx)
	default:
		return fmt.Errorf("unsupported server mode: %s", s.config.Server.Mode)
	}
}

// Module provides the MCP server dependencies
var Module = fx.Module("mcp_server",
	fx.Provide(
		NewServer,
	),
)
