package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"atkctl/internal/config"
	"atkctl/internal/fixtures"
	"atkctl/internal/session"
	"atkctl/pkg/logging"

	"github.com/mark3labs/mcp-go/server"
)

// Server exposes the Drush fixture helpers as MCP tools.
type Server struct {
	cfg    config.AtkConfig
	drush  fixtures.Drush
	helper *fixtures.Helper
	store  session.Store
	mcp    *server.MCPServer
}

// NewServer creates the MCP server and registers every tool. store may be
// nil, in which case session_clear reports an error.
func NewServer(cfg config.AtkConfig, d fixtures.Drush, store session.Store, version string) *Server {
	s := &Server{
		cfg:    cfg,
		drush:  d,
		helper: fixtures.NewHelper(cfg, d),
		store:  store,
	}
	s.mcp = server.NewMCPServer(
		"atkctl",
		version,
		server.WithToolCapabilities(true),
	)
	s.mcp.AddTools(s.serverTools()...)
	return s
}

// MCPServer returns the underlying server, for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves until stdin is closed.
func (s *Server) ServeStdio() error {
	logging.Info("MCP", "Serving %d tools on stdio", len(s.serverTools()))
	return server.ServeStdio(s.mcp)
}

// ServeSSE serves over server-sent events on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	sse := server.NewSSEServer(
		s.mcp,
		server.WithBaseURL("http://"+addr),
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/message"),
		server.WithKeepAlive(true),
		server.WithKeepAliveInterval(30*time.Second),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- sse.Start(addr)
	}()
	logging.Info("MCP", "Serving %d tools on http://%s/sse", len(s.serverTools()), addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("sse server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return sse.Shutdown(shutdownCtx)
	}
}

func (s *Server) serverTools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: drushExecTool(), Handler: s.handleDrushExec},
		{Tool: userCreateTool(), Handler: s.handleUserCreate},
		{Tool: userDeleteTool(), Handler: s.handleUserDelete},
		{Tool: userLookupTool(), Handler: s.handleUserLookup},
		{Tool: entityDeleteTool(), Handler: s.handleEntityDelete},
		{Tool: configSetTool(), Handler: s.handleConfigSet},
		{Tool: filePropertiesTool(), Handler: s.handleFileProperties},
		{Tool: userLoginURLTool(), Handler: s.handleUserLoginURL},
		{Tool: sitemapRebuildTool(), Handler: s.handleSitemapRebuild},
		{Tool: sessionClearTool(), Handler: s.handleSessionClear},
	}
}
