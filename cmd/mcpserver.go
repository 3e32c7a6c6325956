package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"atkctl/internal/tools"
	"atkctl/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	mcpTransport string
	mcpAddr      string
)

func newMCPServerCmd() *cobra.Command {
	mcpserverCmd := &cobra.Command{
		Use:   "mcp-server",
		Short: "Serve the fixture helpers as MCP tools",
		Long: `Serve the fixture helpers over the Model Context Protocol so AI
assistants can create and remove test content on the configured site.

Tools: drush_exec, user_create, user_delete, user_lookup, entity_delete,
config_set, file_properties, user_login_url, sitemap_rebuild, session_clear.

With the default stdio transport, configure the assistant to start
"atkctl mcp-server". Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: runMCPServer,
	}
	mcpserverCmd.Flags().StringVar(&mcpTransport, "transport", "stdio", "Transport (stdio, sse)")
	mcpserverCmd.Flags().StringVar(&mcpAddr, "addr", "localhost:8099", "Listen address for the sse transport")
	return mcpserverCmd
}

func runMCPServer(cmd *cobra.Command, args []string) error {
	level, _ := logging.ParseLevel(atkConfig.LogLevel)
	if debugMode {
		level = logging.LevelDebug
	}
	logging.InitForMCP(level)

	d := newDispatcher()
	srv := tools.NewServer(atkConfig, d, newSessionStore(), rootCmd.Version)
	logging.Info("MCP", "Drush target: %s", d.Target())

	switch mcpTransport {
	case "stdio":
		return srv.ServeStdio()
	case "sse":
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ServeSSE(ctx, mcpAddr)
	default:
		return fmt.Errorf("unknown transport %q, must be stdio or sse", mcpTransport)
	}
}
