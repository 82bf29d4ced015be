package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/incident-rag/internal/adapters/driving/mcp"
)

var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can analyse
incident reports and read stored results.

By default the server speaks JSON-RPC over stdio. Use --http to serve the
streamable HTTP transport instead.

Examples:
  incident-rag mcp
  incident-rag mcp --http :8081

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "incident-rag": {
        "command": "/path/to/incident-rag",
        "args": ["mcp"]
      }
    }
  }`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "HTTP listen address (empty = stdio)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	svc, err := requireServices()
	if err != nil {
		return err
	}
	if svc.Settings == nil || svc.NewAnalysis == nil {
		return errors.New("analysis service not configured")
	}

	settings, err := svc.Settings.Get()
	if err != nil {
		return err
	}
	if err := preflight(svc, *settings); err != nil {
		return err
	}
	analysis, release, err := svc.NewAnalysis(*settings)
	if err != nil {
		return err
	}
	if release != nil {
		defer release()
	}

	server, err := mcp.NewServer(&mcp.Ports{Analysis: analysis, Results: svc.Results})
	if err != nil {
		return err
	}

	if mcpHTTPAddr != "" {
		cmd.PrintErrf("MCP server listening on http://%s\n", mcpHTTPAddr)
		return server.RunHTTP(cmd.Context(), mcpHTTPAddr)
	}
	return server.Run(cmd.Context())
}
