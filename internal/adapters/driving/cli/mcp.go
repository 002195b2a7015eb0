package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/conahgpt/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server offers two tools: "ask" answers a question from the Drive folder
with citations, and "search" ranks passages without calling the model.
Documents are also exposed as conahgpt://documents resources.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default, for desktop assistants)
  conahgpt mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  conahgpt mcp serve --port 8081

Assistant configuration:
  {
    "mcpServers": {
      "conahgpt": {
        "command": "/path/to/conahgpt",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(cmd.Context(), a)

	server, err := mcp.NewServer(&mcp.Ports{
		Answer: a.Answer,
		Chunks: a.Chunks,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		// stdout stays clean in stdio mode, so only announce HTTP.
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s%s\n", addr, mcp.HTTPPath)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
