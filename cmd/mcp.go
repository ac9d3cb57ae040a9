package cmd

import (
	"log/slog"
	"os"

	"github.com/schovi/textkit/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve textkit tools over MCP (stdio)",
	Long: `Run an MCP server speaking newline-delimited JSON-RPC 2.0 on stdin/stdout.

Tools: parse_number, is_numeric, extract_span, rewrite, unhexdump.

Example client config:
  {"mcpServers": {"textkit": {"command": "textkit", "args": ["mcp"]}}}`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		slog.Debug("mcp server starting", "version", Version)
		return mcp.NewServer(mcp.NewToolRegistry(), Version, os.Stdin, os.Stdout).Run()
	},
}
