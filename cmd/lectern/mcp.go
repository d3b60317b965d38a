package main

import (
	"context"

	"github.com/aretw0/lectern/internal/cli"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [dir]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the lesson as an MCP server, so agents can inspect the page,
navigate it and write the variables that gates watch.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.RunMCP(sigCtx, cli.MCPOptions{
			Options:   commonOptions(cmd, args),
			Transport: transport,
			Port:      port,
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "", "Transport protocol to use: 'stdio' or 'sse' (default: mcp.transport from config)")
	mcpCmd.Flags().Int("port", 0, "Port to listen on (only for SSE)")
}
