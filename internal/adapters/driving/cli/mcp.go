package cli

import (
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc/internal/adapters/driving/mcp"
)

var (
	mcpPort int
	mcpHost string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Let MCP clients ask questions about local files",
	Long: `Expose askdoc to MCP clients.

Tools:
  ask                 answer a question against text or a local file path

Resources:
  askdoc://formats    accepted file types
  askdoc://settings   active providers and PDF policy

The server speaks JSON-RPC on stdio unless --port is set, in which case the
streamable HTTP transport is served at /mcp.

Examples:
  askdoc mcp serve
  askdoc mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "askdoc": {
        "command": "/path/to/askdoc",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringVar(&mcpHost, "host", "127.0.0.1", "HTTP bind host")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(&mcp.Ports{
		Ask:      askService,
		Settings: settingsService,
	}, mcp.WithVersion(version))
	if err != nil {
		return err
	}

	if mcpPort <= 0 {
		return server.Run(cmd.Context())
	}

	addr := net.JoinHostPort(mcpHost, strconv.Itoa(mcpPort))
	cmd.PrintErrf("askdoc MCP server listening on http://%s%s\n", addr, mcp.Path)
	return server.RunHTTP(cmd.Context(), addr)
}
