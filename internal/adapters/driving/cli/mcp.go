package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lispmeta/internal/adapters/driving/mcp"
)

var (
	mcpHost string
	mcpPort int
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the metadata index to MCP clients",
	Long: `Serve the metadata index to AI assistants over the Model Context Protocol.

Tools:
  extract_metadata  read header fields from a Lisp file without storing them
  search_metadata   search the index by field value

Resources:
  lispmeta://schema          recognised keys and content types
  lispmeta://records/{path}  stored record of an imported file

The server speaks JSON-RPC on stdio unless --port is given, in which case
it serves the streamable HTTP transport on --host:--port.

Examples:
  lispmeta mcp serve
  lispmeta mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "lispmeta": {
        "command": "/path/to/lispmeta",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().StringVar(&mcpHost, "host", "127.0.0.1", "HTTP listen host")
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(&mcp.Ports{
		Import: importService,
		Search: searchService,
	}, mcp.WithVersion(version))
	if err != nil {
		return err
	}

	if mcpPort <= 0 {
		return server.Run(cmd.Context())
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(mcpHost, strconv.Itoa(mcpPort)))
	if err != nil {
		return fmt.Errorf("mcp: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", ln.Addr())
	return server.Serve(cmd.Context(), ln)
}
