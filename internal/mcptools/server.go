package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewChopperMCPServer creates an MCP server with all 3 chopper tools
// registered.
func NewChopperMCPServer(svc *ChopperService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "chopper",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "chop_program",
		Description: "Partition a vil wire-format program into bounded, self-contained sub-programs via dependency-graph cutting and penalty-driven merging.",
	}, svc.ChopProgram)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_graph_stats",
		Description: "Return vertex, edge, component, and sub-program counts of the configured graph store, across all persisted runs.",
	}, svc.GetGraphStats)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_result",
		Description: "Render a previously persisted chop run as JSON or a Mermaid diagram.",
	}, svc.ExportResult)

	return server
}

// RunMCPServer starts an HTTP server exposing the chopper MCP tools.
func RunMCPServer(ctx context.Context, svc *ChopperService, addr string) error {
	server := NewChopperMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
