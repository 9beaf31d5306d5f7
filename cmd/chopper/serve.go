package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arborist-dev/chopper/internal/graphstore"
	"github.com/arborist-dev/chopper/internal/mcptools"
)

// runServe starts the chopper MCP server over HTTP until interrupted.
func runServe(rc *resolvedConfig) error {
	store, err := openStore(rc.StorePath)
	if err != nil {
		return fmt.Errorf("open graph store: %w", err)
	}
	defer store.Close()

	svc := mcptools.NewChopperService(store)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Fprintf(os.Stderr, "chopper MCP server listening on %s\n", rc.MCPAddr)
	return mcptools.RunMCPServer(ctx, svc, rc.MCPAddr)
}

// openStore opens the configured graph store. With no CGO build tag,
// graphstore has no KuzuStore, so an explicit --store path is rejected.
func openStore(path string) (graphstore.Store, error) {
	if path == "" {
		return graphstore.NewMemStore(), nil
	}
	return openFileStore(path)
}
