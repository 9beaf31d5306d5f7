//go:build cgo

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/arborist-dev/chopper/internal/graphstore"
)

// runContext queries a persisted graph store for the vertex with the given
// dense id and prints its sub-program membership. Intended for quick
// inspection of a file-based store without re-running Chop. Nothing in this
// module writes vertex rows or sub-program vertex ids to a store (the MCP
// server stores only sub-program member names), so the lookup finds only
// vertices that some other writer added through Store.AddVertex.
func runContext(args []string) error {
	fs := flag.NewFlagSet("chopper context", flag.ContinueOnError)
	storePath := fs.String("store", "", "kuzu file-store path to query")
	vertexID := fs.String("vertex", "", "dense vertex id to look up")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *storePath == "" || *vertexID == "" {
		return fmt.Errorf("usage: chopper context --store <path> --vertex <id>")
	}

	id, err := strconv.Atoi(*vertexID)
	if err != nil {
		return fmt.Errorf("invalid --vertex %q: %w", *vertexID, err)
	}

	store, err := graphstore.NewKuzuFileStore(*storePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	v, err := store.GetVertex(ctx, id)
	if err != nil {
		return fmt.Errorf("get vertex: %w", err)
	}
	if v == nil {
		fmt.Fprintf(os.Stderr, "no vertex with id %d\n", id)
		return nil
	}

	fmt.Printf("## Vertex %d\n\n", id)
	fmt.Printf("- kind: %s\n- key: %s\n", v.Kind, v.Key)
	if v.Domain != "" {
		fmt.Printf("- domain: %s\n", v.Domain)
	}

	sub, err := store.GetSubProgramFor(ctx, id)
	if err != nil {
		return fmt.Errorf("get sub-program: %w", err)
	}
	if sub == nil {
		fmt.Println("\nNot assigned to any sub-program.")
		return nil
	}

	fmt.Printf("\n**Sub-program %d members:**\n", sub.Index)
	for _, m := range sub.Members {
		fmt.Printf("- %s\n", m)
	}
	return nil
}
