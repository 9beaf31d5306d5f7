// Package graphstore persists a chop run's dependency graph — vertices,
// edges, SCC components, and the resulting sub-program membership — so a
// host can inspect or re-query a prior chop without recomputing it.
package graphstore

import (
	"context"
	"io"
)

// Store is the persistence backend for a chopped dependency graph.
// Implementations: KuzuStore (production, CGO), MemStore (testing, the
// default when CGO is unavailable).
type Store interface {
	io.Closer

	InitSchema(ctx context.Context) error

	AddVertex(ctx context.Context, v VertexRow) error
	AddEdge(ctx context.Context, e EdgeRow) error
	AddComponent(ctx context.Context, c ComponentRow) error
	AddSubProgram(ctx context.Context, p SubProgramRow) error

	GetVertex(ctx context.Context, id int) (*VertexRow, error)
	GetSubProgramFor(ctx context.Context, vertexID int) (*SubProgramRow, error)

	Stats(ctx context.Context) (*Stats, error)
}

// VertexRow is one dependency-graph node, keyed by its dense graph id.
type VertexRow struct {
	ID     int    `json:"id"`
	Kind   string `json:"kind"`
	Key    string `json:"key"`
	Domain string `json:"domain,omitempty"`
}

// EdgeRow is one directed dependency edge between two vertex ids.
type EdgeRow struct {
	Src int `json:"src"`
	Dst int `json:"dst"`
}

// ComponentRow is one SCC component: its proxy id and the member vertex
// ids it condenses.
type ComponentRow struct {
	Proxy int   `json:"proxy"`
	Nodes []int `json:"nodes"`
}

// SubProgramRow is one chop-run output: the ids it contains and its
// reconstructed member name, for quick lookup without re-running Chop.
type SubProgramRow struct {
	Index     int      `json:"index"`
	VertexIDs []int    `json:"vertexIds"`
	Members   []string `json:"members"`
}

// Stats summarizes a persisted graph.
type Stats struct {
	VertexCount     int `json:"vertexCount"`
	EdgeCount       int `json:"edgeCount"`
	ComponentCount  int `json:"componentCount"`
	SubProgramCount int `json:"subProgramCount"`
}
