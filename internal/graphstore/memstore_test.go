package graphstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStore_AddAndGetVertex(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	require.NoError(t, s.AddVertex(ctx, VertexRow{ID: 0, Kind: "Method", Key: "A"}))

	v, err := s.GetVertex(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "A", v.Key)
}

func TestMemStore_GetVertex_Missing_ReturnsNilNotError(t *testing.T) {
	s := NewMemStore()
	v, err := s.GetVertex(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestMemStore_SubProgramLookupByVertex(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	require.NoError(t, s.AddSubProgram(ctx, SubProgramRow{Index: 0, VertexIDs: []int{1, 2}, Members: []string{"A", "f"}}))

	p, err := s.GetSubProgramFor(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 0, p.Index)
	assert.ElementsMatch(t, []string{"A", "f"}, p.Members)
}

func TestMemStore_Stats_CountsEverything(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	require.NoError(t, s.AddVertex(ctx, VertexRow{ID: 0, Kind: "Method", Key: "A"}))
	require.NoError(t, s.AddEdge(ctx, EdgeRow{Src: 0, Dst: 1}))
	require.NoError(t, s.AddComponent(ctx, ComponentRow{Proxy: 0, Nodes: []int{0}}))
	require.NoError(t, s.AddSubProgram(ctx, SubProgramRow{Index: 0, VertexIDs: []int{0}}))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.VertexCount)
	assert.Equal(t, 1, stats.EdgeCount)
	assert.Equal(t, 1, stats.ComponentCount)
	assert.Equal(t, 1, stats.SubProgramCount)
}
