package scc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCondense_SingleCycle_OneComponent(t *testing.T) {
	// 0 -> 1 -> 2 -> 0
	edges := [][]int{
		{1},
		{2},
		{0},
	}
	cond := Condense(3, edges)
	require.Len(t, cond.Components, 1)
	assert.ElementsMatch(t, []int{0, 1, 2}, cond.Components[0].Nodes)
	assert.Empty(t, cond.Edges[0], "a single cyclic component has no outgoing edges")
}

func TestCondense_Dag_OnePerNode(t *testing.T) {
	// 0 -> 1 -> 2, no cycles.
	edges := [][]int{
		{1},
		{2},
		{},
	}
	cond := Condense(3, edges)
	require.Len(t, cond.Components, 3)
	for i := 0; i < 3; i++ {
		assert.Len(t, cond.Components[i].Nodes, 1)
	}
}

func TestCondense_TwoComponentsWithBridge(t *testing.T) {
	// Cycle {0,1}, cycle {2,3}, bridge 1 -> 2.
	edges := [][]int{
		{1},
		{0, 2},
		{3},
		{2},
	}
	cond := Condense(4, edges)
	require.Len(t, cond.Components, 2)

	c0 := cond.ComponentOf(0)
	c2 := cond.ComponentOf(2)
	require.NotEqual(t, c0, c2)
	assert.Equal(t, cond.ComponentOf(1), c0)
	assert.Equal(t, cond.ComponentOf(3), c2)

	assert.Equal(t, []int{c2}, cond.Edges[c0], "bridge edge must survive condensation")
	assert.Empty(t, cond.Edges[c2])
}

func TestCondense_SelfLoop_NotDuplicatedInEdges(t *testing.T) {
	edges := [][]int{
		{0, 1},
		{},
	}
	cond := Condense(2, edges)
	require.Len(t, cond.Components, 2)
	c0 := cond.ComponentOf(0)
	c1 := cond.ComponentOf(1)
	assert.Equal(t, []int{c1}, cond.Edges[c0], "self-loop must not appear as an inter-component edge")
}

func TestCondense_ProxyIsFirstNodeThatClosesComponent(t *testing.T) {
	edges := [][]int{
		{1},
		{2},
		{0},
	}
	cond := Condense(3, edges)
	require.Len(t, cond.Components, 1)
	assert.Contains(t, cond.Components[0].Nodes, cond.Components[0].Proxy)
	// DFS starts at 0, which is pushed first and closes the component.
	assert.Equal(t, 0, cond.Components[0].Proxy)
}
