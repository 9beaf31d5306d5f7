package depgraph

import (
	"sort"

	"github.com/arborist-dev/chopper/internal/vertex"
	"github.com/arborist-dev/chopper/internal/vil"
)

// IsolateFunc selects which members are "important": every selected
// member must appear in exactly one output sub-program. The zero value of
// this type is never used directly; callers pass DefaultIsolate or their
// own predicate.
type IsolateFunc func(vil.Member) bool

// DefaultIsolate selects every Method, Function, and Predicate — the
// members that, by default, carry a proof obligation.
func DefaultIsolate(m vil.Member) bool {
	switch m.(type) {
	case *vil.Method, *vil.Function, *vil.Predicate:
		return true
	default:
		return false
	}
}

// Graph is the dense-id flattening of a dependency graph: N vertices,
// sorted adjacency per node, and the inverse id->Vertex map.
type Graph struct {
	N             int
	Edges         [][]int // Edges[i] is the sorted set of successor ids of node i
	ImportantNodes []int   // ids of definition vertices of selected members (may repeat)

	idOf   map[vertex.Vertex]int
	vertOf []vertex.Vertex
}

// ToVertex returns the vertex for a dense id.
func (g *Graph) ToVertex(id int) vertex.Vertex {
	return g.vertOf[id]
}

// IDOf returns the dense id for a vertex, and whether it was ever
// referenced as an edge endpoint.
func (g *Graph) IDOf(v vertex.Vertex) (int, bool) {
	id, ok := g.idOf[v]
	return id, ok
}

// Build walks every member's dependency edges, assigns dense ids to every
// vertex referenced as an edge source or target, and returns the resulting
// Graph. Members are walked in the order given, which is the sole source of
// ordering determinism in the resulting graph.
func Build(members []vil.Member, isolate IsolateFunc) (*Graph, error) {
	if isolate == nil {
		isolate = DefaultIsolate
	}

	var allEdges []Edge
	for _, m := range members {
		edges, err := extractMember(m)
		if err != nil {
			return nil, err
		}
		allEdges = append(allEdges, edges...)
	}

	g := &Graph{idOf: make(map[vertex.Vertex]int)}
	idFor := func(v vertex.Vertex) int {
		if id, ok := g.idOf[v]; ok {
			return id
		}
		id := len(g.vertOf)
		g.idOf[v] = id
		g.vertOf = append(g.vertOf, v)
		return id
	}

	succSets := make(map[int]map[int]bool)
	for _, e := range allEdges {
		srcID := idFor(e.Src)
		dstID := idFor(e.Dst)
		if succSets[srcID] == nil {
			succSets[srcID] = make(map[int]bool)
		}
		succSets[srcID][dstID] = true
	}

	g.N = len(g.vertOf)
	g.Edges = make([][]int, g.N)
	for i := 0; i < g.N; i++ {
		set := succSets[i]
		succ := make([]int, 0, len(set))
		for id := range set {
			succ = append(succ, id)
		}
		sort.Ints(succ)
		g.Edges[i] = succ
	}

	for _, m := range members {
		if !isolate(m) {
			continue
		}
		def, err := vertex.Def(m)
		if err != nil {
			return nil, err
		}
		// Every extracted member emits def -> Always, so its def vertex
		// normally has an id already; a def vertex that no edge names is
		// registered here by idFor so the member still gets a node.
		id, alreadyKnown := g.idOf[def]
		if !alreadyKnown {
			id = idFor(def)
			for len(g.Edges) <= id {
				g.Edges = append(g.Edges, nil)
			}
			g.N = len(g.vertOf)
		}
		g.ImportantNodes = append(g.ImportantNodes, id)
	}

	return g, nil
}
