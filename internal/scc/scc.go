// Package scc implements Tarjan's strongly-connected-components algorithm
// iteratively (explicit work stack, no recursion) so that condensing a
// dependency graph is not bounded by Go's goroutine stack depth — graphs
// produced by real programs can exceed it.
//
// The recursive presentations in the example pack (e.g. the classic
// "index/lowlink/onStack" formulation) are followed structurally; only the
// control flow is converted to an explicit stack of frames.
package scc

import "sort"

// Component is one strongly-connected component: an unordered set of node
// ids plus the proxy id (the first id pushed into the component during
// Tarjan visitation, used as the component's identity and ordering key).
type Component struct {
	Proxy int
	Nodes []int
}

// Condensation is the result of condensing a graph: its components, the
// node->component index, and the acyclic inter-component edge set, indexed
// by component index (not proxy id) for compact storage.
type Condensation struct {
	Components []Component
	// compOf maps a node id to its index into Components.
	compOf []int
	// Edges[i] is the sorted set of component indices that component i has
	// an edge to. Self-loops and duplicate targets are removed.
	Edges [][]int
}

// ComponentOf returns the index into Components that node id belongs to.
func (c *Condensation) ComponentOf(id int) int {
	return c.compOf[id]
}

// frame is one level of the explicit DFS stack, standing in for one
// recursive call to Tarjan's connect(v).
type frame struct {
	node     int
	childIdx int // index into edges[node] of the next child to visit
}

// Condense computes the strongly-connected components of the graph
// (n, edges) where edges[i] is node i's successor list (need not be
// sorted), using Tarjan's algorithm with an explicit stack.
func Condense(n int, edges [][]int) *Condensation {
	const unvisited = -1

	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = unvisited
	}

	var tarjanStack []int // the node stack from Tarjan's algorithm
	nextIndex := 0
	var components []Component
	compOf := make([]int, n)
	for i := range compOf {
		compOf[i] = unvisited
	}

	for start := 0; start < n; start++ {
		if index[start] != unvisited {
			continue
		}

		// Explicit-stack DFS from start.
		var work []frame
		work = append(work, frame{node: start})
		index[start] = nextIndex
		lowlink[start] = nextIndex
		nextIndex++
		tarjanStack = append(tarjanStack, start)
		onStack[start] = true

		for len(work) > 0 {
			top := &work[len(work)-1]
			v := top.node

			if top.childIdx < len(edges[v]) {
				w := edges[v][top.childIdx]
				top.childIdx++

				if index[w] == unvisited {
					index[w] = nextIndex
					lowlink[w] = nextIndex
					nextIndex++
					tarjanStack = append(tarjanStack, w)
					onStack[w] = true
					work = append(work, frame{node: w})
				} else if onStack[w] {
					if index[w] < lowlink[v] {
						lowlink[v] = index[w]
					}
				}
				continue
			}

			// All children of v processed: pop v's frame and propagate
			// lowlink to the parent (if any), then close v's component
			// if v is a root.
			work = work[:len(work)-1]
			if len(work) > 0 {
				parent := &work[len(work)-1]
				if lowlink[v] < lowlink[parent.node] {
					lowlink[parent.node] = lowlink[v]
				}
			}

			if lowlink[v] == index[v] {
				compIdx := len(components)
				var nodes []int
				for {
					w := tarjanStack[len(tarjanStack)-1]
					tarjanStack = tarjanStack[:len(tarjanStack)-1]
					onStack[w] = false
					compOf[w] = compIdx
					nodes = append(nodes, w)
					if w == v {
						break
					}
				}
				// Proxy is the first id pushed into the component in
				// Tarjan order, i.e. v itself (the root that closes it).
				components = append(components, Component{Proxy: v, Nodes: nodes})
			}
		}
	}

	cond := &Condensation{Components: components, compOf: compOf}
	cond.Edges = buildComponentEdges(n, edges, compOf, len(components))
	return cond
}

// buildComponentEdges derives the acyclic inter-component edge set from the
// original graph, removing self-loops and deduplicating targets.
func buildComponentEdges(n int, edges [][]int, compOf []int, numComponents int) [][]int {
	sets := make([]map[int]bool, numComponents)
	for i := 0; i < n; i++ {
		ci := compOf[i]
		for _, j := range edges[i] {
			cj := compOf[j]
			if cj == ci {
				continue
			}
			if sets[ci] == nil {
				sets[ci] = make(map[int]bool)
			}
			sets[ci][cj] = true
		}
	}

	out := make([][]int, numComponents)
	for i, set := range sets {
		list := make([]int, 0, len(set))
		for c := range set {
			list = append(list, c)
		}
		sort.Ints(list)
		out[i] = list
	}
	return out
}
