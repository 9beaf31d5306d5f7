// Package cut implements the smallest-cut engine: given a graph and a set
// of selected ("important") nodes, compute the minimal number of
// sub-programs — one per root, each the root's full reachable set — that
// together cover every selected node exactly once (a root is a selected
// node not reachable from any other selected node).
package cut

import "sort"

// visitState is the per-node finalization state used by the acyclic
// variant's iterative DFS.
type visitState int

const (
	notVisited visitState = iota
	notFinalized
	finalized
)

// Acyclic computes, for each root among nodes, its sorted reachable set,
// using an iterative DFS over a graph known to be acyclic (typically an
// SCC condensation). Each node gets one frame on the explicit stack that is
// visited twice: once to push its children above it, and again, after
// every child frame has been finalized and popped, to finalize the node.
func Acyclic(n int, nodes []int, edges [][]int) [][]int {
	state := make([]visitState, n)
	startOf := make([]int, n) // which start first finalized this node
	notRoot := make([]bool, n)
	reach := make([]map[int]bool, n)

	// frame.phase: 0 = about to descend, 1 = about to finalize.
	type frame struct {
		node  int
		phase int
	}

	finalizedBy := func(start, id int) {
		if state[id] == finalized {
			if startOf[id] != start {
				notRoot[id] = true
			}
		}
	}

	for _, start := range nodes {
		if state[start] == finalized {
			finalizedBy(start, start)
			continue
		}
		if state[start] == notFinalized {
			// Already being processed by an earlier start in this same
			// outer loop iteration is impossible (DFS completes before
			// moving to the next start), so this means a duplicate start
			// mid-run, which cannot happen either; guard defensively.
			continue
		}

		stack := []frame{{node: start, phase: 0}}
		state[start] = notFinalized

		for len(stack) > 0 {
			top := &stack[len(stack)-1]

			if top.phase == 0 {
				top.phase = 1
				for _, child := range edges[top.node] {
					switch state[child] {
					case notVisited:
						state[child] = notFinalized
						stack = append(stack, frame{node: child, phase: 0})
					case finalized:
						if startOf[child] != start {
							notRoot[child] = true
						}
					case notFinalized:
						// part of the current DFS path; acyclic graph
						// should never hit this, but tolerate it as a
						// no-op (its reachable set will be completed
						// when its own frame finalizes).
					}
				}
				continue
			}

			// Finalize top.node: union its own singleton with the
			// finalized reachable sets of all its children.
			node := top.node
			set := map[int]bool{node: true}
			for _, child := range edges[node] {
				for r := range reach[child] {
					set[r] = true
				}
			}
			reach[node] = set
			state[node] = finalized
			startOf[node] = start
			stack = stack[:len(stack)-1]
		}
	}

	return collectRoots(nodes, reach, notRoot)
}

// Cyclic computes, for each root among nodes, its sorted reachable set,
// using a global-visited / per-call-local-visited DFS that is sound even
// when the graph contains cycles. It does not memoize reachable sets
// across starts, since doing so would be unsound under cycles.
func Cyclic(n int, nodes []int, edges [][]int) [][]int {
	visited := make([]bool, n)  // globally visited by some earlier start
	notRoot := make([]bool, n)
	visitedBy := make([]int, n)
	for i := range visitedBy {
		visitedBy[i] = -1
	}

	results := make(map[int][]int) // start -> sorted reachable set

	for _, start := range nodes {
		if _, done := results[start]; done {
			continue // duplicate start, same id: no-op
		}
		if visited[start] {
			// Reached by an earlier, different start's DFS: not a root.
			notRoot[start] = true
			continue
		}

		local := make(map[int]bool)
		stack := []int{start}
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if local[v] {
				continue
			}
			local[v] = true

			if visited[v] && visitedBy[v] != start {
				notRoot[v] = true
			}
			visited[v] = true
			if visitedBy[v] == -1 {
				visitedBy[v] = start
			}

			for _, w := range edges[v] {
				if !local[w] {
					stack = append(stack, w)
				}
			}
		}

		sorted := make([]int, 0, len(local))
		for id := range local {
			sorted = append(sorted, id)
		}
		sort.Ints(sorted)
		results[start] = sorted
	}

	var out [][]int
	seen := make(map[int]bool)
	for _, start := range nodes {
		if seen[start] {
			continue
		}
		seen[start] = true
		if notRoot[start] {
			continue
		}
		if set, ok := results[start]; ok {
			out = append(out, set)
		}
	}
	return out
}

// collectRoots returns the sorted reachable list for every node among
// nodes whose notRoot bit is clear, deduplicated by node id.
func collectRoots(nodes []int, reach []map[int]bool, notRoot []bool) [][]int {
	var out [][]int
	seen := make(map[int]bool)
	for _, start := range nodes {
		if seen[start] {
			continue
		}
		seen[start] = true
		if notRoot[start] {
			continue
		}
		set := reach[start]
		if set == nil {
			continue
		}
		sorted := make([]int, 0, len(set))
		for id := range set {
			sorted = append(sorted, id)
		}
		sort.Ints(sorted)
		out = append(out, sorted)
	}
	return out
}
