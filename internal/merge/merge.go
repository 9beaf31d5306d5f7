// Package merge implements the bound-driven greedy merger: starting from
// one sub-program per root, it repeatedly merges the cheapest pair of
// sub-programs — by penalty.MergePenalty over their exclusive/shared
// weight — until the bound is satisfied and no merge with price <= 0
// remains.
package merge

import (
	"container/heap"
	"sort"

	"github.com/arborist-dev/chopper/internal/penalty"
)

// Weighted pairs an element with its price, pre-computed so the merger
// never calls Penalty.Price during the hot merge loop.
type Weighted[T any] struct {
	Elem   T
	Weight int
}

// Program is one sorted sub-program: an ascending list of weighted
// elements, keyed by cmp for merge comparisons.
type Program[T any] []Weighted[T]

// candidate is one queued merge opportunity: a pair of live set keys and
// the already-computed result of merging them. seq records insertion order
// so that equal-price entries break ties with "earliest-inserted wins",
// keeping the merge order deterministic.
type candidate[T any] struct {
	price  int
	seq    int
	left   int
	right  int
	merged Program[T]
}

// candidateHeap is a container/heap min-heap over (candidate.price, seq),
// giving "smallest price popped first, ties broken by insertion order".
type candidateHeap[T any] []*candidate[T]

func (h candidateHeap[T]) Len() int { return len(h) }
func (h candidateHeap[T]) Less(i, j int) bool {
	if h[i].price != h[j].price {
		return h[i].price < h[j].price
	}
	return h[i].seq < h[j].seq
}
func (h candidateHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap[T]) Push(x any)         { *h = append(*h, x.(*candidate[T])) }
func (h *candidateHeap[T]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Merge runs the priority-queue greedy merger over the initial sorted
// sub-programs, with cmp comparing the key field the lists are sorted by
// (typically element identity, e.g. a node id), until the set count is at
// most bound and no forced (price <= 0) merge remains. bound <= 0 is
// treated as unbounded (never stop merging purely on count).
func Merge[T any](programs []Program[T], bound int, pen penalty.Penalty[T], cmp func(a, b T) int) []Program[T] {
	sets := make(map[int]Program[T], len(programs))
	counter := 0
	for _, p := range programs {
		sets[counter] = p
		counter++
	}

	h := &candidateHeap[T]{}
	heap.Init(h)

	nextSeq := 0
	enqueuePair := func(l, r int) {
		price, merged := penaltyAndMerge(sets[l], sets[r], pen, cmp)
		heap.Push(h, &candidate[T]{price: price, seq: nextSeq, left: l, right: r, merged: merged})
		nextSeq++
	}

	keys := make([]int, 0, len(sets))
	for k := range sets {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			enqueuePair(keys[i], keys[j])
		}
	}

	alive := func(k int) bool {
		_, ok := sets[k]
		return ok
	}

	for h.Len() > 0 {
		var top *candidate[T]
		for h.Len() > 0 {
			c := (*h)[0]
			if alive(c.left) && alive(c.right) {
				top = c
				break
			}
			heap.Pop(h)
		}
		if top == nil {
			break
		}
		// Continue only if this merge is forced (price <= 0) or the set
		// count still exceeds the bound; bound <= 0 means unbounded, so
		// only forced merges apply in that case.
		overBound := bound > 0 && len(sets) > bound
		if top.price > 0 && !overBound {
			break
		}

		heap.Pop(h)
		delete(sets, top.left)
		delete(sets, top.right)
		newKey := counter
		counter++
		sets[newKey] = top.merged

		for k := range sets {
			if k == newKey {
				continue
			}
			enqueuePair(k, newKey)
		}
	}

	out := make([]Program[T], 0, len(sets))
	outKeys := make([]int, 0, len(sets))
	for k := range sets {
		outKeys = append(outKeys, k)
	}
	sort.Ints(outKeys)
	for _, k := range outKeys {
		out = append(out, sets[k])
	}
	return out
}

// penaltyAndMerge merges two ascending lists in one pass, partitioning
// weight into leftExclusive/rightExclusive/shared buckets, and returns the
// resulting merge penalty plus the ascending merged list (shared entries
// keep the left side's weight by convention).
func penaltyAndMerge[T any](l, r Program[T], pen penalty.Penalty[T], cmp func(a, b T) int) (int, Program[T]) {
	var leftExclusive, rightExclusive, shared int
	merged := make(Program[T], 0, len(l)+len(r))

	i, j := 0, 0
	for i < len(l) && j < len(r) {
		c := cmp(l[i].Elem, r[j].Elem)
		switch {
		case c < 0:
			leftExclusive += l[i].Weight
			merged = append(merged, l[i])
			i++
		case c > 0:
			rightExclusive += r[j].Weight
			merged = append(merged, r[j])
			j++
		default:
			shared += l[i].Weight
			merged = append(merged, l[i])
			i++
			j++
		}
	}
	for ; i < len(l); i++ {
		leftExclusive += l[i].Weight
		merged = append(merged, l[i])
	}
	for ; j < len(r); j++ {
		rightExclusive += r[j].Weight
		merged = append(merged, r[j])
	}

	return pen.MergePenalty(leftExclusive, rightExclusive, shared), merged
}
