package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arborist-dev/chopper/internal/penalty"
)

// fixedPenalty returns a constant MergePenalty regardless of the weight
// buckets, so tests can force or forbid merges deterministically.
type fixedPenalty struct {
	fixed int
}

var _ penalty.Penalty[int] = fixedPenalty{}

func (fixedPenalty) Price(t int) int { return 1 }

func (f fixedPenalty) MergePenalty(leftExclusive, rightExclusive, shared int) int {
	return f.fixed
}

func cmpInt(a, b int) int { return a - b }

func singleton(id int) Program[int] {
	return Program[int]{{Elem: id, Weight: 1}}
}

func TestMerge_BoundForcesMergeDownToBound(t *testing.T) {
	programs := []Program[int]{singleton(1), singleton(2), singleton(3)}
	out := Merge(programs, 1, fixedPenalty{fixed: 5}, cmpInt)
	assert.Len(t, out, 1, "merger must keep merging non-forced pairs until the bound is met")
	assert.Equal(t, Program[int]{{1, 1}, {2, 1}, {3, 1}}, out[0])
}

func TestMerge_UnboundedAndNotForced_NoMerges(t *testing.T) {
	programs := []Program[int]{singleton(1), singleton(2), singleton(3)}
	out := Merge(programs, 0, fixedPenalty{fixed: 5}, cmpInt)
	assert.Len(t, out, 3, "with no bound and no forced merges, sub-programs stay separate")
}

func TestMerge_ForcedMergesAlwaysApplyEvenUnbounded(t *testing.T) {
	programs := []Program[int]{singleton(1), singleton(2), singleton(3)}
	out := Merge(programs, 0, fixedPenalty{fixed: 0}, cmpInt)
	assert.Len(t, out, 1, "price <= 0 merges are forced regardless of bound")
}

func TestMerge_BoundAlreadySatisfied_NoUnnecessaryMerge(t *testing.T) {
	programs := []Program[int]{singleton(1), singleton(2)}
	out := Merge(programs, 5, fixedPenalty{fixed: 5}, cmpInt)
	assert.Len(t, out, 2, "bound already satisfied and no forced merge: leave sub-programs as-is")
}

func TestPenaltyAndMerge_PartitionsSharedWeight(t *testing.T) {
	l := Program[int]{{1, 1}, {2, 1}, {3, 1}}
	r := Program[int]{{2, 1}, {3, 1}, {4, 1}}

	var gotLeft, gotRight, gotShared int
	probe := fixedPenaltyFunc(func(leftExclusive, rightExclusive, shared int) int {
		gotLeft, gotRight, gotShared = leftExclusive, rightExclusive, shared
		return 0
	})

	_, merged := penaltyAndMerge(l, r, probe, cmpInt)

	assert.Equal(t, 1, gotLeft, "element 1 is left-exclusive")
	assert.Equal(t, 1, gotRight, "element 4 is right-exclusive")
	assert.Equal(t, 2, gotShared, "elements 2 and 3 are shared")
	assert.Equal(t, Program[int]{{1, 1}, {2, 1}, {3, 1}, {4, 1}}, merged)
}

type fixedPenaltyFunc func(leftExclusive, rightExclusive, shared int) int

func (fixedPenaltyFunc) Price(t int) int { return 1 }

func (f fixedPenaltyFunc) MergePenalty(leftExclusive, rightExclusive, shared int) int {
	return f(leftExclusive, rightExclusive, shared)
}
