// Package chopper orchestrates the full partitioning pipeline: build the
// dependency graph, route to the acyclic or cyclic cut variant depending on
// the selected-node count, greedily merge under the supplied bound, and
// reconstruct each surviving vertex set back into a vil.Program.
package chopper

import (
	"log"
	"math"
	"sort"
	"time"

	"github.com/arborist-dev/chopper/internal/cut"
	"github.com/arborist-dev/chopper/internal/depgraph"
	"github.com/arborist-dev/chopper/internal/merge"
	"github.com/arborist-dev/chopper/internal/penalty"
	"github.com/arborist-dev/chopper/internal/reconstruct"
	"github.com/arborist-dev/chopper/internal/scc"
	"github.com/arborist-dev/chopper/internal/vertex"
	"github.com/arborist-dev/chopper/internal/vil"
)

// sccShortCircuit is the important-node-count threshold at or below which the SCC
// condensation is skipped in favor of the cyclic cut variant directly: SCC
// setup cost dominates for tiny graphs.
const sccShortCircuit = 2

// Metrics reports the shape and timing of one Chop call.
type Metrics struct {
	MaxParts    int      // pre-merge sub-program count
	TimeSCC     *float64 // nil when the SCC path was skipped
	TimeCutting float64
	TimeMerging float64
}

// Result is the output of one Chop call.
type Result struct {
	Programs []*vil.Program
	Metrics  Metrics
}

// Config holds the resolved options for a Chop call.
type Config struct {
	Isolate depgraph.IsolateFunc
	// Bound is the upper bound on returned sub-programs; nil means
	// unbounded (return the minimal set after forced merges only).
	Bound   *int
	Penalty penalty.Penalty[vertex.Vertex]
	// Logger receives a one-line summary of each Chop call's routing
	// decision, part counts, and timings. Chop defaults it to
	// log.Default(); nil disables logging entirely.
	Logger *log.Logger
}

// Option configures a Chop call.
type Option func(*Config)

// WithIsolate overrides the default important-member selector.
func WithIsolate(f depgraph.IsolateFunc) Option {
	return func(c *Config) { c.Isolate = f }
}

// WithBound sets an explicit upper bound on the number of sub-programs
// returned. A non-positive bound is rejected by Chop with ErrInvalidBound.
func WithBound(b int) Option {
	return func(c *Config) { c.Bound = &b }
}

// WithPenalty overrides the default vertex-kind scoring table.
func WithPenalty(p penalty.Penalty[vertex.Vertex]) Option {
	return func(c *Config) { c.Penalty = p }
}

// WithLogger overrides the default routing-summary logger. Pass nil to
// silence logging entirely.
func WithLogger(l *log.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// defaultPenalty lifts penalty.Default (scored by penalty.VertexKind) onto
// vertex.Vertex; the two enums share ordinal order by construction.
func defaultPenalty() penalty.Penalty[vertex.Vertex] {
	return penalty.ContravariantLift[vertex.Vertex, penalty.VertexKind](penalty.Default{}, func(v vertex.Vertex) penalty.VertexKind {
		return penalty.VertexKind(v.Kind)
	})
}

// Chop partitions program into bounded, self-contained sub-programs: every
// selected member ends up in exactly one returned sub-program together
// with everything it transitively requires.
func Chop(program *vil.Program, opts ...Option) (*Result, error) {
	cfg := &Config{Isolate: depgraph.DefaultIsolate, Penalty: defaultPenalty(), Logger: log.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Bound != nil && *cfg.Bound <= 0 {
		return nil, ErrInvalidBound
	}

	graph, err := depgraph.Build(program.Members, cfg.Isolate)
	if err != nil {
		return nil, err
	}

	if len(graph.ImportantNodes) == 0 {
		return &Result{}, nil
	}

	var subProgramIDs [][]int
	var timeSCC *float64
	var timeCutting float64

	if len(graph.ImportantNodes) <= sccShortCircuit {
		start := time.Now()
		subProgramIDs = cut.Cyclic(graph.N, graph.ImportantNodes, graph.Edges)
		timeCutting = time.Since(start).Seconds()
	} else {
		sccStart := time.Now()
		cond := scc.Condense(graph.N, graph.Edges)
		t := round2(time.Since(sccStart).Seconds())
		timeSCC = &t

		compImportant := make([]int, len(graph.ImportantNodes))
		for i, id := range graph.ImportantNodes {
			compImportant[i] = cond.ComponentOf(id)
		}

		cutStart := time.Now()
		compLists := cut.Acyclic(len(cond.Components), compImportant, cond.Edges)
		timeCutting = time.Since(cutStart).Seconds()

		for _, compList := range compLists {
			var nodeIDs []int
			for _, ci := range compList {
				nodeIDs = append(nodeIDs, cond.Components[ci].Nodes...)
			}
			sort.Ints(nodeIDs)
			subProgramIDs = append(subProgramIDs, nodeIDs)
		}
	}

	maxParts := len(subProgramIDs)

	preMergeUnion := make(map[int]bool)
	for _, ids := range subProgramIDs {
		for _, id := range ids {
			preMergeUnion[id] = true
		}
	}

	progs := make([]merge.Program[int], len(subProgramIDs))
	for i, ids := range subProgramIDs {
		p := make(merge.Program[int], len(ids))
		for j, id := range ids {
			p[j] = merge.Weighted[int]{Elem: id, Weight: cfg.Penalty.Price(graph.ToVertex(id))}
		}
		progs[i] = p
	}

	idPenalty := penalty.ContravariantLift[int, vertex.Vertex](cfg.Penalty, func(id int) vertex.Vertex {
		return graph.ToVertex(id)
	})

	bound := 0
	if cfg.Bound != nil {
		bound = *cfg.Bound
	}

	mergeStart := time.Now()
	merged := merge.Merge(progs, bound, idPenalty, func(a, b int) int { return a - b })
	timeMerging := time.Since(mergeStart).Seconds()

	if err := verifySafety(graph.ImportantNodes, preMergeUnion, merged); err != nil {
		return nil, err
	}

	idx := reconstruct.BuildIndex(program)
	outPrograms := make([]*vil.Program, 0, len(merged))
	for _, p := range merged {
		verts := make([]vertex.Vertex, len(p))
		for i, w := range p {
			verts[i] = graph.ToVertex(w.Elem)
		}
		sub, err := reconstruct.Inverse(program, idx, verts)
		if err != nil {
			return nil, err
		}
		outPrograms = append(outPrograms, sub)
	}

	metrics := Metrics{
		MaxParts:    maxParts,
		TimeSCC:     timeSCC,
		TimeCutting: round2(timeCutting),
		TimeMerging: round2(timeMerging),
	}

	if cfg.Logger != nil {
		sccState := "skipped"
		if timeSCC != nil {
			sccState = "ran"
		}
		cfg.Logger.Printf("chop: scc=%s maxParts=%d parts=%d timeCutting=%.2fs timeMerging=%.2fs",
			sccState, maxParts, len(outPrograms), metrics.TimeCutting, metrics.TimeMerging)
	}

	return &Result{Programs: outPrograms, Metrics: metrics}, nil
}

// verifySafety checks that every pre-merge id survives into the merged
// output, and that every originally selected id appears in at least one
// returned sub-program.
func verifySafety(importantNodes []int, preMergeUnion map[int]bool, merged []merge.Program[int]) error {
	postUnion := make(map[int]bool)
	for _, p := range merged {
		for _, w := range p {
			postUnion[w.Elem] = true
		}
	}
	for id := range preMergeUnion {
		if !postUnion[id] {
			return ErrInconsistentResult
		}
	}
	for _, id := range importantNodes {
		if !postUnion[id] {
			return ErrInconsistentResult
		}
	}
	return nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
