package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/arborist-dev/chopper/internal/chopper"
	"github.com/arborist-dev/chopper/internal/export"
	"github.com/arborist-dev/chopper/internal/graphstore"
	"github.com/arborist-dev/chopper/internal/penalty"
	"github.com/arborist-dev/chopper/internal/vertex"
	"github.com/arborist-dev/chopper/internal/vil"
)

// ChopperService holds the run history and graph store used by MCP tool
// handlers. Each chop_program call records its result in memory under a new
// run id, which later export_result calls reference. When a store is
// configured, the call also writes one sub-program row per returned
// sub-program (its position in the run and its member names); no vertex,
// edge or component rows, vertex ids or run id are written.
type ChopperService struct {
	store graphstore.Store

	mu      sync.Mutex
	nextRun int
	results map[string]*chopper.Result
}

// NewChopperService creates a ChopperService backed by the given store.
func NewChopperService(store graphstore.Store) *ChopperService {
	return &ChopperService{store: store, results: make(map[string]*chopper.Result)}
}

// ChopProgram decodes the wire-format program, runs the chopper, persists
// the run, and returns its export view.
func (s *ChopperService) ChopProgram(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChopProgramInput,
) (*mcp.CallToolResult, ChopProgramOutput, error) {
	raw, err := json.Marshal(input.Program)
	if err != nil {
		return nil, ChopProgramOutput{}, fmt.Errorf("marshal program: %w", err)
	}
	program, err := vil.DecodeProgram(raw)
	if err != nil {
		return nil, ChopProgramOutput{}, fmt.Errorf("decode program: %w", err)
	}

	var opts []chopper.Option
	if input.Bound != 0 {
		opts = append(opts, chopper.WithBound(input.Bound))
	}
	if input.PenaltyProfile == "strict" {
		opts = append(opts, chopper.WithPenalty(strictPenalty()))
	}

	res, err := chopper.Chop(program, opts...)
	if err != nil {
		return nil, ChopProgramOutput{}, fmt.Errorf("chop: %w", err)
	}

	exp, err := export.ToJSON(res)
	if err != nil {
		return nil, ChopProgramOutput{}, fmt.Errorf("export: %w", err)
	}

	runID := s.recordRun(res)
	if s.store != nil {
		if err := s.persist(ctx, runID, res); err != nil {
			return nil, ChopProgramOutput{}, fmt.Errorf("persist run: %w", err)
		}
	}

	return nil, ChopProgramOutput{Export: toView(exp), RunID: runID}, nil
}

// GetGraphStats reports the row counts of the configured store. input.RunID
// is not used: the counts cover everything persisted so far, across runs.
func (s *ChopperService) GetGraphStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetGraphStatsInput,
) (*mcp.CallToolResult, GetGraphStatsOutput, error) {
	if s.store == nil {
		return nil, GetGraphStatsOutput{}, fmt.Errorf("no graph store configured")
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, GetGraphStatsOutput{}, fmt.Errorf("stats: %w", err)
	}
	return nil, GetGraphStatsOutput{
		VertexCount:     stats.VertexCount,
		EdgeCount:       stats.EdgeCount,
		ComponentCount:  stats.ComponentCount,
		SubProgramCount: stats.SubProgramCount,
	}, nil
}

// ExportResult renders a prior chop run as JSON or a Mermaid diagram.
func (s *ChopperService) ExportResult(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ExportResultInput,
) (*mcp.CallToolResult, ExportResultOutput, error) {
	s.mu.Lock()
	res, ok := s.results[input.RunID]
	s.mu.Unlock()
	if !ok {
		return nil, ExportResultOutput{}, fmt.Errorf("unknown runId %q", input.RunID)
	}

	format := input.Format
	if format == "" {
		format = "json"
	}

	switch format {
	case "json":
		data, err := export.Marshal(res)
		if err != nil {
			return nil, ExportResultOutput{}, fmt.Errorf("marshal: %w", err)
		}
		return nil, ExportResultOutput{Format: format, Content: string(data)}, nil
	case "mermaid":
		return nil, ExportResultOutput{Format: format, Content: export.GenerateMermaid(res)}, nil
	default:
		return nil, ExportResultOutput{}, fmt.Errorf("unsupported format %q", format)
	}
}

func (s *ChopperService) recordRun(res *chopper.Result) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextRun++
	id := fmt.Sprintf("run-%d", s.nextRun)
	s.results[id] = res
	return id
}

func (s *ChopperService) persist(ctx context.Context, runID string, res *chopper.Result) error {
	if err := s.store.InitSchema(ctx); err != nil {
		return err
	}
	for i, p := range res.Programs {
		members := make([]string, 0, len(p.Members))
		for _, m := range p.Members {
			members = append(members, m.MemberName())
		}
		if err := s.store.AddSubProgram(ctx, graphstore.SubProgramRow{Index: i, Members: members}); err != nil {
			return err
		}
	}
	return nil
}

func strictPenalty() penalty.Penalty[vertex.Vertex] {
	return penalty.ContravariantLift[vertex.Vertex, penalty.VertexKind](
		penalty.Strict[penalty.VertexKind]{Base: penalty.Default{}},
		func(v vertex.Vertex) penalty.VertexKind { return penalty.VertexKind(v.Kind) },
	)
}

func toView(exp *export.ChopExport) *ChopExportView {
	v := &ChopExportView{
		ExportedAt: exp.ExportedAt,
		Metrics: ChopMetricsView{
			MaxParts:    exp.Metrics.MaxParts,
			TimeSCC:     exp.Metrics.TimeSCC,
			TimeCutting: exp.Metrics.TimeCutting,
			TimeMerging: exp.Metrics.TimeMerging,
		},
	}
	for _, p := range exp.Programs {
		v.Programs = append(v.Programs, ChopProgramView{Name: p.Name, Members: p.Members})
	}
	return v
}
