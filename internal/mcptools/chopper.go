package mcptools

// --- MCP Tool Input/Output Types ---
// These structs define the JSON schema for each MCP tool's input and
// output. The MCP Go SDK auto-generates JSON schemas from struct tags.

// ChopProgramInput is the input for the chop_program MCP tool. Program is
// the wire-format JSON document produced by vil.EncodeProgram (or authored
// directly against that schema).
type ChopProgramInput struct {
	Program        map[string]any `json:"program" jsonschema:"the vil wire-format program document to chop"`
	Bound          int            `json:"bound,omitempty" jsonschema:"maximum number of sub-programs to return; 0 means unbounded"`
	PenaltyProfile string         `json:"penaltyProfile,omitempty" jsonschema:"default or strict; controls how aggressively merges are preferred"`
}

// ChopProgramOutput is the result of the chop_program MCP tool.
type ChopProgramOutput struct {
	Export *ChopExportView `json:"export"`
	RunID  string          `json:"runId,omitempty" jsonschema:"identifier of this run, for later export_result calls"`
}

// ChopExportView mirrors export.ChopExport so the MCP schema doesn't leak
// the internal export package's types directly.
type ChopExportView struct {
	ExportedAt string               `json:"exportedAt"`
	Metrics    ChopMetricsView      `json:"metrics"`
	Programs   []ChopProgramView    `json:"programs"`
}

// ChopMetricsView mirrors export.MetricsExport.
type ChopMetricsView struct {
	MaxParts    int      `json:"maxParts"`
	TimeSCC     *float64 `json:"timeSCC,omitempty"`
	TimeCutting float64  `json:"timeCutting"`
	TimeMerging float64  `json:"timeMerging"`
}

// ChopProgramView mirrors export.ProgramExport.
type ChopProgramView struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// GetGraphStatsInput is the input for the get_graph_stats MCP tool.
type GetGraphStatsInput struct {
	RunID string `json:"runId" jsonschema:"identifier of a chop run; not used, the counts cover the whole store"`
}

// GetGraphStatsOutput is the result of the get_graph_stats MCP tool.
type GetGraphStatsOutput struct {
	VertexCount     int `json:"vertexCount"`
	EdgeCount       int `json:"edgeCount"`
	ComponentCount  int `json:"componentCount"`
	SubProgramCount int `json:"subProgramCount"`
}

// ExportResultInput is the input for the export_result MCP tool.
type ExportResultInput struct {
	RunID  string `json:"runId" jsonschema:"identifier of a previously persisted chop run"`
	Format string `json:"format,omitempty" jsonschema:"json or mermaid; default json"`
}

// ExportResultOutput is the result of the export_result MCP tool.
type ExportResultOutput struct {
	Format  string `json:"format"`
	Content string `json:"content"`
}
