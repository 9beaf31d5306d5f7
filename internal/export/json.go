// Package export renders a chopper.Result as JSON or a Mermaid diagram,
// for hosts that want to inspect a chop run without walking vil.Program
// values directly.
package export

import (
	"encoding/json"
	"time"

	"github.com/arborist-dev/chopper/internal/chopper"
	"github.com/arborist-dev/chopper/internal/vil"
)

// ChopExport is the top-level JSON export structure for one Chop result.
type ChopExport struct {
	ExportedAt string         `json:"exportedAt"`
	Metrics    MetricsExport  `json:"metrics"`
	Programs   []ProgramExport `json:"programs"`
}

// MetricsExport mirrors chopper.Metrics for JSON serialization.
type MetricsExport struct {
	MaxParts    int      `json:"maxParts"`
	TimeSCC     *float64 `json:"timeSCC,omitempty"`
	TimeCutting float64  `json:"timeCutting"`
	TimeMerging float64  `json:"timeMerging"`
}

// ProgramExport describes one reconstructed sub-program.
type ProgramExport struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// ToJSON renders a chop result to its JSON export structure.
func ToJSON(res *chopper.Result) (*ChopExport, error) {
	exp := &ChopExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Metrics: MetricsExport{
			MaxParts:    res.Metrics.MaxParts,
			TimeSCC:     res.Metrics.TimeSCC,
			TimeCutting: res.Metrics.TimeCutting,
			TimeMerging: res.Metrics.TimeMerging,
		},
	}
	for _, p := range res.Programs {
		exp.Programs = append(exp.Programs, ProgramExport{
			Name:    p.Name,
			Members: memberNames(p),
		})
	}
	return exp, nil
}

// Marshal renders a chop result as indented JSON.
func Marshal(res *chopper.Result) ([]byte, error) {
	exp, err := ToJSON(res)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(exp, "", "  ")
}

func memberNames(p *vil.Program) []string {
	names := make([]string, 0, len(p.Members))
	for _, m := range p.Members {
		names = append(names, m.MemberName())
	}
	return names
}
