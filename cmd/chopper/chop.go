package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/arborist-dev/chopper/internal/chopper"
	"github.com/arborist-dev/chopper/internal/depgraph"
	"github.com/arborist-dev/chopper/internal/export"
	"github.com/arborist-dev/chopper/internal/penalty"
	"github.com/arborist-dev/chopper/internal/vertex"
	"github.com/arborist-dev/chopper/internal/vil"
)

// runChop reads a vil wire-format program, chops it, and writes the
// requested export format to rc.Output (or stdout).
func runChop(rc *resolvedConfig) error {
	if rc.Input == "" {
		return fmt.Errorf("--input is required (path to a vil wire-format program JSON file)")
	}

	data, err := os.ReadFile(rc.Input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	program, err := vil.DecodeProgram(data)
	if err != nil {
		return fmt.Errorf("decode program: %w", err)
	}

	opts, err := chopOptions(rc)
	if err != nil {
		return err
	}

	res, err := chopper.Chop(program, opts...)
	if err != nil {
		return fmt.Errorf("chop: %w", err)
	}

	if rc.Verbose {
		fmt.Fprintf(os.Stderr, "maxParts=%d timeCutting=%.2fs timeMerging=%.2fs\n",
			res.Metrics.MaxParts, res.Metrics.TimeCutting, res.Metrics.TimeMerging)
	}

	var out []byte
	switch rc.Format {
	case "json":
		out, err = export.Marshal(res)
	case "mermaid":
		out = []byte(export.GenerateMermaid(res))
	default:
		return fmt.Errorf("unsupported format %q (want json or mermaid)", rc.Format)
	}
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if rc.Output == "" {
		_, err = os.Stdout.Write(append(out, '\n'))
		return err
	}
	return os.WriteFile(rc.Output, append(out, '\n'), 0o644)
}

func chopOptions(rc *resolvedConfig) ([]chopper.Option, error) {
	var opts []chopper.Option

	if rc.Bound > 0 {
		opts = append(opts, chopper.WithBound(rc.Bound))
	}

	switch rc.PenaltyProfile {
	case "", "default":
	case "strict":
		opts = append(opts, chopper.WithPenalty(strictPenalty()))
	default:
		return nil, fmt.Errorf("unsupported penalty profile %q (want default or strict)", rc.PenaltyProfile)
	}

	if rc.IsolateKinds != "" {
		isolate, err := isolateFromKinds(rc.IsolateKinds)
		if err != nil {
			return nil, err
		}
		opts = append(opts, chopper.WithIsolate(isolate))
	}

	return opts, nil
}

func strictPenalty() penalty.Penalty[vertex.Vertex] {
	base := penalty.ContravariantLift[vertex.Vertex, penalty.VertexKind](penalty.Default{}, func(v vertex.Vertex) penalty.VertexKind {
		return penalty.VertexKind(v.Kind)
	})
	return penalty.Strict[vertex.Vertex]{Base: base}
}

// isolateFromKinds builds an IsolateFunc selecting only the named member
// kinds (a subset of Method, Function, Predicate).
func isolateFromKinds(csv string) (depgraph.IsolateFunc, error) {
	want := make(map[string]bool)
	for _, k := range strings.Split(csv, ",") {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		switch k {
		case "Method", "Function", "Predicate":
			want[k] = true
		default:
			return nil, fmt.Errorf("unsupported isolate kind %q (want Method, Function, or Predicate)", k)
		}
	}
	return func(m vil.Member) bool {
		switch m.(type) {
		case *vil.Method:
			return want["Method"]
		case *vil.Function:
			return want["Function"]
		case *vil.Predicate:
			return want["Predicate"]
		default:
			return false
		}
	}, nil
}
