package mcptools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborist-dev/chopper/internal/graphstore"
	"github.com/arborist-dev/chopper/internal/vil"
)

func TestChopProgram_TwoIndependentMethods_ReturnsTwoSubPrograms(t *testing.T) {
	svc := NewChopperService(graphstore.NewMemStore())
	ctx := context.Background()

	program := &vil.Program{
		Name: "P",
		Members: []vil.Member{
			&vil.Method{Name: "A", Body: []vil.Stmt{vil.ExprStmt{E: vil.FieldAccessExpr{Field: "f", Receiver: vil.VarExpr{Name: "this"}}}}},
			&vil.Method{Name: "B", Body: []vil.Stmt{vil.ExprStmt{E: vil.FieldAccessExpr{Field: "g", Receiver: vil.VarExpr{Name: "this"}}}}},
			&vil.Field{Name: "f", Type: vil.NamedType{Name: "Int"}},
			&vil.Field{Name: "g", Type: vil.NamedType{Name: "Int"}},
		},
	}
	data, err := vil.EncodeProgram(program)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(data, &payload))

	_, out, err := svc.ChopProgram(ctx, nil, ChopProgramInput{Program: payload})
	require.NoError(t, err)
	require.NotNil(t, out.Export)
	assert.Len(t, out.Export.Programs, 2)
	assert.NotEmpty(t, out.RunID)
}

func TestChopProgram_InvalidBound_ReturnsError(t *testing.T) {
	svc := NewChopperService(graphstore.NewMemStore())
	ctx := context.Background()

	program := &vil.Program{Members: []vil.Member{&vil.Method{Name: "A", Body: []vil.Stmt{}}}}
	data, err := vil.EncodeProgram(program)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(data, &payload))

	_, _, err = svc.ChopProgram(ctx, nil, ChopProgramInput{Program: payload, Bound: -1})
	assert.Error(t, err)
}

func TestGetGraphStats_NoStore_ReturnsError(t *testing.T) {
	svc := NewChopperService(nil)
	_, _, err := svc.GetGraphStats(context.Background(), nil, GetGraphStatsInput{RunID: "run-1"})
	assert.Error(t, err)
}

func TestExportResult_JSONAndMermaid(t *testing.T) {
	svc := NewChopperService(graphstore.NewMemStore())
	ctx := context.Background()

	program := &vil.Program{
		Name:    "P",
		Members: []vil.Member{&vil.Method{Name: "A", Body: []vil.Stmt{}}},
	}
	data, err := vil.EncodeProgram(program)
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(data, &payload))

	_, chopOut, err := svc.ChopProgram(ctx, nil, ChopProgramInput{Program: payload})
	require.NoError(t, err)

	_, jsonOut, err := svc.ExportResult(ctx, nil, ExportResultInput{RunID: chopOut.RunID, Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, "json", jsonOut.Format)
	assert.Contains(t, jsonOut.Content, "\"maxParts\"")

	_, mermaidOut, err := svc.ExportResult(ctx, nil, ExportResultInput{RunID: chopOut.RunID, Format: "mermaid"})
	require.NoError(t, err)
	assert.Contains(t, mermaidOut.Content, "graph TD")
}
