package mcptools

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborist-dev/chopper/internal/graphstore"
	"github.com/arborist-dev/chopper/internal/vil"
)

// setupServerClient wires an MCP server and client together using
// in-memory transports. It returns the connected client session and the
// underlying ChopperService so tests can inspect state when needed.
func setupServerClient(t *testing.T) (*mcp.ClientSession, *ChopperService) {
	t.Helper()

	svc := NewChopperService(graphstore.NewMemStore())
	server := NewChopperMCPServer(svc)

	st, ct := mcp.NewInMemoryTransports()
	ctx := context.Background()

	_, err := server.Connect(ctx, st, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		session.Close()
	})

	return session, svc
}

func samplePayload(t *testing.T) map[string]any {
	t.Helper()
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
	return payload
}

func TestMCPListTools(t *testing.T) {
	session, _ := setupServerClient(t)
	ctx := context.Background()

	result, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	require.NoError(t, err)

	require.Len(t, result.Tools, 3, "expected 3 registered tools")

	names := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		names[i] = tool.Name
	}
	sort.Strings(names)

	expected := []string{"chop_program", "export_result", "get_graph_stats"}
	assert.Equal(t, expected, names)
}

func TestMCPChopProgram(t *testing.T) {
	session, _ := setupServerClient(t)
	ctx := context.Background()

	args := ChopProgramInput{Program: samplePayload(t)}

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "chop_program",
		Arguments: args,
	})
	require.NoError(t, err)
	require.False(t, result.IsError, "chop_program should not return an error")

	require.NotNil(t, result.StructuredContent)

	raw, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)

	var output ChopProgramOutput
	require.NoError(t, json.Unmarshal(raw, &output))

	require.NotNil(t, output.Export)
	assert.Len(t, output.Export.Programs, 2)
	assert.NotEmpty(t, output.RunID)
}

func TestMCPExportResult_UnknownRun_IsError(t *testing.T) {
	session, _ := setupServerClient(t)
	ctx := context.Background()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "export_result",
		Arguments: ExportResultInput{RunID: "does-not-exist"},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestMCPCallUnknownTool(t *testing.T) {
	session, _ := setupServerClient(t)
	ctx := context.Background()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "nonexistent_tool",
		Arguments: map[string]any{},
	})

	if err != nil {
		return
	}

	require.NotNil(t, result)
	assert.True(t, result.IsError, "calling an unknown tool should set IsError")
}
