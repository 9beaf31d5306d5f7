package vil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeProgram_RoundTrips(t *testing.T) {
	p := &Program{
		Name: "P",
		Info: "src.vil:1",
		Members: []Member{
			&Method{
				Name:    "A",
				Pres:    []Expr{VarExpr{Name: "x"}},
				Formals: []Type{NamedType{Name: "Int"}},
				Body: []Stmt{
					ExprStmt{E: MethodCallExpr{Method: "B", Args: []Expr{Lit{Value: "1"}}}},
					Fold{Predicate: "P", Args: []Expr{VarExpr{Name: "y"}}},
					If{
						Cond: BinaryExpr{Op: "==", Left: VarExpr{Name: "x"}, Right: Lit{Value: "0"}},
						Then: Seq{Stmts: []Stmt{Assign{LHS: VarExpr{Name: "x"}, RHS: Lit{Value: "1"}}}},
						Else: Seq{},
					},
				},
			},
			&Function{
				Name: "f",
				Body: FuncAppExpr{Function: "g", Args: []Expr{DomainFuncAppExpr{Domain: "D", Function: "h"}}},
			},
			&Predicate{Name: "Q"},
			&Field{Name: "fld", Type: DomainTypeRef{Domain: "Set", Args: TypeArgMap{"T": "Int"}}},
			&Domain{
				Name:      "D",
				Functions: []DomainFunctionDecl{{Name: "h", Result: NamedType{Name: "Int"}}},
				Axioms:    []DomainAxiomDecl{{ID: "ax1", Exp: Lit{Value: "true"}}},
			},
		},
	}

	data, err := EncodeProgram(p)
	require.NoError(t, err)

	got, err := DecodeProgram(data)
	require.NoError(t, err)

	require.Len(t, got.Members, 5)
	assert.Equal(t, "P", got.Name)

	a, ok := got.Members[0].(*Method)
	require.True(t, ok)
	assert.Equal(t, "A", a.Name)
	require.Len(t, a.Body, 3)
	_, isExprStmt := a.Body[0].(ExprStmt)
	assert.True(t, isExprStmt)

	f, ok := got.Members[1].(*Function)
	require.True(t, ok)
	app, ok := f.Body.(FuncAppExpr)
	require.True(t, ok)
	assert.Equal(t, "g", app.Function)

	q, ok := got.Members[2].(*Predicate)
	require.True(t, ok)
	assert.Nil(t, q.Body)

	fld, ok := got.Members[3].(*Field)
	require.True(t, ok)
	ref, ok := fld.Type.(DomainTypeRef)
	require.True(t, ok)
	assert.Equal(t, "Set", ref.Domain)

	dom, ok := got.Members[4].(*Domain)
	require.True(t, ok)
	require.Len(t, dom.Axioms, 1)
	assert.Equal(t, "ax1", dom.Axioms[0].ID)
}

func TestDecodeProgram_UnknownMemberKind_Errors(t *testing.T) {
	_, err := DecodeProgram([]byte(`{"name":"P","members":[{"kind":"Bogus","name":"x"}]}`))
	assert.Error(t, err)
}

func TestEncodeDecodeProgram_NilMethodBody_StaysNil(t *testing.T) {
	p := &Program{Name: "P", Members: []Member{&Method{Name: "Abstract", Body: nil}}}
	data, err := EncodeProgram(p)
	require.NoError(t, err)

	got, err := DecodeProgram(data)
	require.NoError(t, err)

	m := got.Members[0].(*Method)
	assert.Nil(t, m.Body)
}
