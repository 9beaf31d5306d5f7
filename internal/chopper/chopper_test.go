package chopper

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborist-dev/chopper/internal/vil"
)

func memberNames(p *vil.Program) []string {
	var out []string
	for _, m := range p.Members {
		out = append(out, m.MemberName())
	}
	return out
}

func TestChop_TwoIndependentMethods_TwoSubPrograms(t *testing.T) {
	program := &vil.Program{
		Name: "p",
		Members: []vil.Member{
			&vil.Method{
				Name: "A",
				Body: []vil.Stmt{vil.ExprStmt{E: vil.FieldAccessExpr{Field: "f", Receiver: vil.VarExpr{Name: "this"}}}},
			},
			&vil.Method{
				Name: "B",
				Body: []vil.Stmt{vil.ExprStmt{E: vil.FieldAccessExpr{Field: "g", Receiver: vil.VarExpr{Name: "this"}}}},
			},
			&vil.Field{Name: "f", Type: vil.NamedType{Name: "Int"}},
			&vil.Field{Name: "g", Type: vil.NamedType{Name: "Int"}},
		},
	}

	res, err := Chop(program)
	require.NoError(t, err)
	require.Len(t, res.Programs, 2)

	var sets [][]string
	for _, p := range res.Programs {
		sets = append(sets, memberNames(p))
	}
	assert.ElementsMatch(t, [][]string{{"A", "f"}, {"B", "g"}}, sets)
}

func TestChop_CallerPullsOnlySpec(t *testing.T) {
	program := &vil.Program{
		Name: "p",
		Members: []vil.Member{
			&vil.Method{
				Name: "A",
				Pres: []vil.Expr{vil.FieldAccessExpr{Field: "f", Receiver: vil.VarExpr{Name: "this"}}},
				Body: []vil.Stmt{vil.ExprStmt{E: vil.MethodCallExpr{Method: "B"}}},
			},
			&vil.Method{
				Name: "B",
				Pres: []vil.Expr{vil.FieldAccessExpr{Field: "g", Receiver: vil.VarExpr{Name: "this"}}},
				Body: []vil.Stmt{},
			},
			&vil.Field{Name: "f", Type: vil.NamedType{Name: "Int"}},
			&vil.Field{Name: "g", Type: vil.NamedType{Name: "Int"}},
		},
	}

	res, err := Chop(program)
	require.NoError(t, err)
	require.Len(t, res.Programs, 2)

	var aProgram *vil.Program
	for _, p := range res.Programs {
		for _, m := range p.Members {
			if m.MemberName() == "A" {
				aProgram = p
			}
		}
	}
	require.NotNil(t, aProgram)

	names := memberNames(aProgram)
	assert.Contains(t, names, "A")
	assert.Contains(t, names, "f")
	assert.Contains(t, names, "g")
	assert.Contains(t, names, "B")

	var bInA *vil.Method
	for _, m := range aProgram.Members {
		if mm, ok := m.(*vil.Method); ok && mm.Name == "B" {
			bInA = mm
		}
	}
	require.NotNil(t, bInA)
	assert.Nil(t, bInA.Body, "A's sub-program sees only B's spec, not its body")
}

func TestChop_FoldForcesPredicateBody(t *testing.T) {
	program := &vil.Program{
		Name: "p",
		Members: []vil.Member{
			&vil.Method{
				Name: "A",
				Body: []vil.Stmt{vil.Fold{Predicate: "P"}},
			},
			&vil.Predicate{Name: "P", Body: vil.Lit{Value: "true"}},
		},
	}

	res, err := Chop(program)
	require.NoError(t, err)
	require.Len(t, res.Programs, 1)

	var p *vil.Predicate
	for _, m := range res.Programs[0].Members {
		if pp, ok := m.(*vil.Predicate); ok {
			p = pp
		}
	}
	require.NotNil(t, p)
	assert.NotNil(t, p.Body, "fold must pull the predicate's full body")
}

func TestChop_BoundMergesLightest(t *testing.T) {
	// Three isolated, equal-weight predicates (PredicateBody, weight 10):
	// merges between any pair carry the same positive price, so the bound
	// alone decides the merge count, exercising the non-forced path.
	program := &vil.Program{
		Name: "p",
		Members: []vil.Member{
			&vil.Predicate{Name: "P", Body: vil.Lit{Value: "true"}},
			&vil.Predicate{Name: "Q", Body: vil.Lit{Value: "true"}},
			&vil.Predicate{Name: "R", Body: vil.Lit{Value: "true"}},
		},
	}

	res, err := Chop(program, WithBound(2))
	require.NoError(t, err)
	assert.Len(t, res.Programs, 2)
}

func TestChop_CycleUnderSCC_OneSubProgram(t *testing.T) {
	program := &vil.Program{
		Name: "p",
		Members: []vil.Member{
			&vil.Function{
				Name: "f",
				Body: vil.BinaryExpr{Op: "+", Left: vil.FuncAppExpr{Function: "f"}, Right: vil.Lit{Value: "1"}},
			},
			&vil.Function{
				Name: "g",
				Pres: []vil.Expr{vil.BinaryExpr{Op: "==", Left: vil.FuncAppExpr{Function: "f"}, Right: vil.Lit{Value: "0"}}},
				Body: vil.Lit{Value: "0"},
			},
			&vil.Method{Name: "A", Body: []vil.Stmt{}}, // third important node so SCC path runs
		},
	}

	res, err := Chop(program)
	require.NoError(t, err)

	// g requires f, so f and g land together in exactly one sub-program.
	var fgPrograms int
	for _, p := range res.Programs {
		var hasF, hasG bool
		for _, m := range p.Members {
			hasF = hasF || m.MemberName() == "f"
			hasG = hasG || m.MemberName() == "g"
		}
		if hasF || hasG {
			fgPrograms++
			assert.True(t, hasF && hasG, "f and g must share one sub-program")
		}
	}
	assert.Equal(t, 1, fgPrograms)
}

func TestChop_AxiomWithNoReferences_AlwaysIncluded(t *testing.T) {
	program := &vil.Program{
		Name: "p",
		Members: []vil.Member{
			&vil.Method{Name: "A", Body: []vil.Stmt{}},
			&vil.Domain{
				Name: "D",
				Axioms: []vil.DomainAxiomDecl{
					{ID: "ax1", Exp: vil.Lit{Value: "true"}},
				},
			},
		},
	}

	res, err := Chop(program)
	require.NoError(t, err)
	require.Len(t, res.Programs, 1, "an Always-only axiom shares every sub-program's single root")

	var hasDomain bool
	for _, m := range res.Programs[0].Members {
		if d, ok := m.(*vil.Domain); ok && d.Name == "D" {
			hasDomain = true
			require.Len(t, d.Axioms, 1)
		}
	}
	assert.True(t, hasDomain)
}

func TestChop_EmptyProgram_EmptyOutput(t *testing.T) {
	res, err := Chop(&vil.Program{Name: "p"})
	require.NoError(t, err)
	assert.Empty(t, res.Programs)
	assert.Equal(t, 0, res.Metrics.MaxParts)
}

func TestChop_NegativeBound_ArgumentError(t *testing.T) {
	_, err := Chop(&vil.Program{Name: "p"}, WithBound(-1))
	assert.ErrorIs(t, err, ErrInvalidBound)
}

func TestChop_WithLogger_WritesOneSummaryLine(t *testing.T) {
	var buf bytes.Buffer
	program := &vil.Program{Name: "p", Members: []vil.Member{&vil.Method{Name: "A", Body: []vil.Stmt{}}}}

	_, err := Chop(program, WithLogger(log.New(&buf, "", 0)))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "chop:")
}

func TestChop_WithNilLogger_Silent(t *testing.T) {
	program := &vil.Program{Name: "p", Members: []vil.Member{&vil.Method{Name: "A", Body: []vil.Stmt{}}}}
	res, err := Chop(program, WithLogger(nil))
	require.NoError(t, err)
	require.Len(t, res.Programs, 1)
}

func TestChop_DuplicateSelection_NoDuplicateOutputs(t *testing.T) {
	program := &vil.Program{
		Name: "p",
		Members: []vil.Member{
			&vil.Method{Name: "A", Body: []vil.Stmt{}},
		},
	}
	res, err := Chop(program)
	require.NoError(t, err)
	assert.Len(t, res.Programs, 1)
}
