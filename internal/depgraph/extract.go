package depgraph

import (
	"fmt"

	"github.com/arborist-dev/chopper/internal/vertex"
	"github.com/arborist-dev/chopper/internal/vil"
)

// Edge is a directed dependency edge: if Src is included, Dst must be
// included too.
type Edge struct {
	Src vertex.Vertex
	Dst vertex.Vertex
}

// extractMember returns every dependency edge a single member contributes.
func extractMember(m vil.Member) ([]Edge, error) {
	switch mm := m.(type) {
	case *vil.Method:
		return extractMethod(mm)
	case *vil.Function:
		return extractFunction(mm)
	case *vil.Predicate:
		return extractPredicate(mm)
	case *vil.Field:
		return extractField(mm)
	case *vil.Domain:
		return extractDomain(mm)
	case *vil.PluginMember:
		return nil, &vertex.UnsupportedMemberError{Name: mm.Name, Kind: mm.Kind}
	default:
		return nil, &vertex.UnsupportedMemberError{Name: m.MemberName(), Kind: fmt.Sprintf("%T", m)}
	}
}

func extractMethod(m *vil.Method) ([]Edge, error) {
	def, err := vertex.Def(m)
	if err != nil {
		return nil, err
	}
	use, err := vertex.Use(m)
	if err != nil {
		return nil, err
	}

	var edges []Edge

	// def -> everything referenced in body, pre, post, formals.
	refs := usagesStmts(m.Body)
	refs = append(refs, usagesExprs(m.Pres)...)
	refs = append(refs, usagesExprs(m.Posts)...)
	refs = append(refs, usagesTypes(m.Formals)...)
	for _, r := range refs {
		edges = append(edges, Edge{Src: def, Dst: r})
	}

	// use -> everything referenced in pre, post, formals only.
	useRefs := usagesExprs(m.Pres)
	useRefs = append(useRefs, usagesExprs(m.Posts)...)
	useRefs = append(useRefs, usagesTypes(m.Formals)...)
	for _, r := range useRefs {
		edges = append(edges, Edge{Src: use, Dst: r})
	}

	edges = append(edges, alwaysEdges(def, use)...)
	return edges, nil
}

func extractFunction(f *vil.Function) ([]Edge, error) {
	def, err := vertex.Def(f)
	if err != nil {
		return nil, err
	}
	use, err := vertex.Use(f)
	if err != nil {
		return nil, err
	}

	var edges []Edge
	refs := usagesExprs([]vil.Expr{f.Body})
	refs = append(refs, usagesExprs(f.Pres)...)
	refs = append(refs, usagesExprs(f.Posts)...)
	refs = append(refs, usagesTypes(f.Formals)...)
	for _, r := range refs {
		edges = append(edges, Edge{Src: def, Dst: r})
	}
	edges = append(edges, alwaysEdges(def, use)...)
	return edges, nil
}

func extractPredicate(p *vil.Predicate) ([]Edge, error) {
	def, err := vertex.Def(p)
	if err != nil {
		return nil, err
	}
	use, err := vertex.Use(p)
	if err != nil {
		return nil, err
	}

	var edges []Edge

	// def -> references in the predicate body.
	for _, r := range usagesExprs([]vil.Expr{p.Body}) {
		edges = append(edges, Edge{Src: def, Dst: r})
	}
	// def -> use (including the definition pulls the signature).
	edges = append(edges, Edge{Src: def, Dst: use})
	// use -> references in formal args.
	for _, r := range usagesTypes(p.Formals) {
		edges = append(edges, Edge{Src: use, Dst: r})
	}

	edges = append(edges, alwaysEdges(def, use)...)
	return edges, nil
}

func extractField(f *vil.Field) ([]Edge, error) {
	def, err := vertex.Def(f)
	if err != nil {
		return nil, err
	}
	// Fields have no outgoing edges beyond Always. def == use for fields
	// (vertex.Use also returns the Field vertex), so emit Always once.
	return []Edge{{Src: def, Dst: vertex.AlwaysVertex}}, nil
}

func extractDomain(d *vil.Domain) ([]Edge, error) {
	var edges []Edge

	for _, ax := range d.Axioms {
		axVertex := vertex.DomainAxiomVertex(d.Name, ax.ID)
		refs := usagesExprs([]vil.Expr{ax.Exp})
		if len(refs) == 0 {
			edges = append(edges, Edge{Src: vertex.AlwaysVertex, Dst: axVertex})
		} else {
			for _, r := range refs {
				edges = append(edges, Edge{Src: r, Dst: axVertex})
				edges = append(edges, Edge{Src: axVertex, Dst: r})
			}
		}
		edges = append(edges, Edge{Src: axVertex, Dst: vertex.AlwaysVertex})
	}

	for _, fn := range d.Functions {
		fnVertex := vertex.DomainFunctionVertex(d.Name, fn.Name)
		refs := usagesTypes(fn.Formals)
		if fn.Result != nil {
			refs = append(refs, usagesTypes([]vil.Type{fn.Result})...)
		}
		for _, r := range refs {
			edges = append(edges, Edge{Src: fnVertex, Dst: r})
		}
		edges = append(edges, Edge{Src: fnVertex, Dst: vertex.AlwaysVertex})
	}

	for _, inst := range d.Instances {
		tv := vertex.DomainTypeVertex(d.Name, inst.Key())
		edges = append(edges, Edge{Src: tv, Dst: vertex.AlwaysVertex})
	}

	return edges, nil
}

// alwaysEdges returns the universal def -> Always and use -> Always edges
// every member contributes.
func alwaysEdges(def, use vertex.Vertex) []Edge {
	return []Edge{
		{Src: def, Dst: vertex.AlwaysVertex},
		{Src: use, Dst: vertex.AlwaysVertex},
	}
}

// --- usages(node): reference extraction ---

func usagesStmts(stmts []vil.Stmt) []vertex.Vertex {
	var out []vertex.Vertex
	for _, s := range stmts {
		out = append(out, usagesStmt(s)...)
	}
	return out
}

func usagesStmt(s vil.Stmt) []vertex.Vertex {
	if s == nil {
		return nil
	}
	switch st := s.(type) {
	case vil.Seq:
		return usagesStmts(st.Stmts)
	case vil.ExprStmt:
		return usagesExprs([]vil.Expr{st.E})
	case vil.Fold:
		out := []vertex.Vertex{{Kind: vertex.PredicateBody, Key: st.Predicate}}
		out = append(out, usagesExprs(st.Args)...)
		return out
	case vil.Unfold:
		out := []vertex.Vertex{{Kind: vertex.PredicateBody, Key: st.Predicate}}
		out = append(out, usagesExprs(st.Args)...)
		return out
	case vil.If:
		out := usagesExprs([]vil.Expr{st.Cond})
		out = append(out, usagesStmts(st.Then.Stmts)...)
		out = append(out, usagesStmts(st.Else.Stmts)...)
		return out
	case vil.While:
		out := usagesExprs([]vil.Expr{st.Cond})
		out = append(out, usagesExprs(st.Invariants)...)
		out = append(out, usagesStmts(st.Body.Stmts)...)
		return out
	case vil.Assign:
		out := usagesExprs([]vil.Expr{st.LHS})
		out = append(out, usagesExprs([]vil.Expr{st.RHS})...)
		return out
	default:
		return nil
	}
}

func usagesExprs(exprs []vil.Expr) []vertex.Vertex {
	var out []vertex.Vertex
	for _, e := range exprs {
		out = append(out, usagesExpr(e)...)
	}
	return out
}

func usagesExpr(e vil.Expr) []vertex.Vertex {
	if e == nil {
		return nil
	}
	switch ex := e.(type) {
	case vil.MethodCallExpr:
		out := []vertex.Vertex{{Kind: vertex.MethodSpec, Key: ex.Method}}
		out = append(out, usagesExprs(ex.Args)...)
		return out
	case vil.FuncAppExpr:
		out := []vertex.Vertex{{Kind: vertex.Function, Key: ex.Function}}
		out = append(out, usagesExprs(ex.Args)...)
		return out
	case vil.DomainFuncAppExpr:
		out := []vertex.Vertex{vertex.DomainFunctionVertex(ex.Domain, ex.Function)}
		out = append(out, usagesExprs(ex.Args)...)
		return out
	case vil.PredicateAccessExpr:
		out := []vertex.Vertex{{Kind: vertex.PredicateSig, Key: ex.Predicate}}
		out = append(out, usagesExprs(ex.Args)...)
		return out
	case vil.UnfoldingExpr:
		out := []vertex.Vertex{{Kind: vertex.PredicateBody, Key: ex.Predicate}}
		out = append(out, usagesExprs(ex.Args)...)
		out = append(out, usagesExprs([]vil.Expr{ex.In})...)
		return out
	case vil.FieldAccessExpr:
		out := []vertex.Vertex{{Kind: vertex.Field, Key: ex.Field}}
		out = append(out, usagesExprs([]vil.Expr{ex.Receiver})...)
		return out
	case vil.BinaryExpr:
		out := usagesExprs([]vil.Expr{ex.Left})
		out = append(out, usagesExprs([]vil.Expr{ex.Right})...)
		return out
	case vil.UnaryExpr:
		return usagesExprs([]vil.Expr{ex.X})
	case vil.TypedExpr:
		out := usagesExprs([]vil.Expr{ex.X})
		out = append(out, usagesTypes([]vil.Type{ex.T})...)
		return out
	case vil.Lit, vil.VarExpr:
		return nil
	default:
		return nil
	}
}

func usagesTypes(types []vil.Type) []vertex.Vertex {
	var out []vertex.Vertex
	for _, t := range types {
		out = append(out, usagesType(t)...)
	}
	return out
}

// usagesType walks every type node descended into, emitting DomainType
// vertices for domain types encountered (including type arguments of
// generic types, recursively).
func usagesType(t vil.Type) []vertex.Vertex {
	if t == nil {
		return nil
	}
	switch tt := t.(type) {
	case vil.NamedType:
		return nil
	case vil.DomainTypeRef:
		out := []vertex.Vertex{vertex.DomainTypeVertex(tt.Domain, tt.Args.Key())}
		out = append(out, usagesTypes(tt.ArgTypes)...)
		return out
	default:
		return nil
	}
}
