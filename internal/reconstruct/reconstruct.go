// Package reconstruct implements the inverse of internal/vertex: given a
// vertex set, it rebuilds the vil.Program fragment those vertices denote.
package reconstruct

import (
	"fmt"
	"sort"

	"github.com/arborist-dev/chopper/internal/vertex"
	"github.com/arborist-dev/chopper/internal/vil"
)

// MissingReferenceError reports a vertex in the set that names no member of
// the source program: a malformed input, not a programmer bug.
type MissingReferenceError struct {
	Vertex vertex.Vertex
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("chopper: vertex %s references a member absent from the program", e.Vertex)
}

// Index is a precomputed lookup from vertex to source member, built once
// per program and reused across every sub-program reconstruction.
type Index struct {
	methods    map[string]*vil.Method
	functions  map[string]*vil.Function
	predicates map[string]*vil.Predicate
	fields     map[string]*vil.Field
	domains    map[string]*vil.Domain
	// domainFuncs/domainAxioms record, per domain, which function/axiom
	// names exist, for membership checks.
	domainFuncs  map[string]map[string]bool
	domainAxioms map[string]map[string]bool
}

// BuildIndex scans program once and returns an Index for repeated Inverse
// calls against the same program.
func BuildIndex(program *vil.Program) *Index {
	idx := &Index{
		methods:      make(map[string]*vil.Method),
		functions:    make(map[string]*vil.Function),
		predicates:   make(map[string]*vil.Predicate),
		fields:       make(map[string]*vil.Field),
		domains:      make(map[string]*vil.Domain),
		domainFuncs:  make(map[string]map[string]bool),
		domainAxioms: make(map[string]map[string]bool),
	}
	for _, m := range program.Members {
		switch mm := m.(type) {
		case *vil.Method:
			idx.methods[mm.Name] = mm
		case *vil.Function:
			idx.functions[mm.Name] = mm
		case *vil.Predicate:
			idx.predicates[mm.Name] = mm
		case *vil.Field:
			idx.fields[mm.Name] = mm
		case *vil.Domain:
			idx.domains[mm.Name] = mm
			fns := make(map[string]bool, len(mm.Functions))
			for _, fn := range mm.Functions {
				fns[fn.Name] = true
			}
			idx.domainFuncs[mm.Name] = fns
			axs := make(map[string]bool, len(mm.Axioms))
			for _, ax := range mm.Axioms {
				axs[ax.ID] = true
			}
			idx.domainAxioms[mm.Name] = axs
		}
	}
	return idx
}

// Inverse rebuilds the vil.Program fragment denoted by vertices: full-body
// wins over spec-only when both forms of a member are present, domains are
// re-emitted with only their present functions/axioms, and program-level
// metadata is copied verbatim.
func Inverse(program *vil.Program, idx *Index, vertices []vertex.Vertex) (*vil.Program, error) {
	out := &vil.Program{Name: program.Name, Info: program.Info}

	var hasMethodBody, hasMethodSpecOnly = map[string]bool{}, map[string]bool{}
	var hasPredBody, hasPredSigOnly = map[string]bool{}, map[string]bool{}
	funcPresent := map[string]bool{}
	fieldPresent := map[string]bool{}
	domainFuncPresent := map[string]map[string]bool{}
	domainAxiomPresent := map[string]map[string]bool{}
	domainTouched := map[string]bool{}

	for _, v := range vertices {
		switch v.Kind {
		case vertex.Method:
			if _, ok := idx.methods[v.Key]; !ok {
				return nil, &MissingReferenceError{Vertex: v}
			}
			hasMethodBody[v.Key] = true
		case vertex.MethodSpec:
			if _, ok := idx.methods[v.Key]; !ok {
				return nil, &MissingReferenceError{Vertex: v}
			}
			hasMethodSpecOnly[v.Key] = true
		case vertex.Function:
			if _, ok := idx.functions[v.Key]; !ok {
				return nil, &MissingReferenceError{Vertex: v}
			}
			funcPresent[v.Key] = true
		case vertex.PredicateBody:
			if _, ok := idx.predicates[v.Key]; !ok {
				return nil, &MissingReferenceError{Vertex: v}
			}
			hasPredBody[v.Key] = true
		case vertex.PredicateSig:
			if _, ok := idx.predicates[v.Key]; !ok {
				return nil, &MissingReferenceError{Vertex: v}
			}
			hasPredSigOnly[v.Key] = true
		case vertex.Field:
			if _, ok := idx.fields[v.Key]; !ok {
				return nil, &MissingReferenceError{Vertex: v}
			}
			fieldPresent[v.Key] = true
		case vertex.DomainFunction:
			if !idx.domainFuncs[v.Domain][v.Key] {
				return nil, &MissingReferenceError{Vertex: v}
			}
			domainTouched[v.Domain] = true
			if domainFuncPresent[v.Domain] == nil {
				domainFuncPresent[v.Domain] = map[string]bool{}
			}
			domainFuncPresent[v.Domain][v.Key] = true
		case vertex.DomainAxiom:
			if !idx.domainAxioms[v.Domain][v.Key] {
				return nil, &MissingReferenceError{Vertex: v}
			}
			domainTouched[v.Domain] = true
			if domainAxiomPresent[v.Domain] == nil {
				domainAxiomPresent[v.Domain] = map[string]bool{}
			}
			domainAxiomPresent[v.Domain][v.Key] = true
		case vertex.DomainType:
			if _, ok := idx.domains[v.Domain]; !ok {
				return nil, &MissingReferenceError{Vertex: v}
			}
			domainTouched[v.Domain] = true
		case vertex.Always:
			// The Always sentinel names no member; nothing to reconstruct.
		default:
			return nil, &MissingReferenceError{Vertex: v}
		}
	}

	for _, name := range sortedKeys(hasMethodBody) {
		out.Members = append(out.Members, idx.methods[name])
	}
	for _, name := range sortedKeys(hasMethodSpecOnly) {
		if hasMethodBody[name] {
			continue // full-body form wins
		}
		orig := idx.methods[name]
		out.Members = append(out.Members, &vil.Method{
			Name: orig.Name, Pres: orig.Pres, Posts: orig.Posts, Formals: orig.Formals,
		})
	}
	for _, name := range sortedKeys(funcPresent) {
		out.Members = append(out.Members, idx.functions[name])
	}
	for _, name := range sortedKeys(hasPredBody) {
		out.Members = append(out.Members, idx.predicates[name])
	}
	for _, name := range sortedKeys(hasPredSigOnly) {
		if hasPredBody[name] {
			continue
		}
		orig := idx.predicates[name]
		out.Members = append(out.Members, &vil.Predicate{Name: orig.Name, Formals: orig.Formals})
	}
	for _, name := range sortedKeys(fieldPresent) {
		out.Members = append(out.Members, idx.fields[name])
	}
	for _, domainName := range sortedKeys(domainTouched) {
		orig := idx.domains[domainName]
		d := &vil.Domain{Name: orig.Name}
		for _, fn := range orig.Functions {
			if domainFuncPresent[domainName][fn.Name] {
				d.Functions = append(d.Functions, fn)
			}
		}
		for _, ax := range orig.Axioms {
			if domainAxiomPresent[domainName][ax.ID] {
				d.Axioms = append(d.Axioms, ax)
			}
		}
		d.Instances = orig.Instances
		out.Members = append(out.Members, d)
	}

	return out, nil
}

// sortedKeys returns the keys of a string-keyed set in ascending order, so
// reconstruction output is deterministic regardless of Go's unordered map
// iteration.
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
