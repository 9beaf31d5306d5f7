// Package vertex implements the closed vertex-kind union the chopper's
// dependency graph is built from and the rules by which a member decomposes
// into a definition vertex and a use vertex. The inverse (vertex set back to
// members) lives in internal/reconstruct.
package vertex

import (
	"fmt"

	"github.com/arborist-dev/chopper/internal/vil"
)

// Kind is the closed set of vertex kinds.
type Kind int

const (
	Method Kind = iota
	MethodSpec
	Function
	PredicateSig
	PredicateBody
	Field
	DomainType
	DomainFunction
	DomainAxiom
	Always
)

func (k Kind) String() string {
	switch k {
	case Method:
		return "Method"
	case MethodSpec:
		return "MethodSpec"
	case Function:
		return "Function"
	case PredicateSig:
		return "PredicateSig"
	case PredicateBody:
		return "PredicateBody"
	case Field:
		return "Field"
	case DomainType:
		return "DomainType"
	case DomainFunction:
		return "DomainFunction"
	case DomainAxiom:
		return "DomainAxiom"
	case Always:
		return "Always"
	default:
		return "Unknown"
	}
}

// Vertex identifies one node of the dependency graph. Key is the member
// name (or, for DomainType, the type-instantiation key from
// vil.TypeArgMap.Key). Domain carries the owning domain's name for
// DomainType, DomainFunction and DomainAxiom vertices; it is empty
// otherwise.
type Vertex struct {
	Kind   Kind
	Key    string
	Domain string
}

func (v Vertex) String() string {
	if v.Domain != "" {
		return fmt.Sprintf("%s(%s::%s)", v.Kind, v.Domain, v.Key)
	}
	return fmt.Sprintf("%s(%s)", v.Kind, v.Key)
}

// AlwaysVertex is the single Always sentinel: any vertex reachable from it
// is always included in every sub-program that contains anything at all.
var AlwaysVertex = Vertex{Kind: Always}

// UnsupportedMemberError reports a member outside the closed vertex-kind
// union (an extension/plugin member).
type UnsupportedMemberError struct {
	Name string
	Kind string
}

func (e *UnsupportedMemberError) Error() string {
	return fmt.Sprintf("chopper: member %q (kind %s) is not supported; apply chopper post-plugin transform", e.Name, e.Kind)
}

// Def returns the definition vertex for m: the vertex that carries m's full
// body (when it has one).
func Def(m vil.Member) (Vertex, error) {
	switch mm := m.(type) {
	case *vil.Method:
		if mm.Body == nil {
			return Vertex{Kind: MethodSpec, Key: mm.Name}, nil
		}
		return Vertex{Kind: Method, Key: mm.Name}, nil
	case *vil.Function:
		return Vertex{Kind: Function, Key: mm.Name}, nil
	case *vil.Predicate:
		if mm.Body == nil {
			return Vertex{Kind: PredicateSig, Key: mm.Name}, nil
		}
		return Vertex{Kind: PredicateBody, Key: mm.Name}, nil
	case *vil.Field:
		return Vertex{Kind: Field, Key: mm.Name}, nil
	case *vil.Domain:
		// A domain has no single definition vertex; callers needing a
		// domain's def should use DomainFunctionVertex/DomainAxiomVertex
		// for its members instead. Def on a *vil.Domain itself is invalid.
		return Vertex{}, fmt.Errorf("chopper: vertex.Def called on domain %q directly; use its functions/axioms", mm.Name)
	case *vil.PluginMember:
		return Vertex{}, &UnsupportedMemberError{Name: mm.Name, Kind: mm.Kind}
	default:
		return Vertex{}, &UnsupportedMemberError{Name: m.MemberName(), Kind: fmt.Sprintf("%T", m)}
	}
}

// Use returns the use vertex for m: the vertex a caller pulls in, carrying
// only the signature/spec a caller needs to see.
func Use(m vil.Member) (Vertex, error) {
	switch mm := m.(type) {
	case *vil.Method:
		return Vertex{Kind: MethodSpec, Key: mm.Name}, nil
	case *vil.Function:
		return Vertex{Kind: Function, Key: mm.Name}, nil
	case *vil.Predicate:
		return Vertex{Kind: PredicateSig, Key: mm.Name}, nil
	case *vil.Field:
		return Vertex{Kind: Field, Key: mm.Name}, nil
	case *vil.PluginMember:
		return Vertex{}, &UnsupportedMemberError{Name: mm.Name, Kind: mm.Kind}
	default:
		return Vertex{}, &UnsupportedMemberError{Name: m.MemberName(), Kind: fmt.Sprintf("%T", m)}
	}
}

// DomainFunctionVertex returns the DomainFunction vertex for function fn
// declared inside domain d.
func DomainFunctionVertex(domain, fn string) Vertex {
	return Vertex{Kind: DomainFunction, Key: fn, Domain: domain}
}

// DomainAxiomVertex returns the DomainAxiom vertex for axiom id declared
// inside domain d.
func DomainAxiomVertex(domain, id string) Vertex {
	return Vertex{Kind: DomainAxiom, Key: id, Domain: domain}
}

// DomainTypeVertex returns the DomainType vertex for domain d instantiated
// with the given type-argument key (from vil.TypeArgMap.Key).
func DomainTypeVertex(domain, instanceKey string) Vertex {
	return Vertex{Kind: DomainType, Key: instanceKey, Domain: domain}
}
