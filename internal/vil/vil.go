// Package vil defines the minimal AST for the verification intermediate
// language the chopper operates on. Producing this AST (parsing, type
// checking) is out of scope for this module; vil only fixes the shape that
// internal/depgraph's edge extractor walks and that internal/reconstruct
// rebuilds sub-programs from.
package vil

// Program is a whole verification-intermediate-language program: an ordered
// list of top-level members plus metadata copied onto every sub-program the
// chopper produces.
type Program struct {
	Name     string
	Info     string // free-form source/positional metadata, copied verbatim
	Members  []Member
}

// Member is the closed union of top-level declarations a Program may
// contain. Anything outside this set (plugin/extension members) must be
// rejected by the vertex model with a fatal error.
type Member interface {
	MemberName() string
	isMember()
}

// Method is a method declaration. A nil Body means the method is
// body-less (abstract/native): only its specification is visible.
type Method struct {
	Name    string
	Pres    []Expr // preconditions
	Posts   []Expr // postconditions
	Formals []Type // formal argument and return type declarations
	Body    []Stmt // nil if the method has no body
}

func (m *Method) MemberName() string { return m.Name }
func (m *Method) isMember()          {}

// Function is a function declaration: always has a body and a spec.
type Function struct {
	Name    string
	Pres    []Expr
	Posts   []Expr
	Formals []Type
	Body    Expr
}

func (f *Function) MemberName() string { return f.Name }
func (f *Function) isMember()          {}

// Predicate is a predicate declaration. A nil Body means the predicate is
// signature-only.
type Predicate struct {
	Name    string
	Formals []Type
	Body    Expr // nil if the predicate has no body
}

func (p *Predicate) MemberName() string { return p.Name }
func (p *Predicate) isMember()          {}

// Field is a field declaration. Fields have no outgoing dependency edges
// of their own (beyond the universal Always edge).
type Field struct {
	Name string
	Type Type
}

func (f *Field) MemberName() string { return f.Name }
func (f *Field) isMember()          {}

// Domain is a domain declaration: a named collection of domain functions
// and axioms, plus the concrete type instantiations of the domain that the
// rest of the program references.
type Domain struct {
	Name      string
	Functions []DomainFunctionDecl
	Axioms    []DomainAxiomDecl
	// Instances lists the type-argument maps under which this domain is
	// instantiated elsewhere in the program; each yields one DomainType
	// vertex.
	Instances []TypeArgMap
}

func (d *Domain) MemberName() string { return d.Name }
func (d *Domain) isMember()          {}

// DomainFunctionDecl is a single function declared inside a domain.
type DomainFunctionDecl struct {
	Name    string
	Formals []Type
	Result  Type
}

// DomainAxiomDecl is a single axiom declared inside a domain.
type DomainAxiomDecl struct {
	ID  string
	Exp Expr
}

// TypeArgMap is a type-argument instantiation of a generic domain, e.g.
// Domain[T=Int, U=Bool]. Keys are the domain's type parameter names.
type TypeArgMap map[string]string

// Key returns a canonical, order-independent identifier for the
// instantiation, suitable for use as a DomainType vertex key.
func (m TypeArgMap) Key() string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortStrings(keys)
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ","
		}
		out += k + "=" + m[k]
	}
	return out
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// PluginMember stands in for any AST node kind outside the closed set
// above (extension/plugin members). It is never accepted by the vertex
// model; it exists only so callers have something to pass in and observe
// the resulting UnsupportedMemberError.
type PluginMember struct {
	Name string
	Kind string
}

func (p *PluginMember) MemberName() string { return p.Name }
func (p *PluginMember) isMember()          {}
