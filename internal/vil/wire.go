package vil

import (
	"encoding/json"
	"fmt"
)

// wireNode is the tagged-union JSON shape every Stmt/Expr/Type/Member
// round-trips through. Kind selects which concrete vil type the remaining
// fields decode into; this is the wire format MCP tool callers use to pass
// a Program in a single JSON document, since vil's AST is a closed set of
// interfaces with no native JSON encoding.
type wireNode struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data,omitempty"`
}

// EncodeProgram renders a Program as its wire-format JSON document.
func EncodeProgram(p *Program) ([]byte, error) {
	return json.MarshalIndent(encodeProgram(p), "", "  ")
}

// DecodeProgram parses a wire-format JSON document into a Program.
func DecodeProgram(data []byte) (*Program, error) {
	var w wireProgram
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("vil: decode program: %w", err)
	}
	return w.toProgram()
}

type wireProgram struct {
	Name    string       `json:"name"`
	Info    string       `json:"info,omitempty"`
	Members []wireMember `json:"members"`
}

type wireMember struct {
	Kind string `json:"kind"`

	Name    string        `json:"name,omitempty"`
	Pres    []wireNode    `json:"pres,omitempty"`
	Posts   []wireNode    `json:"posts,omitempty"`
	Formals []wireNode    `json:"formals,omitempty"`
	Body    []wireNode    `json:"body,omitempty"`    // Method: statements
	BodyExp *wireNode     `json:"bodyExp,omitempty"`  // Function/Predicate: single expr
	HasBody bool          `json:"hasBody,omitempty"`  // Method/Predicate: distinguishes nil body from omitted field
	Type    *wireNode     `json:"type,omitempty"`     // Field
	Funcs   []wireDomFunc  `json:"functions,omitempty"`
	Axioms  []wireDomAxiom `json:"axioms,omitempty"`
	Insts   []TypeArgMap   `json:"instances,omitempty"`
	PKind   string         `json:"pluginKind,omitempty"` // PluginMember
}

type wireDomFunc struct {
	Name    string     `json:"name"`
	Formals []wireNode `json:"formals,omitempty"`
	Result  wireNode   `json:"result"`
}

type wireDomAxiom struct {
	ID  string   `json:"id"`
	Exp wireNode `json:"exp"`
}

func encodeProgram(p *Program) wireProgram {
	w := wireProgram{Name: p.Name, Info: p.Info}
	for _, m := range p.Members {
		w.Members = append(w.Members, encodeMember(m))
	}
	return w
}

func encodeMember(m Member) wireMember {
	switch v := m.(type) {
	case *Method:
		wm := wireMember{Kind: "Method", Name: v.Name, Pres: encodeExprs(v.Pres), Posts: encodeExprs(v.Posts), Formals: encodeTypes(v.Formals)}
		if v.Body != nil {
			wm.HasBody = true
			wm.Body = encodeStmts(v.Body)
		}
		return wm
	case *Function:
		body := encodeExpr(v.Body)
		return wireMember{Kind: "Function", Name: v.Name, Pres: encodeExprs(v.Pres), Posts: encodeExprs(v.Posts), Formals: encodeTypes(v.Formals), BodyExp: &body}
	case *Predicate:
		wm := wireMember{Kind: "Predicate", Name: v.Name, Formals: encodeTypes(v.Formals)}
		if v.Body != nil {
			wm.HasBody = true
			body := encodeExpr(v.Body)
			wm.BodyExp = &body
		}
		return wm
	case *Field:
		t := encodeType(v.Type)
		return wireMember{Kind: "Field", Name: v.Name, Type: &t}
	case *Domain:
		wm := wireMember{Kind: "Domain", Name: v.Name, Insts: v.Instances}
		for _, f := range v.Functions {
			wm.Funcs = append(wm.Funcs, wireDomFunc{Name: f.Name, Formals: encodeTypes(f.Formals), Result: encodeType(f.Result)})
		}
		for _, a := range v.Axioms {
			wm.Axioms = append(wm.Axioms, wireDomAxiom{ID: a.ID, Exp: encodeExpr(a.Exp)})
		}
		return wm
	case *PluginMember:
		return wireMember{Kind: "PluginMember", Name: v.Name, PKind: v.Kind}
	default:
		return wireMember{Kind: "Unknown", Name: m.MemberName()}
	}
}

func (w wireMember) toMember() (Member, error) {
	switch w.Kind {
	case "Method":
		pres, err := decodeExprs(w.Pres)
		if err != nil {
			return nil, err
		}
		posts, err := decodeExprs(w.Posts)
		if err != nil {
			return nil, err
		}
		formals, err := decodeTypes(w.Formals)
		if err != nil {
			return nil, err
		}
		m := &Method{Name: w.Name, Pres: pres, Posts: posts, Formals: formals}
		if w.HasBody {
			stmts, err := decodeStmts(w.Body)
			if err != nil {
				return nil, err
			}
			m.Body = stmts
		}
		return m, nil
	case "Function":
		pres, err := decodeExprs(w.Pres)
		if err != nil {
			return nil, err
		}
		posts, err := decodeExprs(w.Posts)
		if err != nil {
			return nil, err
		}
		formals, err := decodeTypes(w.Formals)
		if err != nil {
			return nil, err
		}
		var body Expr
		if w.BodyExp != nil {
			body, err = w.BodyExp.toExpr()
			if err != nil {
				return nil, err
			}
		}
		return &Function{Name: w.Name, Pres: pres, Posts: posts, Formals: formals, Body: body}, nil
	case "Predicate":
		formals, err := decodeTypes(w.Formals)
		if err != nil {
			return nil, err
		}
		p := &Predicate{Name: w.Name, Formals: formals}
		if w.HasBody && w.BodyExp != nil {
			body, err := w.BodyExp.toExpr()
			if err != nil {
				return nil, err
			}
			p.Body = body
		}
		return p, nil
	case "Field":
		if w.Type == nil {
			return nil, fmt.Errorf("vil: field %q missing type", w.Name)
		}
		t, err := w.Type.toType()
		if err != nil {
			return nil, err
		}
		return &Field{Name: w.Name, Type: t}, nil
	case "Domain":
		d := &Domain{Name: w.Name, Instances: w.Insts}
		for _, f := range w.Funcs {
			formals, err := decodeTypes(f.Formals)
			if err != nil {
				return nil, err
			}
			result, err := f.Result.toType()
			if err != nil {
				return nil, err
			}
			d.Functions = append(d.Functions, DomainFunctionDecl{Name: f.Name, Formals: formals, Result: result})
		}
		for _, a := range w.Axioms {
			exp, err := a.Exp.toExpr()
			if err != nil {
				return nil, err
			}
			d.Axioms = append(d.Axioms, DomainAxiomDecl{ID: a.ID, Exp: exp})
		}
		return d, nil
	case "PluginMember":
		return &PluginMember{Name: w.Name, Kind: w.PKind}, nil
	default:
		return nil, fmt.Errorf("vil: unknown member kind %q", w.Kind)
	}
}

func (w wireProgram) toProgram() (*Program, error) {
	p := &Program{Name: w.Name, Info: w.Info}
	for _, wm := range w.Members {
		m, err := wm.toMember()
		if err != nil {
			return nil, err
		}
		p.Members = append(p.Members, m)
	}
	return p, nil
}

// --- Stmt ---

func encodeStmts(ss []Stmt) []wireNode {
	out := make([]wireNode, 0, len(ss))
	for _, s := range ss {
		out = append(out, encodeStmt(s))
	}
	return out
}

func encodeStmt(s Stmt) wireNode {
	data, kind := marshalNode(s, func() (string, any) {
		switch v := s.(type) {
		case Seq:
			return "Seq", struct {
				Stmts []wireNode `json:"stmts"`
			}{encodeStmts(v.Stmts)}
		case ExprStmt:
			return "ExprStmt", struct {
				E wireNode `json:"e"`
			}{encodeExpr(v.E)}
		case Fold:
			return "Fold", struct {
				Predicate string     `json:"predicate"`
				Args      []wireNode `json:"args,omitempty"`
			}{v.Predicate, encodeExprs(v.Args)}
		case Unfold:
			return "Unfold", struct {
				Predicate string     `json:"predicate"`
				Args      []wireNode `json:"args,omitempty"`
			}{v.Predicate, encodeExprs(v.Args)}
		case If:
			return "If", struct {
				Cond wireNode `json:"cond"`
				Then wireNode `json:"then"`
				Else wireNode `json:"else"`
			}{encodeExpr(v.Cond), encodeSeq(v.Then), encodeSeq(v.Else)}
		case While:
			return "While", struct {
				Cond       wireNode   `json:"cond"`
				Invariants []wireNode `json:"invariants,omitempty"`
				Body       wireNode   `json:"body"`
			}{encodeExpr(v.Cond), encodeExprs(v.Invariants), encodeSeq(v.Body)}
		case Assign:
			return "Assign", struct {
				LHS wireNode `json:"lhs"`
				RHS wireNode `json:"rhs"`
			}{encodeExpr(v.LHS), encodeExpr(v.RHS)}
		default:
			return "Unknown", struct{}{}
		}
	})
	return wireNode{Kind: kind, Data: data}
}

func encodeSeq(s Seq) wireNode {
	data, _ := json.Marshal(struct {
		Stmts []wireNode `json:"stmts"`
	}{encodeStmts(s.Stmts)})
	return wireNode{Kind: "Seq", Data: data}
}

func decodeStmts(ws []wireNode) ([]Stmt, error) {
	out := make([]Stmt, 0, len(ws))
	for _, w := range ws {
		s, err := w.toStmt()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (w wireNode) toSeq() (Seq, error) {
	if w.Kind != "Seq" {
		return Seq{}, fmt.Errorf("vil: expected Seq, got %q", w.Kind)
	}
	var body struct {
		Stmts []wireNode `json:"stmts"`
	}
	if err := json.Unmarshal(w.Data, &body); err != nil {
		return Seq{}, err
	}
	stmts, err := decodeStmts(body.Stmts)
	if err != nil {
		return Seq{}, err
	}
	return Seq{Stmts: stmts}, nil
}

func (w wireNode) toStmt() (Stmt, error) {
	switch w.Kind {
	case "Seq":
		return w.toSeq()
	case "ExprStmt":
		var body struct {
			E wireNode `json:"e"`
		}
		if err := json.Unmarshal(w.Data, &body); err != nil {
			return nil, err
		}
		e, err := body.E.toExpr()
		if err != nil {
			return nil, err
		}
		return ExprStmt{E: e}, nil
	case "Fold", "Unfold":
		var body struct {
			Predicate string     `json:"predicate"`
			Args      []wireNode `json:"args,omitempty"`
		}
		if err := json.Unmarshal(w.Data, &body); err != nil {
			return nil, err
		}
		args, err := decodeExprs(body.Args)
		if err != nil {
			return nil, err
		}
		if w.Kind == "Fold" {
			return Fold{Predicate: body.Predicate, Args: args}, nil
		}
		return Unfold{Predicate: body.Predicate, Args: args}, nil
	case "If":
		var body struct {
			Cond wireNode `json:"cond"`
			Then wireNode `json:"then"`
			Else wireNode `json:"else"`
		}
		if err := json.Unmarshal(w.Data, &body); err != nil {
			return nil, err
		}
		cond, err := body.Cond.toExpr()
		if err != nil {
			return nil, err
		}
		then, err := body.Then.toSeq()
		if err != nil {
			return nil, err
		}
		els, err := body.Else.toSeq()
		if err != nil {
			return nil, err
		}
		return If{Cond: cond, Then: then, Else: els}, nil
	case "While":
		var body struct {
			Cond       wireNode   `json:"cond"`
			Invariants []wireNode `json:"invariants,omitempty"`
			Body       wireNode   `json:"body"`
		}
		if err := json.Unmarshal(w.Data, &body); err != nil {
			return nil, err
		}
		cond, err := body.Cond.toExpr()
		if err != nil {
			return nil, err
		}
		invs, err := decodeExprs(body.Invariants)
		if err != nil {
			return nil, err
		}
		bodySeq, err := body.Body.toSeq()
		if err != nil {
			return nil, err
		}
		return While{Cond: cond, Invariants: invs, Body: bodySeq}, nil
	case "Assign":
		var body struct {
			LHS wireNode `json:"lhs"`
			RHS wireNode `json:"rhs"`
		}
		if err := json.Unmarshal(w.Data, &body); err != nil {
			return nil, err
		}
		lhs, err := body.LHS.toExpr()
		if err != nil {
			return nil, err
		}
		rhs, err := body.RHS.toExpr()
		if err != nil {
			return nil, err
		}
		return Assign{LHS: lhs, RHS: rhs}, nil
	default:
		return nil, fmt.Errorf("vil: unknown stmt kind %q", w.Kind)
	}
}

// --- Expr ---

func encodeExprs(es []Expr) []wireNode {
	out := make([]wireNode, 0, len(es))
	for _, e := range es {
		out = append(out, encodeExpr(e))
	}
	return out
}

func encodeExpr(e Expr) wireNode {
	if e == nil {
		return wireNode{}
	}
	data, kind := marshalNode(e, func() (string, any) {
		switch v := e.(type) {
		case MethodCallExpr:
			return "MethodCallExpr", struct {
				Method string     `json:"method"`
				Args   []wireNode `json:"args,omitempty"`
			}{v.Method, encodeExprs(v.Args)}
		case FuncAppExpr:
			return "FuncAppExpr", struct {
				Function string     `json:"function"`
				Args     []wireNode `json:"args,omitempty"`
			}{v.Function, encodeExprs(v.Args)}
		case DomainFuncAppExpr:
			return "DomainFuncAppExpr", struct {
				Domain   string     `json:"domain"`
				Function string     `json:"function"`
				Args     []wireNode `json:"args,omitempty"`
			}{v.Domain, v.Function, encodeExprs(v.Args)}
		case PredicateAccessExpr:
			return "PredicateAccessExpr", struct {
				Predicate string     `json:"predicate"`
				Args      []wireNode `json:"args,omitempty"`
			}{v.Predicate, encodeExprs(v.Args)}
		case UnfoldingExpr:
			return "UnfoldingExpr", struct {
				Predicate string     `json:"predicate"`
				Args      []wireNode `json:"args,omitempty"`
				In        wireNode   `json:"in"`
			}{v.Predicate, encodeExprs(v.Args), encodeExpr(v.In)}
		case FieldAccessExpr:
			return "FieldAccessExpr", struct {
				Field    string   `json:"field"`
				Receiver wireNode `json:"receiver"`
			}{v.Field, encodeExpr(v.Receiver)}
		case BinaryExpr:
			return "BinaryExpr", struct {
				Op    string   `json:"op"`
				Left  wireNode `json:"left"`
				Right wireNode `json:"right"`
			}{v.Op, encodeExpr(v.Left), encodeExpr(v.Right)}
		case UnaryExpr:
			return "UnaryExpr", struct {
				Op string   `json:"op"`
				X  wireNode `json:"x"`
			}{v.Op, encodeExpr(v.X)}
		case TypedExpr:
			return "TypedExpr", struct {
				X wireNode `json:"x"`
				T wireNode `json:"t"`
			}{encodeExpr(v.X), encodeType(v.T)}
		case Lit:
			return "Lit", struct {
				Value string `json:"value"`
			}{v.Value}
		case VarExpr:
			return "VarExpr", struct {
				Name string `json:"name"`
			}{v.Name}
		default:
			return "Unknown", struct{}{}
		}
	})
	return wireNode{Kind: kind, Data: data}
}

func decodeExprs(ws []wireNode) ([]Expr, error) {
	out := make([]Expr, 0, len(ws))
	for _, w := range ws {
		e, err := w.toExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (w wireNode) toExpr() (Expr, error) {
	if w.Kind == "" {
		return nil, nil
	}
	switch w.Kind {
	case "MethodCallExpr":
		var body struct {
			Method string     `json:"method"`
			Args   []wireNode `json:"args,omitempty"`
		}
		if err := json.Unmarshal(w.Data, &body); err != nil {
			return nil, err
		}
		args, err := decodeExprs(body.Args)
		if err != nil {
			return nil, err
		}
		return MethodCallExpr{Method: body.Method, Args: args}, nil
	case "FuncAppExpr":
		var body struct {
			Function string     `json:"function"`
			Args     []wireNode `json:"args,omitempty"`
		}
		if err := json.Unmarshal(w.Data, &body); err != nil {
			return nil, err
		}
		args, err := decodeExprs(body.Args)
		if err != nil {
			return nil, err
		}
		return FuncAppExpr{Function: body.Function, Args: args}, nil
	case "DomainFuncAppExpr":
		var body struct {
			Domain   string     `json:"domain"`
			Function string     `json:"function"`
			Args     []wireNode `json:"args,omitempty"`
		}
		if err := json.Unmarshal(w.Data, &body); err != nil {
			return nil, err
		}
		args, err := decodeExprs(body.Args)
		if err != nil {
			return nil, err
		}
		return DomainFuncAppExpr{Domain: body.Domain, Function: body.Function, Args: args}, nil
	case "PredicateAccessExpr":
		var body struct {
			Predicate string     `json:"predicate"`
			Args      []wireNode `json:"args,omitempty"`
		}
		if err := json.Unmarshal(w.Data, &body); err != nil {
			return nil, err
		}
		args, err := decodeExprs(body.Args)
		if err != nil {
			return nil, err
		}
		return PredicateAccessExpr{Predicate: body.Predicate, Args: args}, nil
	case "UnfoldingExpr":
		var body struct {
			Predicate string     `json:"predicate"`
			Args      []wireNode `json:"args,omitempty"`
			In        wireNode   `json:"in"`
		}
		if err := json.Unmarshal(w.Data, &body); err != nil {
			return nil, err
		}
		args, err := decodeExprs(body.Args)
		if err != nil {
			return nil, err
		}
		in, err := body.In.toExpr()
		if err != nil {
			return nil, err
		}
		return UnfoldingExpr{Predicate: body.Predicate, Args: args, In: in}, nil
	case "FieldAccessExpr":
		var body struct {
			Field    string   `json:"field"`
			Receiver wireNode `json:"receiver"`
		}
		if err := json.Unmarshal(w.Data, &body); err != nil {
			return nil, err
		}
		recv, err := body.Receiver.toExpr()
		if err != nil {
			return nil, err
		}
		return FieldAccessExpr{Field: body.Field, Receiver: recv}, nil
	case "BinaryExpr":
		var body struct {
			Op    string   `json:"op"`
			Left  wireNode `json:"left"`
			Right wireNode `json:"right"`
		}
		if err := json.Unmarshal(w.Data, &body); err != nil {
			return nil, err
		}
		left, err := body.Left.toExpr()
		if err != nil {
			return nil, err
		}
		right, err := body.Right.toExpr()
		if err != nil {
			return nil, err
		}
		return BinaryExpr{Op: body.Op, Left: left, Right: right}, nil
	case "UnaryExpr":
		var body struct {
			Op string   `json:"op"`
			X  wireNode `json:"x"`
		}
		if err := json.Unmarshal(w.Data, &body); err != nil {
			return nil, err
		}
		x, err := body.X.toExpr()
		if err != nil {
			return nil, err
		}
		return UnaryExpr{Op: body.Op, X: x}, nil
	case "TypedExpr":
		var body struct {
			X wireNode `json:"x"`
			T wireNode `json:"t"`
		}
		if err := json.Unmarshal(w.Data, &body); err != nil {
			return nil, err
		}
		x, err := body.X.toExpr()
		if err != nil {
			return nil, err
		}
		t, err := body.T.toType()
		if err != nil {
			return nil, err
		}
		return TypedExpr{X: x, T: t}, nil
	case "Lit":
		var body struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(w.Data, &body); err != nil {
			return nil, err
		}
		return Lit{Value: body.Value}, nil
	case "VarExpr":
		var body struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(w.Data, &body); err != nil {
			return nil, err
		}
		return VarExpr{Name: body.Name}, nil
	default:
		return nil, fmt.Errorf("vil: unknown expr kind %q", w.Kind)
	}
}

// --- Type ---

func encodeTypes(ts []Type) []wireNode {
	out := make([]wireNode, 0, len(ts))
	for _, t := range ts {
		out = append(out, encodeType(t))
	}
	return out
}

func encodeType(t Type) wireNode {
	if t == nil {
		return wireNode{}
	}
	data, kind := marshalNode(t, func() (string, any) {
		switch v := t.(type) {
		case NamedType:
			return "NamedType", struct {
				Name string `json:"name"`
			}{v.Name}
		case DomainTypeRef:
			return "DomainTypeRef", struct {
				Domain   string       `json:"domain"`
				Args     TypeArgMap   `json:"args,omitempty"`
				ArgTypes []wireNode   `json:"argTypes,omitempty"`
			}{v.Domain, v.Args, encodeTypes(v.ArgTypes)}
		default:
			return "Unknown", struct{}{}
		}
	})
	return wireNode{Kind: kind, Data: data}
}

func decodeTypes(ws []wireNode) ([]Type, error) {
	out := make([]Type, 0, len(ws))
	for _, w := range ws {
		t, err := w.toType()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (w wireNode) toType() (Type, error) {
	if w.Kind == "" {
		return nil, nil
	}
	switch w.Kind {
	case "NamedType":
		var body struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(w.Data, &body); err != nil {
			return nil, err
		}
		return NamedType{Name: body.Name}, nil
	case "DomainTypeRef":
		var body struct {
			Domain   string     `json:"domain"`
			Args     TypeArgMap `json:"args,omitempty"`
			ArgTypes []wireNode `json:"argTypes,omitempty"`
		}
		if err := json.Unmarshal(w.Data, &body); err != nil {
			return nil, err
		}
		argTypes, err := decodeTypes(body.ArgTypes)
		if err != nil {
			return nil, err
		}
		return DomainTypeRef{Domain: body.Domain, Args: body.Args, ArgTypes: argTypes}, nil
	default:
		return nil, fmt.Errorf("vil: unknown type kind %q", w.Kind)
	}
}

// marshalNode is a small helper so each encode* switch can return a
// (kind, payload) pair and get the json.RawMessage marshaling for free.
func marshalNode(_ any, f func() (string, any)) (json.RawMessage, string) {
	kind, payload := f()
	data, err := json.Marshal(payload)
	if err != nil {
		// Payload types above are all plain structs of JSON-safe fields;
		// Marshal cannot fail for them.
		panic(err)
	}
	return data, kind
}
