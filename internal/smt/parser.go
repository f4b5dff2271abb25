package smt

import (
	"strconv"
	"strings"

	"github.com/formalsmt/SMTmv/internal/sexpr"
)

// Script is the parsed content of a formula file: the asserted terms
// (treated as a conjunction) and any inline function definitions.
type Script struct {
	Asserts []Term
	Defs    []DefinedFun
}

// DefinedFun is a define-fun: a signature paired with its defining term.
type DefinedFun struct {
	Name   string
	Params []SortedVar
	Result Sort
	Body   Term
}

// Model is the ordered list of definitions a solver's model output
// provides. Later definitions of the same name shadow earlier ones.
type Model struct {
	Defs []DefinedFun
}

// Defines reports whether the model gives a definition for name.
func (m *Model) Defines(name string) bool {
	for _, d := range m.Defs {
		if d.Name == name {
			return true
		}
	}
	return false
}

// ParseFormula parses SMT-LIB formula text, populating tab with its
// declarations. Commands that do not contribute to the obligation
// (set-logic, set-info, check-sat, ...) are skipped.
func ParseFormula(input string, tab *SymbolTable) (*Script, error) {
	nodes, err := sexpr.Parse(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tab: tab}
	script := &Script{}
	for _, node := range nodes {
		if err := p.command(node, script); err != nil {
			return nil, err
		}
	}
	return script, nil
}

// ParseModel parses solver model output (a sequence of define-fun forms),
// adding its declarations to tab. The formula must have been parsed into
// tab first; model definitions override formula declarations by name.
func ParseModel(input string, tab *SymbolTable) (*Model, error) {
	nodes, err := sexpr.Parse(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tab: tab}
	model := &Model{}
	for _, node := range nodes {
		head := node.Head()
		switch head {
		case "define-fun", "define-const":
			def, err := p.defineFun(node)
			if err != nil {
				return nil, err
			}
			model.Defs = append(model.Defs, def)
		case "declare-fun", "declare-const", "declare-sort":
			script := &Script{}
			if err := p.command(node, script); err != nil {
				return nil, err
			}
		case "forall":
			// z3 may emit universally quantified cardinality constraints
			// alongside the definitions; they carry no interpretation.
			continue
		default:
			return nil, &sexpr.SyntaxError{
				Pos: node.Pos,
				Msg: "expected define-fun in model, got " + describe(node),
			}
		}
	}
	return model, nil
}

type parser struct {
	tab *SymbolTable
}

func (p *parser) command(node *sexpr.Node, script *Script) error {
	if !node.IsList() || len(node.List) == 0 {
		return &sexpr.SyntaxError{Pos: node.Pos, Msg: "expected a command list"}
	}
	head := node.Head()
	switch head {
	case "set-logic", "set-info", "set-option", "check-sat", "check-sat-assuming",
		"get-model", "get-value", "get-info", "echo", "exit", "reset", "push", "pop":
		return nil

	case "declare-sort":
		if len(node.List) != 3 {
			return &sexpr.SyntaxError{Pos: node.Pos, Msg: "declare-sort expects a name and an arity"}
		}
		name, arity := node.List[1], node.List[2]
		if name.Kind != sexpr.KindSymbol || arity.Kind != sexpr.KindNumeral {
			return &sexpr.SyntaxError{Pos: node.Pos, Msg: "malformed declare-sort"}
		}
		n, _ := strconv.Atoi(arity.Text)
		p.tab.DeclareSort(name.Text, n)
		return nil

	case "declare-const":
		if len(node.List) != 3 {
			return &sexpr.SyntaxError{Pos: node.Pos, Msg: "declare-const expects a name and a sort"}
		}
		name := node.List[1]
		if name.Kind != sexpr.KindSymbol {
			return &sexpr.SyntaxError{Pos: name.Pos, Msg: "expected a symbol"}
		}
		sort, err := p.sort(node.List[2])
		if err != nil {
			return err
		}
		p.tab.Declare(&Declaration{Name: name.Text, Result: sort})
		return nil

	case "declare-fun":
		if len(node.List) != 4 {
			return &sexpr.SyntaxError{Pos: node.Pos, Msg: "declare-fun expects a name, argument sorts and a result sort"}
		}
		name := node.List[1]
		if name.Kind != sexpr.KindSymbol {
			return &sexpr.SyntaxError{Pos: name.Pos, Msg: "expected a symbol"}
		}
		argsNode := node.List[2]
		if !argsNode.IsList() {
			return &sexpr.SyntaxError{Pos: argsNode.Pos, Msg: "expected a sort list"}
		}
		var args []Sort
		for _, a := range argsNode.List {
			sort, err := p.sort(a)
			if err != nil {
				return err
			}
			args = append(args, sort)
		}
		result, err := p.sort(node.List[3])
		if err != nil {
			return err
		}
		p.tab.Declare(&Declaration{Name: name.Text, Args: args, Result: result})
		return nil

	case "define-fun", "define-const":
		def, err := p.defineFun(node)
		if err != nil {
			return err
		}
		script.Defs = append(script.Defs, def)
		return nil

	case "assert":
		if len(node.List) != 2 {
			return &sexpr.SyntaxError{Pos: node.Pos, Msg: "assert expects exactly one term"}
		}
		term, sort, err := p.term(node.List[1], nil)
		if err != nil {
			return err
		}
		if !sort.Equal(BoolSort) {
			return mismatch("assert", "Bool", sort.String(), node.List[1].Pos)
		}
		script.Asserts = append(script.Asserts, term)
		return nil

	default:
		return &sexpr.SyntaxError{Pos: node.Pos, Msg: "unknown command " + strconv.Quote(head)}
	}
}

// defineFun handles both define-fun and define-const. The symbol table
// records the signature as a model-style definition.
func (p *parser) defineFun(node *sexpr.Node) (DefinedFun, error) {
	head := node.Head()
	var def DefinedFun

	if head == "define-const" {
		if len(node.List) != 4 {
			return def, &sexpr.SyntaxError{Pos: node.Pos, Msg: "define-const expects a name, a sort and a term"}
		}
		name := node.List[1]
		if name.Kind != sexpr.KindSymbol {
			return def, &sexpr.SyntaxError{Pos: name.Pos, Msg: "expected a symbol"}
		}
		result, err := p.sort(node.List[2])
		if err != nil {
			return def, err
		}
		body, bodySort, err := p.term(node.List[3], nil)
		if err != nil {
			return def, err
		}
		if !bodySort.Equal(result) {
			return def, mismatch(name.Text, result.String(), bodySort.String(), node.List[3].Pos)
		}
		def = DefinedFun{Name: name.Text, Result: result, Body: body}
		p.tab.Declare(&Declaration{Name: def.Name, Result: result, Defined: true})
		return def, nil
	}

	if len(node.List) != 5 {
		return def, &sexpr.SyntaxError{Pos: node.Pos, Msg: "define-fun expects a name, parameters, a result sort and a body"}
	}
	name := node.List[1]
	if name.Kind != sexpr.KindSymbol {
		return def, &sexpr.SyntaxError{Pos: name.Pos, Msg: "expected a symbol"}
	}
	paramsNode := node.List[2]
	if !paramsNode.IsList() {
		return def, &sexpr.SyntaxError{Pos: paramsNode.Pos, Msg: "expected a parameter list"}
	}
	var params []SortedVar
	for _, pn := range paramsNode.List {
		sv, err := p.sortedVar(pn)
		if err != nil {
			return def, err
		}
		params = append(params, sv)
	}
	result, err := p.sort(node.List[3])
	if err != nil {
		return def, err
	}

	scope := newScope(nil)
	for _, sv := range params {
		scope.bind(sv.Name, sv.Sort)
	}
	body, bodySort, err := p.term(node.List[4], scope)
	if err != nil {
		return def, err
	}
	if !bodySort.Equal(result) {
		return def, mismatch(name.Text, result.String(), bodySort.String(), node.List[4].Pos)
	}

	def = DefinedFun{Name: name.Text, Params: params, Result: result, Body: body}
	argSorts := make([]Sort, len(params))
	for i, sv := range params {
		argSorts[i] = sv.Sort
	}
	p.tab.Declare(&Declaration{Name: def.Name, Args: argSorts, Result: result, Defined: true})
	return def, nil
}

func (p *parser) sortedVar(node *sexpr.Node) (SortedVar, error) {
	if !node.IsList() || len(node.List) != 2 || node.List[0].Kind != sexpr.KindSymbol {
		return SortedVar{}, &sexpr.SyntaxError{Pos: node.Pos, Msg: "expected a (name Sort) pair"}
	}
	sort, err := p.sort(node.List[1])
	if err != nil {
		return SortedVar{}, err
	}
	return SortedVar{Name: node.List[0].Text, Sort: sort}, nil
}

func (p *parser) sort(node *sexpr.Node) (Sort, error) {
	switch {
	case node.Kind == sexpr.KindSymbol:
		switch node.Text {
		case "Bool":
			return BoolSort, nil
		case "Int":
			return IntSort, nil
		case "Real":
			return RealSort, nil
		case "String":
			return StringSort, nil
		case "RegLan":
			return RegLanSort, nil
		}
		if _, ok := p.tab.SortArity(node.Text); ok {
			return Sort{Name: node.Text}, nil
		}
		return Sort{}, &UndeclaredSymbolError{Name: node.Text, Pos: node.Pos}

	case node.IsList() && node.Head() == "_":
		// Indexed sort, e.g. (_ BitVec 32).
		if len(node.List) == 3 && node.List[1].IsSymbol("BitVec") && node.List[2].Kind == sexpr.KindNumeral {
			w, err := strconv.ParseUint(node.List[2].Text, 10, 32)
			if err != nil || w == 0 {
				return Sort{}, &sexpr.SyntaxError{Pos: node.Pos, Msg: "invalid bit-vector width"}
			}
			return BitVecSort(uint(w)), nil
		}
		return Sort{}, &sexpr.SyntaxError{Pos: node.Pos, Msg: "unsupported indexed sort"}

	case node.IsList() && node.Head() == "Array":
		if len(node.List) != 3 {
			return Sort{}, &sexpr.SyntaxError{Pos: node.Pos, Msg: "Array expects an index and an element sort"}
		}
		index, err := p.sort(node.List[1])
		if err != nil {
			return Sort{}, err
		}
		elem, err := p.sort(node.List[2])
		if err != nil {
			return Sort{}, err
		}
		return ArraySort(index, elem), nil
	}
	return Sort{}, &sexpr.SyntaxError{Pos: node.Pos, Msg: "expected a sort"}
}

// scope is a chain of binder environments for let and quantifier forms.
type scope struct {
	parent *scope
	vars   map[string]Sort
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: make(map[string]Sort)}
}

func (s *scope) bind(name string, sort Sort) {
	s.vars[name] = sort
}

func (s *scope) lookup(name string) (Sort, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if sort, ok := sc.vars[name]; ok {
			return sort, true
		}
	}
	return Sort{}, false
}

// term parses a term node and infers its sort. env may be nil.
func (p *parser) term(node *sexpr.Node, env *scope) (Term, Sort, error) {
	switch node.Kind {
	case sexpr.KindNumeral:
		return &Literal{Kind: NumeralLit, Text: node.Text, Sort: IntSort, At: node.Pos}, IntSort, nil
	case sexpr.KindDecimal:
		return &Literal{Kind: DecimalLit, Text: node.Text, Sort: RealSort, At: node.Pos}, RealSort, nil
	case sexpr.KindHex:
		sort := BitVecSort(uint(4 * len(node.Text)))
		return &Literal{Kind: HexLit, Text: node.Text, Sort: sort, At: node.Pos}, sort, nil
	case sexpr.KindBinary:
		sort := BitVecSort(uint(len(node.Text)))
		return &Literal{Kind: BinaryLit, Text: node.Text, Sort: sort, At: node.Pos}, sort, nil
	case sexpr.KindString:
		return &Literal{Kind: StringLit, Text: node.Text, Sort: StringSort, At: node.Pos}, StringSort, nil

	case sexpr.KindSymbol:
		if node.Text == "true" || node.Text == "false" {
			return &Literal{Kind: BoolLit, Text: node.Text, Sort: BoolSort, At: node.Pos}, BoolSort, nil
		}
		if env != nil {
			if sort, ok := env.lookup(node.Text); ok {
				return &Variable{Name: node.Text, At: node.Pos}, sort, nil
			}
		}
		if decl, ok := p.tab.Lookup(node.Text); ok {
			if !decl.IsConst() {
				return nil, Sort{}, mismatch(node.Text, "a constant", "a function of "+plural(len(decl.Args)), node.Pos)
			}
			return &Variable{Name: node.Text, At: node.Pos}, decl.Result, nil
		}
		return nil, Sort{}, &UndeclaredSymbolError{Name: node.Text, Pos: node.Pos}

	case sexpr.KindList:
		return p.compoundTerm(node, env)
	}
	return nil, Sort{}, &sexpr.SyntaxError{Pos: node.Pos, Msg: "expected a term"}
}

func (p *parser) compoundTerm(node *sexpr.Node, env *scope) (Term, Sort, error) {
	if len(node.List) == 0 {
		return nil, Sort{}, &sexpr.SyntaxError{Pos: node.Pos, Msg: "empty term"}
	}
	switch node.Head() {
	case "let":
		return p.letTerm(node, env)
	case "forall", "exists":
		return p.quantTerm(node, env)
	case "!":
		return p.annotation(node, env)
	case "_":
		return p.indexedTerm(node)
	}

	// Function application. The head is a symbol or an (as ...) qualified
	// identifier; arguments are parsed first so the head's sorts can be
	// checked against them.
	headNode := node.List[0]
	var name string
	var ascribed *Sort
	switch {
	case headNode.Kind == sexpr.KindSymbol:
		name = headNode.Text
	case headNode.IsList() && headNode.Head() == "as":
		var err error
		name, ascribed, err = p.qualIdent(headNode)
		if err != nil {
			return nil, Sort{}, err
		}
	default:
		return nil, Sort{}, &sexpr.SyntaxError{Pos: headNode.Pos, Msg: "expected a function symbol"}
	}

	var args []Term
	var argSorts []Sort
	for _, an := range node.List[1:] {
		term, sort, err := p.term(an, env)
		if err != nil {
			return nil, Sort{}, err
		}
		args = append(args, term)
		argSorts = append(argSorts, sort)
	}

	// (as const (Array I E)) applied to a default value is z3's constant
	// array form.
	if name == "const" && ascribed != nil {
		if ascribed.Name != "Array" || len(ascribed.Params) != 2 ||
			len(argSorts) != 1 || !argSorts[0].Equal(ascribed.Params[1]) {
			return nil, Sort{}, mismatch("const", "(Array _ elem) with matching element", describeSorts(argSorts), node.Pos)
		}
		return &Apply{Name: "const", Args: args, At: node.Pos}, *ascribed, nil
	}

	if result, ok, err := builtinResult(name, argSorts, node.Pos); ok {
		if err != nil {
			return nil, Sort{}, err
		}
		return &Apply{Name: name, Args: args, At: node.Pos}, result, nil
	}

	decl, ok := p.tab.Lookup(name)
	if !ok {
		return nil, Sort{}, &UndeclaredSymbolError{Name: name, Pos: node.Pos}
	}
	if len(decl.Args) != len(argSorts) {
		return nil, Sort{}, mismatch(name, plural(len(decl.Args)), plural(len(argSorts)), node.Pos)
	}
	for i, want := range decl.Args {
		if !argSorts[i].Equal(want) {
			return nil, Sort{}, mismatch(name, want.String(), argSorts[i].String(), args[i].Pos())
		}
	}
	if ascribed != nil && !ascribed.Equal(decl.Result) {
		return nil, Sort{}, mismatch(name, decl.Result.String(), ascribed.String(), headNode.Pos)
	}
	return &Apply{Name: name, Args: args, At: node.Pos}, decl.Result, nil
}

func (p *parser) qualIdent(node *sexpr.Node) (string, *Sort, error) {
	if len(node.List) != 3 || node.List[1].Kind != sexpr.KindSymbol {
		return "", nil, &sexpr.SyntaxError{Pos: node.Pos, Msg: "malformed qualified identifier"}
	}
	sort, err := p.sort(node.List[2])
	if err != nil {
		return "", nil, err
	}
	return node.List[1].Text, &sort, nil
}

func (p *parser) letTerm(node *sexpr.Node, env *scope) (Term, Sort, error) {
	if len(node.List) != 3 || !node.List[1].IsList() {
		return nil, Sort{}, &sexpr.SyntaxError{Pos: node.Pos, Msg: "let expects a binding list and a body"}
	}
	inner := newScope(env)
	var bindings []LetBinding
	for _, bn := range node.List[1].List {
		if !bn.IsList() || len(bn.List) != 2 || bn.List[0].Kind != sexpr.KindSymbol {
			return nil, Sort{}, &sexpr.SyntaxError{Pos: bn.Pos, Msg: "expected a (name term) binding"}
		}
		// Bindings are parallel: values see the outer scope only.
		value, sort, err := p.term(bn.List[1], env)
		if err != nil {
			return nil, Sort{}, err
		}
		bindings = append(bindings, LetBinding{Name: bn.List[0].Text, Value: value})
		inner.bind(bn.List[0].Text, sort)
	}
	body, bodySort, err := p.term(node.List[2], inner)
	if err != nil {
		return nil, Sort{}, err
	}
	return &Let{Bindings: bindings, Body: body, At: node.Pos}, bodySort, nil
}

func (p *parser) quantTerm(node *sexpr.Node, env *scope) (Term, Sort, error) {
	if len(node.List) != 3 || !node.List[1].IsList() {
		return nil, Sort{}, &sexpr.SyntaxError{Pos: node.Pos, Msg: node.Head() + " expects a binder list and a body"}
	}
	kind := Forall
	if node.Head() == "exists" {
		kind = Exists
	}
	inner := newScope(env)
	var vars []SortedVar
	for _, bn := range node.List[1].List {
		sv, err := p.sortedVar(bn)
		if err != nil {
			return nil, Sort{}, err
		}
		vars = append(vars, sv)
		inner.bind(sv.Name, sv.Sort)
	}
	body, bodySort, err := p.term(node.List[2], inner)
	if err != nil {
		return nil, Sort{}, err
	}
	if !bodySort.Equal(BoolSort) {
		return nil, Sort{}, mismatch(node.Head(), "Bool", bodySort.String(), node.List[2].Pos)
	}
	return &Quantifier{Kind: kind, Vars: vars, Body: body, At: node.Pos}, BoolSort, nil
}

func (p *parser) annotation(node *sexpr.Node, env *scope) (Term, Sort, error) {
	if len(node.List) < 3 {
		return nil, Sort{}, &sexpr.SyntaxError{Pos: node.Pos, Msg: "! expects a term and at least one attribute"}
	}
	inner, sort, err := p.term(node.List[1], env)
	if err != nil {
		return nil, Sort{}, err
	}
	var attrs []Attribute
	i := 2
	for i < len(node.List) {
		kw := node.List[i]
		if kw.Kind != sexpr.KindKeyword {
			return nil, Sort{}, &sexpr.SyntaxError{Pos: kw.Pos, Msg: "expected an attribute keyword"}
		}
		attr := Attribute{Keyword: kw.Text}
		if i+1 < len(node.List) && node.List[i+1].Kind != sexpr.KindKeyword {
			attr.Value = render(node.List[i+1])
			i++
		}
		attrs = append(attrs, attr)
		i++
	}
	return &Annotation{Inner: inner, Attrs: attrs, At: node.Pos}, sort, nil
}

// indexedTerm handles indexed identifiers used as terms, currently the
// bit-vector literal form (_ bvN width).
func (p *parser) indexedTerm(node *sexpr.Node) (Term, Sort, error) {
	if len(node.List) == 3 &&
		node.List[1].Kind == sexpr.KindSymbol &&
		strings.HasPrefix(node.List[1].Text, "bv") &&
		node.List[2].Kind == sexpr.KindNumeral {
		value := strings.TrimPrefix(node.List[1].Text, "bv")
		if _, err := strconv.ParseUint(value, 10, 64); err == nil {
			w, err := strconv.ParseUint(node.List[2].Text, 10, 32)
			if err == nil && w > 0 {
				sort := BitVecSort(uint(w))
				return &Literal{Kind: NumeralLit, Text: value, Sort: sort, At: node.Pos}, sort, nil
			}
		}
	}
	return nil, Sort{}, &sexpr.SyntaxError{Pos: node.Pos, Msg: "unsupported indexed identifier"}
}

func describe(node *sexpr.Node) string {
	if head := node.Head(); head != "" {
		return "(" + head + " ...)"
	}
	if node.IsList() {
		return "a list"
	}
	return strconv.Quote(node.Text)
}

func describeSorts(sorts []Sort) string {
	parts := make([]string, len(sorts))
	for i, s := range sorts {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

// render gives the SMT-LIB concrete syntax of a node, used for attribute
// values where only the text matters.
func render(node *sexpr.Node) string {
	if !node.IsList() {
		return node.Text
	}
	parts := make([]string, len(node.List))
	for i, c := range node.List {
		parts[i] = render(c)
	}
	return "(" + strings.Join(parts, " ") + ")"
}
