package isabelle

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/formalsmt/SMTmv/internal/smt"
)

// Translator rewrites parsed terms into Isabelle inner syntax. It is a
// pure structural recursion over the term; the only state is the symbol
// table lookup and the type variables minted for user-declared sorts.
type Translator struct {
	spec     *SpecDef
	tab      *smt.SymbolTable
	sortVars map[string]string
}

// NewTranslator returns a Translator over the given operator table and
// symbol table.
func NewTranslator(spec *SpecDef, tab *smt.SymbolTable) *Translator {
	return &Translator{
		spec:     spec,
		tab:      tab,
		sortVars: make(map[string]string),
	}
}

// renames tracks binder renamings in scope, innermost last.
type renames struct {
	parent *renames
	source string
	target string
}

func (r *renames) lookup(source string) (string, bool) {
	for sc := r; sc != nil; sc = sc.parent {
		if sc.source == source {
			return sc.target, true
		}
	}
	return "", false
}

func (r *renames) targetUsed(target string) bool {
	for sc := r; sc != nil; sc = sc.parent {
		if sc.target == target {
			return true
		}
	}
	return false
}

// bind picks a fresh target name for a binder. Escaping already avoids
// reserved words; apostrophes are appended until the name is free of the
// enclosing scope. EscapeIdent never emits apostrophes, so a renamed
// binder can never collide with an escaped free symbol.
func (r *renames) bind(source string) *renames {
	return r.bindAvoiding(source, nil)
}

// bindAvoiding additionally keeps the target clear of the given
// identifiers, for binders whose scope covers text rendered outside the
// rename chain.
func (r *renames) bindAvoiding(source string, avoid map[string]struct{}) *renames {
	target := EscapeIdent(source)
	for {
		_, avoided := avoid[target]
		if !avoided && !r.targetUsed(target) {
			break
		}
		target += "'"
	}
	return &renames{parent: r, source: source, target: target}
}

// Term translates a closed term.
func (t *Translator) Term(term smt.Term) (string, error) {
	return t.term(term, nil)
}

// Define translates one function definition into a "name = body" premise,
// abstracting over the parameters.
func (t *Translator) Define(def smt.DefinedFun) (string, error) {
	env := (*renames)(nil)
	if len(def.Params) == 0 {
		body, err := t.term(def.Body, env)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = %s", EscapeIdent(def.Name), body), nil
	}

	var binders []string
	for _, p := range def.Params {
		env = env.bind(p.Name)
		sort, err := t.SortType(p.Sort)
		if err != nil {
			return "", err
		}
		binders = append(binders, fmt.Sprintf("%s::%s", env.target, sort))
	}
	body, err := t.term(def.Body, env)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`%s = (\<lambda>%s. %s)`,
		EscapeIdent(def.Name), strings.Join(binders, " "), body), nil
}

// SortType renders a sort as an Isabelle type. User-declared sorts become
// type variables, minted in order of first use, so uninterpreted sorts
// stay fully polymorphic in the obligation.
func (t *Translator) SortType(s smt.Sort) (string, error) {
	switch s.Name {
	case "Bool":
		return "bool", nil
	case "Int":
		return "int", nil
	case "Real":
		return "real", nil
	case "String":
		return "int list", nil
	case "BitVec":
		if w, ok := s.IsBitVec(); ok {
			return fmt.Sprintf("%d word", w), nil
		}
	case "Array":
		if len(s.Params) == 2 {
			index, err := t.SortType(s.Params[0])
			if err != nil {
				return "", err
			}
			elem, err := t.SortType(s.Params[1])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf(`(%s \<Rightarrow> %s)`, index, elem), nil
		}
	default:
		if arity, ok := t.tab.SortArity(s.Name); ok && arity == 0 {
			if tv, ok := t.sortVars[s.Name]; ok {
				return tv, nil
			}
			n := len(t.sortVars)
			tv := fmt.Sprintf("'%c", rune('a'+n))
			if n >= 26 {
				tv = fmt.Sprintf("'a%d", n-25)
			}
			t.sortVars[s.Name] = tv
			return tv, nil
		}
	}
	return "", &smt.UnsupportedConstructError{Construct: "sort " + s.String()}
}

func (t *Translator) term(term smt.Term, env *renames) (string, error) {
	switch n := term.(type) {
	case *smt.Literal:
		return t.literal(n)

	case *smt.Variable:
		if target, ok := env.lookup(n.Name); ok {
			return target, nil
		}
		return EscapeIdent(n.Name), nil

	case *smt.Apply:
		return t.apply(n, env)

	case *smt.Let:
		return t.let(n, env)

	case *smt.Quantifier:
		return t.quantifier(n, env)

	case *smt.Annotation:
		return t.term(n.Inner, env)
	}
	return "", &smt.UnsupportedConstructError{Construct: fmt.Sprintf("%T", term)}
}

func (t *Translator) literal(lit *smt.Literal) (string, error) {
	switch lit.Kind {
	case smt.BoolLit:
		if lit.Text == "true" {
			return "True", nil
		}
		return "False", nil

	case smt.NumeralLit:
		if w, ok := lit.Sort.IsBitVec(); ok {
			return fmt.Sprintf("(%s::%d word)", lit.Text, w), nil
		}
		return fmt.Sprintf("(%s::int)", lit.Text), nil

	case smt.DecimalLit:
		return fmt.Sprintf("(%s::real)", lit.Text), nil

	case smt.HexLit, smt.BinaryLit:
		base := 16
		if lit.Kind == smt.BinaryLit {
			base = 2
		}
		value, ok := new(big.Int).SetString(lit.Text, base)
		if !ok {
			return "", &smt.UnsupportedConstructError{Construct: "literal #" + lit.Text, Pos: lit.At}
		}
		w, _ := lit.Sort.IsBitVec()
		return fmt.Sprintf("(%s::%d word)", value.String(), w), nil

	case smt.StringLit:
		decoded, err := smt.UnescapeString(lit.Text)
		if err != nil {
			return "", &smt.UnsupportedConstructError{Construct: "string literal " + lit.Text, Pos: lit.At}
		}
		codes := make([]string, 0, len(decoded))
		for _, r := range decoded {
			codes = append(codes, fmt.Sprintf("%d", r))
		}
		return "[" + strings.Join(codes, ", ") + "]", nil
	}
	return "", &smt.UnsupportedConstructError{Construct: "literal " + lit.Text, Pos: lit.At}
}

func (t *Translator) apply(app *smt.Apply, env *renames) (string, error) {
	// Theory forms with structural spellings rather than named operators.
	switch app.Name {
	case "distinct":
		return t.distinct(app, env)
	case "select":
		array, err := t.term(app.Args[0], env)
		if err != nil {
			return "", err
		}
		index, err := t.term(app.Args[1], env)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s)", array, index), nil
	case "store":
		array, err := t.term(app.Args[0], env)
		if err != nil {
			return "", err
		}
		index, err := t.term(app.Args[1], env)
		if err != nil {
			return "", err
		}
		value, err := t.term(app.Args[2], env)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s(%s := %s))", array, index, value), nil
	case "const":
		value, err := t.term(app.Args[0], env)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(`(\<lambda>uu. %s)`, value), nil
	}

	if spec, ok := t.spec.Lookup(app.Name); ok {
		if spec.MapsTo == "" {
			return "", &smt.UnsupportedConstructError{Construct: app.Name, Pos: app.At}
		}
		switch {
		case spec.Chainable && len(app.Args) > 2:
			return t.chain(spec, app, env)
		case spec.IsLeftAssoc() && len(app.Args) > 2:
			return t.unrollLeft(spec, app, env)
		case spec.IsRightAssoc() && len(app.Args) > 2:
			return t.unrollRight(spec, app, env)
		}
		return t.applySpelling(spec.MapsTo, app.Args, env)
	}

	if _, ok := t.tab.Lookup(app.Name); ok {
		args := make([]string, 0, len(app.Args)+1)
		args = append(args, EscapeIdent(app.Name))
		for _, a := range app.Args {
			arg, err := t.term(a, env)
			if err != nil {
				return "", err
			}
			args = append(args, arg)
		}
		return "(" + strings.Join(args, " ") + ")", nil
	}
	return "", &smt.UnsupportedConstructError{Construct: app.Name, Pos: app.At}
}

// applySpelling renders one application of a mapped operator: unary and
// plain-function spellings apply directly, binary ones as a section.
func (t *Translator) applySpelling(spelling string, args []smt.Term, env *renames) (string, error) {
	rendered := make([]string, 0, len(args))
	for _, a := range args {
		arg, err := t.term(a, env)
		if err != nil {
			return "", err
		}
		rendered = append(rendered, arg)
	}
	if len(rendered) <= 1 {
		return fmt.Sprintf("(%s %s)", spelling, strings.Join(rendered, " ")), nil
	}
	return fmt.Sprintf("((%s) %s)", spelling, strings.Join(rendered, " ")), nil
}

// chain expands (op a b c) into ((op a b) ∧ (op b c)).
func (t *Translator) chain(spec OpSpec, app *smt.Apply, env *renames) (string, error) {
	var pairs []string
	for i := 0; i+1 < len(app.Args); i++ {
		pair, err := t.applySpelling(spec.MapsTo, app.Args[i:i+2], env)
		if err != nil {
			return "", err
		}
		pairs = append(pairs, pair)
	}
	return `(` + strings.Join(pairs, ` \<and> `) + `)`, nil
}

// unrollLeft rewrites (op a b c) as (op (op a b) c) before translating.
func (t *Translator) unrollLeft(spec OpSpec, app *smt.Apply, env *renames) (string, error) {
	acc, err := t.applySpelling(spec.MapsTo, app.Args[:2], env)
	if err != nil {
		return "", err
	}
	for _, arg := range app.Args[2:] {
		next, err := t.term(arg, env)
		if err != nil {
			return "", err
		}
		acc = fmt.Sprintf("((%s) %s %s)", spec.MapsTo, acc, next)
	}
	return acc, nil
}

// unrollRight rewrites (op a b c) as (op a (op b c)) before translating.
func (t *Translator) unrollRight(spec OpSpec, app *smt.Apply, env *renames) (string, error) {
	last := len(app.Args) - 1
	acc, err := t.applySpelling(spec.MapsTo, app.Args[last-1:], env)
	if err != nil {
		return "", err
	}
	for i := last - 2; i >= 0; i-- {
		prev, err := t.term(app.Args[i], env)
		if err != nil {
			return "", err
		}
		acc = fmt.Sprintf("((%s) %s %s)", spec.MapsTo, prev, acc)
	}
	return acc, nil
}

func (t *Translator) distinct(app *smt.Apply, env *renames) (string, error) {
	rendered := make([]string, len(app.Args))
	for i, a := range app.Args {
		arg, err := t.term(a, env)
		if err != nil {
			return "", err
		}
		rendered[i] = arg
	}
	var pairs []string
	for i := 0; i < len(rendered); i++ {
		for j := i + 1; j < len(rendered); j++ {
			pairs = append(pairs, fmt.Sprintf(`(%s \<noteq> %s)`, rendered[i], rendered[j]))
		}
	}
	if len(pairs) == 1 {
		return pairs[0], nil
	}
	return `(` + strings.Join(pairs, ` \<and> `) + `)`, nil
}

// let sequentializes the parallel SMT-LIB let: bound values are
// translated in the outer scope, then each binder opens a nested
// Isabelle let over the body. Sequentializing puts every later bound
// value inside the earlier binders' scope, so the binders must stay
// clear of any identifier the rendered values mention.
func (t *Translator) let(let *smt.Let, env *renames) (string, error) {
	values := make([]string, len(let.Bindings))
	avoid := make(map[string]struct{})
	for i, b := range let.Bindings {
		value, err := t.term(b.Value, env)
		if err != nil {
			return "", err
		}
		values[i] = value
		for ident := range identifierTokens(value) {
			avoid[ident] = struct{}{}
		}
	}
	inner := env
	targets := make([]string, len(let.Bindings))
	for i, b := range let.Bindings {
		inner = inner.bindAvoiding(b.Name, avoid)
		targets[i] = inner.target
	}
	body, err := t.term(let.Body, inner)
	if err != nil {
		return "", err
	}
	out := body
	for i := len(let.Bindings) - 1; i >= 0; i-- {
		out = fmt.Sprintf("(let %s = %s in %s)", targets[i], values[i], out)
	}
	return out, nil
}

// identifierTokens collects the identifier-shaped tokens of rendered
// inner syntax, apostrophes included so freshened binders are seen too.
func identifierTokens(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for i := 0; i < len(s); {
		if !isIdentStart(s[i]) {
			i++
			continue
		}
		j := i + 1
		for j < len(s) && isIdentChar(s[j]) {
			j++
		}
		out[s[i:j]] = struct{}{}
		i = j
	}
	return out
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9' || c == '\''
}

func (t *Translator) quantifier(q *smt.Quantifier, env *renames) (string, error) {
	symbol := `\<forall>`
	if q.Kind == smt.Exists {
		symbol = `\<exists>`
	}
	inner := env
	binders := make([]string, len(q.Vars))
	for i, v := range q.Vars {
		inner = inner.bind(v.Name)
		sort, err := t.SortType(v.Sort)
		if err != nil {
			return "", err
		}
		binders[i] = fmt.Sprintf("%s::%s", inner.target, sort)
	}
	body, err := t.term(q.Body, inner)
	if err != nil {
		return "", err
	}
	out := body
	for i := len(binders) - 1; i >= 0; i-- {
		out = fmt.Sprintf("(%s%s. %s)", symbol, binders[i], out)
	}
	return out, nil
}
