package smt

import "github.com/formalsmt/SMTmv/internal/sexpr"

// Term is an immutable SMT-LIB term tree. Variable and Apply nodes refer
// to declarations by name; the SymbolTable resolves them.
type Term interface {
	Pos() sexpr.Pos
	term()
}

// LiteralKind discriminates the constant forms of the SMT-LIB grammar.
type LiteralKind int

const (
	NumeralLit LiteralKind = iota
	DecimalLit
	HexLit    // Text holds the digits without the #x prefix
	BinaryLit // Text holds the digits without the #b prefix
	StringLit // Text holds the raw content with escape sequences undecoded
	BoolLit   // Text is "true" or "false"
)

// Literal is a constant with its inferred sort.
type Literal struct {
	Kind LiteralKind
	Text string
	Sort Sort
	At   sexpr.Pos
}

// Variable references a declared or bound symbol by name.
type Variable struct {
	Name string
	At   sexpr.Pos
}

// Apply is a function application with ordered arguments.
type Apply struct {
	Name string
	Args []Term
	At   sexpr.Pos
}

// LetBinding is one (name term) pair of a let form.
type LetBinding struct {
	Name  string
	Value Term
}

// Let binds names in parallel over a body term.
type Let struct {
	Bindings []LetBinding
	Body     Term
	At       sexpr.Pos
}

// QuantKind is the binder kind of a quantified term.
type QuantKind int

const (
	Forall QuantKind = iota
	Exists
)

func (k QuantKind) String() string {
	if k == Exists {
		return "exists"
	}
	return "forall"
}

// SortedVar is one (name Sort) binder of a quantifier or definition.
type SortedVar struct {
	Name string
	Sort Sort
}

// Quantifier is a forall/exists term over sort-annotated binders.
type Quantifier struct {
	Kind QuantKind
	Vars []SortedVar
	Body Term
	At   sexpr.Pos
}

// Annotation wraps a term with (! ... :attr value) metadata that does not
// affect its semantics.
type Annotation struct {
	Inner Term
	Attrs []Attribute
	At    sexpr.Pos
}

// Attribute is one :keyword with its optional value rendered as text.
type Attribute struct {
	Keyword string
	Value   string
}

func (l *Literal) Pos() sexpr.Pos    { return l.At }
func (v *Variable) Pos() sexpr.Pos   { return v.At }
func (a *Apply) Pos() sexpr.Pos      { return a.At }
func (l *Let) Pos() sexpr.Pos        { return l.At }
func (q *Quantifier) Pos() sexpr.Pos { return q.At }
func (a *Annotation) Pos() sexpr.Pos { return a.At }

func (*Literal) term()    {}
func (*Variable) term()   {}
func (*Apply) term()      {}
func (*Let) term()        {}
func (*Quantifier) term() {}
func (*Annotation) term() {}
