package smt

// Declaration is a symbol signature: name, ordered argument sorts, result
// sort, and whether the symbol carries a model-provided definition.
// Declarations are immutable once parsed; the SymbolTable owns them.
type Declaration struct {
	Name    string
	Args    []Sort
	Result  Sort
	Defined bool
}

// IsConst reports whether the declaration takes no arguments.
func (d *Declaration) IsConst() bool { return len(d.Args) == 0 }

// SymbolTable holds the declared sorts and function signatures of one
// formula/model pair. A name redeclared by the model overrides the
// formula's declaration of the same name.
type SymbolTable struct {
	decls map[string]*Declaration
	order []string
	sorts map[string]int // user-declared sort name -> arity
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		decls: make(map[string]*Declaration),
		sorts: make(map[string]int),
	}
}

// Declare records a signature, replacing any earlier declaration of the
// same name (the model is additive to the formula's signature).
func (t *SymbolTable) Declare(d *Declaration) {
	if _, ok := t.decls[d.Name]; !ok {
		t.order = append(t.order, d.Name)
	}
	t.decls[d.Name] = d
}

// Lookup resolves a symbol reference.
func (t *SymbolTable) Lookup(name string) (*Declaration, bool) {
	d, ok := t.decls[name]
	return d, ok
}

// Names returns the declared names in first-declaration order.
func (t *SymbolTable) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// DeclareSort records a user sort with its arity.
func (t *SymbolTable) DeclareSort(name string, arity int) {
	t.sorts[name] = arity
}

// SortArity looks up a user-declared sort.
func (t *SymbolTable) SortArity(name string) (int, bool) {
	a, ok := t.sorts[name]
	return a, ok
}
