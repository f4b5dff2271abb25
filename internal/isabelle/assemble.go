package isabelle

import (
	"strings"

	"github.com/formalsmt/SMTmv/internal/smt"
)

// AssembleOptions controls the shape of the generated theory.
type AssembleOptions struct {
	TheoryName  string
	LemmaName   string
	Imports     []string
	SplitLemmas bool
}

// Assemble combines the translated formula and model into one
// self-contained theory: fixes for every declared symbol left undefined,
// the definitions as assumptions, and the asserted conjunction as the
// goal. Definitions are applied in order with last-write-wins semantics
// when a model redefines a name.
func Assemble(script *smt.Script, model *smt.Model, tab *smt.SymbolTable, tr *Translator, opts AssembleOptions) (*Theory, error) {
	defs := mergeDefs(script, model)

	lemma := Lemma{Name: opts.LemmaName}
	if lemma.Name == "" {
		lemma.Name = "validation"
	}

	defined := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		defined[def.Name] = struct{}{}
	}

	// Premises first: defining a symbol may mint the type variables its
	// sort needs before any fixes entry mentions them.
	for _, def := range defs {
		premise, err := tr.Define(def)
		if err != nil {
			return nil, err
		}
		lemma.Assumes = append(lemma.Assumes, premise)
	}

	for _, name := range tab.Names() {
		if _, ok := defined[name]; ok {
			continue
		}
		decl, _ := tab.Lookup(name)
		sig, err := signatureType(tr, decl)
		if err != nil {
			return nil, err
		}
		lemma.Fixes = append(lemma.Fixes, TypedName{Name: EscapeIdent(name), Type: sig})
	}

	for _, assert := range script.Asserts {
		conclusion, err := tr.Term(assert)
		if err != nil {
			return nil, err
		}
		lemma.Shows = append(lemma.Shows, conclusion)
	}

	theory := NewTheory(opts.TheoryName, opts.SplitLemmas)
	for _, imp := range opts.Imports {
		theory.AddImport(imp)
	}
	theory.AddLemma(lemma)
	return theory, nil
}

// mergeDefs concatenates formula and model definitions and keeps only the
// last definition of each name, in place, matching how a solver's model
// may list a default case before specific overrides.
func mergeDefs(script *smt.Script, model *smt.Model) []smt.DefinedFun {
	all := make([]smt.DefinedFun, 0, len(script.Defs)+len(model.Defs))
	all = append(all, script.Defs...)
	all = append(all, model.Defs...)

	index := make(map[string]int)
	var out []smt.DefinedFun
	for _, def := range all {
		if at, ok := index[def.Name]; ok {
			out[at] = def
			continue
		}
		index[def.Name] = len(out)
		out = append(out, def)
	}
	return out
}

// signatureType renders a declaration's full signature as a (possibly
// curried) Isabelle type.
func signatureType(tr *Translator, decl *smt.Declaration) (string, error) {
	parts := make([]string, 0, len(decl.Args)+1)
	for _, a := range decl.Args {
		argType, err := tr.SortType(a)
		if err != nil {
			return "", err
		}
		parts = append(parts, argType)
	}
	result, err := tr.SortType(decl.Result)
	if err != nil {
		return "", err
	}
	parts = append(parts, result)
	if len(parts) == 1 {
		return parts[0], nil
	}
	return strings.Join(parts, ` \<Rightarrow> `), nil
}

// DefaultImports are the theory-root sessions the obligation builds on.
func DefaultImports() []string {
	return []string{"smt.Core", "smt.Strings"}
}
