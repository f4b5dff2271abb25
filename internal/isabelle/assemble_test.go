package isabelle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formalsmt/SMTmv/internal/smt"
)

func assemble(t *testing.T, formula, model string, opts AssembleOptions) *Lemma {
	t.Helper()
	tab := smt.NewSymbolTable()
	script, err := smt.ParseFormula(formula, tab)
	require.NoError(t, err)
	parsedModel, err := smt.ParseModel(model, tab)
	require.NoError(t, err)

	tr := NewTranslator(DefaultSpec(), tab)
	theory, err := Assemble(script, parsedModel, tab, tr, opts)
	require.NoError(t, err)
	require.Len(t, theory.lemmas, 1)
	return &theory.lemmas[0]
}

func TestAssemble(t *testing.T) {
	t.Run("definitions become premises, the rest is fixed", func(t *testing.T) {
		lemma := assemble(t,
			"(declare-const x Int) (declare-const y Int) (assert (< x y))",
			"(define-fun x () Int 3)",
			AssembleOptions{TheoryName: "Validation", LemmaName: "validation"},
		)
		assert.Equal(t, "validation", lemma.Name)
		assert.Equal(t, []string{"x = (3::int)"}, lemma.Assumes)
		assert.Equal(t, []TypedName{{Name: "y", Type: "int"}}, lemma.Fixes)
		assert.Equal(t, []string{`((<) x y)`}, lemma.Shows)
	})

	t.Run("model definition overrides the formula's", func(t *testing.T) {
		lemma := assemble(t,
			"(define-fun x () Int 1) (assert (> x 0))",
			"(define-fun x () Int 5)",
			AssembleOptions{TheoryName: "Validation"},
		)
		assert.Equal(t, []string{"x = (5::int)"}, lemma.Assumes)
		assert.Empty(t, lemma.Fixes)
	})

	t.Run("a name defined twice keeps the last body", func(t *testing.T) {
		lemma := assemble(t,
			"(declare-const x Int) (assert (> x 0))",
			"(define-fun x () Int 1) (define-fun x () Int 2)",
			AssembleOptions{TheoryName: "Validation"},
		)
		assert.Equal(t, []string{"x = (2::int)"}, lemma.Assumes)
	})

	t.Run("each assertion is one conclusion", func(t *testing.T) {
		lemma := assemble(t,
			"(define-fun x () Int 2) (assert (> x 0)) (assert (< x 9))",
			"",
			AssembleOptions{TheoryName: "Validation"},
		)
		assert.Len(t, lemma.Shows, 2)
	})

	t.Run("function signatures curry in fixes", func(t *testing.T) {
		lemma := assemble(t,
			"(declare-fun f (Int Bool) Int) (assert (= (f 0 true) 0))",
			"",
			AssembleOptions{TheoryName: "Validation"},
		)
		require.Len(t, lemma.Fixes, 1)
		assert.Equal(t, "f", lemma.Fixes[0].Name)
		assert.Equal(t, `int \<Rightarrow> bool \<Rightarrow> int`, lemma.Fixes[0].Type)
	})

	t.Run("uninterpreted sorts become type variables", func(t *testing.T) {
		lemma := assemble(t,
			"(declare-sort Elem 0) (declare-const e Elem) (declare-const g Elem) (assert (distinct e g))",
			"",
			AssembleOptions{TheoryName: "Validation"},
		)
		require.Len(t, lemma.Fixes, 2)
		assert.Equal(t, "'a", lemma.Fixes[0].Type)
		assert.Equal(t, "'a", lemma.Fixes[1].Type)
	})

	t.Run("lemma name defaults", func(t *testing.T) {
		lemma := assemble(t, "(assert true)", "", AssembleOptions{TheoryName: "Validation"})
		assert.Equal(t, "validation", lemma.Name)
	})
}

func TestDefaultImports(t *testing.T) {
	assert.Equal(t, []string{"smt.Core", "smt.Strings"}, DefaultImports())
}
