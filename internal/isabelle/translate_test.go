package isabelle

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formalsmt/SMTmv/internal/smt"
)

// translateAssert parses a formula and translates its last assertion.
func translateAssert(t *testing.T, formula string) string {
	t.Helper()
	tab := smt.NewSymbolTable()
	script, err := smt.ParseFormula(formula, tab)
	require.NoError(t, err)
	require.NotEmpty(t, script.Asserts)

	tr := NewTranslator(DefaultSpec(), tab)
	out, err := tr.Term(script.Asserts[len(script.Asserts)-1])
	require.NoError(t, err)
	return out
}

func TestTranslateTerm(t *testing.T) {
	tests := []struct {
		name     string
		formula  string
		expected string
	}{
		{
			name:     "boolean constants",
			formula:  "(assert true)",
			expected: "True",
		},
		{
			name:     "negation",
			formula:  "(declare-const p Bool) (assert (not p))",
			expected: "(Not p)",
		},
		{
			name:     "binary conjunction uses section syntax",
			formula:  "(declare-const p Bool) (declare-const q Bool) (assert (and p q))",
			expected: `((\<and>) p q)`,
		},
		{
			name:     "left-assoc conjunction unrolls",
			formula:  "(declare-const p Bool) (declare-const q Bool) (declare-const r Bool) (assert (and p q r))",
			expected: `((\<and>) ((\<and>) p q) r)`,
		},
		{
			name:     "right-assoc implication unrolls",
			formula:  "(declare-const p Bool) (declare-const q Bool) (declare-const r Bool) (assert (=> p q r))",
			expected: `((\<longrightarrow>) p ((\<longrightarrow>) q r))`,
		},
		{
			name:     "chainable comparison expands pairwise",
			formula:  "(assert (< 1 2 3))",
			expected: `(((<) (1::int) (2::int)) \<and> ((<) (2::int) (3::int)))`,
		},
		{
			name:     "distinct expands to pairwise inequalities",
			formula:  "(declare-const a Int) (declare-const b Int) (declare-const c Int) (assert (distinct a b c))",
			expected: `((a \<noteq> b) \<and> (a \<noteq> c) \<and> (b \<noteq> c))`,
		},
		{
			name:     "ite",
			formula:  "(assert (= 1 (ite true 1 2)))",
			expected: `((=) (1::int) ((If) True (1::int) (2::int)))`,
		},
		{
			name:     "user function application",
			formula:  "(declare-fun f (Int) Int) (assert (= (f 1) 2))",
			expected: `((=) (f (1::int)) (2::int))`,
		},
		{
			name:     "escaped symbol names",
			formula:  "(declare-const my-const Int) (assert (= my-const 0))",
			expected: `((=) my_x2d_const (0::int))`,
		},
		{
			name:     "array select is application",
			formula:  "(declare-const a (Array Int Bool)) (assert (select a 0))",
			expected: "(a (0::int))",
		},
		{
			name:     "array store is function update",
			formula:  "(declare-const a (Array Int Bool)) (assert (select (store a 0 true) 1))",
			expected: "((a((0::int) := True)) (1::int))",
		},
		{
			name:     "string literal is a char code list",
			formula:  `(assert (= (str.len "ab") 2))`,
			expected: `((=) (str_len [97, 98]) (2::int))`,
		},
		{
			name:     "string concat",
			formula:  `(assert (= (str.++ "a" "b") "ab"))`,
			expected: `((=) ((@) [97] [98]) [97, 98])`,
		},
		{
			name:     "hex literal with width from digits",
			formula:  "(declare-const v (_ BitVec 8)) (assert (= v #xff))",
			expected: `((=) v (255::8 word))`,
		},
		{
			name:     "binary literal",
			formula:  "(declare-const v (_ BitVec 3)) (assert (= v #b101))",
			expected: `((=) v (5::3 word))`,
		},
		{
			name:     "indexed bitvector literal",
			formula:  "(declare-const v (_ BitVec 8)) (assert (= v (_ bv7 8)))",
			expected: `((=) v (7::8 word))`,
		},
		{
			name:     "let binding",
			formula:  "(assert (let ((x 1)) (= x x)))",
			expected: `(let x = (1::int) in ((=) x x))`,
		},
		{
			name:     "parallel let sequentializes",
			formula:  "(assert (let ((x 1) (y 2)) (< x y)))",
			expected: `(let x = (1::int) in (let y = (2::int) in ((<) x y)))`,
		},
		{
			name:     "let binder never captures a later bound value",
			formula:  "(declare-const x Int) (declare-const y Int) (assert (let ((x y) (y x)) (= x y)))",
			expected: `(let x' = y in (let y' = x in ((=) x' y')))`,
		},
		{
			name:     "let binder shadowing its own value stays apart",
			formula:  "(declare-const x Int) (assert (let ((x (+ x 1))) (= x x)))",
			expected: `(let x' = ((+) x (1::int)) in ((=) x' x'))`,
		},
		{
			name:     "quantifier binders fold",
			formula:  "(assert (forall ((a Int) (b Int)) (= a b)))",
			expected: `(\<forall>a::int. (\<forall>b::int. ((=) a b)))`,
		},
		{
			name:     "existential",
			formula:  "(assert (exists ((a Int)) (> a 0)))",
			expected: `(\<exists>a::int. ((>) a (0::int)))`,
		},
		{
			name:     "shadowed binder gets a fresh name",
			formula:  "(assert (forall ((x Int)) (exists ((x Int)) (= x x))))",
			expected: `(\<forall>x::int. (\<exists>x'::int. ((=) x' x')))`,
		},
		{
			name:     "annotation translates the inner term",
			formula:  "(declare-const p Bool) (assert (! p :named goal))",
			expected: "p",
		},
		{
			name:     "constant array",
			formula:  "(declare-const a (Array Int Bool)) (assert (= a ((as const (Array Int Bool)) false)))",
			expected: `((=) a (\<lambda>uu. False))`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, translateAssert(t, tt.formula))
		})
	}
}

func TestTranslateUnsupportedOperator(t *testing.T) {
	tab := smt.NewSymbolTable()
	script, err := smt.ParseFormula(`
		(declare-const v (_ BitVec 8))
		(assert (= v (bvshl v v)))
	`, tab)
	require.NoError(t, err)

	tr := NewTranslator(DefaultSpec(), tab)
	_, err = tr.Term(script.Asserts[0])
	require.Error(t, err)
	var unsupported *smt.UnsupportedConstructError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "bvshl", unsupported.Construct)
}

func TestTranslatorDefine(t *testing.T) {
	tab := smt.NewSymbolTable()
	script, err := smt.ParseFormula(`
		(define-fun zero () Int 0)
		(define-fun inc ((n Int)) Int (+ n 1))
	`, tab)
	require.NoError(t, err)
	require.Len(t, script.Defs, 2)

	tr := NewTranslator(DefaultSpec(), tab)

	constant, err := tr.Define(script.Defs[0])
	require.NoError(t, err)
	assert.Equal(t, "zero = (0::int)", constant)

	function, err := tr.Define(script.Defs[1])
	require.NoError(t, err)
	assert.Equal(t, `inc = (\<lambda>n::int. ((+) n (1::int)))`, function)
}

func TestSortType(t *testing.T) {
	tab := smt.NewSymbolTable()
	tab.DeclareSort("Elem", 0)
	tab.DeclareSort("Other", 0)
	tr := NewTranslator(DefaultSpec(), tab)

	tests := []struct {
		name     string
		sort     smt.Sort
		expected string
	}{
		{"bool", smt.BoolSort, "bool"},
		{"int", smt.IntSort, "int"},
		{"real", smt.RealSort, "real"},
		{"string", smt.StringSort, "int list"},
		{"bitvector", smt.BitVecSort(8), "8 word"},
		{"array", smt.ArraySort(smt.IntSort, smt.BoolSort), `(int \<Rightarrow> bool)`},
		{"first user sort", smt.Sort{Name: "Elem"}, "'a"},
		{"second user sort", smt.Sort{Name: "Other"}, "'b"},
		{"user sort is stable", smt.Sort{Name: "Elem"}, "'a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tr.SortType(tt.sort)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}

	t.Run("undeclared sort is unsupported", func(t *testing.T) {
		_, err := tr.SortType(smt.Sort{Name: "Mystery"})
		var unsupported *smt.UnsupportedConstructError
		assert.ErrorAs(t, err, &unsupported)
	})
}

func TestSortTypeVariablesPastAlphabet(t *testing.T) {
	tab := smt.NewSymbolTable()
	tr := NewTranslator(DefaultSpec(), tab)

	expected := map[int]string{0: "'a", 25: "'z", 26: "'a1", 27: "'a2"}
	for i := 0; i < 28; i++ {
		name := fmt.Sprintf("Sort%d", i)
		tab.DeclareSort(name, 0)
		out, err := tr.SortType(smt.Sort{Name: name})
		require.NoError(t, err)
		if want, ok := expected[i]; ok {
			assert.Equal(t, want, out)
		}
	}
}
