package sexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("nested lists", func(t *testing.T) {
		nodes, err := Parse("(assert (= (+ x 1) 2))")
		require.NoError(t, err)
		require.Len(t, nodes, 1)

		assertion := nodes[0]
		assert.True(t, assertion.IsList())
		assert.Equal(t, "assert", assertion.Head())

		eq := assertion.List[1]
		assert.Equal(t, "=", eq.Head())
		require.Len(t, eq.List, 3)
		assert.Equal(t, "+", eq.List[1].Head())
		assert.Equal(t, KindNumeral, eq.List[2].Kind)
		assert.Equal(t, "2", eq.List[2].Text)
	})

	t.Run("multiple top-level expressions", func(t *testing.T) {
		nodes, err := Parse("(declare-const x Int) (assert (> x 0)) (check-sat)")
		require.NoError(t, err)
		require.Len(t, nodes, 3)
		assert.Equal(t, "declare-const", nodes[0].Head())
		assert.Equal(t, "assert", nodes[1].Head())
		assert.Equal(t, "check-sat", nodes[2].Head())
	})

	t.Run("empty list", func(t *testing.T) {
		nodes, err := Parse("()")
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		assert.True(t, nodes[0].IsList())
		assert.Empty(t, nodes[0].List)
		assert.Equal(t, "", nodes[0].Head())
	})

	t.Run("atoms keep their kinds", func(t *testing.T) {
		nodes, err := Parse(`(foo :named 1 2.5 #xff #b01 "s")`)
		require.NoError(t, err)
		kinds := []NodeKind{
			KindSymbol, KindKeyword, KindNumeral, KindDecimal,
			KindHex, KindBinary, KindString,
		}
		require.Len(t, nodes[0].List, len(kinds))
		for i, kind := range kinds {
			assert.Equal(t, kind, nodes[0].List[i].Kind, "element %d", i)
		}
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unclosed paren", "(assert (= x 1)"},
		{"stray close paren", "(assert true))"},
		{"close without open", ")"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			var syntaxErr *SyntaxError
			assert.ErrorAs(t, err, &syntaxErr)
		})
	}
}
