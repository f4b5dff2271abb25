package isabelle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLemmaRender(t *testing.T) {
	t.Run("full statement", func(t *testing.T) {
		lemma := Lemma{
			Name:    "validation",
			Fixes:   []TypedName{{Name: "y", Type: "int"}},
			Assumes: []string{"x = (3::int)"},
			Shows:   []string{`((<) x y)`},
		}
		expected := `lemma validation:
  fixes y::"int"
  assumes "x = (3::int)"
  shows "((<) x y)"
  apply(simp add: assms)
  done
`
		assert.Equal(t, expected, lemma.Render())
	})

	t.Run("no assumptions uses plain simp", func(t *testing.T) {
		lemma := Lemma{Name: "validation", Shows: []string{"True"}}
		out := lemma.Render()
		assert.Contains(t, out, "apply(simp)\n")
		assert.NotContains(t, out, "assms")
		assert.NotContains(t, out, "fixes")
	})

	t.Run("no conclusions shows True", func(t *testing.T) {
		lemma := Lemma{Name: "validation"}
		assert.Contains(t, lemma.Render(), `shows "True"`)
	})

	t.Run("multiple parts join", func(t *testing.T) {
		lemma := Lemma{
			Name:    "validation",
			Fixes:   []TypedName{{Name: "a", Type: "int"}, {Name: "b", Type: "bool"}},
			Assumes: []string{"p1", "p2"},
			Shows:   []string{"c1", "c2"},
		}
		out := lemma.Render()
		assert.Contains(t, out, `fixes a::"int" and b::"bool"`)
		assert.Contains(t, out, `assumes "p1" and "p2"`)
		assert.Contains(t, out, `shows "c1 \<and> c2"`)
	})
}

func TestLemmaSplit(t *testing.T) {
	lemma := Lemma{
		Name:    "validation",
		Assumes: []string{"p"},
		Shows:   []string{"c1", "c2", "c3"},
	}
	parts := lemma.Split()
	require.Len(t, parts, 3)
	for i, part := range parts {
		assert.Equal(t, lemma.Assumes, part.Assumes)
		require.Len(t, part.Shows, 1)
		assert.Equal(t, lemma.Shows[i], part.Shows[0])
	}
	assert.Equal(t, "validation_0", parts[0].Name)
	assert.Equal(t, "validation_2", parts[2].Name)
}

func TestTheoryRender(t *testing.T) {
	t.Run("with imports", func(t *testing.T) {
		theory := NewTheory("Validation", false)
		theory.AddImport("smt.Core")
		theory.AddImport("smt.Strings")
		theory.AddLemma(Lemma{Name: "validation", Shows: []string{"True"}})

		out, err := theory.Render()
		require.NoError(t, err)
		assert.Contains(t, out, "theory Validation\n")
		assert.Contains(t, out, `imports "smt.Core" "smt.Strings"`)
		assert.Contains(t, out, "begin\n")
		assert.Contains(t, out, "lemma validation:")
		assert.True(t, len(out) > 0 && out[len(out)-1] == '\n')
		assert.Contains(t, out, "end\n")
	})

	t.Run("defaults to Main without imports", func(t *testing.T) {
		theory := NewTheory("Validation", false)
		theory.AddLemma(Lemma{Name: "validation"})
		out, err := theory.Render()
		require.NoError(t, err)
		assert.Contains(t, out, "imports Main")
	})

	t.Run("split mode emits one lemma per conclusion", func(t *testing.T) {
		theory := NewTheory("Validation", true)
		theory.AddLemma(Lemma{Name: "validation", Shows: []string{"a", "b"}})
		out, err := theory.Render()
		require.NoError(t, err)
		assert.Contains(t, out, "lemma validation_0:")
		assert.Contains(t, out, "lemma validation_1:")
		assert.NotContains(t, out, "lemma validation:")
	})
}
