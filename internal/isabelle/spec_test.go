package isabelle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSpec(t *testing.T) {
	spec := DefaultSpec()

	and, ok := spec.Lookup("and")
	require.True(t, ok)
	assert.Equal(t, `\<and>`, and.MapsTo)
	assert.True(t, and.IsLeftAssoc())

	implies, ok := spec.Lookup("=>")
	require.True(t, ok)
	assert.True(t, implies.IsRightAssoc())

	eq, ok := spec.Lookup("=")
	require.True(t, ok)
	assert.True(t, eq.Chainable)

	shift, ok := spec.Lookup("bvshl")
	require.True(t, ok)
	assert.Empty(t, shift.MapsTo)

	_, ok = spec.Lookup("no-such-op")
	assert.False(t, ok)
}

// An operator listed in two theories must resolve the same way on every
// run: the alphabetically first theory wins.
func TestLookupDuplicateOperator(t *testing.T) {
	spec := &SpecDef{Specs: map[string]map[string]OpSpec{
		"Zeta":  {"op": {MapsTo: "from_zeta"}},
		"Alpha": {"op": {MapsTo: "from_alpha"}},
		"Mid":   {"other": {MapsTo: "unrelated"}},
	}}
	for i := 0; i < 32; i++ {
		op, ok := spec.Lookup("op")
		require.True(t, ok)
		assert.Equal(t, "from_alpha", op.MapsTo)
	}
}

func TestLoadSpecFile(t *testing.T) {
	t.Run("entries override the built-in table", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "spec.json")
		content := `{
			"version": "0.2",
			"smt-lib-version": "2.6",
			"specs": {
				"Core": {
					"and": {"mapsto": "myand", "assoc": "left", "chainable": false}
				},
				"Custom": {
					"frob": {"mapsto": "frob", "chainable": false}
				}
			}
		}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		spec, err := LoadSpecFile(path)
		require.NoError(t, err)
		assert.Equal(t, "0.2", spec.Version)

		and, ok := spec.Lookup("and")
		require.True(t, ok)
		assert.Equal(t, "myand", and.MapsTo)

		// Untouched built-ins survive the merge.
		or, ok := spec.Lookup("or")
		require.True(t, ok)
		assert.Equal(t, `\<or>`, or.MapsTo)

		frob, ok := spec.Lookup("frob")
		require.True(t, ok)
		assert.Equal(t, "frob", frob.MapsTo)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSpecFile(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "spec.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
		_, err := LoadSpecFile(path)
		assert.Error(t, err)
	})
}
