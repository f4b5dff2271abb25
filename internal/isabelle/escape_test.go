package isabelle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeIdent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain identifier", "x", "x"},
		{"alphanumeric", "foo42", "foo42"},
		{"underscore doubles", "foo_bar", "foo__bar"},
		{"dot encodes", "str.len", "str_x2e_len"},
		{"space encodes", "hello world", "hello_x20_world"},
		{"dash encodes", "my-const", "my_x2d_const"},
		{"leading digit", "2", "smt_2"},
		{"empty name", "", "smt_"},
		{"reserved word", "if", "smt_if"},
		{"reserved constant", "True", "smt_True"},
		{"non-ascii", "é", "_xe9_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EscapeIdent(tt.input))
		})
	}
}

// Names that collapse under a naive escaping must stay distinct.
func TestEscapeIdentInjective(t *testing.T) {
	pairs := [][2]string{
		{"a_b", "a__b"},
		{"a_", "a__"},
		{"x_x61_", "xa"},
		{"foo.bar", "foo_bar"},
		{"smt_x", "x"},
	}
	for _, p := range pairs {
		assert.NotEqual(t, EscapeIdent(p[0]), EscapeIdent(p[1]),
			"%q and %q must not collide", p[0], p[1])
	}
}
