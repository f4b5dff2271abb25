package isabelle

import (
	"fmt"
	"strings"
)

// reservedWords are Isabelle identifiers that must never appear verbatim
// as free variables in a lemma statement.
var reservedWords = map[string]struct{}{
	"if": {}, "then": {}, "else": {}, "let": {}, "in": {}, "case": {}, "of": {},
	"fun": {}, "definition": {}, "lemma": {}, "theorem": {}, "theory": {},
	"imports": {}, "begin": {}, "end": {}, "assumes": {}, "shows": {},
	"fixes": {}, "and": {}, "apply": {}, "by": {}, "done": {},
	"ALL": {}, "EX": {}, "SOME": {}, "THE": {}, "O": {},
	"True": {}, "False": {}, "Not": {}, "If": {}, "abs": {}, "div": {}, "mod": {},
}

// EscapeIdent maps an SMT-LIB identifier to a valid Isabelle identifier.
// The encoding is total and injective:
//
//   - letters and digits pass through unchanged,
//   - '_' becomes "__",
//   - any other rune becomes "_x" + lowercase hex code + "_",
//   - if the result starts with a digit, is empty, or is a reserved word,
//     it is prefixed with "smt_".
//
// Injectivity: a single '_' followed by anything other than '_' or 'x'
// never appears in an encoded body, so the "smt_" prefix cannot be
// produced by the body encoding, and the body itself decodes
// unambiguously.
func EscapeIdent(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '_':
			sb.WriteString("__")
		default:
			fmt.Fprintf(&sb, "_x%x_", r)
		}
	}
	out := sb.String()
	if out == "" || out[0] >= '0' && out[0] <= '9' {
		return "smt_" + out
	}
	if _, reserved := reservedWords[out]; reserved {
		return "smt_" + out
	}
	return out
}
