package smt

import (
	"fmt"

	"github.com/formalsmt/SMTmv/internal/sexpr"
)

// SyntaxError reports malformed s-expression input; re-exported here so
// callers can discriminate the whole parsing taxonomy from one package.
type SyntaxError = sexpr.SyntaxError

// UndeclaredSymbolError reports a reference to a name with no prior
// declaration and no built-in meaning.
type UndeclaredSymbolError struct {
	Name string
	Pos  sexpr.Pos
}

func (e *UndeclaredSymbolError) Error() string {
	return fmt.Sprintf("undeclared symbol %q at %s", e.Name, e.Pos)
}

// SortMismatchError reports an argument whose inferred sort disagrees with
// the sort its context requires.
type SortMismatchError struct {
	Context string // operator or declared function name
	Want    string
	Got     string
	Pos     sexpr.Pos
}

func (e *SortMismatchError) Error() string {
	return fmt.Sprintf("sort mismatch in %s at %s: want %s, got %s",
		e.Context, e.Pos, e.Want, e.Got)
}

// UnsupportedConstructError reports an operator or sort the translator has
// no target-logic spelling for.
type UnsupportedConstructError struct {
	Construct string
	Pos       sexpr.Pos
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("unsupported construct %q at %s", e.Construct, e.Pos)
}
