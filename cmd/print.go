package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/formalsmt/SMTmv/internal/runner"
	"github.com/formalsmt/SMTmv/internal/smt"
	"github.com/formalsmt/SMTmv/validate"
)

const defaultConfigName = ".smtmv.yaml"

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	classStyle   = color.New(color.FgYellow, color.Bold)
	messageStyle = color.New(color.FgWhite)
)

// fail renders an error to stderr with its pipeline class and exits with
// a status distinct from the verdict outcomes (which all exit zero).
func fail(err error) {
	fmt.Fprintf(os.Stderr, "%s %s %s\n",
		errorStyle.Sprint("error:"),
		classStyle.Sprint(errorClass(err)),
		messageStyle.Sprint(err.Error()))
	os.Exit(1)
}

// errorClass names the taxonomy bucket an error belongs to, so "could not
// prove" is never confused with "could not even attempt to prove".
func errorClass(err error) string {
	var (
		syntaxErr      *smt.SyntaxError
		undeclaredErr  *smt.UndeclaredSymbolError
		sortErr        *smt.SortMismatchError
		unsupportedErr *smt.UnsupportedConstructError
		envErr         *runner.EnvironmentError
		execErr        *validate.ExecutionError
	)
	switch {
	case errors.As(err, &syntaxErr):
		return "[syntax]"
	case errors.As(err, &undeclaredErr):
		return "[undeclared symbol]"
	case errors.As(err, &sortErr):
		return "[sort mismatch]"
	case errors.As(err, &unsupportedErr):
		return "[unsupported construct]"
	case errors.As(err, &envErr):
		return "[environment]"
	case errors.As(err, &execErr):
		return "[prover execution]"
	default:
		return "[smtmv]"
	}
}
