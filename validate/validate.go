// Package validate is the front door of the pipeline: it parses an
// SMT-LIB formula and a candidate model, translates both to Isabelle,
// assembles the proof obligation and classifies the prover's answer.
package validate

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/formalsmt/SMTmv/internal/isabelle"
	"github.com/formalsmt/SMTmv/internal/runner"
	"github.com/formalsmt/SMTmv/internal/smt"
)

// Verdict is the three-valued answer of a validation run.
type Verdict int

const (
	Satisfied Verdict = iota
	Refuted
	Indeterminate
)

// String renders the verdict in the solver vocabulary the tool prints.
func (v Verdict) String() string {
	switch v {
	case Satisfied:
		return "sat"
	case Refuted:
		return "unsat"
	default:
		return "unknown"
	}
}

// Result is one validation verdict with an optional diagnostic.
type Result struct {
	Verdict    Verdict
	Diagnostic string
}

// ExecutionError reports abnormal prover termination: a crash or a theory
// the prover's own parser rejected. It signals a pipeline defect, not a
// failed proof attempt, and is never folded into Indeterminate.
type ExecutionError struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("prover terminated abnormally (exit %d): %s", e.ExitCode, firstLine(e.Stderr, e.Stdout))
}

func firstLine(candidates ...string) string {
	for _, c := range candidates {
		for _, line := range strings.Split(c, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				return line
			}
		}
	}
	return "no output"
}

// Validate runs the full pipeline for one formula/model pair against the
// theory root. The model text may be raw solver output ("sat" line and
// all). A model consisting of an "unsat" answer returns nil: there is
// nothing to validate.
func Validate(ctx context.Context, logger *zap.Logger, formula, model, theoryRoot string, config Config) (*Result, error) {
	prover := runner.NewBatchRunner(theoryRoot, config.Timeout, logger)
	prover.Binary = config.Isabelle
	prover.Logic = config.Logic
	prover.TheoryName = config.TheoryName
	return validateWith(ctx, logger, formula, model, theoryRoot, config, prover)
}

// validateWith is the pipeline behind Validate, taking the prover as a
// capability so tests can substitute a stub.
func validateWith(ctx context.Context, logger *zap.Logger, formula, model, theoryRoot string, config Config, prover runner.Prover) (*Result, error) {
	theoryText, err := BuildTheory(formula, model, theoryRoot, config)
	if err != nil {
		return nil, err
	}
	if theoryText == "" {
		// The model was an "unsat" answer.
		return nil, nil
	}
	if logger != nil {
		logger.Debug("assembled obligation", zap.String("theory", theoryText))
	}

	outcome, err := prover.Run(ctx, theoryText)
	if err != nil {
		return nil, err
	}
	return Classify(outcome)
}

// BuildTheory runs the front half of the pipeline and returns the
// generated theory text. The empty string means the model was an "unsat"
// answer and no obligation exists.
func BuildTheory(formula, model, theoryRoot string, config Config) (string, error) {
	modelText, unsat := smt.SanitizeModel(model)
	if unsat {
		return "", nil
	}

	tab := smt.NewSymbolTable()
	script, err := smt.ParseFormula(formula, tab)
	if err != nil {
		return "", fmt.Errorf("parsing formula: %w", err)
	}
	parsedModel, err := smt.ParseModel(modelText, tab)
	if err != nil {
		return "", fmt.Errorf("parsing model: %w", err)
	}

	spec := isabelle.DefaultSpec()
	if config.SpecFile != "" && theoryRoot != "" {
		loaded, err := isabelle.LoadSpecFile(filepath.Join(theoryRoot, config.SpecFile))
		if err == nil {
			spec = loaded
		}
	}

	translator := isabelle.NewTranslator(spec, tab)
	theory, err := isabelle.Assemble(script, parsedModel, tab, translator, isabelle.AssembleOptions{
		TheoryName:  config.TheoryName,
		LemmaName:   "validation",
		Imports:     config.Imports,
		SplitLemmas: config.SplitLemmas,
	})
	if err != nil {
		return "", fmt.Errorf("translating obligation: %w", err)
	}
	return theory.Render()
}

// Markers the batch process emits. A successful exit means every lemma
// was discharged; "Failed to finish proof" with a "1. False" subgoal is
// the heuristic that the simplifier reduced the goal to False, i.e. the
// model refutes the formula.
const (
	markerFailedProof = "Failed to finish proof"
	markerFalseGoal   = "1. False"
)

// Classify maps a raw prover outcome to a verdict. A timeout is a
// legitimate Indeterminate, not an error; any other abnormal termination
// is an ExecutionError.
func Classify(outcome *runner.Outcome) (*Result, error) {
	switch {
	case outcome.TimedOut:
		return &Result{Verdict: Indeterminate, Diagnostic: "prover timed out"}, nil

	case outcome.ExitCode == 0:
		return &Result{Verdict: Satisfied}, nil

	case strings.Contains(outcome.Stdout, markerFailedProof):
		if strings.Contains(outcome.Stdout, markerFalseGoal) {
			return &Result{Verdict: Refuted, Diagnostic: "goal reduced to False"}, nil
		}
		return &Result{Verdict: Indeterminate, Diagnostic: "automation could not finish the proof"}, nil

	default:
		return nil, &ExecutionError{
			ExitCode: outcome.ExitCode,
			Stdout:   outcome.Stdout,
			Stderr:   outcome.Stderr,
		}
	}
}
