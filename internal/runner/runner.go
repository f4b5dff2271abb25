// Package runner invokes the external Isabelle process in batch mode and
// captures its outcome. It deliberately knows nothing about verdicts;
// classification happens in the validate package against the Outcome.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Outcome is the raw result of one prover invocation: exit status and
// captured output, or the timeout marker. A timed-out run carries no
// partial output.
type Outcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
}

// Prover runs one assembled theory against the theory root. It is the
// narrow capability boundary to the external proving engine, so the
// pipeline can be tested against a stub.
type Prover interface {
	Run(ctx context.Context, theoryText string) (*Outcome, error)
}

// EnvironmentError reports a failure to even start the proving process:
// missing binary, unusable theory root, scratch-dir trouble. It is fatal
// and never retried.
type EnvironmentError struct {
	Op  string
	Err error
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("environment error: %s: %v", e.Op, e.Err)
}

func (e *EnvironmentError) Unwrap() error { return e.Err }

// BatchRunner runs `isabelle process` against a scratch directory holding
// the generated theory file. One invocation per call; no retries.
type BatchRunner struct {
	Binary     string // isabelle executable, looked up on PATH if relative
	TheoryRoot string // session directory with the prebuilt heap image
	Logic      string // session image to load, e.g. "smt"
	TheoryName string // theory (and file) name, e.g. "Validation"
	Timeout    time.Duration
	Logger     *zap.Logger
}

// NewBatchRunner returns a runner with the conventional defaults.
func NewBatchRunner(theoryRoot string, timeout time.Duration, logger *zap.Logger) *BatchRunner {
	return &BatchRunner{
		Binary:     "isabelle",
		TheoryRoot: theoryRoot,
		Logic:      "smt",
		TheoryName: "Validation",
		Timeout:    timeout,
		Logger:     logger,
	}
}

// processOptions keep the batch process quiet and fast; proofs are
// replayed quick-and-dirty since only the discharge verdict matters.
var processOptions = []string{
	"quick_and_dirty=true",
	"pide_reports=false",
	"build_pide_reports=false",
	"process_output_limit=1",
	"process_output_tail=1",
	"record_proofs=0",
	"parallel_proofs=0",
}

// Run writes the theory to a scratch directory, invokes the prover and
// waits for exit or timeout. The scratch directory is removed on every
// exit path.
func (r *BatchRunner) Run(ctx context.Context, theoryText string) (*Outcome, error) {
	info, err := os.Stat(r.TheoryRoot)
	if err != nil {
		return nil, &EnvironmentError{Op: "theory root " + r.TheoryRoot, Err: err}
	}
	if !info.IsDir() {
		return nil, &EnvironmentError{Op: "theory root " + r.TheoryRoot, Err: errors.New("not a directory")}
	}

	binary, err := exec.LookPath(r.Binary)
	if err != nil {
		return nil, &EnvironmentError{Op: "locating " + r.Binary, Err: err}
	}

	dir, err := os.MkdirTemp("", "smtmv-*")
	if err != nil {
		return nil, &EnvironmentError{Op: "creating scratch directory", Err: err}
	}
	defer os.RemoveAll(dir)

	theoryFile := filepath.Join(dir, r.TheoryName+".thy")
	if err := os.WriteFile(theoryFile, []byte(theoryText), 0o644); err != nil {
		return nil, &EnvironmentError{Op: "writing " + theoryFile, Err: err}
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if r.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	args := []string{"process", "-T", r.TheoryName, "-d", r.TheoryRoot}
	if r.Logic != "" {
		args = append(args, "-l", r.Logic)
	}
	for _, opt := range processOptions {
		args = append(args, "-o", opt)
	}

	cmd := exec.CommandContext(runCtx, binary, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if r.Logger != nil {
		r.Logger.Debug("invoking prover",
			zap.String("binary", binary),
			zap.Strings("args", args),
			zap.Duration("timeout", r.Timeout))
	}

	start := time.Now()
	err = cmd.Run()
	elapsed := time.Since(start)

	if runCtx.Err() == context.DeadlineExceeded {
		if r.Logger != nil {
			r.Logger.Info("prover timed out", zap.Duration("after", elapsed))
		}
		return &Outcome{TimedOut: true}, nil
	}

	outcome := &Outcome{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			outcome.ExitCode = exitErr.ExitCode()
		} else {
			return nil, &EnvironmentError{Op: "running " + binary, Err: err}
		}
	}

	if r.Logger != nil {
		r.Logger.Debug("prover finished",
			zap.Int("exit", outcome.ExitCode),
			zap.Duration("elapsed", elapsed))
	}
	return outcome, nil
}
