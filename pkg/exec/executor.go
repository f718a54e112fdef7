// Package exec provides abstractions for credential provider execution.
// This package enables testable code by allowing provider processes to be mocked.
package exec

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Result captures everything a provider process produced.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// StdoutLines returns stdout split into lines with trailing blanks dropped.
func (r Result) StdoutLines() []string {
	return splitLines(r.Stdout)
}

// StderrLines returns stderr split into lines with trailing blanks dropped.
func (r Result) StderrLines() []string {
	return splitLines(r.Stderr)
}

func splitLines(b []byte) []string {
	s := strings.ReplaceAll(string(b), "\r\n", "\n")
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Runner defines an interface for running credential provider executables.
// This abstraction allows provider behavior to be mocked in tests.
type Runner interface {
	// Run executes the provider with the given arguments and returns its
	// captured output and exit code. A non-zero exit code is not an error;
	// err is non-nil only when the process could not be run to completion
	// (launch failure, context deadline).
	Run(ctx context.Context, path string, args ...string) (Result, error)
}

// RealRunner executes actual provider processes using os/exec.
// This is the production implementation.
type RealRunner struct{}

// Run executes the provider process.
func (r *RealRunner) Run(ctx context.Context, path string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			// The provider ran and exited on its own; the exit code is
			// protocol data, not a failure.
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		return res, err
	}

	return res, nil
}

// DefaultRunner returns the standard production runner.
// This is used as the default when no runner is injected.
func DefaultRunner() Runner {
	return &RealRunner{}
}
