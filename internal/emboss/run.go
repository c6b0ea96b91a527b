package emboss

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"
)

// Result is the outcome of one tool run.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Runner executes tool command lines.
type Runner struct {
	logger *slog.Logger

	// Dir is the working directory for tool runs. Empty means the
	// process's current directory.
	Dir string
}

// NewRunner creates a runner. logger may be nil.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{logger: logger.With("component", "emboss")}
}

// Run executes argv, feeding stdin to the process when non-nil. A non-zero
// exit comes back in Result.ExitCode with a nil error; the error return is
// for failures to run the tool at all (missing binary, canceled context).
func (r *Runner) Run(ctx context.Context, argv []string, stdin []byte) (*Result, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	r.logger.Debug("running tool", "command", argv)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}
	if err != nil {
		// A canceled context also surfaces as an ExitError for the
		// killed process, so check the context first.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("running %s: %w", argv[0], ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			r.logger.Debug("tool exited non-zero", "command", argv[0], "exit", res.ExitCode)
			return res, nil
		}
		return nil, fmt.Errorf("running %s: %w", argv[0], err)
	}
	return res, nil
}
