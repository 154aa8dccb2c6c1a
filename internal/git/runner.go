package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Runner executes external commands. It allows mocking in tests without
// actually executing binaries.
type Runner interface {
	// Run executes name with args and waits for it to finish. A non-zero exit
	// is reported through exitCode with a nil error; err is reserved for
	// failures to start or wait on the process.
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, exitCode int, err error)
}

// execRunner is the real implementation using os/exec.
type execRunner struct{}

// NewExecRunner creates a Runner backed by os/exec.
func NewExecRunner() Runner {
	return execRunner{}
}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return stdout.Bytes(), stderr.Bytes(), exitErr.ExitCode(), nil
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return stdout.Bytes(), stderr.Bytes(), -1, err
	}
	return stdout.Bytes(), stderr.Bytes(), 0, nil
}
