package git

import (
	"context"
	"strings"
)

// Global configuration keys written by the applier.
const (
	KeyUserName   = "user.name"
	KeyUserEmail  = "user.email"
	KeySSHCommand = "core.sshCommand"
)

// git config exit codes, see git-config(1).
const (
	exitKeyNotFound = 1
	exitCannotUnset = 5
)

// Store is the host's global git configuration.
type Store interface {
	// Set writes key = value.
	Set(ctx context.Context, key, value string) error
	// Unset removes key. Removing a key that is not set succeeds.
	Unset(ctx context.Context, key string) error
	// Get reads key, with ok false when it is not set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
}

// ExecStore runs `git config --global` for every operation.
type ExecStore struct {
	binary string
	runner Runner
}

// NewExecStore creates an ExecStore. An empty binary means "git"; a nil
// runner means os/exec.
func NewExecStore(binary string, runner Runner) *ExecStore {
	if binary == "" {
		binary = "git"
	}
	if runner == nil {
		runner = NewExecRunner()
	}
	return &ExecStore{binary: binary, runner: runner}
}

// Set runs git config --global to set a value
func (s *ExecStore) Set(ctx context.Context, key, value string) error {
	_, err := s.run(ctx, nil, "config", "--global", key, value)
	return err
}

// Unset runs git config --global --unset. Exit code 5 means the key was not
// set, which counts as success.
func (s *ExecStore) Unset(ctx context.Context, key string) error {
	_, err := s.run(ctx, []int{exitCannotUnset}, "config", "--global", "--unset", key)
	return err
}

// Get gets a global git config value
func (s *ExecStore) Get(ctx context.Context, key string) (string, bool, error) {
	out, code, err := s.runCode(ctx, []int{exitKeyNotFound}, "config", "--global", "--get", key)
	if err != nil {
		return "", false, err
	}
	// If key doesn't exist, return empty string
	if code == exitKeyNotFound {
		return "", false, nil
	}
	return strings.TrimRight(string(out), "\r\n"), true, nil
}

// Version returns the output of `git --version`.
func (s *ExecStore) Version(ctx context.Context) (string, error) {
	out, err := s.run(ctx, nil, "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (s *ExecStore) run(ctx context.Context, tolerated []int, args ...string) ([]byte, error) {
	out, _, err := s.runCode(ctx, tolerated, args...)
	return out, err
}

func (s *ExecStore) runCode(ctx context.Context, tolerated []int, args ...string) ([]byte, int, error) {
	stdout, stderr, code, err := s.runner.Run(ctx, s.binary, args...)
	argv := append([]string{s.binary}, args...)
	if err != nil {
		return nil, -1, &ExternalProcessError{Args: argv, ExitCode: -1, Stderr: string(stderr), Err: err}
	}
	if code == 0 {
		return stdout, 0, nil
	}
	for _, t := range tolerated {
		if code == t {
			return stdout, code, nil
		}
	}
	return nil, code, &ExternalProcessError{Args: argv, ExitCode: code, Stderr: string(stderr)}
}
