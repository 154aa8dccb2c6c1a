package git

import (
	"fmt"
	"strings"
)

// ExternalProcessError reports a failed git configuration command.
type ExternalProcessError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExternalProcessError) Error() string {
	cmd := strings.Join(e.Args, " ")
	msg := strings.TrimSpace(e.Stderr)
	switch {
	case e.Err != nil && msg != "":
		return fmt.Sprintf("%s failed: %s: %v", cmd, msg, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s failed: %v", cmd, e.Err)
	case msg != "":
		return fmt.Sprintf("%s failed (exit %d): %s", cmd, e.ExitCode, msg)
	default:
		return fmt.Sprintf("%s failed (exit %d)", cmd, e.ExitCode)
	}
}

func (e *ExternalProcessError) Unwrap() error {
	return e.Err
}
