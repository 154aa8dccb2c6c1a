package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/byterings/gprofile/internal/logging"
)

// Applier writes an identity into the global git configuration. It holds no
// state and does not validate its inputs.
type Applier struct {
	store Store
	log   *logging.Logger
}

// NewApplier creates an Applier over store.
func NewApplier(store Store, log *logging.Logger) *Applier {
	if log == nil {
		log = logging.Nop()
	}
	return &Applier{store: store, log: log.Sub("git")}
}

// Store returns the underlying configuration store.
func (a *Applier) Store() Store {
	return a.store
}

// Apply sets user.name and user.email, then sets core.sshCommand to use only
// sshKeyPath, or removes it when sshKeyPath is empty. A failure on name or
// email aborts; earlier steps are not rolled back. Every step overwrites, so
// a failed Apply can be retried as a whole.
func (a *Applier) Apply(ctx context.Context, name, email, sshKeyPath string) error {
	if err := a.store.Set(ctx, KeyUserName, name); err != nil {
		return fmt.Errorf("failed to set git %s: %w", KeyUserName, err)
	}
	if err := a.store.Set(ctx, KeyUserEmail, email); err != nil {
		return fmt.Errorf("failed to set git %s: %w", KeyUserEmail, err)
	}

	if sshKeyPath != "" {
		cmd := SSHCommand(sshKeyPath)
		if err := a.store.Set(ctx, KeySSHCommand, cmd); err != nil {
			return fmt.Errorf("failed to set git %s: %w", KeySSHCommand, err)
		}
		a.log.Debug().Str("sshCommand", cmd).Msg("ssh override set")
		return nil
	}

	// the override may never have been set
	if err := a.store.Unset(ctx, KeySSHCommand); err != nil {
		a.log.Warn().Err(err).Msg("failed to unset git core.sshCommand")
		return nil
	}
	a.log.Debug().Msg("ssh override cleared")
	return nil
}

// SSHCommand builds the core.sshCommand value that selects keyPath and
// ignores agent and default keys.
func SSHCommand(keyPath string) string {
	return "ssh -i " + shellQuote(keyPath) + " -o IdentitiesOnly=yes"
}

// shellQuote single-quotes s for sh unless it only holds safe characters.
// A leading ~ is left unquoted so the shell still expands it.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	prefix := ""
	rest := s
	if strings.HasPrefix(s, "~/") {
		prefix, rest = "~/", s[2:]
	}
	if isShellSafe(rest) {
		return s
	}
	return prefix + "'" + strings.ReplaceAll(rest, "'", `'\''`) + "'"
}

func isShellSafe(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("@%+=:,./_-", r):
		default:
			return false
		}
	}
	return true
}
