// Package notify sends desktop notifications when the git identity changes.
package notify

import "fmt"

// Notifier reports identity switches to the desktop.
type Notifier interface {
	// NotifySwitched reports that profile name is now the global identity.
	NotifySwitched(name, gitName, gitEmail string) error
	// NotifyFailure reports that switching to profile name failed.
	NotifyFailure(name string, err error) error
}

// Option configures a Notifier.
type Option func(*notifier)

// WithBackend sets a custom notification backend (for testing).
func WithBackend(backend Backend) Option {
	return func(n *notifier) {
		n.backend = backend
	}
}

type notifier struct {
	enabled bool
	backend Backend
}

func (n *notifier) NotifySwitched(name, gitName, gitEmail string) error {
	if !n.enabled {
		return nil
	}
	title := "gprofile: Identity Switched"
	message := fmt.Sprintf("Now committing as %s <%s> (%s)", gitName, gitEmail, name)
	return n.backend.Notify(title, message, "")
}

func (n *notifier) NotifyFailure(name string, err error) error {
	if !n.enabled {
		return nil
	}
	title := "gprofile: Switch Failed"
	message := fmt.Sprintf("Could not switch to '%s'.\nError: %v", name, err)
	return n.backend.Alert(title, message, "")
}

// New creates a Notifier. When enabled is false every call is a no-op.
func New(enabled bool, opts ...Option) Notifier {
	n := &notifier{
		enabled: enabled,
		backend: newDesktopBackend(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Nop returns a Notifier that never sends anything.
func Nop() Notifier {
	return New(false)
}
