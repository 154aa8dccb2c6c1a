// Package service pairs the profile registry with the identity applier.
package service

import (
	"context"
	"strings"

	"github.com/byterings/gprofile/internal/logging"
	"github.com/byterings/gprofile/internal/notify"
	"github.com/byterings/gprofile/internal/profile"
)

// IdentityApplier writes an identity into the global git configuration.
type IdentityApplier interface {
	Apply(ctx context.Context, name, email, sshKeyPath string) error
}

// Service exposes the profile operations used by the CLI.
type Service struct {
	registry *profile.Registry
	applier  IdentityApplier
	notifier notify.Notifier
	log      *logging.Logger
}

// New creates a Service. A nil notifier or logger is replaced by a no-op.
func New(registry *profile.Registry, applier IdentityApplier, notifier notify.Notifier, log *logging.Logger) *Service {
	if notifier == nil {
		notifier = notify.Nop()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Service{
		registry: registry,
		applier:  applier,
		notifier: notifier,
		log:      log.Sub("service"),
	}
}

// GetProfiles returns every profile in stored order.
func (s *Service) GetProfiles() []profile.Profile {
	return s.registry.List()
}

// CreateProfile stores a new inactive profile.
func (s *Service) CreateProfile(ctx context.Context, in profile.ProfileCreate) (profile.Profile, error) {
	return s.registry.Create(ctx, in)
}

// UpdateProfile replaces a stored profile. It fails with profile.ErrNotFound
// when p.ID is unknown.
func (s *Service) UpdateProfile(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	return s.registry.Update(ctx, p)
}

// DeleteProfile removes a profile. Unknown ids are ignored.
func (s *Service) DeleteProfile(ctx context.Context, id string) error {
	return s.registry.Delete(ctx, id)
}

// SetActiveProfile applies the profile's identity to git and, only if that
// succeeds, marks it active. It reports false without error when id is unknown.
func (s *Service) SetActiveProfile(ctx context.Context, id string) (bool, error) {
	p, ok := s.registry.Get(id)
	if !ok {
		s.log.Debug().Str("id", id).Msg("activation skipped, profile not found")
		return false, nil
	}

	if err := s.applier.Apply(ctx, p.GitName, p.GitEmail, p.SSHKeyPath); err != nil {
		if nerr := s.notifier.NotifyFailure(p.Name, err); nerr != nil {
			s.log.Debug().Err(nerr).Msg("desktop notification failed")
		}
		return false, err
	}
	if err := s.registry.SetActiveID(ctx, p.ID); err != nil {
		return false, err
	}

	s.log.Info().Str("id", p.ID).Str("name", p.Name).Msg("identity switched")
	if err := s.notifier.NotifySwitched(p.Name, p.GitName, p.GitEmail); err != nil {
		s.log.Debug().Err(err).Msg("desktop notification failed")
	}
	return true, nil
}

// GetCurrentProfile returns the active profile, or nil when none is active or
// the pointer no longer matches a profile.
func (s *Service) GetCurrentProfile() *profile.Profile {
	id, ok := s.registry.ActiveID()
	if !ok {
		return nil
	}
	p, ok := s.registry.Get(id)
	if !ok {
		return nil
	}
	return &p
}

// Sync re-applies the current profile, e.g. after a partial failure or an
// outside edit of the git configuration. It returns nil when none is active.
func (s *Service) Sync(ctx context.Context) (*profile.Profile, error) {
	current := s.GetCurrentProfile()
	if current == nil {
		return nil, nil
	}
	if _, err := s.SetActiveProfile(ctx, current.ID); err != nil {
		return nil, err
	}
	return s.GetCurrentProfile(), nil
}

// Resolve finds a profile by exact id, display name (case-insensitive, first
// match in stored order), or unique id prefix, in that order.
func (s *Service) Resolve(ref string) (profile.Profile, bool) {
	if ref == "" {
		return profile.Profile{}, false
	}
	if p, ok := s.registry.Get(ref); ok {
		return p, true
	}

	profiles := s.registry.List()
	for _, p := range profiles {
		if strings.EqualFold(p.Name, ref) {
			return p, true
		}
	}

	var prefixed []profile.Profile
	for _, p := range profiles {
		if strings.HasPrefix(p.ID, ref) {
			prefixed = append(prefixed, p)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0], true
	}
	return profile.Profile{}, false
}
