// Package profile holds the git identity profile collection and the pointer
// to the profile currently applied to the host.
package profile

import "slices"

// Profile is a named git identity.
type Profile struct {
	ID         string `json:"id" toml:"id" yaml:"id"`
	Name       string `json:"name" toml:"name" yaml:"name"`
	GitName    string `json:"gitName" toml:"gitName" yaml:"gitName"`
	GitEmail   string `json:"gitEmail" toml:"gitEmail" yaml:"gitEmail"`
	SSHKeyPath string `json:"sshKeyPath,omitempty" toml:"sshKeyPath,omitempty" yaml:"sshKeyPath,omitempty"` // empty means default SSH behavior
	IsActive   bool   `json:"isActive" toml:"isActive" yaml:"isActive"`
}

// HasSSHKey reports whether the profile overrides the SSH key.
func (p Profile) HasSSHKey() bool {
	return p.SSHKeyPath != ""
}

// ProfileCreate carries the user-supplied fields of a new profile.
type ProfileCreate struct {
	Name       string `json:"name"`
	GitName    string `json:"gitName"`
	GitEmail   string `json:"gitEmail"`
	SSHKeyPath string `json:"sshKeyPath,omitempty"`
}

// State is the persisted registry record.
type State struct {
	Profiles        []Profile `json:"profiles" toml:"profiles" yaml:"profiles"`
	ActiveProfileID *string   `json:"activeProfileId" toml:"activeProfileId,omitempty" yaml:"activeProfileId"`
}

// NewState returns the empty default state.
func NewState() State {
	return State{Profiles: []Profile{}}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{Profiles: slices.Clone(s.Profiles)}
	if out.Profiles == nil {
		out.Profiles = []Profile{}
	}
	if s.ActiveProfileID != nil {
		id := *s.ActiveProfileID
		out.ActiveProfileID = &id
	}
	return out
}

// ActiveID returns the active pointer, with ok false when it is null.
func (s State) ActiveID() (string, bool) {
	if s.ActiveProfileID == nil {
		return "", false
	}
	return *s.ActiveProfileID, true
}

// index returns the position of id in s.Profiles, or -1.
func (s State) index(id string) int {
	return slices.IndexFunc(s.Profiles, func(p Profile) bool { return p.ID == id })
}

// syncActiveFlags marks exactly the profile matching the active pointer.
func (s *State) syncActiveFlags() {
	active, ok := s.ActiveID()
	for i := range s.Profiles {
		s.Profiles[i].IsActive = ok && s.Profiles[i].ID == active
	}
}
