package profile

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/byterings/gprofile/internal/logging"
)

// Backend persists the registry state. Load returns the empty default state
// when nothing has been stored yet. Save must either write the whole state or
// leave the previously saved state in place.
type Backend interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}

// Registry owns the profile collection and the active pointer. Every mutation
// is written through to the backend before it returns.
type Registry struct {
	mu      sync.Mutex
	backend Backend
	state   State
	log     *logging.Logger
	newID   func() string
}

// NewRegistry loads the registry state from backend.
func NewRegistry(ctx context.Context, backend Backend, log *logging.Logger) (*Registry, error) {
	if log == nil {
		log = logging.Nop()
	}
	state, err := backend.Load(ctx)
	if err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	state = state.Clone()
	state.syncActiveFlags()

	r := &Registry{
		backend: backend,
		state:   state,
		log:     log.Sub("registry"),
		newID:   func() string { return uuid.NewString() },
	}
	r.log.Debug().Int("profiles", len(state.Profiles)).Msg("registry loaded")
	return r, nil
}

// List returns all profiles in stored order.
func (r *Registry) List() []Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone().Profiles
}

// Get looks up a profile by id. A missing profile is reported with ok false.
func (r *Registry) Get(id string) (Profile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.state.index(id)
	if i < 0 {
		return Profile{}, false
	}
	return r.state.Profiles[i], true
}

// Create appends a new inactive profile with a fresh id.
func (r *Registry) Create(ctx context.Context, in ProfileCreate) (Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := Profile{
		ID:         r.uniqueID(),
		Name:       in.Name,
		GitName:    in.GitName,
		GitEmail:   in.GitEmail,
		SSHKeyPath: in.SSHKeyPath,
		IsActive:   false,
	}

	next := r.state.Clone()
	next.Profiles = append(next.Profiles, p)
	if err := r.commit(ctx, next); err != nil {
		return Profile{}, err
	}

	r.log.Info().Str("id", p.ID).Str("name", p.Name).Msg("profile created")
	return p, nil
}

// Update replaces the stored profile that has p.ID. The active pointer is
// not changed, and IsActive on the stored record follows the pointer.
func (r *Registry) Update(ctx context.Context, p Profile) (Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.state.index(p.ID)
	if i < 0 {
		return Profile{}, fmt.Errorf("%w: %s", ErrNotFound, p.ID)
	}

	next := r.state.Clone()
	next.Profiles[i] = p
	next.syncActiveFlags()
	if err := r.commit(ctx, next); err != nil {
		return Profile{}, err
	}

	r.log.Info().Str("id", p.ID).Msg("profile updated")
	return next.Profiles[i], nil
}

// Delete removes the profile with id. Deleting an unknown id is a no-op.
// Deleting the active profile clears the active pointer.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.state.index(id)
	if i < 0 {
		return nil
	}

	next := r.state.Clone()
	next.Profiles = append(next.Profiles[:i], next.Profiles[i+1:]...)
	if active, ok := next.ActiveID(); ok && active == id {
		next.ActiveProfileID = nil
		next.syncActiveFlags()
	}
	if err := r.commit(ctx, next); err != nil {
		return err
	}

	r.log.Info().Str("id", id).Msg("profile deleted")
	return nil
}

// ActiveID returns the active profile id, with ok false when none is set.
func (r *Registry) ActiveID() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.ActiveID()
}

// SetActiveID points the registry at id and recomputes every IsActive flag.
// An empty id clears the pointer. Ids that match no profile are accepted and
// leave no profile marked active.
func (r *Registry) SetActiveID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.state.Clone()
	if id == "" {
		next.ActiveProfileID = nil
	} else {
		next.ActiveProfileID = &id
	}
	next.syncActiveFlags()
	if err := r.commit(ctx, next); err != nil {
		return err
	}

	r.log.Info().Str("id", id).Msg("active profile set")
	return nil
}

// commit persists next and adopts it as the in-memory state. Callers hold mu.
func (r *Registry) commit(ctx context.Context, next State) error {
	if err := r.backend.Save(ctx, next); err != nil {
		r.log.Error().Err(err).Msg("saving registry failed")
		return &StorageError{Op: "save", Err: err}
	}
	r.state = next
	return nil
}

// uniqueID draws ids until one is unused. Callers hold mu.
func (r *Registry) uniqueID() string {
	for {
		id := r.newID()
		if r.state.index(id) < 0 {
			return id
		}
	}
}
