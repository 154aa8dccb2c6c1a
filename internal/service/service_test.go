package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byterings/gprofile/internal/git"
	"github.com/byterings/gprofile/internal/profile"
	"github.com/byterings/gprofile/internal/store"
)

// fakeGit is an in-memory global git configuration.
type fakeGit struct {
	values map[string]string
	failOn string
}

func newFakeGit() *fakeGit {
	return &fakeGit{values: map[string]string{}}
}

func (f *fakeGit) Set(_ context.Context, key, value string) error {
	if key == f.failOn {
		return &git.ExternalProcessError{Args: []string{"git", "config", "--global", key}, ExitCode: 128}
	}
	f.values[key] = value
	return nil
}

func (f *fakeGit) Unset(_ context.Context, key string) error {
	if _, ok := f.values[key]; !ok {
		return &git.ExternalProcessError{Args: []string{"git", "config", "--unset", key}, ExitCode: 5}
	}
	delete(f.values, key)
	return nil
}

func (f *fakeGit) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := f.values[key]
	return v, ok, nil
}

type recordingNotifier struct {
	switched []string
	failed   []string
}

func (n *recordingNotifier) NotifySwitched(name, _, _ string) error {
	n.switched = append(n.switched, name)
	return nil
}

func (n *recordingNotifier) NotifyFailure(name string, _ error) error {
	n.failed = append(n.failed, name)
	return errors.New("notifications unavailable")
}

type fixture struct {
	svc      *Service
	git      *fakeGit
	backend  *store.MemoryBackend
	notifier *recordingNotifier
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	backend := store.NewMemoryBackend()
	reg, err := profile.NewRegistry(context.Background(), backend, nil)
	require.NoError(t, err)
	g := newFakeGit()
	n := &recordingNotifier{}
	return fixture{
		svc:      New(reg, git.NewApplier(g, nil), n, nil),
		git:      g,
		backend:  backend,
		notifier: n,
	}
}

func TestEndToEndSwitching(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p1, err := f.svc.CreateProfile(ctx, profile.ProfileCreate{
		Name: "Work", GitName: "Alice", GitEmail: "alice@corp.example", SSHKeyPath: "/keys/id_work",
	})
	require.NoError(t, err)
	p2, err := f.svc.CreateProfile(ctx, profile.ProfileCreate{
		Name: "Home", GitName: "Alice", GitEmail: "alice@example.com",
	})
	require.NoError(t, err)

	ok, err := f.svc.SetActiveProfile(ctx, p1.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, git.SSHCommand("/keys/id_work"), f.git.values[git.KeySSHCommand])
	assert.Equal(t, "alice@corp.example", f.git.values[git.KeyUserEmail])

	ok, err = f.svc.SetActiveProfile(ctx, p2.ID)
	require.NoError(t, err)
	require.True(t, ok)
	_, hasOverride := f.git.values[git.KeySSHCommand]
	assert.False(t, hasOverride)
	assert.Equal(t, "alice@example.com", f.git.values[git.KeyUserEmail])

	current := f.svc.GetCurrentProfile()
	require.NotNil(t, current)
	assert.Equal(t, p2.ID, current.ID)
	assert.True(t, current.IsActive)

	var active []string
	for _, p := range f.svc.GetProfiles() {
		if p.IsActive {
			active = append(active, p.ID)
		}
	}
	assert.Equal(t, []string{p2.ID}, active)
	assert.Equal(t, []string{"Work", "Home"}, f.notifier.switched)
}

func TestSetActiveProfile_UnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ok, err := f.svc.SetActiveProfile(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, f.git.values)
	assert.Nil(t, f.svc.GetCurrentProfile())
}

func TestSetActiveProfile_ApplyFailureKeepsPointer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p1, err := f.svc.CreateProfile(ctx, profile.ProfileCreate{Name: "A", GitName: "A", GitEmail: "a@example.com"})
	require.NoError(t, err)
	p2, err := f.svc.CreateProfile(ctx, profile.ProfileCreate{Name: "B", GitName: "B", GitEmail: "b@example.com"})
	require.NoError(t, err)
	_, err = f.svc.SetActiveProfile(ctx, p1.ID)
	require.NoError(t, err)

	f.git.failOn = git.KeyUserEmail
	ok, err := f.svc.SetActiveProfile(ctx, p2.ID)

	var pe *git.ExternalProcessError
	require.ErrorAs(t, err, &pe)
	assert.False(t, ok)
	assert.Equal(t, p1.ID, f.svc.GetCurrentProfile().ID)
	// name step already ran and is not rolled back
	assert.Equal(t, "B", f.git.values[git.KeyUserName])
	assert.Equal(t, []string{"B"}, f.notifier.failed)
}

func TestSetActiveProfile_StorageFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p, err := f.svc.CreateProfile(ctx, profile.ProfileCreate{Name: "A", GitName: "A", GitEmail: "a@example.com"})
	require.NoError(t, err)

	f.backend.SaveErr = errors.New("disk full")
	ok, err := f.svc.SetActiveProfile(ctx, p.ID)

	var se *profile.StorageError
	require.ErrorAs(t, err, &se)
	assert.False(t, ok)
	assert.Nil(t, f.svc.GetCurrentProfile())
}

func TestUpdateProfile_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.CreateProfile(ctx, profile.ProfileCreate{Name: "A"})
	require.NoError(t, err)
	before := f.svc.GetProfiles()

	_, err = f.svc.UpdateProfile(ctx, profile.Profile{ID: "ghost", Name: "x"})

	require.ErrorIs(t, err, profile.ErrNotFound)
	assert.Equal(t, before, f.svc.GetProfiles())
}

func TestDeleteActiveProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p, err := f.svc.CreateProfile(ctx, profile.ProfileCreate{Name: "A", GitName: "A", GitEmail: "a@example.com"})
	require.NoError(t, err)
	_, err = f.svc.SetActiveProfile(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteProfile(ctx, p.ID))
	require.NoError(t, f.svc.DeleteProfile(ctx, p.ID))

	assert.Nil(t, f.svc.GetCurrentProfile())
	assert.Empty(t, f.svc.GetProfiles())
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	got, err := f.svc.Sync(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	p, err := f.svc.CreateProfile(ctx, profile.ProfileCreate{Name: "A", GitName: "A", GitEmail: "a@example.com", SSHKeyPath: "/k/a"})
	require.NoError(t, err)
	_, err = f.svc.SetActiveProfile(ctx, p.ID)
	require.NoError(t, err)

	// someone else edits the global config
	f.git.values[git.KeyUserName] = "Mallory"
	delete(f.git.values, git.KeySSHCommand)

	got, err = f.svc.Sync(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "A", f.git.values[git.KeyUserName])
	assert.Equal(t, git.SSHCommand("/k/a"), f.git.values[git.KeySSHCommand])
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	work, err := f.svc.CreateProfile(ctx, profile.ProfileCreate{Name: "Work"})
	require.NoError(t, err)
	home, err := f.svc.CreateProfile(ctx, profile.ProfileCreate{Name: "Home"})
	require.NoError(t, err)

	got, ok := f.svc.Resolve(work.ID)
	require.True(t, ok)
	assert.Equal(t, work.ID, got.ID)

	got, ok = f.svc.Resolve("home")
	require.True(t, ok)
	assert.Equal(t, home.ID, got.ID)

	got, ok = f.svc.Resolve(work.ID[:8])
	require.True(t, ok)
	assert.Equal(t, work.ID, got.ID)

	_, ok = f.svc.Resolve("nobody")
	assert.False(t, ok)
	_, ok = f.svc.Resolve("")
	assert.False(t, ok)
}

func TestResolve_NameBeatsIDPrefix(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first, err := f.svc.CreateProfile(ctx, profile.ProfileCreate{Name: "Work"})
	require.NoError(t, err)
	prefix := first.ID[:2]
	named, err := f.svc.CreateProfile(ctx, profile.ProfileCreate{Name: prefix})
	require.NoError(t, err)

	got, ok := f.svc.Resolve(prefix)
	require.True(t, ok)
	assert.Equal(t, named.ID, got.ID)
}

func TestNew_NilNotifier(t *testing.T) {
	ctx := context.Background()
	reg, err := profile.NewRegistry(ctx, store.NewMemoryBackend(), nil)
	require.NoError(t, err)
	svc := New(reg, git.NewApplier(newFakeGit(), nil), nil, nil)

	p, err := svc.CreateProfile(ctx, profile.ProfileCreate{Name: "A", GitName: "A", GitEmail: "a@example.com"})
	require.NoError(t, err)
	ok, err := svc.SetActiveProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}
