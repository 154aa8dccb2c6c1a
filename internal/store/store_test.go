package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byterings/gprofile/internal/profile"
)

func sampleState() profile.State {
	active := "id-2"
	return profile.State{
		Profiles: []profile.Profile{
			{ID: "id-1", Name: "Personal", GitName: "Alice", GitEmail: "alice@example.com"},
			{ID: "id-2", Name: "Work", GitName: "Alice A.", GitEmail: "alice@corp.example", SSHKeyPath: "/keys/id_work", IsActive: true},
			{ID: "id-3", Name: "OSS", GitName: "alice", GitEmail: "alice@oss.example"},
		},
		ActiveProfileID: &active,
	}
}

func TestFileBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for _, format := range []string{FormatJSON, FormatTOML, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			codec, err := CodecFor(format)
			require.NoError(t, err)
			b := NewFileBackend(filepath.Join(t.TempDir(), "profiles."+format), codec, nil)

			require.NoError(t, b.Save(ctx, sampleState()))
			got, err := b.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, sampleState(), got)
		})
	}
}

func TestFileBackend_NullActivePointer(t *testing.T) {
	ctx := context.Background()
	for _, format := range []string{FormatJSON, FormatTOML, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			codec, _ := CodecFor(format)
			b := NewFileBackend(filepath.Join(t.TempDir(), "profiles."+format), codec, nil)

			state := sampleState()
			state.ActiveProfileID = nil
			state.Profiles[1].IsActive = false
			require.NoError(t, b.Save(ctx, state))

			got, err := b.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, got.ActiveProfileID)
			assert.Len(t, got.Profiles, 3)
		})
	}
}

func TestFileBackend_MissingFileIsDefault(t *testing.T) {
	b := NewFileBackend(filepath.Join(t.TempDir(), "absent.json"), nil, nil)

	got, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, profile.NewState(), got)
}

func TestFileBackend_EmptyFileIsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0600))

	got, err := NewFileBackend(path, nil, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got.Profiles)
}

func TestFileBackend_JSONLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	b := NewFileBackend(path, nil, nil)

	require.NoError(t, b.Save(context.Background(), profile.NewState()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"profiles": [], "activeProfileId": null}`, string(data))
}

func TestFileBackend_ReadsElectronStoreShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "profiles": [
    {"id": "a1", "name": "Work", "gitName": "Bob", "gitEmail": "bob@corp.example", "sshKeyPath": "/k/bob", "isActive": true},
    {"id": "b2", "name": "Home", "gitName": "Bob", "gitEmail": "bob@example.com", "isActive": false}
  ],
  "activeProfileId": "a1"
}`), 0600))

	got, err := NewFileBackend(path, nil, nil).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Profiles, 2)
	assert.Equal(t, "/k/bob", got.Profiles[0].SSHKeyPath)
	assert.Empty(t, got.Profiles[1].SSHKeyPath)
	id, ok := got.ActiveID()
	assert.True(t, ok)
	assert.Equal(t, "a1", id)
}

func TestFileBackend_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFileBackend(path, nil, nil).Load(context.Background())
	require.Error(t, err)
}

func TestFileBackend_FailedSaveKeepsOldContent(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("directory permissions are not enforced on Windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.json")
	b := NewFileBackend(path, nil, nil)
	require.NoError(t, b.Save(ctx, sampleState()))

	require.NoError(t, os.Chmod(dir, 0500))
	t.Cleanup(func() { os.Chmod(dir, 0700) })

	require.Error(t, b.Save(ctx, profile.NewState()))

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleState(), got)
}

func TestCodecForPath(t *testing.T) {
	assert.Equal(t, FormatTOML, CodecForPath("/x/profiles.toml").Name())
	assert.Equal(t, FormatYAML, CodecForPath("/x/profiles.yml").Name())
	assert.Equal(t, FormatJSON, CodecForPath("/x/profiles").Name())

	_, err := CodecFor("xml")
	assert.Error(t, err)
}

func TestSQLiteBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	b, err := OpenSQLite(ctx, ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	empty, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, profile.NewState(), empty)

	require.NoError(t, b.Save(ctx, sampleState()))
	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleState(), got)

	// reorder and clear the pointer
	state := sampleState()
	state.Profiles = []profile.Profile{state.Profiles[2], state.Profiles[0]}
	state.ActiveProfileID = nil
	require.NoError(t, b.Save(ctx, state))

	got, err = b.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Profiles, 2)
	assert.Equal(t, "id-3", got.Profiles[0].ID)
	assert.Equal(t, "id-1", got.Profiles[1].ID)
	assert.Nil(t, got.ActiveProfileID)
}

func TestSQLiteBackend_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", "profiles.db")

	b, err := OpenSQLite(ctx, path, nil)
	require.NoError(t, err)
	require.NoError(t, b.Save(ctx, sampleState()))
	require.NoError(t, b.Close())

	b, err = OpenSQLite(ctx, path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleState(), got)

	var count int
	require.NoError(t, b.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, len(migrations), count)
}

func TestSQLiteBackend_DuplicateIDRollsBack(t *testing.T) {
	ctx := context.Background()
	b, err := OpenSQLite(ctx, ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	require.NoError(t, b.Save(ctx, sampleState()))

	bad := sampleState()
	bad.Profiles = append(bad.Profiles, bad.Profiles[0])
	require.Error(t, b.Save(ctx, bad))

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleState(), got)
}

func TestMemoryBackend(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	require.NoError(t, b.Save(ctx, sampleState()))
	b.SaveErr = errors.New("boom")
	require.Error(t, b.Save(ctx, profile.NewState()))

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleState(), got)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, kind := range []string{KindJSON, KindTOML, KindYAML, KindSQLite, KindMemory} {
		t.Run(kind, func(t *testing.T) {
			b, closeFn, err := Open(ctx, kind, filepath.Join(dir, DefaultFileName(kind)), nil)
			require.NoError(t, err)
			t.Cleanup(func() { closeFn() })

			require.NoError(t, b.Save(ctx, sampleState()))
			got, err := b.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, sampleState(), got)
		})
	}

	_, closeFn, err := Open(ctx, "etcd", "", nil)
	require.Error(t, err)
	require.NotNil(t, closeFn)
}

func TestRegistryOverFileBackend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "profiles.json")

	r, err := profile.NewRegistry(ctx, NewFileBackend(path, nil, nil), nil)
	require.NoError(t, err)
	p, err := r.Create(ctx, profile.ProfileCreate{Name: "Work", GitName: "Alice", GitEmail: "alice@corp.example"})
	require.NoError(t, err)
	require.NoError(t, r.SetActiveID(ctx, p.ID))

	// a fresh registry sees the write-through state
	r2, err := profile.NewRegistry(ctx, NewFileBackend(path, nil, nil), nil)
	require.NoError(t, err)
	id, ok := r2.ActiveID()
	require.True(t, ok)
	assert.Equal(t, p.ID, id)
	got, ok := r2.Get(p.ID)
	require.True(t, ok)
	assert.True(t, got.IsActive)
}
