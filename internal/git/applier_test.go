package git

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_WithSSHKey(t *testing.T) {
	store := newMemStore()
	a := NewApplier(store, nil)

	require.NoError(t, a.Apply(context.Background(), "Alice", "alice@example.com", "/keys/id_alice"))

	assert.Equal(t, "Alice", store.values[KeyUserName])
	assert.Equal(t, "alice@example.com", store.values[KeyUserEmail])
	cmd := store.values[KeySSHCommand]
	assert.Contains(t, cmd, "/keys/id_alice")
	assert.Contains(t, cmd, "IdentitiesOnly=yes")
	assert.Equal(t, []string{"set user.name", "set user.email", "set core.sshCommand"}, store.calls)
}

func TestApply_WithoutSSHKeyClearsOverride(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.values[KeySSHCommand] = "ssh -i /old -o IdentitiesOnly=yes"
	a := NewApplier(store, nil)

	require.NoError(t, a.Apply(ctx, "Bob", "bob@example.com", ""))
	require.NoError(t, a.Apply(ctx, "Bob", "bob@example.com", ""))

	assert.Equal(t, "Bob", store.values[KeyUserName])
	assert.Equal(t, "bob@example.com", store.values[KeyUserEmail])
	_, ok := store.values[KeySSHCommand]
	assert.False(t, ok)
}

func TestApply_UnsetFailureIsSwallowed(t *testing.T) {
	store := newMemStore()
	store.unsetErr = errBoom

	err := NewApplier(store, nil).Apply(context.Background(), "Bob", "bob@example.com", "")
	assert.NoError(t, err)
}

func TestApply_NameFailureAborts(t *testing.T) {
	store := newMemStore()
	store.setErr[KeyUserName] = &ExternalProcessError{Args: []string{"git"}, ExitCode: 128}

	err := NewApplier(store, nil).Apply(context.Background(), "Alice", "alice@example.com", "/k")

	var pe *ExternalProcessError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, err.Error(), "user.name")
	assert.Equal(t, []string{"set user.name"}, store.calls)
}

func TestApply_EmailFailureLeavesNameApplied(t *testing.T) {
	store := newMemStore()
	store.setErr[KeyUserEmail] = errBoom

	err := NewApplier(store, nil).Apply(context.Background(), "Alice", "alice@example.com", "")

	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, "Alice", store.values[KeyUserName])
	_, ok := store.values[KeyUserEmail]
	assert.False(t, ok)
	assert.NotContains(t, store.calls, "unset core.sshCommand")
}

func TestApply_SSHCommandFailure(t *testing.T) {
	store := newMemStore()
	store.setErr[KeySSHCommand] = errBoom

	err := NewApplier(store, nil).Apply(context.Background(), "Alice", "alice@example.com", "/k")
	require.ErrorIs(t, err, errBoom)
}

func TestSSHCommand(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/keys/id_alice", "ssh -i /keys/id_alice -o IdentitiesOnly=yes"},
		{"~/.ssh/id_work", "ssh -i ~/.ssh/id_work -o IdentitiesOnly=yes"},
		{"/My Keys/id", "ssh -i '/My Keys/id' -o IdentitiesOnly=yes"},
		{"~/my keys/id", "ssh -i ~/'my keys/id' -o IdentitiesOnly=yes"},
		{"/k/it's", `ssh -i '/k/it'\''s' -o IdentitiesOnly=yes`},
		{`C:\Users\me\.ssh\id`, `ssh -i 'C:\Users\me\.ssh\id' -o IdentitiesOnly=yes`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := SSHCommand(tt.path)
			assert.Equal(t, tt.want, got)
			assert.True(t, strings.HasSuffix(got, "-o IdentitiesOnly=yes"))
		})
	}
}
