package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	title   string
	message string
}

type mockBackend struct {
	notifyCalls []call
	alertCalls  []call
	err         error
}

func (m *mockBackend) Notify(title, message, _ string) error {
	m.notifyCalls = append(m.notifyCalls, call{title, message})
	return m.err
}

func (m *mockBackend) Alert(title, message, _ string) error {
	m.alertCalls = append(m.alertCalls, call{title, message})
	return m.err
}

func TestNotifySwitched(t *testing.T) {
	mock := &mockBackend{}
	n := New(true, WithBackend(mock))

	require.NoError(t, n.NotifySwitched("Work", "Alice", "alice@corp.example"))

	require.Len(t, mock.notifyCalls, 1)
	assert.Equal(t, "gprofile: Identity Switched", mock.notifyCalls[0].title)
	assert.Contains(t, mock.notifyCalls[0].message, "Alice <alice@corp.example>")
	assert.Contains(t, mock.notifyCalls[0].message, "Work")
}

func TestNotifyFailure(t *testing.T) {
	mock := &mockBackend{}
	n := New(true, WithBackend(mock))

	require.NoError(t, n.NotifyFailure("Work", errors.New("git not found")))

	require.Len(t, mock.alertCalls, 1)
	assert.Contains(t, mock.alertCalls[0].message, "git not found")
}

func TestDisabled(t *testing.T) {
	mock := &mockBackend{}
	n := New(false, WithBackend(mock))

	require.NoError(t, n.NotifySwitched("Work", "Alice", "a@b"))
	require.NoError(t, n.NotifyFailure("Work", errors.New("x")))

	assert.Empty(t, mock.notifyCalls)
	assert.Empty(t, mock.alertCalls)
}

func TestBackendError(t *testing.T) {
	mock := &mockBackend{err: errors.New("no dbus")}
	n := New(true, WithBackend(mock))

	assert.Error(t, n.NotifySwitched("Work", "Alice", "a@b"))
}
