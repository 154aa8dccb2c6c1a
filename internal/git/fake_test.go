package git

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// memStore is an in-memory Store that records calls and can fail per key.
type memStore struct {
	mu       sync.Mutex
	values   map[string]string
	calls    []string
	setErr   map[string]error
	unsetErr error
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}, setErr: map[string]error{}}
}

func (m *memStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "set "+key)
	if err := m.setErr[key]; err != nil {
		return err
	}
	m.values[key] = value
	return nil
}

func (m *memStore) Unset(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "unset "+key)
	if m.unsetErr != nil {
		return m.unsetErr
	}
	delete(m.values, key)
	return nil
}

func (m *memStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// scriptedRunner answers commands from a table keyed by the joined args.
type scriptedRunner struct {
	calls   [][]string
	results map[string]runResult
}

type runResult struct {
	stdout string
	stderr string
	code   int
	err    error
}

func (r *scriptedRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, int, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	res, ok := r.results[strings.Join(args, " ")]
	if !ok {
		return nil, nil, 0, nil
	}
	return []byte(res.stdout), []byte(res.stderr), res.code, res.err
}

var errBoom = errors.New("boom")
