// Package store provides the durable backends behind the profile registry.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/byterings/gprofile/internal/logging"
	"github.com/byterings/gprofile/internal/platform"
	"github.com/byterings/gprofile/internal/profile"
)

// FileBackend keeps the registry state in a single file.
type FileBackend struct {
	path  string
	codec Codec
	log   *logging.Logger
}

// NewFileBackend creates a file backend. A nil codec is chosen from the file
// extension.
func NewFileBackend(path string, codec Codec, log *logging.Logger) *FileBackend {
	if codec == nil {
		codec = CodecForPath(path)
	}
	if log == nil {
		log = logging.Nop()
	}
	return &FileBackend{path: path, codec: codec, log: log.Sub("store")}
}

// Path returns the backing file path.
func (b *FileBackend) Path() string {
	return b.path
}

// Load reads the state file. A missing or empty file yields the default state.
func (b *FileBackend) Load(_ context.Context) (profile.State, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		b.log.Debug().Str("path", b.path).Msg("no profile store yet, using defaults")
		return profile.NewState(), nil
	}
	if err != nil {
		return profile.State{}, fmt.Errorf("failed to read %s: %w", b.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return profile.NewState(), nil
	}

	state := profile.NewState()
	if err := b.codec.Unmarshal(data, &state); err != nil {
		return profile.State{}, fmt.Errorf("failed to decode %s as %s: %w", b.path, b.codec.Name(), err)
	}
	if state.Profiles == nil {
		state.Profiles = []profile.Profile{}
	}
	return state, nil
}

// Save encodes the whole state and atomically replaces the file.
func (b *FileBackend) Save(_ context.Context, state profile.State) error {
	data, err := b.codec.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode profiles as %s: %w", b.codec.Name(), err)
	}
	if err := platform.WriteFileAtomic(b.path, data); err != nil {
		return err
	}
	b.log.Debug().Str("path", b.path).Int("profiles", len(state.Profiles)).Msg("profile store written")
	return nil
}
