package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/byterings/gprofile/internal/logging"
	"github.com/byterings/gprofile/internal/profile"
)

// Backend kinds accepted by Open.
const (
	KindJSON   = "json"
	KindTOML   = "toml"
	KindYAML   = "yaml"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// Open builds the backend named by kind. The returned close function is
// never nil.
func Open(ctx context.Context, kind, path string, log *logging.Logger) (profile.Backend, func() error, error) {
	noop := func() error { return nil }

	switch kind {
	case KindJSON, KindTOML, KindYAML:
		codec, err := CodecFor(kind)
		if err != nil {
			return nil, noop, err
		}
		return NewFileBackend(path, codec, log), noop, nil
	case "":
		return NewFileBackend(path, nil, log), noop, nil
	case KindSQLite:
		b, err := OpenSQLite(ctx, path, log)
		if err != nil {
			return nil, noop, err
		}
		return b, b.Close, nil
	case KindMemory:
		return NewMemoryBackend(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", kind)
	}
}

// DefaultFileName returns the store file name for a backend kind.
func DefaultFileName(kind string) string {
	switch kind {
	case KindTOML:
		return "profiles.toml"
	case KindYAML:
		return "profiles.yaml"
	case KindSQLite:
		return "profiles.db"
	default:
		return "profiles.json"
	}
}

func parentDir(path string) string {
	return filepath.Dir(path)
}
