package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gopasspw/gitconfig"

	"github.com/byterings/gprofile/internal/platform"
)

// FileStore edits a global gitconfig file in-process, without the git binary.
// The file is re-read on every call so edits made by other tools are seen.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore for path. An empty path means ~/.gitconfig.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		p, err := platform.GetGlobalGitConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	path, err := platform.ExpandTilde(path)
	if err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

// Path returns the gitconfig file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	cfg, err := s.load(true)
	if err != nil {
		return err
	}
	if err := cfg.Set(canonicalKey(key), encodeValue(value)); err != nil {
		return s.fail("set", key, err)
	}
	return nil
}

func (s *FileStore) Unset(_ context.Context, key string) error {
	cfg, err := s.load(false)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := cfg.Unset(canonicalKey(key)); err != nil {
		return s.fail("unset", key, err)
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	cfg, err := s.load(false)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	v, ok := cfg.Get(canonicalKey(key))
	return v, ok, nil
}

// load reads the config file, creating an empty one first when create is set.
func (s *FileStore) load(create bool) (*gitconfig.Config, error) {
	if create {
		if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
			if err := platform.WriteFileAtomic(s.path, nil); err != nil {
				return nil, s.fail("create", s.path, err)
			}
		}
	}
	cfg, err := gitconfig.LoadConfig(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, s.fail("load", s.path, err)
	}
	return cfg, nil
}

func (s *FileStore) fail(op, target string, err error) error {
	return &ExternalProcessError{
		Args:     []string{"gitconfig", op, target},
		ExitCode: -1,
		Err:      fmt.Errorf("%s: %w", s.path, err),
	}
}

// canonicalKey lowercases section and variable name. Our keys have no
// subsection.
func canonicalKey(key string) string {
	return strings.ToLower(key)
}

// encodeValue quotes a value for the gitconfig file when it would otherwise
// be altered on read.
func encodeValue(v string) string {
	if v == "" {
		return v
	}
	needsQuote := strings.ContainsAny(v, "\"\\#;\n\t") || strings.TrimSpace(v) != v
	if !needsQuote {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)
	return `"` + r.Replace(v) + `"`
}
