package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/byterings/gprofile/internal/config"
	"github.com/byterings/gprofile/internal/git"
	"github.com/byterings/gprofile/internal/logging"
	"github.com/byterings/gprofile/internal/notify"
	"github.com/byterings/gprofile/internal/platform"
	"github.com/byterings/gprofile/internal/profile"
	"github.com/byterings/gprofile/internal/service"
	"github.com/byterings/gprofile/internal/store"
)

// app holds everything a command needs once settings are loaded.
type app struct {
	dir       string
	cfg       *config.Config
	log       *logging.Logger
	storePath string
	gitStore  git.Store
	svc       *service.Service
	timeout   time.Duration
	close     func() error
}

// configDir resolves the config directory from the flag, the environment or
// the default location.
func configDir() (string, error) {
	if flagConfigDir != "" {
		return platform.ExpandTilde(flagConfigDir)
	}
	return config.GetConfigDir()
}

// openApp loads settings and wires the store, git backend and service.
func openApp(ctx context.Context) (*app, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Log.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	log := logging.New(nil, level)

	timeout, err := cfg.GitTimeout()
	if err != nil {
		return nil, err
	}

	gitStore, err := newGitStore(cfg)
	if err != nil {
		return nil, err
	}

	storePath, err := cfg.StorePath(dir)
	if err != nil {
		return nil, err
	}
	backend, closeStore, err := store.Open(ctx, cfg.Store.Backend, storePath, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile store: %w", err)
	}

	registry, err := profile.NewRegistry(ctx, backend, log)
	if err != nil {
		closeStore()
		return nil, err
	}

	svc := service.New(registry, git.NewApplier(gitStore, log), notify.New(cfg.Notify), log)

	log.Debug().
		Str("dir", dir).
		Str("store", cfg.Store.Backend).
		Str("git", cfg.Git.Backend).
		Msg("app ready")

	return &app{
		dir:       dir,
		cfg:       cfg,
		log:       log,
		storePath: storePath,
		gitStore:  gitStore,
		svc:       svc,
		timeout:   timeout,
		close:     closeStore,
	}, nil
}

func newGitStore(cfg *config.Config) (git.Store, error) {
	switch cfg.Git.Backend {
	case config.GitBackendFile:
		fs, err := git.NewFileStore(cfg.Git.File)
		if err != nil {
			return nil, fmt.Errorf("failed to open git config file: %w", err)
		}
		return fs, nil
	default:
		return git.NewExecStore(cfg.Git.Binary, git.NewExecRunner()), nil
	}
}

// gitContext bounds a git operation by the configured timeout.
func (a *app) gitContext(parent context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, a.timeout)
}

// withApp opens the app, runs fn and releases the store.
func withApp(ctx context.Context, fn func(a *app) error) error {
	if err := autoInit(); err != nil {
		return err
	}
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close profile store")
		}
	}()
	return fn(a)
}
