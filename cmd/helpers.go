package cmd

import (
	"fmt"

	"github.com/byterings/gprofile/internal/config"
	"github.com/byterings/gprofile/internal/profile"
)

// autoInit initializes gprofile automatically if not already initialized
func autoInit() error {
	dir, err := configDir()
	if err != nil {
		return err
	}

	exists, err := config.ConfigExists(dir)
	if err != nil {
		return err
	}

	if !exists {
		// Silently initialize
		if err := config.CreateConfigDir(dir); err != nil {
			return err
		}
		if err := config.SaveConfig(dir, config.NewConfig()); err != nil {
			return err
		}
	}

	return nil
}

// resolveProfile looks up a profile by id, id prefix or name.
func (a *app) resolveProfile(ref string) (profile.Profile, error) {
	p, ok := a.svc.Resolve(ref)
	if !ok {
		return profile.Profile{}, fmt.Errorf("profile '%s' not found\nRun: gprofile list", ref)
	}
	return p, nil
}
