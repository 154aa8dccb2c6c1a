package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/byterings/gprofile/internal/config"
	"github.com/byterings/gprofile/internal/logging"
	"github.com/byterings/gprofile/internal/profile"
	"github.com/byterings/gprofile/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize gprofile configuration",
	Long:  `Initialize gprofile by creating the configuration directory, settings file and an empty profile store. This is optional - gprofile will auto-initialize on first use.`,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := configDir()
	if err != nil {
		return err
	}

	// Check if already initialized
	exists, err := config.ConfigExists(dir)
	if err != nil {
		return fmt.Errorf("failed to check config: %w", err)
	}

	if exists {
		fmt.Fprintf(cmd.OutOrStdout(), "gprofile is already initialized at: %s\n", dir)
		return nil
	}

	if err := config.CreateConfigDir(dir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := config.SaveConfig(dir, config.NewConfig()); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if err := initStore(cmd.Context(), dir); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ gprofile initialized at: %s\n", dir)
	fmt.Fprintln(cmd.OutOrStdout(), "\nNext: gprofile add")
	return nil
}

// initStore writes the profile store so it exists on disk, keeping any
// profiles already there.
func initStore(ctx context.Context, dir string) error {
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	path, err := cfg.StorePath(dir)
	if err != nil {
		return err
	}

	backend, closeStore, err := store.Open(ctx, cfg.Store.Backend, path, logging.Nop())
	if err != nil {
		return fmt.Errorf("failed to open profile store: %w", err)
	}
	defer closeStore()

	state, err := backend.Load(ctx)
	if err != nil {
		return &profile.StorageError{Op: "load", Err: err}
	}
	if err := backend.Save(ctx, state); err != nil {
		return &profile.StorageError{Op: "save", Err: err}
	}
	return nil
}
