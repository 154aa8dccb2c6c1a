package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/byterings/gprofile/internal/platform"
	"github.com/byterings/gprofile/internal/profile"
	"github.com/byterings/gprofile/internal/sshkey"
	"github.com/byterings/gprofile/internal/ui"
)

var (
	deleteFlagYes      bool
	deleteFlagWithKeys bool
)

var deleteCmd = &cobra.Command{
	Use:     "delete <profile>",
	Aliases: []string{"rm"},
	Short:   "Delete a profile",
	Long: `Remove a profile from gprofile and optionally delete its SSH key files.
Key files still used by another profile are never deleted, and the prompt is
only offered for keys gprofile generated.

Deleting the active profile clears the active selection but leaves the global
Git configuration as it is.`,
	Args: cobra.ExactArgs(1),
	Example: `  gprofile delete work
  gprofile delete personal --yes --with-keys`,
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteFlagYes, "yes", "y", false, "Skip confirmation prompt")
	deleteCmd.Flags().BoolVar(&deleteFlagWithKeys, "with-keys", false, "Also delete the profile's SSH key files")
}

func runDelete(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(a *app) error {
		p, err := a.resolveProfile(args[0])
		if err != nil {
			return err
		}

		deleteKeys := deleteFlagWithKeys
		if !deleteFlagYes {
			if !interactive() {
				return errors.New("refusing to delete without confirmation: pass --yes")
			}
			confirmed, err := ui.PromptConfirmation(fmt.Sprintf("Delete profile '%s' (%s)?", p.Name, p.GitEmail))
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Fprintln(ui.Output, "Cancelled")
				return nil
			}

			if p.HasSSHKey() && !deleteKeys && sshkey.IsGenerated(p.SSHKeyPath) {
				deleteKeys, err = ui.PromptConfirmation(fmt.Sprintf("Also delete SSH key files (%s)?", p.SSHKeyPath))
				if err != nil {
					return err
				}
			}
		}

		if err := a.svc.DeleteProfile(cmd.Context(), p.ID); err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}

		if p.IsActive {
			ui.Info("Active profile cleared")
		}

		if deleteKeys && p.HasSSHKey() {
			if err := deleteKeyFiles(p.SSHKeyPath, a.svc.GetProfiles()); err != nil {
				return err
			}
		}

		ui.Success(fmt.Sprintf("Profile '%s' deleted", p.Name))

		if len(a.svc.GetProfiles()) == 0 {
			fmt.Fprintln(ui.Output, "\nNo profiles remaining. Add one with: gprofile add")
		}
		return nil
	})
}

// deleteKeyFiles removes a private key and its .pub unless one of remaining
// still points at the same file.
func deleteKeyFiles(keyPath string, remaining []profile.Profile) error {
	target, err := normalizeKeyPath(keyPath)
	if err != nil {
		return err
	}

	for _, other := range remaining {
		if !other.HasSSHKey() {
			continue
		}
		if path, err := normalizeKeyPath(other.SSHKeyPath); err == nil && path == target {
			ui.Warning(fmt.Sprintf("Keeping %s, it is still used by profile '%s'", target, other.Name))
			return nil
		}
	}

	for _, path := range []string{target, target + ".pub"} {
		if err := os.Remove(path); err != nil {
			ui.Warning(fmt.Sprintf("Could not delete %s: %v", path, err))
		} else {
			ui.Success(fmt.Sprintf("Deleted: %s", path))
		}
	}
	return nil
}

func normalizeKeyPath(path string) (string, error) {
	expanded, err := platform.ExpandTilde(path)
	if err != nil {
		return "", err
	}
	if abs, err := filepath.Abs(expanded); err == nil {
		expanded = abs
	}
	return filepath.Clean(expanded), nil
}
