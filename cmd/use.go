package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/byterings/gprofile/internal/profile"
	"github.com/byterings/gprofile/internal/ui"
)

var useCmd = &cobra.Command{
	Use:   "use [profile]",
	Short: "Switch to a different Git identity",
	Long: `Switch the global Git identity to a profile, given by id, name or unique id prefix.
A name match wins over an id prefix.

user.name and user.email are written to the global Git configuration. If the
profile has an SSH key, core.sshCommand is set to use only that key; otherwise
any core.sshCommand override is removed.`,
	Args: cobra.MaximumNArgs(1),
	Example: `  gprofile use work
  gprofile use 3f2a          # By id prefix
  gprofile use               # Pick from a list`,
	RunE: runUse,
}

func init() {
	rootCmd.AddCommand(useCmd)
}

func runUse(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(a *app) error {
		var target profile.Profile
		if len(args) == 1 {
			p, err := a.resolveProfile(args[0])
			if err != nil {
				return err
			}
			target = p
		} else {
			profiles := a.svc.GetProfiles()
			if len(profiles) == 0 {
				return errors.New("no profiles configured\nAdd one with: gprofile add")
			}
			if !interactive() {
				return errors.New("profile argument required")
			}
			id, err := ui.PromptSelectProfile("Switch to:", profiles)
			if err != nil {
				return err
			}
			p, _ := a.svc.Resolve(id)
			target = p
		}

		return activate(cmd, a, target)
	})
}

// activate applies p to git and marks it active.
func activate(cmd *cobra.Command, a *app, p profile.Profile) error {
	if !jsonOutput() {
		fmt.Fprintf(ui.Output, "Switching to: %s (%s)\n", p.Name, p.GitEmail)
	}

	ctx, cancel := a.gitContext(cmd.Context())
	defer cancel()

	ok, err := a.svc.SetActiveProfile(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("failed to switch identity: %w", err)
	}
	if !ok {
		return fmt.Errorf("profile '%s' no longer exists", p.Name)
	}

	if jsonOutput() {
		return ui.PrintJSON(a.svc.GetCurrentProfile())
	}

	ui.Success("Identity switched successfully")
	if p.HasSSHKey() {
		ui.Info(fmt.Sprintf("Git will use SSH key %s", p.SSHKeyPath))
	}
	return nil
}
