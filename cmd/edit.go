package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/byterings/gprofile/internal/sshkey"
	"github.com/byterings/gprofile/internal/ui"
)

var (
	editFlagName        string
	editFlagGitName     string
	editFlagEmail       string
	editFlagSSHKey      string
	editFlagClearSSHKey bool
)

var editCmd = &cobra.Command{
	Use:     "edit <profile>",
	Aliases: []string{"update"},
	Short:   "Edit an existing profile",
	Long: `Change the name, commit identity or SSH key of an existing profile.

Only the fields given as flags are changed. Editing the active profile does not
rewrite the Git configuration; run 'gprofile sync' to apply the change.`,
	Args: cobra.ExactArgs(1),
	Example: `  gprofile edit work --email john@newcorp.com
  gprofile edit personal --ssh-key ~/.ssh/id_ed25519
  gprofile edit personal --clear-ssh-key`,
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editFlagName, "name", "", "New display name")
	editCmd.Flags().StringVar(&editFlagGitName, "git-name", "", "New author name for Git commits")
	editCmd.Flags().StringVar(&editFlagEmail, "email", "", "New email address for Git commits")
	editCmd.Flags().StringVar(&editFlagSSHKey, "ssh-key", "", "Path to SSH private key")
	editCmd.Flags().BoolVar(&editFlagClearSSHKey, "clear-ssh-key", false, "Remove the SSH key from the profile")
	editCmd.MarkFlagsMutuallyExclusive("ssh-key", "clear-ssh-key")
}

func runEdit(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("name") && !flags.Changed("git-name") && !flags.Changed("email") &&
		!flags.Changed("ssh-key") && !flags.Changed("clear-ssh-key") {
		return errors.New("nothing to change: pass --name, --git-name, --email, --ssh-key or --clear-ssh-key")
	}

	return withApp(cmd.Context(), func(a *app) error {
		p, err := a.resolveProfile(args[0])
		if err != nil {
			return err
		}

		if flags.Changed("name") {
			p.Name = editFlagName
		}
		if flags.Changed("git-name") {
			p.GitName = editFlagGitName
		}
		if flags.Changed("email") {
			if !ui.LooksLikeEmail(editFlagEmail) {
				ui.Warning(fmt.Sprintf("'%s' does not look like an email address", editFlagEmail))
			}
			p.GitEmail = editFlagEmail
		}
		if flags.Changed("ssh-key") {
			if err := sshkey.ValidateKeyPath(editFlagSSHKey); err != nil {
				return err
			}
			warnKeyPermissions(editFlagSSHKey)
			p.SSHKeyPath = editFlagSSHKey
		}
		if editFlagClearSSHKey {
			p.SSHKeyPath = ""
		}

		updated, err := a.svc.UpdateProfile(cmd.Context(), p)
		if err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}

		if jsonOutput() {
			return ui.PrintJSON(updated)
		}

		ui.Success(fmt.Sprintf("Profile '%s' updated", updated.Name))
		if updated.IsActive {
			fmt.Fprintln(ui.Output, "\nThis profile is active. Run 'gprofile sync' to apply the change to Git.")
		}
		return nil
	})
}
