package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/byterings/gprofile/internal/git"
	"github.com/byterings/gprofile/internal/ui"
)

var uninstallForce bool

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove gprofile configuration and its Git override",
	Long: `Uninstall gprofile by:
1. Removing the core.sshCommand override set by gprofile
2. Removing the gprofile configuration directory

user.name and user.email stay as they are, so Git keeps working with the last
active identity.`,
	Example: `  # Uninstall gprofile
  gprofile uninstall

  # After running this command, manually delete:
  # Linux/macOS: sudo rm /usr/local/bin/gprofile
  # Windows: Remove from Add/Remove Programs or delete the install folder`,
	RunE: runUninstall,
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
	uninstallCmd.Flags().BoolVar(&uninstallForce, "force", false, "Skip confirmation prompt")
}

func runUninstall(cmd *cobra.Command, args []string) error {
	out := ui.Output
	fmt.Fprintln(out, "gprofile Uninstall")
	fmt.Fprintln(out, "==================")
	fmt.Fprintln(out)

	dir, err := configDir()
	if err != nil {
		return err
	}

	if !uninstallForce {
		if !interactive() {
			return fmt.Errorf("refusing to uninstall without confirmation: pass --force")
		}
		fmt.Fprintln(out, "This will:")
		fmt.Fprintln(out, "  1. Remove the core.sshCommand override set by gprofile")
		fmt.Fprintf(out, "  2. Remove gprofile configuration (%s)\n", dir)
		fmt.Fprintln(out)

		confirmed, err := ui.PromptConfirmation("Continue?")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, "Operation cancelled.")
			return nil
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "Step 1: Removing Git SSH override...")
	if err := withApp(cmd.Context(), func(a *app) error {
		return removeSSHOverride(cmd, a)
	}); err != nil {
		ui.Error(fmt.Sprintf("Failed to remove SSH override: %v", err))
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Step 2: Removing gprofile configuration...")
	if err := os.RemoveAll(dir); err != nil {
		ui.Error(fmt.Sprintf("Failed to remove config: %v", err))
	} else {
		ui.Success(fmt.Sprintf("Removed %s", dir))
	}
	fmt.Fprintln(out)

	ui.Success("gprofile uninstall complete!")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Final step - manually remove the gprofile binary:")
	if runtime.GOOS == "windows" {
		fmt.Fprintln(out, "  Option 1: Settings → Apps → gprofile → Uninstall")
		fmt.Fprintln(out, "  Option 2: Remove-Item \"$env:LOCALAPPDATA\\gprofile\" -Recurse -Force")
	} else {
		fmt.Fprintln(out, "  sudo rm /usr/local/bin/gprofile")
	}
	fmt.Fprintln(out)

	return nil
}

// removeSSHOverride unsets core.sshCommand when it is one gprofile wrote.
// Overrides set by hand are left alone.
func removeSSHOverride(cmd *cobra.Command, a *app) error {
	ctx, cancel := a.gitContext(cmd.Context())
	defer cancel()

	value, ok, err := a.gitStore.Get(ctx, git.KeySSHCommand)
	if err != nil {
		return err
	}
	if !ok {
		ui.Info("No core.sshCommand override set")
		return nil
	}

	ours := false
	for _, p := range a.svc.GetProfiles() {
		if p.HasSSHKey() && git.SSHCommand(p.SSHKeyPath) == value {
			ours = true
			break
		}
	}
	if !ours {
		ui.Warning(fmt.Sprintf("Leaving core.sshCommand as is, it was not set by gprofile: %s", value))
		return nil
	}

	if err := a.gitStore.Unset(ctx, git.KeySSHCommand); err != nil {
		return err
	}
	ui.Success("Removed core.sshCommand")
	return nil
}
