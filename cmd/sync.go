package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/byterings/gprofile/internal/ui"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Re-apply the active profile to Git",
	Long: `Write the active profile's identity to the global Git configuration again.

Use this after editing the active profile, after a failed switch, or when
something else has changed user.name, user.email or core.sshCommand.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(a *app) error {
		ctx, cancel := a.gitContext(cmd.Context())
		defer cancel()

		current, err := a.svc.Sync(ctx)
		if err != nil {
			return fmt.Errorf("failed to sync identity: %w", err)
		}

		if jsonOutput() {
			return ui.PrintJSON(current)
		}

		if current == nil {
			ui.Info("No active profile set")
			fmt.Fprintln(ui.Output, "Set one with: gprofile use <name>")
			return nil
		}

		ui.Success(fmt.Sprintf("Git identity synced to '%s' (%s)", current.Name, current.GitEmail))
		return nil
	})
}
