package cmd

import (
	"github.com/spf13/cobra"

	"github.com/byterings/gprofile/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all configured profiles",
	Long:    `Display all configured Git identity profiles and highlight the active one.`,
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(a *app) error {
		profiles := a.svc.GetProfiles()
		if jsonOutput() {
			return ui.PrintJSON(profiles)
		}
		ui.PrintProfilesList(profiles)
		return nil
	})
}
