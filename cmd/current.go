package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/byterings/gprofile/internal/ui"
)

var currentCmd = &cobra.Command{
	Use:     "current",
	Aliases: []string{"active"},
	Short:   "Show the currently active profile",
	Long:    `Display which identity profile is currently active.`,
	RunE:    runCurrent,
}

func init() {
	rootCmd.AddCommand(currentCmd)
}

func runCurrent(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(a *app) error {
		current := a.svc.GetCurrentProfile()

		if jsonOutput() {
			return ui.PrintJSON(current)
		}

		if current == nil {
			fmt.Fprintln(ui.Output, "No active profile set")
			fmt.Fprintln(ui.Output, "\nSet one with: gprofile use <name>")
			return nil
		}

		fmt.Fprintf(ui.Output, "Active profile: %s\n", current.Name)
		ui.PrintProfile(*current)
		return nil
	})
}
