package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/byterings/gprofile/internal/ui"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const (
	outputText = "text"
	outputJSON = "json"
)

var (
	flagConfigDir string
	flagLogLevel  string
	flagOutput    string
)

var rootCmd = &cobra.Command{
	Use:   "gprofile",
	Short: "Switch between global Git identities",
	Long: `gprofile keeps named Git identity profiles (user.name, user.email and an
optional SSH key) and switches the global Git configuration between them.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: preRun,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "Config directory (default ~/.gprofile, env GPROFILE_CONFIG_DIR)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error, silent")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", outputText, "Output format: text or json")
}

// Execute runs the root command and prints any error.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		ui.Error(err.Error())
		return err
	}
	return nil
}

func preRun(cmd *cobra.Command, args []string) error {
	ui.SetOutput(cmd.OutOrStdout())
	switch flagOutput {
	case outputText, outputJSON:
	default:
		return fmt.Errorf("invalid output format %q (expected %s or %s)", flagOutput, outputText, outputJSON)
	}
	return nil
}

func jsonOutput() bool {
	return flagOutput == outputJSON
}

// interactive reports whether survey prompts can be shown.
func interactive() bool {
	return ui.IsInteractive() && os.Getenv("GPROFILE_NO_PROMPT") == ""
}
