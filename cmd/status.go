package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/byterings/gprofile/internal/git"
	"github.com/byterings/gprofile/internal/platform"
	"github.com/byterings/gprofile/internal/profile"
	"github.com/byterings/gprofile/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current identity status",
	Long: `Display the current identity status including:
- Active profile
- Live global Git values (user.name, user.email, core.sshCommand)
- Where profiles are stored

This helps you spot drift between the active profile and the Git configuration.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// gitValue is one global Git setting and whether it matches the active profile.
type gitValue struct {
	Key      string `json:"key"`
	Value    string `json:"value,omitempty"`
	Set      bool   `json:"set"`
	Expected string `json:"expected,omitempty"`
	Matches  bool   `json:"matches"`
	Error    string `json:"error,omitempty"`
}

type statusReport struct {
	Profile      *profile.Profile `json:"profile"`
	Git          []gitValue       `json:"git"`
	StoreBackend string           `json:"storeBackend"`
	StorePath    string           `json:"storePath"`
	GitBackend   string           `json:"gitBackend"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(a *app) error {
		ctx, cancel := a.gitContext(cmd.Context())
		defer cancel()

		report := statusReport{
			Profile:      a.svc.GetCurrentProfile(),
			Git:          readGitValues(ctx, a.gitStore, a.svc.GetCurrentProfile()),
			StoreBackend: a.cfg.Store.Backend,
			StorePath:    a.storePath,
			GitBackend:   a.cfg.Git.Backend,
		}

		if jsonOutput() {
			return ui.PrintJSON(report)
		}

		printActiveProfile(report.Profile)
		printGitValues(report.Git, report.Profile != nil)
		printStorage(report)
		return nil
	})
}

// readGitValues reads the identity keys from the global Git configuration and
// compares them to what p would apply.
func readGitValues(ctx context.Context, store git.Store, p *profile.Profile) []gitValue {
	var expected map[string]string
	if p != nil {
		expected = map[string]string{
			git.KeyUserName:   p.GitName,
			git.KeyUserEmail:  p.GitEmail,
			git.KeySSHCommand: "",
		}
		if p.HasSSHKey() {
			expected[git.KeySSHCommand] = git.SSHCommand(p.SSHKeyPath)
		}
	}

	keys := []string{git.KeyUserName, git.KeyUserEmail, git.KeySSHCommand}
	values := make([]gitValue, 0, len(keys))
	for _, key := range keys {
		v := gitValue{Key: key}
		value, ok, err := store.Get(ctx, key)
		if err != nil {
			v.Error = err.Error()
			values = append(values, v)
			continue
		}
		v.Value, v.Set = value, ok
		if expected != nil {
			v.Expected = expected[key]
			v.Matches = value == v.Expected
		}
		values = append(values, v)
	}
	return values
}

func printActiveProfile(p *profile.Profile) {
	fmt.Fprintln(ui.Output)
	fmt.Fprintln(ui.Output, "Active Profile")
	fmt.Fprintln(ui.Output, "──────────────")

	if p == nil {
		fmt.Fprintln(ui.Output, "  No active profile set")
		fmt.Fprintln(ui.Output, "  Run 'gprofile use <name>' to set one")
		return
	}

	fmt.Fprintf(ui.Output, "  Profile:  %s\n", p.Name)
	fmt.Fprintf(ui.Output, "  Name:     %s\n", p.GitName)
	fmt.Fprintf(ui.Output, "  Email:    %s\n", p.GitEmail)

	if !p.HasSSHKey() {
		fmt.Fprintln(ui.Output, "  SSH Key:  ⚠ (not configured)")
		return
	}
	sshStatus := "✓"
	if expanded, err := platform.ExpandTilde(p.SSHKeyPath); err == nil {
		if _, err := os.Stat(expanded); os.IsNotExist(err) {
			sshStatus = "✗ (missing)"
		}
	}
	fmt.Fprintf(ui.Output, "  SSH Key:  %s %s\n", p.SSHKeyPath, sshStatus)
}

func printGitValues(values []gitValue, compare bool) {
	fmt.Fprintln(ui.Output)
	fmt.Fprintln(ui.Output, "Global Git Config")
	fmt.Fprintln(ui.Output, "─────────────────")

	for _, v := range values {
		if v.Error != "" {
			fmt.Fprintf(ui.Output, "  ✗ %-16s %s\n", v.Key, v.Error)
			continue
		}

		shown := v.Value
		if !v.Set {
			shown = "(not set)"
		}

		mark := " "
		if compare {
			mark = "✓"
			if !v.Matches {
				mark = "✗"
			}
		}
		fmt.Fprintf(ui.Output, "  %s %-16s %s\n", mark, v.Key, shown)
	}

	if compare {
		for _, v := range values {
			if v.Error == "" && !v.Matches {
				fmt.Fprintln(ui.Output)
				ui.Warning("Git configuration differs from the active profile")
				fmt.Fprintln(ui.Output, "  Run 'gprofile sync' to re-apply it")
				return
			}
		}
	}
}

func printStorage(r statusReport) {
	fmt.Fprintln(ui.Output)
	fmt.Fprintln(ui.Output, "Storage")
	fmt.Fprintln(ui.Output, "───────")
	fmt.Fprintf(ui.Output, "  Profiles:  %s (%s)\n", shortenPath(r.StorePath), r.StoreBackend)
	fmt.Fprintf(ui.Output, "  Git:       %s backend\n", r.GitBackend)
}

// shortenPath shortens home directory paths with ~
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	if len(absPath) > len(home) && absPath[:len(home)] == home {
		return "~" + absPath[len(home):]
	}

	return path
}
