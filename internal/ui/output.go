package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/byterings/gprofile/internal/profile"
)

// Output receives everything the ui package prints.
var Output io.Writer = os.Stdout

// SetOutput redirects printing to w and returns a function restoring the
// previous writer.
func SetOutput(w io.Writer) func() {
	prev := Output
	Output = w
	return func() { Output = prev }
}

// PrintProfilesList prints the profiles in a formatted way, marking the active one
func PrintProfilesList(profiles []profile.Profile) {
	if len(profiles) == 0 {
		fmt.Fprintln(Output, "No profiles configured yet.")
		fmt.Fprintln(Output, "\nAdd your first profile with: gprofile add")
		return
	}

	fmt.Fprintln(Output, "\nConfigured profiles:")
	fmt.Fprintln(Output)

	hasActive := false
	for _, p := range profiles {
		indicator := " "
		if p.IsActive {
			indicator = "→"
			hasActive = true
		}

		key := "-"
		if p.HasSSHKey() {
			key = p.SSHKeyPath
		}

		fmt.Fprintf(Output, "%s %-20s %-30s %-20s %s\n",
			indicator,
			p.Name,
			p.GitEmail,
			p.GitName,
			key,
		)
	}

	fmt.Fprintln(Output)
	if !hasActive {
		fmt.Fprintln(Output, "No active profile set. Use 'gprofile use <name>' to set one.")
	}
}

// PrintProfile prints the details of a single profile
func PrintProfile(p profile.Profile) {
	fmt.Fprintf(Output, "  Name:     %s\n", p.Name)
	fmt.Fprintf(Output, "  Git name: %s\n", p.GitName)
	fmt.Fprintf(Output, "  Email:    %s\n", p.GitEmail)
	if p.HasSSHKey() {
		fmt.Fprintf(Output, "  SSH key:  %s\n", p.SSHKeyPath)
	} else {
		fmt.Fprintln(Output, "  SSH key:  (none)")
	}
	fmt.Fprintf(Output, "  ID:       %s\n", p.ID)
}

// PrintJSON writes v as indented JSON
func PrintJSON(v any) error {
	enc := json.NewEncoder(Output)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// Success prints a success message with checkmark
func Success(message string) {
	fmt.Fprintf(Output, "✓ %s\n", message)
}

// Error prints an error message
func Error(message string) {
	fmt.Fprintf(Output, "✗ %s\n", message)
}

// Info prints an info message
func Info(message string) {
	fmt.Fprintf(Output, "ℹ %s\n", message)
}

// Warning prints a warning message
func Warning(message string) {
	fmt.Fprintf(Output, "⚠ %s\n", message)
}
