package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/byterings/gprofile/internal/config"
	"github.com/byterings/gprofile/internal/git"
	"github.com/byterings/gprofile/internal/platform"
	"github.com/byterings/gprofile/internal/sshkey"
	"github.com/byterings/gprofile/internal/ui"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration issues",
	Long: `Check gprofile configuration health and diagnose common issues.

Runs checks on:
- Platform and config directory
- Settings file and profile store
- Git availability
- SSH key existence, format and permissions
- Global Git config alignment with the active profile

Examples:
  gprofile doctor          # Run diagnostics
  gprofile doctor --fix    # Auto-fix permission issues and re-apply the active profile`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVarP(&doctorFix, "fix", "f", false, "Auto-fix permission issues and Git config drift")
}

type checkResult struct {
	passed  bool
	message string
	fix     string // Suggested fix command
}

type checkSection struct {
	title   string
	results []checkResult
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(ui.Output)
	fmt.Fprintln(ui.Output, "Checking gprofile configuration...")

	dir, err := configDir()
	if err != nil {
		return err
	}

	printSection(checkSection{"Environment", checkEnvironment(dir)})

	configResults, ok := checkConfig(dir)
	printSection(checkSection{"Config", configResults})
	errors, warnings := countResults(configResults)
	if !ok {
		printSummary(0, errors, warnings)
		return nil
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		printSection(checkSection{"Profile Store", []checkResult{{message: fmt.Sprintf("Cannot open profile store: %v", err)}}})
		printSummary(0, errors+1, warnings)
		return nil
	}
	defer a.close()

	ctx, cancel := a.gitContext(cmd.Context())
	defer cancel()

	fixed := 0
	storeResults := checkStore(a)
	gitResults := checkGit(ctx, a)
	keyResults, keysFixed := checkSSHKeys(a, doctorFix)
	fixed += keysFixed
	alignResults, alignFixed := checkGitAlignment(ctx, a, doctorFix)
	fixed += alignFixed

	for _, s := range []checkSection{
		{"Profile Store", storeResults},
		{"Git", gitResults},
		{"SSH Keys", keyResults},
		{"Git Config", alignResults},
	} {
		printSection(s)
		e, w := countResults(s.results)
		errors += e
		warnings += w
	}

	printSummary(fixed, errors, warnings)
	return nil
}

func countResults(results []checkResult) (errors, warnings int) {
	for _, r := range results {
		if r.passed {
			continue
		}
		if r.fix == "" {
			errors++
		} else {
			warnings++
		}
	}
	return errors, warnings
}

func printSection(s checkSection) {
	fmt.Fprintln(ui.Output)
	fmt.Fprintln(ui.Output, s.title)
	for range s.title {
		fmt.Fprint(ui.Output, "─")
	}
	fmt.Fprintln(ui.Output)
	for _, r := range s.results {
		printCheckResult(r)
	}
}

func printSummary(fixed, errors, warnings int) {
	fmt.Fprintln(ui.Output)
	fmt.Fprintln(ui.Output, "─────────")

	if fixed > 0 {
		ui.Success(fmt.Sprintf("Auto-fixed %d issue(s)", fixed))
	}

	if errors == 0 && warnings == 0 {
		ui.Success("All checks passed!")
	} else if errors == 0 {
		ui.Warning(fmt.Sprintf("%d warning(s)", warnings))
	} else {
		ui.Error(fmt.Sprintf("%d error(s), %d warning(s)", errors, warnings))
	}
}

func printCheckResult(r checkResult) {
	if r.passed {
		fmt.Fprintf(ui.Output, "  ✓ %s\n", r.message)
	} else if r.fix != "" {
		fmt.Fprintf(ui.Output, "  ⚠ %s\n", r.message)
		fmt.Fprintf(ui.Output, "    → %s\n", r.fix)
	} else {
		fmt.Fprintf(ui.Output, "  ✗ %s\n", r.message)
	}
}

func checkEnvironment(dir string) []checkResult {
	return []checkResult{
		{passed: true, message: fmt.Sprintf("Platform: %s (%s/%s)", platform.GetPlatformName(), runtime.GOOS, runtime.GOARCH)},
		{passed: true, message: fmt.Sprintf("Config directory: %s", shortenPath(dir))},
	}
}

// checkConfig reports on the settings file. ok is false when later checks
// cannot run.
func checkConfig(dir string) (results []checkResult, ok bool) {
	exists, err := config.ConfigExists(dir)
	if err != nil {
		return append(results, checkResult{message: fmt.Sprintf("Error checking config: %v", err)}), false
	}

	if !exists {
		results = append(results, checkResult{
			message: "Settings file not found, using defaults",
			fix:     "Run: gprofile init",
		})
	} else {
		results = append(results, checkResult{passed: true, message: "Settings file exists"})
	}

	if _, err := config.LoadConfig(dir); err != nil {
		return append(results, checkResult{message: fmt.Sprintf("Settings file invalid: %v", err)}), false
	}
	if exists {
		results = append(results, checkResult{passed: true, message: "Settings file valid"})

		path := config.GetConfigPath(dir)
		if secure, err := platform.CheckFilePermissions(path); err == nil && !secure {
			results = append(results, checkResult{
				message: "Settings file is readable by other users",
				fix:     platform.GetPermissionFixCommand(path),
			})
		}
	}
	return results, true
}

func checkStore(a *app) []checkResult {
	results := []checkResult{{
		passed:  true,
		message: fmt.Sprintf("%s store readable: %s", a.cfg.Store.Backend, shortenPath(a.storePath)),
	}}

	profiles := a.svc.GetProfiles()
	if len(profiles) == 0 {
		results = append(results, checkResult{message: "No profiles configured", fix: "Run: gprofile add"})
		return results
	}
	results = append(results, checkResult{passed: true, message: fmt.Sprintf("%d profile(s) configured", len(profiles))})

	if current := a.svc.GetCurrentProfile(); current == nil {
		results = append(results, checkResult{message: "No active profile set", fix: "Run: gprofile use <name>"})
	} else {
		results = append(results, checkResult{passed: true, message: fmt.Sprintf("Active profile: %s", current.Name)})
	}
	return results
}

func checkGit(ctx context.Context, a *app) []checkResult {
	switch s := a.gitStore.(type) {
	case *git.ExecStore:
		version, err := s.Version(ctx)
		if err != nil {
			return []checkResult{{message: fmt.Sprintf("Git not usable (%s): %v", a.cfg.Git.Binary, err)}}
		}
		return []checkResult{{passed: true, message: version}}
	case *git.FileStore:
		return []checkResult{{passed: true, message: fmt.Sprintf("Editing %s directly", shortenPath(s.Path()))}}
	default:
		return nil
	}
}

func checkSSHKeys(a *app, autoFix bool) ([]checkResult, int) {
	var results []checkResult
	fixed := 0

	for _, p := range a.svc.GetProfiles() {
		if !p.HasSSHKey() {
			continue
		}

		info, err := sshkey.Inspect(p.SSHKeyPath)
		if err != nil {
			results = append(results, checkResult{
				message: fmt.Sprintf("SSH key for '%s': %v", p.Name, err),
				fix:     fmt.Sprintf("Run: gprofile edit %s --ssh-key <path>", p.Name),
			})
			continue
		}

		desc := info.Type
		if info.Encrypted {
			desc += ", passphrase protected"
		}
		results = append(results, checkResult{
			passed:  true,
			message: fmt.Sprintf("SSH key for '%s' (%s) %s", p.Name, desc, info.Fingerprint),
		})

		if runtime.GOOS == "windows" || !info.InsecurePerms {
			continue
		}
		if autoFix {
			if err := platform.FixFilePermissions(info.Path); err == nil {
				results = append(results, checkResult{
					passed:  true,
					message: fmt.Sprintf("SSH key '%s' permissions fixed (600)", p.Name),
				})
				fixed++
				continue
			}
		}
		results = append(results, checkResult{
			message: fmt.Sprintf("SSH key '%s' has wrong permissions (%o, should be 600)", p.Name, info.Mode),
			fix:     platform.GetPermissionFixCommand(info.Path),
		})
	}

	if len(results) == 0 {
		results = append(results, checkResult{passed: true, message: "No profiles use a dedicated SSH key"})
	}

	sshDir, err := platform.GetSSHDir()
	if err == nil && runtime.GOOS != "windows" {
		if st, err := os.Stat(sshDir); err == nil && st.Mode().Perm()&0077 != 0 {
			results = append(results, checkResult{
				message: fmt.Sprintf("SSH directory has wrong permissions (%o, should be 700)", st.Mode().Perm()),
				fix:     fmt.Sprintf("chmod 700 %s", sshDir),
			})
		}
	}

	return results, fixed
}

func checkGitAlignment(ctx context.Context, a *app, autoFix bool) ([]checkResult, int) {
	current := a.svc.GetCurrentProfile()
	if current == nil {
		return []checkResult{{passed: true, message: "No active profile to compare"}}, 0
	}

	var results []checkResult
	drift := false
	for _, v := range readGitValues(ctx, a.gitStore, current) {
		switch {
		case v.Error != "":
			results = append(results, checkResult{message: fmt.Sprintf("Could not read %s: %s", v.Key, v.Error)})
		case v.Matches && v.Set:
			results = append(results, checkResult{passed: true, message: fmt.Sprintf("%s = %s", v.Key, v.Value)})
		case v.Matches:
			results = append(results, checkResult{passed: true, message: fmt.Sprintf("%s not set", v.Key)})
		default:
			drift = true
			results = append(results, checkResult{
				message: fmt.Sprintf("%s mismatch: '%s' (expected: '%s')", v.Key, v.Value, v.Expected),
				fix:     "Run: gprofile sync",
			})
		}
	}

	if !drift || !autoFix {
		return results, 0
	}

	if _, err := a.svc.Sync(ctx); err != nil {
		return append(results, checkResult{message: fmt.Sprintf("Failed to re-apply '%s': %v", current.Name, err)}), 0
	}
	fixed := 0
	for i := range results {
		if !results[i].passed && results[i].fix != "" {
			results[i] = checkResult{passed: true, message: results[i].message + " (fixed)"}
			fixed++
		}
	}
	return results, fixed
}
