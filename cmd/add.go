package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/byterings/gprofile/internal/platform"
	"github.com/byterings/gprofile/internal/profile"
	"github.com/byterings/gprofile/internal/sshkey"
	"github.com/byterings/gprofile/internal/ui"
)

const skipSSHKey = "skip"

var (
	addFlagName        string
	addFlagGitName     string
	addFlagEmail       string
	addFlagSSHKey      string
	addFlagGenerateKey bool
	addFlagUse         bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new identity profile",
	Long:  `Add a new Git identity profile with a name, commit author, email and optional SSH key.`,
	Example: `  # Interactive mode
  gprofile add

  # Using flags
  gprofile add --name Work --git-name "John Doe" --email john@work.com --ssh-key ~/.ssh/id_work

  # Generate a dedicated key and switch to the new profile
  gprofile add --name Work --git-name "John Doe" --email john@work.com --generate-key --use`,
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addFlagName, "name", "", "Display name for this profile (e.g., Work, Personal)")
	addCmd.Flags().StringVar(&addFlagGitName, "git-name", "", "Author name for Git commits")
	addCmd.Flags().StringVar(&addFlagEmail, "email", "", "Email address for Git commits")
	addCmd.Flags().StringVar(&addFlagSSHKey, "ssh-key", "", "Path to existing SSH private key, or 'skip'")
	addCmd.Flags().BoolVar(&addFlagGenerateKey, "generate-key", false, "Generate a new Ed25519 key for this profile")
	addCmd.Flags().BoolVar(&addFlagUse, "use", false, "Switch to the new profile after adding it")
	addCmd.MarkFlagsMutuallyExclusive("ssh-key", "generate-key")
}

func runAdd(cmd *cobra.Command, args []string) error {
	in := profile.ProfileCreate{
		Name:     addFlagName,
		GitName:  addFlagGitName,
		GitEmail: addFlagEmail,
	}

	prompting := in.Name == "" || in.GitName == "" || in.GitEmail == ""
	if prompting {
		if !interactive() {
			return errors.New("missing profile details: pass --name, --git-name and --email")
		}
		fmt.Fprintln(ui.Output, "Adding new profile")
		fmt.Fprintln(ui.Output)

		var err error
		in, err = ui.PromptProfileInfo(in)
		if err != nil {
			return fmt.Errorf("failed to get profile info: %w", err)
		}
	}

	if !ui.LooksLikeEmail(in.GitEmail) {
		ui.Warning(fmt.Sprintf("'%s' does not look like an email address", in.GitEmail))
	}

	keyPath, err := chooseSSHKey(cmd, in.Name, in.GitEmail, prompting)
	if err != nil {
		return err
	}
	in.SSHKeyPath = keyPath

	return withApp(cmd.Context(), func(a *app) error {
		created, err := a.svc.CreateProfile(cmd.Context(), in)
		if err != nil {
			return fmt.Errorf("failed to add profile: %w", err)
		}

		if jsonOutput() && !addFlagUse {
			return ui.PrintJSON(created)
		}

		fmt.Fprintln(ui.Output)
		ui.Success(fmt.Sprintf("Profile '%s' added", created.Name))

		if !addFlagUse {
			fmt.Fprintln(ui.Output)
			fmt.Fprintf(ui.Output, "Next: gprofile use %s\n", created.Name)
			return nil
		}
		return activate(cmd, a, created)
	})
}

// chooseSSHKey works out the key path from flags, or by asking when the rest
// of the profile was also prompted for.
func chooseSSHKey(cmd *cobra.Command, name, email string, prompting bool) (string, error) {
	switch {
	case addFlagGenerateKey:
		return generateKey(cmd, name, email)
	case addFlagSSHKey == skipSSHKey:
		ui.Info("Skipping SSH key setup")
		return "", nil
	case addFlagSSHKey != "":
		if err := sshkey.ValidateKeyPath(addFlagSSHKey); err != nil {
			return "", err
		}
		warnKeyPermissions(addFlagSSHKey)
		return addFlagSSHKey, nil
	case !prompting:
		return "", nil
	}

	choice, err := ui.PromptSSHKeyOption()
	if err != nil {
		return "", fmt.Errorf("failed to get SSH key option: %w", err)
	}

	switch choice {
	case ui.SSHKeyGenerate:
		return generateKey(cmd, name, email)
	case ui.SSHKeyImport:
		keyPath, err := ui.PromptExistingKeyPath()
		if err != nil {
			return "", fmt.Errorf("failed to get key path: %w", err)
		}
		if err := sshkey.ValidateKeyPath(keyPath); err != nil {
			return "", err
		}
		warnKeyPermissions(keyPath)
		ui.Success(fmt.Sprintf("Using existing key: %s", keyPath))
		return keyPath, nil
	default:
		ui.Info("SSH key setup skipped")
		fmt.Fprintln(ui.Output, "\nTo add an SSH key later:")
		fmt.Fprintf(ui.Output, "  1. Generate a key: ssh-keygen -t ed25519 -f %s\n", platform.GetExampleSSHKeyPath(name))
		fmt.Fprintf(ui.Output, "  2. Attach it: gprofile edit %s --ssh-key %s\n", name, platform.GetExampleSSHKeyPath(name))
		return "", nil
	}
}

func generateKey(cmd *cobra.Command, name, email string) (string, error) {
	sshDir, err := platform.GetSSHDir()
	if err != nil {
		return "", err
	}

	privateKey, _, err := sshkey.GenerateSystem(cmd.Context(), sshDir, sshkey.KeyFileName(name), email)
	if err != nil {
		return "", fmt.Errorf("failed to generate SSH key: %w", err)
	}
	ui.Success(fmt.Sprintf("SSH key generated: %s", privateKey))

	if pub, err := sshkey.PublicKeyContent(privateKey); err == nil {
		fmt.Fprintln(ui.Output, "\n"+strings.Repeat("-", 70))
		fmt.Fprintln(ui.Output, "Add this public key to your Git hosting account:")
		fmt.Fprintln(ui.Output, strings.Repeat("-", 70))
		fmt.Fprintln(ui.Output, pub)
		fmt.Fprintln(ui.Output, strings.Repeat("-", 70))
	}
	return privateKey, nil
}

func warnKeyPermissions(path string) {
	expanded, err := platform.ExpandTilde(path)
	if err != nil {
		return
	}
	ok, err := platform.CheckFilePermissions(expanded)
	if err == nil && !ok {
		ui.Warning(fmt.Sprintf("Key file has insecure permissions: %s", expanded))
		fmt.Fprintf(ui.Output, "  Run: %s\n", platform.GetPermissionFixCommand(expanded))
	}
}
