package ui

import (
	"os"
	"regexp"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"

	"github.com/byterings/gprofile/internal/profile"
)

// SSHKeyOption is the user's choice of SSH key setup.
type SSHKeyOption int

const (
	SSHKeyGenerate SSHKeyOption = iota
	SSHKeyImport
	SSHKeySkip
)

var sshKeyOptions = []string{
	"Generate new key pair (Recommended)",
	"Use existing key",
	"No SSH key (use the default SSH configuration)",
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsInteractive reports whether stdin and stdout are both terminals
func IsInteractive() bool {
	return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd())
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// LooksLikeEmail does a loose format check. Callers only warn on mismatch.
func LooksLikeEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// PromptProfileInfo asks for any field left empty in in
func PromptProfileInfo(in profile.ProfileCreate) (profile.ProfileCreate, error) {
	if in.Name == "" {
		prompt := &survey.Input{
			Message: "Profile name (e.g., Work, Personal):",
			Help:    "Label used to pick this profile when switching",
		}
		if err := survey.AskOne(prompt, &in.Name, survey.WithValidator(survey.Required)); err != nil {
			return in, err
		}
	}

	if in.GitName == "" {
		prompt := &survey.Input{
			Message: "Git user.name:",
			Help:    "Author name for commits (e.g., John Doe)",
		}
		if err := survey.AskOne(prompt, &in.GitName, survey.WithValidator(survey.Required)); err != nil {
			return in, err
		}
	}

	if in.GitEmail == "" {
		prompt := &survey.Input{
			Message: "Git user.email:",
			Help:    "Author email for commits (e.g., john@example.com)",
		}
		if err := survey.AskOne(prompt, &in.GitEmail, survey.WithValidator(survey.Required)); err != nil {
			return in, err
		}
	}

	return in, nil
}

// PromptSSHKeyOption prompts for SSH key setup option
func PromptSSHKeyOption() (SSHKeyOption, error) {
	var choice int
	prompt := &survey.Select{
		Message: "How do you want to set up the SSH key?",
		Options: sshKeyOptions,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return SSHKeySkip, err
	}
	return SSHKeyOption(choice), nil
}

// PromptExistingKeyPath prompts for existing SSH key path
func PromptExistingKeyPath() (string, error) {
	var path string
	prompt := &survey.Input{
		Message: "Path to existing SSH private key:",
		Help:    "Full path to your private key file (e.g., ~/.ssh/id_ed25519)",
	}
	if err := survey.AskOne(prompt, &path, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return path, nil
}

// PromptSelectProfile lets the user pick a profile and returns its id
func PromptSelectProfile(message string, profiles []profile.Profile) (string, error) {
	options := make([]string, len(profiles))
	for i, p := range profiles {
		options[i] = p.Name + " <" + p.GitEmail + ">"
	}

	var choice int
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", err
	}
	return profiles[choice].ID, nil
}

// PromptConfirmation prompts for yes/no confirmation
func PromptConfirmation(message string) (bool, error) {
	var confirmed bool
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false, err
	}
	return confirmed, nil
}
