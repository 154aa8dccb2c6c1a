// Package sshkey creates and inspects the SSH keys referenced by profiles.
package sshkey

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/byterings/gprofile/internal/platform"
	"golang.org/x/crypto/ssh"
)

// KeyPrefix is prepended to generated key file names.
const KeyPrefix = "gprofile_"

// KeyInfo describes a private key file on disk.
type KeyInfo struct {
	Path          string
	Type          string
	Fingerprint   string
	Encrypted     bool
	InsecurePerms bool
	Mode          os.FileMode
}

// KeyFileName derives a file name like gprofile_work_laptop from a profile name.
func KeyFileName(profileName string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(profileName)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore && b.Len() > 0 {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	name := strings.TrimSuffix(b.String(), "_")
	if name == "" {
		name = "default"
	}
	return KeyPrefix + name
}

// IsGenerated reports whether path looks like a key created by Generate or
// GenerateSystem for a profile.
func IsGenerated(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, KeyPrefix) && !strings.HasSuffix(base, ".pub")
}

// Generate writes a new Ed25519 key pair named name into dir and returns the
// private and public key paths. Existing keys are never overwritten.
func Generate(dir, name, comment string) (privateKeyPath, publicKeyPath string, err error) {
	privateKeyPath, publicKeyPath, err = prepare(dir, name)
	if err != nil {
		return "", "", err
	}

	pubKey, privKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate key: %w", err)
	}

	sshPubKey, err := ssh.NewPublicKey(pubKey)
	if err != nil {
		return "", "", fmt.Errorf("failed to convert public key: %w", err)
	}

	pemBlock, err := ssh.MarshalPrivateKey(privKey, comment)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal private key: %w", err)
	}

	if err := platform.WriteFileAtomic(privateKeyPath, pem.EncodeToMemory(pemBlock)); err != nil {
		return "", "", fmt.Errorf("failed to write private key: %w", err)
	}

	authorized := ssh.MarshalAuthorizedKey(sshPubKey)
	if comment != "" {
		authorized = append(authorized[:len(authorized)-1], []byte(" "+comment+"\n")...)
	}
	if err := os.WriteFile(publicKeyPath, authorized, 0644); err != nil {
		return "", "", fmt.Errorf("failed to write public key: %w", err)
	}

	return privateKeyPath, publicKeyPath, nil
}

// GenerateSystem uses ssh-keygen when available and falls back to Generate.
func GenerateSystem(ctx context.Context, dir, name, comment string) (privateKeyPath, publicKeyPath string, err error) {
	if !platform.HasCommand("ssh-keygen") {
		return Generate(dir, name, comment)
	}

	privateKeyPath, publicKeyPath, err = prepare(dir, name)
	if err != nil {
		return "", "", err
	}

	cmd := exec.CommandContext(ctx, "ssh-keygen", "-q", "-t", "ed25519", "-f", privateKeyPath, "-N", "", "-C", comment)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", "", fmt.Errorf("failed to generate SSH key: %w: %s", err, strings.TrimSpace(string(out)))
	}

	return privateKeyPath, publicKeyPath, nil
}

func prepare(dir, name string) (string, string, error) {
	if err := platform.MkdirSecure(dir); err != nil {
		return "", "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	privateKeyPath := filepath.Join(dir, name)
	if _, err := os.Stat(privateKeyPath); err == nil {
		return "", "", fmt.Errorf("key already exists at %s", privateKeyPath)
	}
	return privateKeyPath, privateKeyPath + ".pub", nil
}

// ValidateKeyPath checks that path names a readable regular file.
func ValidateKeyPath(path string) error {
	expanded, err := platform.ExpandTilde(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("key file does not exist: %s", expanded)
		}
		return fmt.Errorf("failed to access key file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", expanded)
	}
	return nil
}

// Inspect parses the private key at path. Passphrase protected keys are
// reported as Encrypted rather than as an error.
func Inspect(path string) (*KeyInfo, error) {
	if err := ValidateKeyPath(path); err != nil {
		return nil, err
	}
	expanded, err := platform.ExpandTilde(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	info := &KeyInfo{Path: expanded}
	if st, err := os.Stat(expanded); err == nil {
		info.Mode = st.Mode().Perm()
	}
	ok, err := platform.CheckFilePermissions(expanded)
	if err != nil {
		return nil, err
	}
	info.InsecurePerms = !ok

	var pub ssh.PublicKey
	signer, err := ssh.ParsePrivateKey(data)
	var missing *ssh.PassphraseMissingError
	switch {
	case err == nil:
		pub = signer.PublicKey()
	case errors.As(err, &missing):
		info.Encrypted = true
		pub = missing.PublicKey
	default:
		return nil, fmt.Errorf("failed to parse private key %s: %w", expanded, err)
	}

	if pub != nil {
		info.Type = pub.Type()
		info.Fingerprint = ssh.FingerprintSHA256(pub)
	}
	return info, nil
}

// PublicKeyContent returns the contents of the .pub file next to the private key.
func PublicKeyContent(privateKeyPath string) (string, error) {
	expanded, err := platform.ExpandTilde(privateKeyPath)
	if err != nil {
		return "", err
	}
	content, err := os.ReadFile(expanded + ".pub")
	if err != nil {
		return "", fmt.Errorf("failed to read public key: %w", err)
	}
	return strings.TrimSpace(string(content)), nil
}
