// internal/config/discover.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfig names the environment variable that overrides discovery.
const EnvConfig = "VAULTIMG_CONFIG"

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./vaultimg.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "vaultimg", "config.toml")
}

// Discover finds the config file using the standard search order.
// Search order:
//  1. VAULTIMG_CONFIG environment variable
//  2. ./vaultimg.toml (current directory)
//  3. $XDG_CONFIG_HOME/vaultimg/config.toml
//  4. /etc/vaultimg/config.toml
func Discover() (string, error) {
	if envPath := os.Getenv(EnvConfig); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, envPath, err)
		}
		return envPath, nil
	}

	paths := []string{
		"./vaultimg.toml",
		DefaultPath(),
		"/etc/vaultimg/config.toml",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("config not found, checked: %s", strings.Join(paths, ", "))
}
