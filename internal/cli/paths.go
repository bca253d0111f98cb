package cli

import (
	"os"
	"path/filepath"
)

// cacheDir returns the cache directory for stratum, honoring
// XDG_CACHE_HOME and falling back to ~/.cache/stratum.
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
