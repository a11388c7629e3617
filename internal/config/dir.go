// Package config resolves the pmc storage directory and loads pmc-config.yml.
package config

import (
	"os"
	"path/filepath"
)

// DirName is the storage directory name under the user's home.
const DirName = ".pmc"

// Dir returns the pmc storage directory.
//
// Resolution:
//   - $PMC_HOME if set (explicit override)
//   - ~/.pmc otherwise
//
// Returns "" when the home directory cannot be determined.
func Dir() string {
	if dir := os.Getenv("PMC_HOME"); dir != "" {
		return dir
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DirName)
}
