package setup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorewood/pmc/internal/output"
)

// InstallerMarker tags the lines the installer appends to shell startup files.
const InstallerMarker = "# Added by PMC installer"

// Layout is where an installation keeps its files.
type Layout struct {
	Home         string
	InstallDir   string
	BinaryPath   string
	StorageDir   string
	ShellConfigs []string
}

// DefaultLayout returns the installer's layout under home.
func DefaultLayout(home, storageDir string) Layout {
	return Layout{
		Home:       home,
		InstallDir: filepath.Join(home, ".pmc-cli"),
		BinaryPath: filepath.Join(home, ".local", "bin", "pmc"),
		StorageDir: storageDir,
		ShellConfigs: []string{
			filepath.Join(home, ".bashrc"),
			filepath.Join(home, ".zshrc"),
			filepath.Join(home, ".profile"),
		},
	}
}

// BinDir is the directory the installer put on PATH.
func (l Layout) BinDir() string {
	return filepath.Dir(l.BinaryPath)
}

// UninstallInfo holds the state gathered before an uninstall operation.
type UninstallInfo struct {
	InstallDir       string   `json:"install_dir"`
	InstallDirExists bool     `json:"install_dir_exists"`
	BinaryPath       string   `json:"binary_path"`
	BinaryExists     bool     `json:"binary_exists"`
	StorageDir       string   `json:"storage_dir"`
	StorageDirExists bool     `json:"storage_dir_exists"`
	PromptCount      int      `json:"prompt_count"`
	ShellConfigs     []string `json:"shell_configs,omitempty"`
}

// GatherUninstallInfo inspects the layout without changing anything.
// ShellConfigs lists only the files that hold installer lines.
func GatherUninstallInfo(l Layout, countPrompts func() int) UninstallInfo {
	info := UninstallInfo{
		InstallDir: l.InstallDir,
		BinaryPath: l.BinaryPath,
		StorageDir: l.StorageDir,
	}
	info.InstallDirExists = exists(l.InstallDir)
	info.BinaryExists = exists(l.BinaryPath)
	info.StorageDirExists = exists(l.StorageDir)
	if info.StorageDirExists && countPrompts != nil {
		info.PromptCount = countPrompts()
	}
	for _, path := range l.ShellConfigs {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if _, changed := stripInstallerLines(string(data), l.BinDir()); changed {
			info.ShellConfigs = append(info.ShellConfigs, path)
		}
	}
	return info
}

// UninstallResult reports what an uninstall removed or would remove.
type UninstallResult struct {
	Removed      []string `json:"removed"`
	CleanedFiles []string `json:"cleaned_files"`
	Warnings     []string `json:"warnings,omitempty"`
	DryRun       bool     `json:"dry_run"`
}

// Uninstall removes every present component of l. With dryRun it only
// reports. Shell file failures become warnings; failing to remove a
// directory or the binary is a system error, returned with the partial result.
func Uninstall(l Layout, dryRun bool) (UninstallResult, error) {
	result := UninstallResult{DryRun: dryRun}

	for _, dir := range []string{l.InstallDir, l.StorageDir} {
		if dir == "" || !exists(dir) {
			continue
		}
		if !dryRun {
			if err := RemoveDir(dir); err != nil {
				return result, err
			}
		}
		result.Removed = append(result.Removed, dir)
	}

	if exists(l.BinaryPath) {
		if !dryRun {
			if err := RemoveBinary(l.BinaryPath); err != nil {
				return result, err
			}
		}
		result.Removed = append(result.Removed, l.BinaryPath)
	}

	for _, path := range l.ShellConfigs {
		changed, err := CleanShellConfig(path, l.BinDir(), dryRun)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("could not clean up %s: %v", path, err))
			continue
		}
		if changed {
			result.CleanedFiles = append(result.CleanedFiles, path)
		}
	}

	return result, nil
}

// CleanShellConfig drops installer lines from the shell file at path.
// A missing file is not an error. Reports whether the file had such lines.
func CleanShellConfig(path, binDir string, dryRun bool) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	cleaned, changed := stripInstallerLines(string(data), binDir)
	if !changed || dryRun {
		return changed, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(cleaned), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

// stripInstallerLines removes the marker comment and the PATH export for
// binDir, in either quoting the installer used.
func stripInstallerLines(content, binDir string) (string, bool) {
	exports := []string{
		`export PATH="$PATH:` + binDir + `"`,
		`export PATH="\$PATH:` + binDir + `"`,
	}

	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.Contains(line, InstallerMarker) || containsAny(line, exports) {
			continue
		}
		kept = append(kept, line)
	}
	if len(kept) == len(lines) {
		return content, false
	}
	return strings.Join(kept, "\n"), true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// RemoveDir removes a directory tree.
func RemoveDir(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return output.NewSystemErrorWithCause("failed to remove "+path, err)
	}
	return nil
}

// RemoveBinary removes the pmc binary or symlink at path.
func RemoveBinary(path string) error {
	if err := os.Remove(path); err != nil {
		return output.NewSystemErrorWithCause("failed to remove binary", err)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
