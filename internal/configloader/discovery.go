package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

// ConfigPaths holds the configuration files found for a run. Missing files
// are empty strings.
type ConfigPaths struct {
	System   string // /etc/rbfix/config.yaml
	User     string // $XDG_CONFIG_HOME/rbfix/config.yaml
	Project  string // nearest .rbfix.yml upward from the working directory
	Explicit string // --config
	Rubocop  string // .rubocop.yml in the working directory, offered for import
}

// RubocopConfigFile is the RuboCop config file name offered for import.
const RubocopConfigFile = ".rubocop.yml"

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	projectConfigFiles = []string{".rbfix.yml", ".rbfix.yaml", ".rbfix.toml", "rbfix.yml", "rbfix.yaml", "rbfix.toml"}
	globalConfigFiles  = []string{"config.yaml", "config.yml", "config.toml"}
	vcsRootMarkers     = []string{".git", ".hg", ".svn"}
)

// DiscoverPaths finds the system, user and project configuration files and
// a .rubocop.yml in workDir.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	paths := &ConfigPaths{
		System:  firstFile(systemConfigDir(), globalConfigFiles),
		User:    firstFile(userConfigDir(), globalConfigFiles),
		Project: project,
	}
	if rubocop := filepath.Join(workDir, RubocopConfigFile); isFile(rubocop) {
		paths.Rubocop = rubocop
	}
	return paths, nil
}

func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return "/etc/rbfix"
	}
	programData := os.Getenv("ProgramData")
	if programData == "" {
		programData = `C:\ProgramData`
	}
	return filepath.Join(programData, "rbfix")
}

func userConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "rbfix")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rbfix")
}

// firstFile returns the first of names that exists in dir.
func firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		if path := filepath.Join(dir, name); isFile(path) {
			return path
		}
	}
	return ""
}

// FindProjectConfig walks up from startDir looking for a project config.
// The walk stops at a VCS root, the home directory or the filesystem root.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("discover config: %w", err)
		}
		if path := firstFile(dir, projectConfigFiles); path != "" {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if isVCSRoot(dir) || dir == home || parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func isVCSRoot(dir string) bool {
	return slices.ContainsFunc(vcsRootMarkers, func(marker string) bool {
		info, err := os.Stat(filepath.Join(dir, marker))
		return err == nil && info.IsDir()
	})
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsTOMLConfig reports whether path has a .toml extension.
func IsTOMLConfig(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// IsYAMLConfig reports whether path has a .yml or .yaml extension.
func IsYAMLConfig(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
