package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// BackupMode selects where backups go.
type BackupMode string

const (
	BackupModeSidecar BackupMode = "sidecar" // next to the file, with BackupSuffix
	BackupModeNone    BackupMode = "none"
)

// BackupSuffix names sidecar backups.
const BackupSuffix = ".rbfix.bak"

// BackupConfig controls backups. The zero value takes none.
type BackupConfig struct {
	Enabled bool
	Mode    BackupMode
}

// DefaultBackupConfig is sidecar mode, disabled until Enabled is set.
func DefaultBackupConfig() BackupConfig {
	return BackupConfig{Mode: BackupModeSidecar}
}

// BackupPath returns the backup location for path, or "" in BackupModeNone.
// Unknown modes are treated as sidecar.
func BackupPath(path string, mode BackupMode) string {
	if mode == BackupModeNone {
		return ""
	}
	return path + BackupSuffix
}

// Backup copies path to its backup location and reports whether it wrote
// one. An existing backup wins, so it holds the content from before the
// first correction.
func Backup(ctx context.Context, path string, cfg BackupConfig) (bool, error) {
	target := ""
	if cfg.Enabled {
		target = BackupPath(path, cfg.Mode)
	}
	if target == "" {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("backup %s: %w", path, err)
	}

	switch _, err := os.Lstat(target); {
	case err == nil:
		return false, nil
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("stat backup: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, classify(path, err)
	}
	original, err := os.ReadFile(path)
	if err != nil {
		return false, classify(path, err)
	}
	if err := WriteAtomic(ctx, target, original, info.Mode()); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}
	return true, nil
}
