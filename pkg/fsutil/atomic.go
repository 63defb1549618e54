package fsutil

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// WriteAtomic replaces path with content through a temporary file in the
// same directory, so readers observe either the old or the new file.
func WriteAtomic(ctx context.Context, path string, content []byte, mode fs.FileMode) (err error) {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return classify(path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpName, mode.Perm()); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// ReplaceOptions controls Replace.
type ReplaceOptions struct {
	// Verify compares content hashes when checking the snapshot.
	Verify bool

	// Backup configures the copy of the original kept next to the file.
	Backup BackupConfig
}

// Replace writes content over the file described by snap, keeping its
// permissions. It fails with ErrStale when the file changed after snap was
// taken. The returned flag reports whether a backup was created.
func Replace(ctx context.Context, snap *Snapshot, content []byte, opts ReplaceOptions) (bool, error) {
	changed, err := snap.Changed(ctx, opts.Verify)
	if err != nil {
		return false, err
	}
	if changed {
		return false, fmt.Errorf("%w: %s", ErrStale, snap.Path)
	}

	backedUp, err := Backup(ctx, snap.Path, opts.Backup)
	if err != nil {
		return false, err
	}

	if err := WriteAtomic(ctx, snap.Path, content, snap.Mode); err != nil {
		return backedUp, fmt.Errorf("replace %s: %w", snap.Path, err)
	}
	return backedUp, nil
}
