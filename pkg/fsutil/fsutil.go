// Package fsutil reads source files together with a snapshot of their
// on-disk state and writes corrections back without clobbering edits made
// in the meantime.
package fsutil

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

var (
	// ErrNotFound is returned when the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied is returned when the file cannot be accessed.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory is returned when a directory is read as a file.
	ErrIsDirectory = errors.New("is a directory")

	// ErrStale is returned by Replace when the file no longer matches its
	// snapshot.
	ErrStale = errors.New("file changed since it was read")
)

// Snapshot records the state of a file at the time it was read.
type Snapshot struct {
	Path    string
	Mode    fs.FileMode
	ModTime time.Time
	Size    int64
	Sum     [sha256.Size]byte
}

// Read returns the content of path and a snapshot of its current state.
func Read(ctx context.Context, path string) ([]byte, *Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}

	return content, &Snapshot{
		Path:    path,
		Mode:    stat.Mode().Perm(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Sum:     sha256.Sum256(content),
	}, nil
}

// Changed reports whether the file differs from the snapshot. Metadata is
// compared first; with verify set, matching metadata is confirmed against
// the content hash, which catches writes within the mtime granularity.
// A file that has disappeared counts as changed.
func (s *Snapshot) Changed(ctx context.Context, verify bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("stat %s: %w", s.Path, err)
	}

	stat, err := os.Stat(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, classify(s.Path, err)
	}
	if stat.Size() != s.Size || !stat.ModTime().Equal(s.ModTime) {
		return true, nil
	}
	if !verify {
		return false, nil
	}

	content, err := os.ReadFile(s.Path)
	if err != nil {
		return false, classify(s.Path, err)
	}
	sum := sha256.Sum256(content)
	return !bytes.Equal(sum[:], s.Sum[:]), nil
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", ErrPermissionDenied, path)
	default:
		return fmt.Errorf("access %s: %w", path, err)
	}
}
