package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/yaklabco/rbfix/pkg/fsutil"
	"github.com/yaklabco/rbfix/pkg/langdetect"
)

// shebangProbeSize is how much of an extensionless file is read to look
// for a Ruby shebang line.
const shebangProbeSize = 256

// walker holds the compiled selection state for one discovery run.
type walker struct {
	workDir string
	opts    Options
	exclude fsutil.GlobSet
	include fsutil.GlobSet
	files   []string
	walked  map[string]bool // resolved directories already walked
}

// Discover finds Ruby files matching opts and returns their absolute paths,
// sorted and without duplicates.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	w, err := newWalker(opts)
	if err != nil {
		return nil, err
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := filepath.Clean(input)
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(w.workDir, abs)
		}

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if info.IsDir() {
			if err := w.walk(ctx, abs); err != nil {
				return nil, err
			}
			continue
		}
		if w.explicit(abs) {
			w.files = append(w.files, abs)
		}
	}

	files := lo.Uniq(w.files)
	slices.Sort(files)
	return files, nil
}

func newWalker(opts Options) (*walker, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	exclude, err := fsutil.CompileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	include, err := fsutil.CompileGlobs(opts.IncludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}
	return &walker{
		workDir: workDir,
		opts:    opts,
		exclude: exclude,
		include: include,
		walked:  make(map[string]bool),
	}, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

// rel returns path relative to the working directory for glob matching.
func (w *walker) rel(path string) string {
	rel, err := filepath.Rel(w.workDir, path)
	if err != nil {
		return path
	}
	return rel
}

// walk collects files under root. Directory symlinks are entered only when
// FollowSymlinks is set, and then by walking their target so that WalkDir,
// which never follows a symlinked root, cannot loop. A directory reached
// twice through links is walked once.
func (w *walker) walk(ctx context.Context, root string) error {
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		if w.walked[resolved] {
			return nil
		}
		w.walked[resolved] = true
	}

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || w.skipDir(path, path == root) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, ok := resolveLink(path)
			if !ok {
				return nil
			}
			if target.dir {
				if !w.opts.FollowSymlinks {
					return nil
				}
				return w.walk(ctx, target.path)
			}
		}

		if !hidden && w.selected(path) {
			w.files = append(w.files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

func (w *walker) skipDir(path string, isRoot bool) bool {
	rel := w.rel(path)
	if w.exclude.Match(rel) {
		return true
	}
	return !isRoot && !w.opts.IncludeVendored && langdetect.IsVendored(rel+"/")
}

type linkTarget struct {
	path string
	dir  bool
}

// resolveLink follows a symlink. Broken or unreadable links report false.
func resolveLink(path string) (linkTarget, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return linkTarget{}, false
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return linkTarget{}, false
	}
	return linkTarget{path: resolved, dir: info.IsDir()}, true
}

// selected applies the extension filter and both glob sets to a file.
func (w *walker) selected(path string) bool {
	if !w.hasRubyName(path) {
		return false
	}
	rel := w.rel(path)
	if w.exclude.Match(rel) {
		return false
	}
	return w.include.Empty() || w.include.Match(rel)
}

// hasRubyName checks the configured extensions, or with none configured,
// whether linguist names the file as Ruby.
func (w *walker) hasRubyName(path string) bool {
	if len(w.opts.Extensions) == 0 {
		return langdetect.IsRubyPath(path)
	}
	ext := filepath.Ext(path)
	return lo.ContainsBy(w.opts.Extensions, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

// explicit decides whether a file named on the command line is processed.
// Without an extension filter an extensionless file is also accepted when
// it starts with a Ruby shebang.
func (w *walker) explicit(path string) bool {
	if w.selected(path) {
		return true
	}
	if len(w.opts.Extensions) > 0 || filepath.Ext(path) != "" || langdetect.ByPath(path) != "" {
		return false
	}
	if w.exclude.Match(w.rel(path)) {
		return false
	}

	head, err := readHead(path, shebangProbeSize)
	if err != nil {
		return false
	}
	return langdetect.IsRuby(path, head)
}

func readHead(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:read], nil
}
