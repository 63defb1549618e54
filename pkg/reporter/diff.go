package reporter

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/rbfix/internal/ui/pretty"
	"github.com/yaklabco/rbfix/pkg/fix"
	"github.com/yaklabco/rbfix/pkg/runner"
)

// DiffReporter writes the corrections of a run as a git-style patch that
// `git apply` accepts. File errors go to ErrorWriter so the patch on
// Writer stays clean.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
}

// NewDiffReporter creates a diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	opts = opts.withDefaults()
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
	}
}

type diffStat struct {
	files, additions, deletions int
}

// Report implements Reporter. It returns the number of changed files.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	if result == nil {
		return 0, nil
	}

	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	var stat diffStat
	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(r.opts.ErrorWriter, "%s: %s\n",
				r.styles.FilePath.Render(file.Path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)))
			continue
		}
		if file.Result == nil || !file.Result.Diff.HasChanges() {
			continue
		}

		diff := file.Result.Diff
		stat.files++
		stat.additions += diff.Additions
		stat.deletions += diff.Deletions
		r.writePatch(bw, diff)
	}

	if stat.files > 0 && r.opts.ShowSummary {
		fmt.Fprintln(bw, r.formatStat(stat))
	}
	return stat.files, nil
}

func (r *DiffReporter) writePatch(bw *bufio.Writer, diff *fix.Diff) {
	path := r.displayPath(diff.Path)
	line := func(style lipgloss.Style, text string) {
		fmt.Fprintln(bw, style.Render(text))
	}

	line(r.styles.DiffHeader, "diff --git a/"+path+" b/"+path)
	line(r.styles.DiffRemove, "--- a/"+path)
	line(r.styles.DiffAdd, "+++ b/"+path)
	for _, hunk := range diff.Hunks {
		line(r.styles.DiffHunk, fmt.Sprintf("@@ -%d,%d +%d,%d @@",
			hunk.OriginalStart, hunk.OriginalCount, hunk.ModifiedStart, hunk.ModifiedCount))
		for _, l := range hunk.Lines {
			style := r.styles.DiffContext
			switch l.Kind {
			case fix.DiffLineAdd:
				style = r.styles.DiffAdd
			case fix.DiffLineRemove:
				style = r.styles.DiffRemove
			case fix.DiffLineContext:
			}
			line(style, l.Kind.Marker()+l.Content)
		}
	}
	fmt.Fprintln(bw)
}

// displayPath makes path relative to the working directory, or the process
// directory when none is set. Paths more than two levels up are shown by
// base name.
func (r *DiffReporter) displayPath(path string) string {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	base := r.opts.WorkingDir
	if base == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return filepath.Base(path)
		}
		base = cwd
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.Count(rel, "..") > 2 {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

func (r *DiffReporter) formatStat(stat diffStat) string {
	parts := []string{fmt.Sprintf("%d %s changed", stat.files, plural(stat.files, "file", "files"))}
	if stat.additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(fmt.Sprintf("%d %s(+)",
			stat.additions, plural(stat.additions, "insertion", "insertions"))))
	}
	if stat.deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(fmt.Sprintf("%d %s(-)",
			stat.deletions, plural(stat.deletions, "deletion", "deletions"))))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
