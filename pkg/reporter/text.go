package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/rbfix/internal/ui/pretty"
	"github.com/yaklabco/rbfix/pkg/lint"
	"github.com/yaklabco/rbfix/pkg/runner"
)

// TextReporter writes offenses for a terminal, one block per offense.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a text reporter.
func NewTextReporter(opts Options) *TextReporter {
	opts = opts.withDefaults()
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter. A file's corrected offenses come before the
// ones that remain, and only remaining offenses are counted.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	var remaining int
	for _, file := range result.Files {
		remaining += r.writeFile(file)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.SummaryLine(result.Stats))
	}
	return remaining, nil
}

// writeFile reports one outcome and returns its remaining offense count.
func (r *TextReporter) writeFile(file runner.FileOutcome) int {
	switch {
	case file.Error != nil:
		r.writeStatus(file.Path, r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)))
		return 0
	case file.Result == nil:
		return 0
	case file.Result.Skipped:
		r.writeStatus(file.Path, r.styles.Warning.Render("skipped: "+file.Result.SkipReason))
	}

	corrected, remaining := file.Result.Corrected, remainingOffenses(file.Result)
	if len(corrected)+len(remaining) == 0 {
		return 0
	}

	if r.opts.GroupByFile {
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(file.Path, len(corrected)+len(remaining)))
	}
	for _, group := range [][]lint.Diagnostic{corrected, remaining} {
		for i := range group {
			r.writeDiagnostic(&group[i])
		}
	}
	if r.opts.GroupByFile {
		fmt.Fprintln(r.bw)
	}
	return len(remaining)
}

func remainingOffenses(res *lint.PipelineResult) []lint.Diagnostic {
	if res.FileResult == nil {
		return nil
	}
	return res.Diagnostics
}

func (r *TextReporter) writeDiagnostic(diag *lint.Diagnostic) {
	view := pretty.DiagnosticView{RuleFormat: r.opts.RuleFormat}
	if r.opts.ShowContext && diag.Range.Valid() {
		// Corrected offenses keep the buffer of the pass that found them.
		view.Source = diag.Range.Buffer().LineContent(diag.StartLine)
	}
	fmt.Fprint(r.bw, r.styles.FormatDiagnostic(diag, view))
}

func (r *TextReporter) writeStatus(path, status string) {
	fmt.Fprintf(r.bw, "%s: %s\n", r.styles.FilePath.Render(path), status)
}
