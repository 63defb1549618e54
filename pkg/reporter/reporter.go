// Package reporter writes run results in the supported output formats.
package reporter

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/yaklabco/rbfix/pkg/analysis"
	"github.com/yaklabco/rbfix/pkg/config"
	"github.com/yaklabco/rbfix/pkg/runner"
)

// Reporter writes the result of a run.
type Reporter interface {
	// Report writes result and returns the number of offenses it reported:
	// remaining offenses, or changed files for diffs.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// Renderer writes an analysed report. Formats that only need aggregated
// data implement Renderer and are wrapped by New.
type Renderer interface {
	Render(ctx context.Context, report *analysis.Report) error
}

type analysed struct {
	renderer Renderer
	opts     analysis.Options
}

func (a *analysed) Report(ctx context.Context, result *runner.Result) (int, error) {
	report := analysis.Analyze(result, a.opts)
	if err := a.renderer.Render(ctx, report); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	return report.Totals.Issues, nil
}

// Analysed wraps renderer into a Reporter that analyses results first.
func Analysed(renderer Renderer, opts Options) Reporter {
	return &analysed{
		renderer: renderer,
		opts: analysis.Options{
			SortBy:     analysis.SortByCount,
			RuleFormat: opts.RuleFormat,
			WorkingDir: opts.WorkingDir,
		},
	}
}

// ParseFormat parses an output format name. The empty string is text.
func ParseFormat(name string) (config.OutputFormat, error) {
	if name == "" {
		return config.FormatText, nil
	}
	format := config.OutputFormat(name)
	if !format.IsValid() {
		names := lo.Map(config.OutputFormats(), func(f config.OutputFormat, _ int) string { return string(f) })
		return "", fmt.Errorf("unknown format %q; valid formats: %s", name, strings.Join(names, ", "))
	}
	return format, nil
}

// New creates the Reporter for opts.Format.
func New(opts Options) (Reporter, error) {
	opts = opts.withDefaults()
	format, err := ParseFormat(string(opts.Format))
	if err != nil {
		return nil, err
	}

	switch format {
	case config.FormatJSON:
		return NewJSONReporter(opts), nil
	case config.FormatDiff:
		return NewDiffReporter(opts), nil
	case config.FormatSummary:
		return Analysed(NewSummaryRenderer(opts), opts), nil
	default:
		return NewTextReporter(opts), nil
	}
}
