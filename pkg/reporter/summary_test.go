package reporter

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rbfix/pkg/analysis"
	"github.com/yaklabco/rbfix/pkg/config"
)

func renderSummary(t *testing.T, opts Options, report *analysis.Report) string {
	t.Helper()

	var buf bytes.Buffer
	opts.Writer = &buf
	opts.Color = "never"
	require.NoError(t, NewSummaryRenderer(opts).Render(context.Background(), report))
	return buf.String()
}

func TestSummaryRenderer(t *testing.T) {
	t.Parallel()

	twoRules := &analysis.Report{
		ByRule: []analysis.RuleAnalysis{
			{RuleID: "Layout/TrailingWhitespace", RuleName: "trailing-whitespace", Counts: analysis.Counts{Issues: 5, Errors: 3, Warnings: 2}, Fixable: true},
			{RuleID: "Lint/UselessAssignment", RuleName: "useless-assignment", Counts: analysis.Counts{Issues: 2, Errors: 2}},
		},
		ByFile: []analysis.FileAnalysis{
			{Path: "lib/app.rb", Counts: analysis.Counts{Issues: 4, Errors: 3, Warnings: 1}},
		},
		Totals: analysis.Totals{Counts: analysis.Counts{Issues: 7, Errors: 5, Warnings: 2}, Files: 1, FilesWithIssues: 1},
	}

	tests := []struct {
		name    string
		opts    Options
		report  *analysis.Report
		want    []string
		notWant []string
	}{
		{
			name:   "empty report",
			report: &analysis.Report{},
			want:   []string{"No issues found"},
		},
		{
			name:   "rule and file tables",
			opts:   Options{SummaryOrder: config.SummaryOrderRules},
			report: twoRules,
			want: []string{
				"Rules Summary", "Files Summary",
				"Layout/TrailingWhitespace", "Lint/UselessAssignment", "lib/app.rb",
				"✓",
			},
		},
		{
			name: "totals line",
			report: &analysis.Report{
				Totals: analysis.Totals{Counts: analysis.Counts{Issues: 10, Errors: 6, Warnings: 4}, Files: 5, FilesWithIssues: 3},
			},
			want: []string{"Total: 10 issues (6 errors, 4 warnings) in 3 files"},
		},
		{
			name: "combined rule format",
			opts: Options{RuleFormat: config.RuleFormatCombined},
			report: &analysis.Report{
				ByRule: []analysis.RuleAnalysis{
					{RuleID: "Style/StringLiterals", RuleName: "string-literals", Counts: analysis.Counts{Issues: 1}},
				},
				Totals: analysis.Totals{Counts: analysis.Counts{Issues: 1}, FilesWithIssues: 1},
			},
			want: []string{"Style/StringLiterals (string-literals)", "1 issue in 1 file"},
		},
		{
			name: "corrected and failed",
			report: &analysis.Report{
				ByRule: []analysis.RuleAnalysis{
					{RuleID: "Layout/TrailingWhitespace", Counts: analysis.Counts{Corrected: 3}, Fixable: true},
				},
				ByFile: []analysis.FileAnalysis{
					{Path: "lib/app.rb", Counts: analysis.Counts{Corrected: 3}},
				},
				Totals: analysis.Totals{Counts: analysis.Counts{Corrected: 3}, FilesFailed: 1},
			},
			want:    []string{"Corrected", "0 issues in 0 files, 3 corrected, 1 failed"},
			notWant: []string{"No issues found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			output := renderSummary(t, tt.opts, tt.report)
			for _, s := range tt.want {
				assert.Contains(t, output, s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, output, s)
			}
		})
	}
}

func TestSummaryRenderer_FilesFirstOrder(t *testing.T) {
	t.Parallel()

	output := renderSummary(t, Options{SummaryOrder: config.SummaryOrderFiles}, &analysis.Report{
		ByRule: []analysis.RuleAnalysis{
			{RuleID: "Layout/TrailingWhitespace", Counts: analysis.Counts{Issues: 1}},
		},
		ByFile: []analysis.FileAnalysis{
			{Path: "lib/app.rb", Counts: analysis.Counts{Issues: 1}},
		},
		Totals: analysis.Totals{Counts: analysis.Counts{Issues: 1}, Files: 1, FilesWithIssues: 1},
	})

	assert.Less(t, strings.Index(output, "Files Summary"), strings.Index(output, "Rules Summary"))
}

func TestSummaryPadding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "pad right ascii", got: padRight("ab", 4), want: "ab  "},
		{name: "pad left ascii", got: padLeft("7", 3), want: "  7"},
		{name: "pad right wide", got: padRight("日本", 6), want: "日本  "},
		{name: "no pad when full", got: padRight("abcdef", 3), want: "abcdef"},
		{name: "truncate right", got: truncateRight("Layout/TrailingWhitespace", 10), want: "Layout/Tr…"},
		{name: "truncate left", got: truncateLeft("app/models/user.rb", 9), want: "…/user.rb"},
		{name: "truncate left wide", got: truncateLeft("lib/日本.rb", 8), want: "…日本.rb"},
		{name: "truncate left short", got: truncateLeft("a.rb", 9), want: "a.rb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.got)
		})
	}
}
