// Package analysis turns a runner result into the report model shared by
// the JSON and summary output formats.
package analysis

import (
	"cmp"
	"maps"
	"path/filepath"
	"slices"

	"github.com/yaklabco/rbfix/pkg/config"
	"github.com/yaklabco/rbfix/pkg/lint"
	"github.com/yaklabco/rbfix/pkg/runner"
)

type fileAcc struct {
	FileAnalysis
	rules map[string]bool
}

type ruleAcc struct {
	RuleAnalysis
	files map[string]bool
}

type analyzer struct {
	opts  Options
	files map[string]*fileAcc
	rules map[string]*ruleAcc
}

// Analyze builds a Report from result in a single pass over its files.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{Version: ReportVersion, Files: []FileReport{}}
	if result == nil {
		return report
	}

	a := &analyzer{
		opts:  opts,
		files: make(map[string]*fileAcc),
		rules: make(map[string]*ruleAcc),
	}
	for _, outcome := range result.Files {
		report.Files = append(report.Files, a.file(outcome, &report.Totals))
	}

	report.ByFile = a.byFile()
	report.ByRule = a.byRule()
	return report
}

func (a *analyzer) file(outcome runner.FileOutcome, totals *Totals) FileReport {
	path := a.displayPath(outcome.Path)
	fr := FileReport{Path: path, Diagnostics: []Entry{}}
	totals.Files++

	if outcome.Error != nil {
		fr.Error = outcome.Error.Error()
		totals.FilesFailed++
		return fr
	}
	pr := outcome.Result
	if pr == nil {
		return fr
	}

	fr.Modified = pr.Written
	fr.FixPasses = pr.FixPasses
	fr.PassLimit = pr.PassLimitReached
	if pr.Skipped {
		fr.Skipped = pr.SkipReason
	}
	if pr.Written {
		totals.FilesModified++
	}

	acc := a.fileAcc(path)
	for i := range pr.Corrected {
		diag := &pr.Corrected[i]
		fr.Corrected = append(fr.Corrected, a.entry(diag))
		totals.Corrected++
		acc.Corrected++
		rule := a.ruleAcc(diag)
		rule.Corrected++
		rule.Fixable = true
	}

	if pr.FileResult == nil {
		return fr
	}
	if len(pr.Diagnostics) > 0 {
		totals.FilesWithIssues++
	}
	for i := range pr.Diagnostics {
		diag := &pr.Diagnostics[i]
		fr.Diagnostics = append(fr.Diagnostics, a.entry(diag))

		totals.addIssue(diag.Severity)
		acc.addIssue(diag.Severity)
		acc.rules[diag.RuleID] = true

		rule := a.ruleAcc(diag)
		rule.addIssue(diag.Severity)
		rule.files[path] = true
		if diag.HasFix() {
			totals.Fixable++
			rule.Fixable = true
		}
	}
	return fr
}

func (a *analyzer) displayPath(path string) string {
	if a.opts.WorkingDir == "" {
		return path
	}
	rel, err := filepath.Rel(a.opts.WorkingDir, path)
	if err != nil {
		return path
	}
	return rel
}

func (a *analyzer) fileAcc(path string) *fileAcc {
	acc, ok := a.files[path]
	if !ok {
		acc = &fileAcc{FileAnalysis: FileAnalysis{Path: path}, rules: make(map[string]bool)}
		a.files[path] = acc
	}
	return acc
}

func (a *analyzer) ruleAcc(diag *lint.Diagnostic) *ruleAcc {
	acc, ok := a.rules[diag.RuleID]
	if !ok {
		acc = &ruleAcc{
			RuleAnalysis: RuleAnalysis{RuleID: diag.RuleID, RuleName: diag.RuleName},
			files:        make(map[string]bool),
		}
		a.rules[diag.RuleID] = acc
	}
	return acc
}

func (a *analyzer) entry(diag *lint.Diagnostic) Entry {
	severity := diag.Severity
	if severity == "" {
		severity = config.SeverityWarning
	}
	e := Entry{
		RuleID:      diag.RuleID,
		RuleName:    diag.RuleName,
		Rule:        config.FormatRuleID(a.opts.RuleFormat, diag.RuleID, diag.RuleName),
		Severity:    string(severity),
		Message:     diag.Message,
		StartLine:   diag.StartLine,
		StartColumn: diag.StartColumn,
		EndLine:     diag.EndLine,
		EndColumn:   diag.EndColumn,
		Suggestion:  diag.Suggestion,
		Fixable:     diag.HasFix(),
		Corrected:   diag.Corrected,
	}
	if diag.FixError != nil {
		e.FixError = diag.FixError.Error()
	}
	if diag.Fix != nil {
		for _, edit := range diag.Fix.Edits() {
			e.Fixes = append(e.Fixes, Edit{
				Kind:        edit.Kind.String(),
				StartOffset: edit.Range.Begin(),
				EndOffset:   edit.Range.End(),
				NewText:     edit.Text,
			})
		}
	}
	return e
}

// byFile lists the files with remaining or corrected offenses.
func (a *analyzer) byFile() []FileAnalysis {
	var out []FileAnalysis
	for _, acc := range a.files {
		if acc.Issues == 0 && acc.Corrected == 0 {
			continue
		}
		acc.Rules = slices.Sorted(maps.Keys(acc.rules))
		out = append(out, acc.FileAnalysis)
	}
	slices.SortFunc(out, func(l, r FileAnalysis) int {
		return compareBy(a.opts.SortBy, l.Counts, r.Counts, l.Path, r.Path)
	})
	return out
}

func (a *analyzer) byRule() []RuleAnalysis {
	out := make([]RuleAnalysis, 0, len(a.rules))
	for _, acc := range a.rules {
		if len(acc.files) > 0 {
			acc.Files = slices.Sorted(maps.Keys(acc.files))
		}
		out = append(out, acc.RuleAnalysis)
	}
	slices.SortFunc(out, func(l, r RuleAnalysis) int {
		return compareBy(a.opts.SortBy, l.Counts, r.Counts, l.RuleID, r.RuleID)
	})
	return out
}

// compareBy orders two rows by field, breaking ties by key so the output
// does not depend on map iteration.
func compareBy(field SortField, l, r Counts, lkey, rkey string) int {
	var c int
	switch field {
	case SortByAlpha:
	case SortBySeverity:
		c = cmp.Or(
			cmp.Compare(r.Errors, l.Errors),
			cmp.Compare(r.Warnings, l.Warnings),
			cmp.Compare(r.Issues, l.Issues),
		)
	default:
		c = cmp.Compare(r.Issues, l.Issues)
	}
	return cmp.Or(c, cmp.Compare(lkey, rkey))
}
