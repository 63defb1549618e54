package analysis

import "github.com/yaklabco/rbfix/pkg/config"

// ReportVersion is the version of the report layout.
const ReportVersion = "1.0.0"

// Report is the outcome of a run prepared for rendering. Files follows the
// run order; ByFile and ByRule are aggregated views.
type Report struct {
	Version string         `json:"version"`
	Files   []FileReport   `json:"files"`
	ByFile  []FileAnalysis `json:"byFile,omitempty"`
	ByRule  []RuleAnalysis `json:"byRule,omitempty"`
	Totals  Totals         `json:"summary"`
}

// FileReport is one file of the run. Diagnostics are the offenses that
// remain; Corrected are those fixed by the correction passes.
type FileReport struct {
	Path        string  `json:"path"`
	Diagnostics []Entry `json:"diagnostics"`
	Corrected   []Entry `json:"corrected,omitempty"`
	Modified    bool    `json:"modified,omitempty"`
	FixPasses   int     `json:"fixPasses,omitempty"`
	PassLimit   bool    `json:"passLimitReached,omitempty"`
	Skipped     string  `json:"skipped,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// Entry is a single offense.
type Entry struct {
	RuleID      string `json:"ruleId"`
	RuleName    string `json:"ruleName"`
	Rule        string `json:"rule"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
	Suggestion  string `json:"suggestion,omitempty"`
	Fixable     bool   `json:"fixable"`
	Corrected   bool   `json:"corrected"`
	FixError    string `json:"fixError,omitempty"`
	Fixes       []Edit `json:"fixes,omitempty"`
}

// Edit is one edit of a proposed correction. Offsets are byte offsets into
// the source the offense was found in.
type Edit struct {
	Kind        string `json:"kind"`
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	NewText     string `json:"newText"`
}

// Counts tallies offenses by severity.
type Counts struct {
	Issues    int `json:"issues"`
	Errors    int `json:"errors"`
	Warnings  int `json:"warnings"`
	Infos     int `json:"infos"`
	Corrected int `json:"corrected"`
}

func (c *Counts) addIssue(severity config.Severity) {
	c.Issues++
	switch severity {
	case config.SeverityError:
		c.Errors++
	case config.SeverityInfo:
		c.Infos++
	default:
		c.Warnings++
	}
}

// Totals are the counts of the whole run.
type Totals struct {
	Counts

	Files           int `json:"filesChecked"`
	FilesWithIssues int `json:"filesWithIssues"`
	FilesModified   int `json:"filesModified"`
	FilesFailed     int `json:"filesErrored"`
	Fixable         int `json:"fixable"`
}

// HasIssues reports whether any offense remains.
func (t Totals) HasIssues() bool { return t.Issues > 0 }

// HasErrors reports whether any error-severity offense remains.
func (t Totals) HasErrors() bool { return t.Errors > 0 }

// FileAnalysis aggregates the offenses of one file.
type FileAnalysis struct {
	Counts

	Path  string   `json:"path"`
	Rules []string `json:"rules,omitempty"`
}

// RuleAnalysis aggregates the offenses of one rule.
type RuleAnalysis struct {
	Counts

	RuleID   string   `json:"ruleId"`
	RuleName string   `json:"ruleName"`
	Fixable  bool     `json:"fixable"`
	Files    []string `json:"files,omitempty"`
}
