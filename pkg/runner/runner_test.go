package runner_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/yaklabco/rbfix/internal/testkit"
	"github.com/yaklabco/rbfix/pkg/ast"
	"github.com/yaklabco/rbfix/pkg/config"
	"github.com/yaklabco/rbfix/pkg/fix"
	"github.com/yaklabco/rbfix/pkg/lint"
	"github.com/yaklabco/rbfix/pkg/runner"
)

// fixedRule reports the same offenses for every file.
type fixedRule struct {
	lint.BaseRule
	diags []lint.Diagnostic
}

func newFixedRule(id string, severity config.Severity) *fixedRule {
	return &fixedRule{
		BaseRule: lint.NewBaseRule(id, strings.ToLower(strings.ReplaceAll(id, "/", "-")), "", nil, false),
		diags:    []lint.Diagnostic{{RuleID: id, Message: "offense", Severity: severity}},
	}
}

func (r *fixedRule) Apply(_ *lint.RuleContext) ([]lint.Diagnostic, error) {
	return slices.Clone(r.diags), nil
}

// replaceRule corrects every occurrence of target to text.
type replaceRule struct {
	lint.BaseRule
	target string
	text   string
}

func newReplaceRule(target, text string) *replaceRule {
	return &replaceRule{
		BaseRule: lint.NewBaseRule("Style/Replace", "replace", "", nil, true),
		target:   target,
		text:     text,
	}
}

func (r *replaceRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	buf := ctx.Buffer()
	src := buf.Source()

	var diags []lint.Diagnostic
	for offset := 0; ; {
		idx := strings.Index(src[offset:], r.target)
		if idx < 0 {
			return diags, nil
		}
		begin := offset + idx
		rng := buf.MustRange(begin, begin+len(r.target))
		diags = append(diags, ctx.Diagnostic(r.ID(), rng, "fix needed").
			WithFix(fix.NewEditBuilder().Replace(rng, r.text)).
			Build())
		offset = begin + len(r.target)
	}
}

// parseFunc adapts a function to lint.Parser.
type parseFunc func(ctx context.Context, path string, content []byte) (*ast.ParsedSource, error)

func (f parseFunc) Parse(ctx context.Context, path string, content []byte) (*ast.ParsedSource, error) {
	return f(ctx, path, content)
}

var errParse = errors.New("syntax error")

func newRunner(parser lint.Parser, rules ...lint.Rule) *runner.Runner {
	registry := lint.NewRegistry()
	for _, rule := range rules {
		registry.Register(rule)
	}
	return runner.New(lint.NewPipeline(lint.NewEngine(parser, registry)))
}

func fixing(cfg *config.Config) *config.Config {
	cfg.Fix = true
	return cfg
}

func run(t *testing.T, r *runner.Runner, dir string, cfg *config.Config, jobs int) *runner.Result {
	t.Helper()
	result, err := r.Run(context.Background(), runner.Options{WorkingDir: dir, Config: cfg, Jobs: jobs})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return result
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestRunner_Run_Counts(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 5, 50} {
		t.Run(fmt.Sprintf("%d files", n), func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			for i := range n {
				layout(t, dir, "x = 1\n", fmt.Sprintf("f%02d.rb", i))
			}

			parser := testkit.NewParser(t)
			result := run(t, newRunner(parser), dir, config.NewConfig(), 8)

			if result.Stats.FilesDiscovered != n || result.Stats.FilesProcessed != n {
				t.Errorf("discovered %d, processed %d, want %d", result.Stats.FilesDiscovered, result.Stats.FilesProcessed, n)
			}
			if len(result.Files) != n {
				t.Errorf("len(Files) = %d, want %d", len(result.Files), n)
			}
			if parser.Calls() != n {
				t.Errorf("parser called %d times, want %d", parser.Calls(), n)
			}
		})
	}
}

func TestRunner_Run_Severities(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	layout(t, dir, "x = 1\n", "app.rb")

	cfg := config.NewConfig()
	errSeverity := string(config.SeverityError)
	cfg.Rules["Lint/Error"] = config.RuleConfig{Severity: &errSeverity}

	r := newRunner(testkit.NewParser(t),
		newFixedRule("Lint/Error", ""),
		newFixedRule("Lint/Warning", ""),
	)
	stats := run(t, r, dir, cfg, 0).Stats

	if stats.DiagnosticsTotal != 2 || stats.FilesWithIssues != 1 {
		t.Errorf("DiagnosticsTotal = %d, FilesWithIssues = %d, want 2 and 1", stats.DiagnosticsTotal, stats.FilesWithIssues)
	}
	if stats.DiagnosticsBySeverity["error"] != 1 || stats.DiagnosticsBySeverity["warning"] != 1 {
		t.Errorf("by severity = %v, want one error and one warning", stats.DiagnosticsBySeverity)
	}
}

func TestRunner_Run_OrderIndependentOfJobs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for i := range 20 {
		layout(t, dir, "x = 1\n", fmt.Sprintf("%c%d.rb", 'a'+i%26, i))
	}

	r := newRunner(testkit.NewParser(t), newFixedRule("Lint/Test", config.SeverityWarning))
	serial := run(t, r, dir, config.NewConfig(), 1)
	parallel := run(t, r, dir, config.NewConfig(), 4)

	paths := func(res *runner.Result) []string {
		out := make([]string, 0, len(res.Files))
		for _, f := range res.Files {
			out = append(out, f.Path)
		}
		return out
	}
	if !slices.Equal(paths(serial), paths(parallel)) {
		t.Errorf("order differs:\nserial   %v\nparallel %v", paths(serial), paths(parallel))
	}
	if !slices.IsSorted(paths(serial)) {
		t.Errorf("outcomes not sorted: %v", paths(serial))
	}
	if serial.Stats.DiagnosticsTotal != parallel.Stats.DiagnosticsTotal {
		t.Errorf("DiagnosticsTotal serial=%d parallel=%d", serial.Stats.DiagnosticsTotal, parallel.Stats.DiagnosticsTotal)
	}
}

func TestRunner_Run_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	layout(t, dir, "x = 1\n", "a.rb", "b.rb")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(testkit.NewParser(t)).Run(ctx, runner.Options{WorkingDir: dir, Config: config.NewConfig()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunner_Run_Fix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		dryRun       bool
		wantContent  string
		wantModified int
	}{
		{name: "writes", wantContent: "world\n", wantModified: 1},
		{name: "dry run", dryRun: true, wantContent: "hello\n", wantModified: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			layout(t, dir, "hello\n", "app.rb")

			cfg := fixing(config.NewConfig())
			cfg.DryRun = tt.dryRun
			result := run(t, newRunner(testkit.NewParser(t), newReplaceRule("hello", "world")), dir, cfg, 0)

			if got := readFile(t, filepath.Join(dir, "app.rb")); got != tt.wantContent {
				t.Errorf("app.rb = %q, want %q", got, tt.wantContent)
			}
			if result.Stats.FilesModified != tt.wantModified {
				t.Errorf("FilesModified = %d, want %d", result.Stats.FilesModified, tt.wantModified)
			}
			if result.Stats.DiagnosticsCorrected != 1 || result.Stats.DiagnosticsTotal != 0 {
				t.Errorf("corrected %d, remaining %d, want 1 and 0",
					result.Stats.DiagnosticsCorrected, result.Stats.DiagnosticsTotal)
			}
			if pr := result.Files[0].Result; pr == nil || pr.Diff == nil {
				t.Error("expected a diff of the correction")
			}
		})
	}
}

func TestRunner_Run_ParseFailureIsolated(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	layout(t, dir, "hello\n", "good.rb")
	layout(t, dir, "def\n", "bad.rb")

	good := testkit.NewParser(t)
	parser := parseFunc(func(ctx context.Context, path string, content []byte) (*ast.ParsedSource, error) {
		if filepath.Base(path) == "bad.rb" {
			return nil, errParse
		}
		return good.Parse(ctx, path, content)
	})

	result := run(t, newRunner(parser, newReplaceRule("hello", "world")), dir, fixing(config.NewConfig()), 2)

	if result.Stats.FilesErrored != 1 || result.Stats.FilesModified != 1 {
		t.Errorf("FilesErrored = %d, FilesModified = %d, want 1 and 1",
			result.Stats.FilesErrored, result.Stats.FilesModified)
	}
	if len(result.Files) != 2 {
		t.Fatalf("len(Files) = %d, want 2", len(result.Files))
	}
	if !errors.Is(result.Files[0].Error, errParse) {
		t.Errorf("bad.rb error = %v, want %v", result.Files[0].Error, errParse)
	}
	if result.Files[1].Error != nil {
		t.Errorf("good.rb error = %v", result.Files[1].Error)
	}
	if got := readFile(t, filepath.Join(dir, "good.rb")); got != "world\n" {
		t.Errorf("good.rb = %q, want %q", got, "world\n")
	}
}

func TestRunner_Run_PassLimit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	layout(t, dir, "a\n", "app.rb")

	cfg := fixing(config.NewConfig())
	cfg.MaxFixPasses = 3

	// "a" -> "aa" never converges.
	stats := run(t, newRunner(testkit.NewParser(t), newReplaceRule("a", "aa")), dir, cfg, 0).Stats

	if stats.PassLimitReached != 1 {
		t.Errorf("PassLimitReached = %d, want 1", stats.PassLimitReached)
	}
	if stats.EditsApplied == 0 {
		t.Error("EditsApplied = 0, want edits from earlier passes")
	}
}

func TestRunner_RunContent(t *testing.T) {
	t.Parallel()

	r := newRunner(testkit.NewParser(t), newReplaceRule("hello", "world"))
	result := r.RunContent(context.Background(), "stdin.rb", []byte("hello\nhello\n"),
		runner.Options{Config: fixing(config.NewConfig())})

	if len(result.Files) != 1 {
		t.Fatalf("len(Files) = %d, want 1", len(result.Files))
	}
	pr := result.Files[0].Result
	if pr == nil {
		t.Fatalf("RunContent() error = %v", result.Files[0].Error)
	}
	if string(pr.ModifiedContent) != "world\nworld\n" {
		t.Errorf("ModifiedContent = %q", pr.ModifiedContent)
	}
	if pr.Written || result.Stats.FilesModified != 0 {
		t.Error("RunContent must not write")
	}
	if result.Stats.DiagnosticsCorrected != 2 {
		t.Errorf("DiagnosticsCorrected = %d, want 2", result.Stats.DiagnosticsCorrected)
	}
}

func TestRunner_RunContent_ParseError(t *testing.T) {
	t.Parallel()

	parser := testkit.NewParser(t)
	parser.Err = errParse

	result := newRunner(parser).RunContent(context.Background(), "stdin.rb", []byte("def\n"),
		runner.Options{Config: config.NewConfig()})

	if result.Stats.FilesErrored != 1 {
		t.Errorf("FilesErrored = %d, want 1", result.Stats.FilesErrored)
	}
	if !errors.Is(result.Files[0].Error, errParse) {
		t.Errorf("error = %v, want %v", result.Files[0].Error, errParse)
	}
}

func TestResult_Predicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		result       *runner.Result
		wantFailures bool
		wantIssues   bool
	}{
		{name: "nil"},
		{
			name: "warnings only",
			result: &runner.Result{Stats: runner.Stats{
				DiagnosticsTotal:      5,
				DiagnosticsBySeverity: map[string]int{"warning": 5},
			}},
			wantIssues: true,
		},
		{
			name: "errors",
			result: &runner.Result{Stats: runner.Stats{
				DiagnosticsTotal:      6,
				DiagnosticsBySeverity: map[string]int{"error": 1, "warning": 5},
			}},
			wantFailures: true,
			wantIssues:   true,
		},
		{name: "clean", result: &runner.Result{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.result.HasFailures(); got != tt.wantFailures {
				t.Errorf("HasFailures() = %v, want %v", got, tt.wantFailures)
			}
			if got := tt.result.HasIssues(); got != tt.wantIssues {
				t.Errorf("HasIssues() = %v, want %v", got, tt.wantIssues)
			}
		})
	}
}
