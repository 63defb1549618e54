package cli_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rbfix/internal/cli"
	"github.com/yaklabco/rbfix/pkg/config"
)

// rubyWithTrailingSpaces triggers Layout/TrailingWhitespace on line 1.
const rubyWithTrailingSpaces = "x = 1   \n"

// emptyDump is an AST dump with no tree, valid for any source. The rules
// exercised here only look at the source text.
const emptyDump = `{"version":1,"ast":null}`

// project is a temporary directory with an rbfix config whose parser
// command prints a fixed dump.
type project struct {
	dir    string
	config string
}

func newProject(t *testing.T, extraConfig string) *project {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	dumpFile := filepath.Join(dir, "dump.json")
	require.NoError(t, os.WriteFile(dumpFile, []byte(emptyDump), 0644))

	return newProjectWithParser(t, dir, fmt.Sprintf(`["sh", "-c", "cat >/dev/null; cat '%s'"]`, dumpFile), extraConfig)
}

func newProjectWithParser(t *testing.T, dir, command, extraConfig string) *project {
	t.Helper()

	cfg := fmt.Sprintf(`parser:
  command: %s
  format: json
  cache: false
%s`, command, extraConfig)

	cfgFile := filepath.Join(dir, ".rbfix.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(cfg), 0644))

	return &project{dir: dir, config: cfgFile}
}

func (p *project) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(p.dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// run executes rbfix with the project config and returns stdout, stderr and
// the process exit code.
func (p *project) run(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))

	full := append([]string{args[0], "--config", p.config, "--color", "never"}, args[1:]...)
	cmd.SetArgs(full)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), cli.ExitCode(err)
}

func TestIntegration_RuleFormatFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		ruleFormat     string
		wantContains   []string
		wantNotContain []string
	}{
		{
			name:           "name shows rule name only",
			ruleFormat:     "name",
			wantContains:   []string{"trailing-whitespace"},
			wantNotContain: []string{"Layout/TrailingWhitespace"},
		},
		{
			name:           "id shows rule ID only",
			ruleFormat:     "id",
			wantContains:   []string{"Layout/TrailingWhitespace"},
			wantNotContain: []string{"trailing-whitespace"},
		},
		{
			name:         "combined shows both",
			ruleFormat:   "combined",
			wantContains: []string{"Layout/TrailingWhitespace (trailing-whitespace)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			proj := newProject(t, "")
			file := proj.write(t, "test.rb", rubyWithTrailingSpaces)

			stdout, _, code := proj.run(t, "", "lint", "--rule-format", tt.ruleFormat, "--no-context", file)

			assert.Equal(t, cli.ExitSuccess, code, "warnings alone should not fail the run")
			for _, want := range tt.wantContains {
				assert.Contains(t, stdout, want)
			}
			for _, notWant := range tt.wantNotContain {
				assert.NotContains(t, stdout, notWant)
			}
		})
	}
}

func TestIntegration_DefaultRuleFormatIsID(t *testing.T) {
	t.Parallel()

	proj := newProject(t, "")
	file := proj.write(t, "test.rb", rubyWithTrailingSpaces)

	stdout, _, _ := proj.run(t, "", "lint", "--no-context", file)
	assert.Contains(t, stdout, "Layout/TrailingWhitespace")
}

func TestIntegration_ConfigDisablesRuleByName(t *testing.T) {
	t.Parallel()

	proj := newProject(t, `rules:
  trailing-whitespace:
    enabled: false
`)
	file := proj.write(t, "test.rb", rubyWithTrailingSpaces)

	stdout, _, code := proj.run(t, "", "lint", "--rule-format", "combined", file)

	assert.Equal(t, cli.ExitSuccess, code)
	assert.NotContains(t, stdout, "Layout/TrailingWhitespace")
}

func TestIntegration_ConfigLegacyID(t *testing.T) {
	t.Parallel()

	proj := newProject(t, `rules:
  Style/TrailingWhitespace:
    severity: error
`)
	file := proj.write(t, "test.rb", rubyWithTrailingSpaces)

	_, _, code := proj.run(t, "", "lint", file)
	assert.Equal(t, cli.ExitLintErrors, code, "the legacy ID should raise the severity of the renamed rule")
}

func TestIntegration_DisableFlagByName(t *testing.T) {
	t.Parallel()

	proj := newProject(t, "")
	file := proj.write(t, "test.rb", rubyWithTrailingSpaces)

	stdout, _, code := proj.run(t, "", "lint", "--disable", "trailing-whitespace", "--strict", file)

	assert.Equal(t, cli.ExitSuccess, code)
	assert.NotContains(t, stdout, "TrailingWhitespace")
}

func TestIntegration_StrictWarnings(t *testing.T) {
	t.Parallel()

	proj := newProject(t, "")
	file := proj.write(t, "test.rb", rubyWithTrailingSpaces)

	_, _, code := proj.run(t, "", "lint", "--strict", file)
	assert.Equal(t, cli.ExitLintWarnings, code)
}

func TestIntegration_FixWritesFile(t *testing.T) {
	t.Parallel()

	proj := newProject(t, "")
	file := proj.write(t, "test.rb", "x = 1   \ny = 2\t\n\n\n")

	stdout, _, code := proj.run(t, "", "lint", "--fix", "--no-backups", "--strict", file)

	assert.Equal(t, cli.ExitSuccess, code, "every offense should have been corrected")
	assert.Contains(t, stdout, "[Corrected]")

	got, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\ny = 2\n", string(got))

	_, err = os.Stat(file + ".bak")
	assert.True(t, os.IsNotExist(err), "--no-backups should not leave a backup")
}

func TestIntegration_DryRunDiff(t *testing.T) {
	t.Parallel()

	proj := newProject(t, "")
	file := proj.write(t, "test.rb", rubyWithTrailingSpaces)

	stdout, _, code := proj.run(t, "", "lint", "--format", "diff", file)

	assert.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, stdout, "-x = 1   ")
	assert.Contains(t, stdout, "+x = 1")

	got, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, rubyWithTrailingSpaces, string(got), "diff output must not modify the file")
}

func TestIntegration_JSONOutput(t *testing.T) {
	t.Parallel()

	proj := newProject(t, "")
	file := proj.write(t, "test.rb", rubyWithTrailingSpaces)

	stdout, _, _ := proj.run(t, "", "lint", "--format", "json", file)

	var output struct {
		Files []struct {
			Path        string `json:"path"`
			Diagnostics []struct {
				RuleID    string `json:"ruleId"`
				RuleName  string `json:"ruleName"`
				StartLine int    `json:"startLine"`
				Fixable   bool   `json:"fixable"`
			} `json:"diagnostics"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &output), "output: %s", stdout)
	require.Len(t, output.Files, 1)
	require.Len(t, output.Files[0].Diagnostics, 1)

	diag := output.Files[0].Diagnostics[0]
	assert.Equal(t, "Layout/TrailingWhitespace", diag.RuleID)
	assert.Equal(t, "trailing-whitespace", diag.RuleName)
	assert.Equal(t, 1, diag.StartLine)
	assert.True(t, diag.Fixable)
}

func TestIntegration_ParseFailureExitCode(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	proj := newProjectWithParser(t, t.TempDir(), `["sh", "-c", "cat >/dev/null; echo 'unexpected end-of-input' >&2; exit 1"]`, "")
	file := proj.write(t, "broken.rb", "def foo\n")

	stdout, _, code := proj.run(t, "", "lint", file)

	assert.Equal(t, cli.ExitFilesFailed, code)
	assert.Contains(t, stdout, "unexpected end-of-input")
}

func TestIntegration_Stdin(t *testing.T) {
	t.Parallel()

	proj := newProject(t, "")

	stdout, stderr, code := proj.run(t, rubyWithTrailingSpaces, "lint", "--fix", "--stdin", "app/model.rb")

	assert.Equal(t, cli.ExitSuccess, code)
	assert.Equal(t, "x = 1\n", stdout, "stdout should carry only the corrected source")
	assert.Contains(t, stderr, "Layout/TrailingWhitespace")

	_, err := os.Stat(filepath.Join(proj.dir, "app", "model.rb"))
	assert.True(t, os.IsNotExist(err), "--stdin must not create files")
}

func TestIntegration_StdinWithoutFixEchoesInput(t *testing.T) {
	t.Parallel()

	proj := newProject(t, "")

	stdout, _, _ := proj.run(t, rubyWithTrailingSpaces, "lint", "--stdin", "model.rb")
	assert.Equal(t, rubyWithTrailingSpaces, stdout)
}

func TestIntegration_DirectoryDiscovery(t *testing.T) {
	t.Parallel()

	proj := newProject(t, "")
	proj.write(t, "lib/a.rb", rubyWithTrailingSpaces)
	proj.write(t, "Rakefile", rubyWithTrailingSpaces)
	proj.write(t, "README.md", rubyWithTrailingSpaces)
	proj.write(t, "vendor/bundle/gems/x.rb", rubyWithTrailingSpaces)

	stdout, _, _ := proj.run(t, "", "lint", "--format", "json", proj.dir)

	assert.Contains(t, stdout, "a.rb")
	assert.Contains(t, stdout, "Rakefile")
	assert.NotContains(t, stdout, "README.md")
	assert.NotContains(t, stdout, "x.rb", "vendored gems are skipped by default")
}

func TestIntegration_InvalidConfigExitCode(t *testing.T) {
	t.Parallel()

	proj := newProject(t, "max_fix_passes: -1\n")
	file := proj.write(t, "test.rb", rubyWithTrailingSpaces)

	_, _, code := proj.run(t, "", "lint", file)
	assert.Equal(t, cli.ExitConfigError, code)
}

func TestIntegration_SummaryFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		order      string
		rulesFirst bool
	}{
		{"rules first", "rules", true},
		{"files first", "files", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			proj := newProject(t, "")
			file := proj.write(t, "test.rb", rubyWithTrailingSpaces)

			stdout, _, _ := proj.run(t, "", "lint", "--format", "summary", "--summary-order", tt.order, file)

			rulesIdx := strings.Index(stdout, "Rules Summary")
			filesIdx := strings.Index(stdout, "Files Summary")
			require.Greater(t, rulesIdx, -1, "output should contain Rules Summary")
			require.Greater(t, filesIdx, -1, "output should contain Files Summary")
			assert.Equal(t, tt.rulesFirst, rulesIdx < filesIdx)
			assert.Contains(t, stdout, "Total:")
		})
	}
}

func TestIntegration_SummaryFormatNoIssues(t *testing.T) {
	t.Parallel()

	proj := newProject(t, "")
	file := proj.write(t, "clean.rb", "x = 1\n")

	stdout, _, code := proj.run(t, "", "lint", "--format", "summary", file)

	assert.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, stdout, "No issues found")
	assert.NotContains(t, stdout, "Rules Summary")
}

func TestIntegration_Migrate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, ".rubocop.yml")
	require.NoError(t, os.WriteFile(input, []byte(`AllCops:
  Exclude:
    - "db/schema.rb"
Layout/TrailingWhitespace:
  Enabled: false
Style/StringLiterals:
  EnforcedStyle: double_quotes
`), 0644))
	output := filepath.Join(dir, ".rbfix.toml")

	runMigrate := func(extra ...string) (string, int) {
		cmd := cli.NewRootCommand(testInfo())
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetIn(strings.NewReader(""))
		cmd.SetArgs(append([]string{"migrate", input, "--output", output}, extra...))
		err := cmd.Execute()
		return out.String(), cli.ExitCode(err)
	}

	out, code := runMigrate()
	require.Equal(t, cli.ExitSuccess, code, out)
	assert.Contains(t, out, "Style/StringLiterals", "unmapped cops should be reported")

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	cfg, err := config.FromTOML(content)
	require.NoError(t, err)
	assert.Equal(t, []string{"db/schema.rb"}, cfg.Ignore)
	rule, ok := cfg.Rules["Layout/TrailingWhitespace"]
	require.True(t, ok)
	require.NotNil(t, rule.Enabled)
	assert.False(t, *rule.Enabled)

	_, code = runMigrate()
	assert.Equal(t, cli.ExitInvalidUsage, code, "existing output needs --force")

	_, code = runMigrate("--force")
	assert.Equal(t, cli.ExitSuccess, code)
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			t.Parallel()

			output := filepath.Join(t.TempDir(), "rbfix."+format)

			cmd := cli.NewRootCommand(testInfo())
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&out)
			cmd.SetIn(strings.NewReader(""))
			cmd.SetArgs([]string{"init", "--full", "--format", format, "--output", output})
			require.NoError(t, cmd.Execute(), out.String())

			content, err := os.ReadFile(output)
			require.NoError(t, err)

			var cfg *config.Config
			if format == "toml" {
				cfg, err = config.FromTOML(content)
			} else {
				cfg, err = config.FromYAML(content)
			}
			require.NoError(t, err)
			assert.NotEmpty(t, cfg.Parser.Command)
			assert.Contains(t, string(content), "Layout/TrailingWhitespace")
		})
	}
}
