package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/rbfix/internal/ui/pretty"
)

// helpStyles maps help template elements onto the report palette so help
// and diagnostics share colors.
type helpStyles struct {
	command    lipgloss.Style
	heading    lipgloss.Style
	subcommand lipgloss.Style
	flag       lipgloss.Style
	example    lipgloss.Style
	dim        lipgloss.Style
}

func newHelpStyles(styles *pretty.Styles) helpStyles {
	return helpStyles{
		command:    styles.FilePath,
		heading:    styles.Heading,
		subcommand: styles.Corrected,
		flag:       styles.DiffHunk,
		example:    styles.Dim,
		dim:        styles.Dim,
	}
}

// helpFormatter renders styled help and usage text for cobra commands.
type helpFormatter struct {
	styles helpStyles
}

func newHelpFormatter(colorMode string, writer io.Writer) *helpFormatter {
	return &helpFormatter{
		styles: newHelpStyles(pretty.NewStyles(pretty.IsColorEnabled(colorMode, writer))),
	}
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ example .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Run "{{ command (print .CommandPath " [command] --help") }}" for details on a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trimRight . }}

{{end}}{{ template "usage" . }}`

func (h *helpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"command":    h.styles.command.Render,
		"heading":    h.styles.heading.Render,
		"subcommand": h.styles.subcommand.Render,
		"example":    h.styles.example.Render,
		"dim":        h.styles.dim.Render,
		"flags":      h.flagUsages,
		"join":       strings.Join,
		"rpad":       rpad,
		"trimRight":  trimTrailingWhitespace,
	}
}

// flagUsages styles pflag's usage block: flag names in the flag color and
// value types dimmed.
func (h *helpFormatter) flagUsages(flags *pflag.FlagSet) string {
	usages := strings.TrimSuffix(flags.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.styleFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

func (h *helpFormatter) styleFlagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if trimmed == "" {
		return line
	}
	indent := line[:len(line)-len(trimmed)]

	// pflag separates the flag column from the description with 3+ spaces.
	head, desc, found := strings.Cut(trimmed, "   ")
	if !found {
		return line
	}

	tokens := strings.Fields(head)
	for i, token := range tokens {
		if strings.HasPrefix(token, "-") {
			name := strings.TrimSuffix(token, ",")
			tokens[i] = h.styles.flag.Render(name) + strings.TrimPrefix(token, name)
			continue
		}
		tokens[i] = h.styles.dim.Render(token)
	}

	return indent + strings.Join(tokens, " ") + "   " + strings.TrimLeft(desc, " ")
}

// Apply installs the styled templates on cmd. Subcommands inherit them.
func (h *helpFormatter) Apply(cmd *cobra.Command) {
	tmpl := template.Must(template.New("usage").Funcs(h.funcs()).Parse(usageTemplate))
	template.Must(tmpl.New("help").Parse(helpTemplate))

	cmd.SetUsageFunc(func(c *cobra.Command) error {
		if err := tmpl.ExecuteTemplate(c.OutOrStderr(), "usage", c); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})

	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := tmpl.ExecuteTemplate(c.OutOrStdout(), "help", c); err != nil {
			c.PrintErrln(err)
		}
	})
}

func rpad(s string, padding int) string {
	if len(s) >= padding {
		return s
	}
	return s + strings.Repeat(" ", padding-len(s))
}

func trimTrailingWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
