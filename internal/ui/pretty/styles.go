// Package pretty renders diagnostics and run summaries for terminals.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color modes accepted by IsColorEnabled.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Styles holds one lipgloss style per output role. With color disabled
// every style is the zero style and renders text unchanged.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	FilePath   lipgloss.Style
	Location   lipgloss.Style
	RuleID     lipgloss.Style
	Message    lipgloss.Style
	Suggestion lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style
	Corrected  lipgloss.Style

	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	Heading lipgloss.Style
	Success lipgloss.Style

	TableHeader    lipgloss.Style
	TableErrorRow  lipgloss.Style
	TableWarnRow   lipgloss.Style
	TableSeparator lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style

	highlight bool
}

// ANSI 256 palette indexes.
const (
	red    = "9"
	green  = "10"
	yellow = "11"
	blue   = "12"
	cyan   = "14"
	grey   = "8"
	silver = "7"
)

type ink struct {
	color  string
	bold   bool
	italic bool
}

func (i ink) style() lipgloss.Style {
	s := lipgloss.NewStyle()
	if i.bold {
		s = s.Bold(true)
	}
	if i.italic {
		s = s.Italic(true)
	}
	if i.color != "" {
		s = s.Foreground(lipgloss.Color(i.color))
	}
	return s
}

// NewStyles builds the styles. Source highlighting follows colorEnabled.
func NewStyles(colorEnabled bool) *Styles {
	paint := func(i ink) lipgloss.Style {
		if !colorEnabled {
			return lipgloss.NewStyle()
		}
		return i.style()
	}

	return &Styles{
		Error:   paint(ink{color: red, bold: true}),
		Warning: paint(ink{color: yellow, bold: true}),
		Info:    paint(ink{color: blue, bold: true}),

		FilePath:   paint(ink{bold: true}),
		Location:   paint(ink{color: grey}),
		RuleID:     paint(ink{color: grey}),
		Message:    paint(ink{}),
		Suggestion: paint(ink{color: green, italic: true}),
		SourceLine: paint(ink{color: silver}),
		Caret:      paint(ink{color: red}),
		Corrected:  paint(ink{color: green}),

		DiffHeader:  paint(ink{bold: true}),
		DiffHunk:    paint(ink{color: cyan}),
		DiffAdd:     paint(ink{color: green}),
		DiffRemove:  paint(ink{color: red}),
		DiffContext: paint(ink{color: grey}),

		Heading: paint(ink{bold: true}),
		Success: paint(ink{color: green, bold: true}),

		TableHeader:    paint(ink{color: silver, bold: true}),
		TableErrorRow:  paint(ink{color: red}),
		TableWarnRow:   paint(ink{color: yellow}),
		TableSeparator: paint(ink{color: grey}),

		Dim:  paint(ink{color: grey}),
		Bold: paint(ink{bold: true}),

		highlight: colorEnabled,
	}
}

// Highlights reports whether source excerpts are syntax highlighted.
func (s *Styles) Highlights() bool {
	return s.highlight
}

// IsColorEnabled resolves a color mode for writer. Unknown modes behave
// like auto: color only on a terminal, and never when NO_COLOR is set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
