package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/rbfix/internal/ui/pretty"
	"github.com/yaklabco/rbfix/pkg/analysis"
	"github.com/yaklabco/rbfix/pkg/config"
)

const tableWidth = 100

// column describes one table column. Widths are display cells; padding is
// applied before styling so escape codes do not shift the layout.
type column struct {
	title string
	width int
	left  bool
}

var (
	ruleColumns = []column{
		{"Rule", 40, true}, {"Count", 7, false}, {"Errors", 7, false},
		{"Warnings", 8, false}, {"Corrected", 10, false}, {"Fixable", 8, false},
	}
	fileColumns = []column{
		{"File", 60, true}, {"Count", 7, false}, {"Errors", 7, false},
		{"Warnings", 8, false}, {"Corrected", 10, false},
	}
)

func (c column) pad(s string) string {
	if c.left {
		return padRight(s, c.width)
	}
	return padLeft(s, c.width)
}

func padRight(s string, width int) string { return runewidth.FillRight(s, width) }
func padLeft(s string, width int) string  { return runewidth.FillLeft(s, width) }

// truncateRight shortens s to width cells, ending in "…".
func truncateRight(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

// truncateLeft shortens s to width cells keeping its tail, so file names
// stay visible in long paths.
func truncateLeft(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	used := runewidth.RuneWidth('…')
	start := len(runes)
	for start > 0 {
		w := runewidth.RuneWidth(runes[start-1])
		if used+w > width {
			break
		}
		used += w
		start--
	}
	return "…" + string(runes[start:])
}

// SummaryRenderer writes per-rule and per-file tables and a totals line.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
}

// NewSummaryRenderer creates a summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	opts = opts.withDefaults()
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	totals := report.Totals
	if totals.Issues == 0 && totals.Corrected == 0 && totals.FilesFailed == 0 {
		fmt.Fprintln(bw, r.styles.Success.Render("No issues found"))
		return nil
	}

	tables := []func(*bufio.Writer){
		func(w *bufio.Writer) { r.ruleTable(w, report.ByRule) },
		func(w *bufio.Writer) { r.fileTable(w, report.ByFile) },
	}
	if r.opts.SummaryOrder == config.SummaryOrderFiles {
		tables[0], tables[1] = tables[1], tables[0]
	}
	for _, table := range tables {
		table(bw)
		fmt.Fprintln(bw)
	}

	fmt.Fprintln(bw, r.styles.Bold.Render("Total: ")+r.totalsLine(totals))
	return nil
}

func (r *SummaryRenderer) header(w *bufio.Writer, title string, cols []column) {
	sep := r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth))
	fmt.Fprintln(w, r.styles.Bold.Render(title))
	fmt.Fprintln(w, sep)
	cells := make([]string, len(cols))
	for i, col := range cols {
		cells[i] = r.styles.TableHeader.Render(col.pad(col.title))
	}
	fmt.Fprintln(w, strings.Join(cells, " "))
	fmt.Fprintln(w, sep)
}

// rowStyle colors the label of a row by its worst remaining severity.
func (r *SummaryRenderer) rowStyle(c analysis.Counts) lipgloss.Style {
	switch {
	case c.Errors > 0:
		return r.styles.TableErrorRow
	case c.Warnings > 0:
		return r.styles.TableWarnRow
	default:
		return lipgloss.NewStyle()
	}
}

func (r *SummaryRenderer) countCells(cols []column, c analysis.Counts) []string {
	values := []int{c.Issues, c.Errors, c.Warnings, c.Corrected}
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = cols[i+1].pad(strconv.Itoa(v))
	}
	return cells
}

func (r *SummaryRenderer) ruleTable(w *bufio.Writer, rules []analysis.RuleAnalysis) {
	if len(rules) == 0 {
		return
	}
	r.header(w, "Rules Summary", ruleColumns)

	fixCol := ruleColumns[len(ruleColumns)-1]
	for _, rule := range rules {
		label := config.FormatRuleID(r.opts.RuleFormat, rule.RuleID, rule.RuleName)
		cells := []string{r.rowStyle(rule.Counts).Render(ruleColumns[0].pad(truncateRight(label, ruleColumns[0].width-2)))}
		cells = append(cells, r.countCells(ruleColumns, rule.Counts)...)

		fixable := fixCol.pad("")
		if rule.Fixable {
			fixable = r.styles.Success.Render(fixCol.pad("✓"))
		}
		fmt.Fprintln(w, strings.Join(append(cells, fixable), " "))
	}
}

func (r *SummaryRenderer) fileTable(w *bufio.Writer, files []analysis.FileAnalysis) {
	if len(files) == 0 {
		return
	}
	r.header(w, "Files Summary", fileColumns)

	for _, file := range files {
		path := truncateLeft(file.Path, fileColumns[0].width-2)
		cells := []string{r.rowStyle(file.Counts).Render(fileColumns[0].pad(path))}
		cells = append(cells, r.countCells(fileColumns, file.Counts)...)
		fmt.Fprintln(w, strings.Join(cells, " "))
	}
}

func (r *SummaryRenderer) totalsLine(totals analysis.Totals) string {
	head := fmt.Sprintf("%d %s", totals.Issues, plural(totals.Issues, "issue", "issues"))

	var severities []string
	if totals.Errors > 0 {
		severities = append(severities, r.styles.Error.Render(fmt.Sprintf("%d errors", totals.Errors)))
	}
	if totals.Warnings > 0 {
		severities = append(severities, r.styles.Warning.Render(fmt.Sprintf("%d warnings", totals.Warnings)))
	}
	if len(severities) > 0 {
		head += " (" + strings.Join(severities, ", ") + ")"
	}
	head += fmt.Sprintf(" in %d %s", totals.FilesWithIssues, plural(totals.FilesWithIssues, "file", "files"))

	parts := []string{head}
	if totals.Corrected > 0 {
		parts = append(parts, r.styles.Corrected.Render(fmt.Sprintf("%d corrected", totals.Corrected)))
	}
	if totals.FilesFailed > 0 {
		parts = append(parts, r.styles.Error.Render(fmt.Sprintf("%d failed", totals.FilesFailed)))
	}
	return strings.Join(parts, ", ")
}
