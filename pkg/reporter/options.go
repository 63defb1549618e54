package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/rbfix/pkg/config"
)

const bufWriterSize = 64 * 1024

// Options configures every reporter. Fields a format has no use for are
// ignored.
type Options struct {
	Writer      io.Writer // offenses, patches and documents
	ErrorWriter io.Writer // per-file failures in diff mode
	Format      config.OutputFormat
	Color       string // "auto", "always" or "never"

	ShowContext bool // source line under each offense
	ShowSummary bool // totals after the offenses
	GroupByFile bool // file headers instead of a flat list
	Compact     bool // single-line JSON

	RuleFormat   config.RuleFormat
	SummaryOrder config.SummaryOrder

	// WorkingDir, when set, makes reported paths relative to it.
	WorkingDir string
}

// DefaultOptions is grouped text on stdout with context and a summary.
func DefaultOptions() Options {
	opts := Options{
		Format:       config.FormatText,
		Color:        "auto",
		RuleFormat:   config.RuleFormatID,
		SummaryOrder: config.SummaryOrderRules,
	}
	opts.ShowContext, opts.ShowSummary, opts.GroupByFile = true, true, true
	return opts.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.Writer == nil {
		o.Writer = os.Stdout
	}
	if o.ErrorWriter == nil {
		o.ErrorWriter = os.Stderr
	}
	return o
}
