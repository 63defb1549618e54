package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/rbfix/pkg/analysis"
)

// JSONRenderer writes the analysed report as a JSON document.
type JSONRenderer struct {
	opts Options
}

// NewJSONRenderer creates a JSON renderer.
func NewJSONRenderer(opts Options) *JSONRenderer {
	return &JSONRenderer{opts: opts.withDefaults()}
}

// NewJSONReporter creates a Reporter producing JSON.
func NewJSONReporter(opts Options) Reporter {
	return Analysed(NewJSONRenderer(opts), opts)
}

// Render implements Renderer.
func (r *JSONRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	enc := json.NewEncoder(bw)
	if !r.opts.Compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
