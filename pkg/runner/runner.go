package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/rbfix/internal/logging"
	"github.com/yaklabco/rbfix/pkg/lint"
)

// Runner corrects many files with one pipeline.
type Runner struct {
	Pipeline *lint.Pipeline
}

func New(pipeline *lint.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers the files selected by opts and processes up to opts.Jobs
// of them at a time. A failing file is recorded in its outcome and does
// not stop the others. Outcomes are in discovery order, which is sorted.
// On cancellation the outcomes finished so far are returned with the error.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := newResult(len(files))
	if len(files) == 0 {
		return result, nil
	}

	pipelineOpts := lint.PipelineOptionsFromConfig(opts.Config)
	slots := make([]*FileOutcome, len(files))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(min(workers(opts.Jobs), len(files)))
	for i, path := range files {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcome := r.outcome(path, func() (*lint.PipelineResult, error) {
				return r.Pipeline.ProcessFile(gctx, path, opts.Config, pipelineOpts)
			})
			if outcome.Error != nil {
				logging.ForFile(gctx, path).Debug("file failed", logging.FieldError, outcome.Error)
			}
			slots[i] = &outcome
			return nil
		})
	}
	waitErr := group.Wait()

	for _, outcome := range slots {
		if outcome != nil {
			result.accumulate(*outcome)
		}
	}

	switch {
	case ctx.Err() != nil:
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	case waitErr != nil:
		return result, fmt.Errorf("run: %w", waitErr)
	}
	return result, nil
}

// RunContent processes content as though it had been read from path.
// Nothing touches the disk; corrected text ends up in the outcome's
// ModifiedContent.
func (r *Runner) RunContent(ctx context.Context, path string, content []byte, opts Options) *Result {
	result := newResult(1)
	pipelineOpts := lint.PipelineOptionsFromConfig(opts.Config)
	result.accumulate(r.outcome(path, func() (*lint.PipelineResult, error) {
		return r.Pipeline.ProcessContent(ctx, path, content, opts.Config, pipelineOpts)
	}))
	return result
}

func (r *Runner) outcome(path string, process func() (*lint.PipelineResult, error)) FileOutcome {
	pr, err := process()
	if err != nil {
		return FileOutcome{Path: path, Error: err}
	}
	return FileOutcome{Path: path, Result: pr}
}

func workers(jobs int) int {
	if jobs > 0 {
		return jobs
	}
	return runtime.GOMAXPROCS(0)
}
