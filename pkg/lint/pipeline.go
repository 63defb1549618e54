package lint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/yaklabco/rbfix/pkg/config"
	"github.com/yaklabco/rbfix/pkg/fix"
	"github.com/yaklabco/rbfix/pkg/fsutil"
)

// DefaultMaxFixPasses bounds the correct-reparse loop of one file.
const DefaultMaxFixPasses = config.DefaultMaxFixPasses

// Categories of per-file failure. Returned errors wrap one of these
// together with the underlying cause.
var (
	ErrFileNotFound     = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrParseFailure     = errors.New("parse failure")
	ErrWriteFailure     = errors.New("write failure")
)

var pipelineErrors = []error{ErrFileNotFound, ErrPermissionDenied, ErrParseFailure, ErrWriteFailure}

// PipelineResult is what happened to one file.
//
// The embedded FileResult holds the offenses of the last pass, i.e. those
// still present after correction. Corrected holds the ones fixed on the way.
type PipelineResult struct {
	*FileResult

	Corrected []Diagnostic
	Path      string
	Original  *fsutil.Snapshot // nil for in-memory content

	Modified        bool
	ModifiedContent []byte    // nil unless Modified
	Diff            *fix.Diff // nil unless Modified

	Skipped    bool
	SkipReason string

	BackupCreated bool
	Written       bool

	FixPasses         int
	TotalEditsApplied int

	// PassLimitReached is set when the final allowed pass still had edits
	// to make. Those offenses are reported as not corrected.
	PassLimitReached bool
}

// Summary describes the outcome in a few words.
func (pr *PipelineResult) Summary() string {
	switch {
	case pr.Skipped:
		return "skipped: " + pr.SkipReason
	case pr.Written && pr.BackupCreated:
		return "fixed (backup created)"
	case pr.Written:
		return "fixed"
	case pr.Modified:
		return "changes pending"
	case pr.FileResult != nil && pr.HasIssues():
		return "issues found"
	default:
		return "ok"
	}
}

// skip drops any pending change and marks the file skipped.
func (pr *PipelineResult) skip(reason string) *PipelineResult {
	pr.Skipped = true
	pr.SkipReason = reason
	pr.Modified = false
	pr.ModifiedContent = nil
	pr.Diff = nil
	return pr
}

// PipelineOptions controls what the pipeline does with a file.
type PipelineOptions struct {
	Fix    bool
	DryRun bool // compute corrections and diffs, write nothing
	Backup fsutil.BackupConfig

	// StrictRaceDetection hashes the file before replacing it, on top of
	// the mod time and size comparison.
	StrictRaceDetection bool

	// ReParseAfterFix parses the final content once more and discards the
	// correction if that fails.
	ReParseAfterFix bool

	// MaxFixPasses of 0 means DefaultMaxFixPasses.
	MaxFixPasses int
}

// DefaultPipelineOptions reports offenses without correcting them.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Backup:              fsutil.DefaultBackupConfig(),
		StrictRaceDetection: true,
	}
}

// BackupConfigFromConfig translates the backups section of cfg.
func BackupConfigFromConfig(cfg *config.Config) fsutil.BackupConfig {
	if cfg == nil {
		return fsutil.DefaultBackupConfig()
	}
	return fsutil.BackupConfig{
		Enabled: cfg.Backups.Enabled && !cfg.NoBackups,
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
}

// PipelineOptionsFromConfig derives pipeline options from a resolved config.
func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	opts := DefaultPipelineOptions()
	if cfg == nil {
		return opts
	}
	opts.Fix = cfg.Fix
	opts.DryRun = cfg.DryRun
	opts.Backup = BackupConfigFromConfig(cfg)
	opts.MaxFixPasses = cfg.FixPasses()
	return opts
}

// Pipeline reads, corrects and writes back a single file.
type Pipeline struct {
	Engine *Engine
}

func NewPipeline(engine *Engine) *Pipeline {
	return &Pipeline{Engine: engine}
}

// ProcessFile corrects the file at path. The new content replaces the file
// only if it is unchanged on disk since it was read; otherwise the result
// is marked skipped.
func (p *Pipeline) ProcessFile(
	ctx context.Context,
	path string,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	content, snap, err := fsutil.Read(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.correct(ctx, path, content, cfg, opts)
	if err != nil {
		return nil, err
	}
	result.Original = snap

	if !result.Modified || opts.DryRun {
		return result, nil
	}

	result.BackupCreated, err = fsutil.Replace(ctx, snap, result.ModifiedContent, fsutil.ReplaceOptions{
		Verify: opts.StrictRaceDetection,
		Backup: opts.Backup,
	})
	if errors.Is(err, fsutil.ErrStale) {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true
	return result, nil
}

// ProcessContent corrects content in memory; nothing is read or written.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	return p.correct(ctx, path, content, cfg, opts)
}

// correct lints content and, when fixing, applies the merged corrections
// and lints again until a pass proposes nothing or the pass limit is hit.
// A pass that yields unparsable source discards every correction.
func (p *Pipeline) correct(
	ctx context.Context,
	path string,
	original []byte,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	maxPasses := positiveOr(opts.MaxFixPasses, DefaultMaxFixPasses)
	result := &PipelineResult{Path: path}
	content := original

	for pass := 0; ; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("processing cancelled: %w", err)
		}

		fr, err := p.Engine.LintFile(ctx, path, content, cfg)
		if err != nil {
			if pass == 0 {
				return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
			}
			result.FileResult = nil
			return result.skip(fmt.Sprintf("corrected source does not parse: %v", err)), nil
		}
		result.FileResult = fr

		if !opts.Fix {
			break
		}
		corrector := p.Engine.Correct(fr)
		if corrector.Empty() {
			break
		}
		if pass == maxPasses {
			result.PassLimitReached = true
			for i := range fr.Diagnostics {
				fr.Diagnostics[i].Corrected = false
			}
			break
		}

		next, err := corrector.Apply()
		if err != nil {
			return nil, fmt.Errorf("apply corrections: %w", err)
		}
		for _, d := range fr.Diagnostics {
			if d.Corrected {
				result.Corrected = append(result.Corrected, d)
			}
		}

		content = next.Bytes()
		result.Modified = true
		result.FixPasses++
		result.TotalEditsApplied += corrector.Len()
	}

	if !result.Modified {
		return result, nil
	}
	result.ModifiedContent = content

	if opts.ReParseAfterFix {
		if _, err := p.Engine.Parser.Parse(ctx, path, content); err != nil {
			return result.skip(fmt.Sprintf("re-parse failed: %v", err)), nil
		}
	}

	result.Diff = fix.GenerateDiff(path, original, content)
	return result, nil
}

func positiveOr(n, fallback int) int {
	if n > 0 {
		return n
	}
	return fallback
}

// categorizeError tags read errors with ErrFileNotFound or ErrPermissionDenied.
func categorizeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fsutil.ErrNotFound), errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied), errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}

// IsPipelineError reports whether err belongs to one of the failure categories.
func IsPipelineError(err error) bool {
	return slices.ContainsFunc(pipelineErrors, func(target error) bool {
		return errors.Is(err, target)
	})
}
