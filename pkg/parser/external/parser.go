// Package external provides a Parser implementation that runs an external
// Ruby parser command and decodes its AST dump.
//
// The command receives the source on stdin and the logical file path as its
// last argument. It writes one dump (JSON or MessagePack, see ast.Dump) to
// stdout and exits 0. Any other exit status is reported as a ParseError
// carrying the command's stderr.
package external

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/yaklabco/rbfix/internal/logging"
	"github.com/yaklabco/rbfix/pkg/ast"
	"github.com/yaklabco/rbfix/pkg/config"
	"github.com/yaklabco/rbfix/pkg/source"
)

// waitDelay bounds how long a killed parser may hold its output pipes open.
const waitDelay = time.Second

// ErrNoCommand is returned by New when the parser command is empty.
var ErrNoCommand = errors.New("parser command is empty")

// ErrTimeout is returned when the parser command exceeds its time limit.
var ErrTimeout = errors.New("parser timed out")

// ParseError reports a parser command that exited unsuccessfully.
type ParseError struct {
	Path     string
	ExitCode int
	Stderr   string
}

func (e *ParseError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("%s: parser exited with status %d", e.Path, e.ExitCode)
	}
	return fmt.Sprintf("%s: parser exited with status %d: %s", e.Path, e.ExitCode, msg)
}

// RunFunc executes argv with stdin and returns its stdout.
type RunFunc func(ctx context.Context, argv []string, stdin []byte) ([]byte, error)

// Option configures a Parser.
type Option func(*Parser)

// WithCache stores decoded dumps in cache and consults it before running
// the command.
func WithCache(cache *Cache) Option {
	return func(p *Parser) {
		p.cache = cache
	}
}

// WithRunFunc replaces the process runner. Used in tests.
func WithRunFunc(run RunFunc) Option {
	return func(p *Parser) {
		p.run = run
	}
}

// Parser implements lint.Parser by running an external command.
// It is safe for concurrent use.
type Parser struct {
	command []string
	format  config.DumpFormat
	timeout time.Duration
	cache   *Cache
	run     RunFunc
}

// New creates a parser from cfg. Empty Format defaults to MessagePack.
func New(cfg config.ParserConfig, opts ...Option) (*Parser, error) {
	if len(cfg.Command) == 0 || cfg.Command[0] == "" {
		return nil, ErrNoCommand
	}

	format := cfg.Format
	if format == "" {
		format = config.DumpMsgpack
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("unknown dump format %q", format)
	}

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	p := &Parser{
		command: append([]string(nil), cfg.Command...),
		format:  format,
		timeout: timeout,
		run:     runCommand,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// NewFromConfig creates a parser from cfg, attaching a disk cache when
// the cache is enabled. A cache directory that cannot be resolved disables the
// cache rather than failing.
func NewFromConfig(cfg config.ParserConfig) (*Parser, error) {
	var opts []Option
	if cfg.CacheEnabled() {
		cache, err := OpenCache(cfg.CacheDir, cfg.Command)
		if err != nil {
			logging.Default().Warn("parse cache disabled", logging.FieldError, err)
		} else {
			opts = append(opts, WithCache(cache))
		}
	}
	return New(cfg, opts...)
}

// Command returns the configured command line.
func (p *Parser) Command() []string {
	return append([]string(nil), p.command...)
}

// Format returns the dump format the command is expected to emit.
func (p *Parser) Format() config.DumpFormat {
	return p.format
}

// Parse runs the command on content and builds a ParsedSource from its dump.
//
// Returns nil and an error if the command fails, its output cannot be
// decoded, or the context is cancelled.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*ast.ParsedSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	buf := source.NewBuffer(path, content)

	if p.cache != nil {
		if dump, ok := p.cache.Get(content); ok {
			ps, err := dump.Build(buf)
			if err == nil {
				return ps, nil
			}
			logging.ForFile(ctx, path).Debug("discarding cached dump", logging.FieldError, err)
		}
	}

	dump, err := p.dump(ctx, path, content)
	if err != nil {
		return nil, err
	}

	ps, err := dump.Build(buf)
	if err != nil {
		return nil, fmt.Errorf("%s: build ast: %w", path, err)
	}

	if p.cache != nil {
		if err := p.cache.Put(ctx, content, dump); err != nil {
			logging.ForFile(ctx, path).Debug("parse cache write failed", logging.FieldError, err)
		}
	}

	return ps, nil
}

func (p *Parser) dump(ctx context.Context, path string, content []byte) (*ast.Dump, error) {
	runCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	argv := append(p.Command(), path)
	out, err := p.run(runCtx, argv, content)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%s: %w after %s", path, ErrTimeout, p.timeout)
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("parse cancelled: %w", ctx.Err())
		}
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.Path = path
			return nil, parseErr
		}
		return nil, fmt.Errorf("%s: run parser: %w", path, err)
	}

	var dump *ast.Dump
	switch p.format {
	case config.DumpJSON:
		dump, err = ast.DecodeJSON(out)
	default:
		dump, err = ast.DecodeMsgpack(out)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return dump, nil
}

func runCommand(ctx context.Context, argv []string, stdin []byte) ([]byte, error) {
	//nolint:gosec // The command line comes from the user's configuration.
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return nil, &ParseError{ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return nil, err
	}

	return stdout.Bytes(), nil
}
