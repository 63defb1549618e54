package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Syntax is a configuration file syntax.
type Syntax string

const (
	SyntaxYAML Syntax = "yaml"
	SyntaxTOML Syntax = "toml"
)

// SyntaxFor picks the syntax from path's extension. Anything that is not
// .toml is read as YAML.
func SyntaxFor(path string) Syntax {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return SyntaxTOML
	}
	return SyntaxYAML
}

// Decode parses data in the given syntax. Keys that do not map onto
// Config are an error in both syntaxes.
func Decode(syntax Syntax, data []byte) (*Config, error) {
	cfg := &Config{}

	switch syntax {
	case SyntaxTOML:
		meta, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parse toml: unknown key %q", undecoded[0].String())
		}
	case SyntaxYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config syntax %q", syntax)
	}

	if cfg.Rules == nil {
		cfg.Rules = make(map[string]RuleConfig)
	}
	return cfg, nil
}

// Encode serializes c. A non-empty header is written first, followed by a
// blank line. Encoding a nil config yields nil.
func (c *Config) Encode(syntax Syntax, header string) ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	if header != "" {
		buf.WriteString(strings.TrimRight(header, "\n"))
		buf.WriteString("\n\n")
	}

	switch syntax {
	case SyntaxTOML:
		enc := toml.NewEncoder(&buf)
		enc.Indent = "  "
		if err := enc.Encode(c); err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
	case SyntaxYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config syntax %q", syntax)
	}
	return buf.Bytes(), nil
}

// FromYAML parses a YAML configuration.
func FromYAML(data []byte) (*Config, error) { return Decode(SyntaxYAML, data) }

// FromTOML parses a TOML configuration.
func FromTOML(data []byte) (*Config, error) { return Decode(SyntaxTOML, data) }

// ToYAML serializes c as YAML.
func (c *Config) ToYAML() ([]byte, error) { return c.Encode(SyntaxYAML, "") }

// ToTOML serializes c as TOML.
func (c *Config) ToTOML() ([]byte, error) { return c.Encode(SyntaxTOML, "") }
