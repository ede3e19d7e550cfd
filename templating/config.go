package templating

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/byte4ever/interpol/lexer"
)

// Config controls delimiters and variable name matching.
// The zero value selects the defaults: "{{" / "}}",
// case-insensitive, trimmed names, undefined variables are
// errors.
type Config struct {
	// CaseSensitive keeps the case of variable names.
	// When false names are lower-cased.
	CaseSensitive bool `yaml:"caseSensitive" json:"caseSensitive"`

	// SkipVariableContentTrimming keeps whitespace
	// around captured names.
	SkipVariableContentTrimming bool `yaml:"skipVariableContentTrimming" json:"skipVariableContentTrimming"`

	// IgnoreUndefinedVariables renders unbound
	// variables as the empty string instead of failing.
	IgnoreUndefinedVariables bool `yaml:"ignoreUndefinedVariables" json:"ignoreUndefinedVariables"`

	// StartTag opens a placeholder. Empty means "{{".
	StartTag string `yaml:"startTag" json:"startTag"`

	// EndTag closes a placeholder. Empty means "}}".
	EndTag string `yaml:"endTag" json:"endTag"`
}

// NormalizeName applies the name policy shared by
// indexing, HasVariable and binding lookup. It is pure and
// idempotent.
func (cfg Config) NormalizeName(name string) string {
	if !cfg.CaseSensitive {
		name = strings.ToLower(name)
	}

	if !cfg.SkipVariableContentTrimming {
		name = strings.TrimSpace(name)
	}

	return name
}

// Delimiters returns the configured tags, falling back to
// double-brace defaults.
func (cfg Config) Delimiters() lexer.Delimiters {
	delim := lexer.DefaultDelimiters()

	if cfg.StartTag != "" {
		delim.Start = cfg.StartTag
	}

	if cfg.EndTag != "" {
		delim.End = cfg.EndTag
	}

	return delim
}

// LoadConfig reads a YAML options file.
func LoadConfig(path string) (Config, error) {
	const errCtx = "loading config"

	content, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	var cfg Config

	if err := yaml.UnmarshalWithOptions(
		content, &cfg, yaml.DisallowUnknownField(),
	); err != nil {
		return Config{}, fmt.Errorf(
			"%s: decoding %s: %w", errCtx, path, err,
		)
	}

	return cfg, nil
}
