// Package config provides configuration types, defaults, and persistence for bpgroup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/zjrosen/bpgroup/internal/flags"
	"github.com/zjrosen/bpgroup/internal/jsx"
	"github.com/zjrosen/bpgroup/internal/log"
	"github.com/zjrosen/bpgroup/internal/pipeline"
	"github.com/zjrosen/bpgroup/internal/templates"
	"github.com/zjrosen/bpgroup/internal/tracing"
)

// LocalConfigPath is the project-level config file, relative to the
// working directory.
const LocalConfigPath = ".bpgroup/config.yaml"

// Config holds all bpgroup settings.
type Config struct {
	// Attribute is the JSX attribute to rewrite.
	Attribute string `mapstructure:"attribute"`

	// JoinFunction is the identifier of the emitted call.
	JoinFunction string `mapstructure:"join_function"`

	// MergeLibrary is the module the join function is imported from.
	MergeLibrary string `mapstructure:"merge_library"`

	// Language is "auto", "tsx", "jsx" or "ts".
	Language string `mapstructure:"language"`

	// Indent is the number of spaces before each call argument.
	Indent int `mapstructure:"indent"`

	// WatchDebounce delays re-runs in watch mode.
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`

	Flags   map[string]bool `mapstructure:"flags"`
	Tracing tracing.Config  `mapstructure:"tracing"`
}

var (
	identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	attributeRe  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_:.-]*$`)
)

// Defaults returns a Config with default values.
func Defaults() Config {
	tc := tracing.DefaultConfig()
	tc.FilePath = DefaultTracesFilePath()
	return Config{
		Attribute:     pipeline.DefaultAttribute,
		JoinFunction:  pipeline.DefaultJoinFunction,
		MergeLibrary:  pipeline.DefaultMergeLibrary,
		Language:      string(jsx.LangAuto),
		Indent:        2,
		WatchDebounce: 100 * time.Millisecond,
		Flags:         map[string]bool{flags.FlagLiteralOnly: false},
		Tracing:       tc,
	}
}

// DefaultConfigPath returns ~/.config/bpgroup/config.yaml, or "" when
// the home directory is unknown.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "bpgroup", "config.yaml")
}

// DefaultTracesFilePath returns ~/.config/bpgroup/traces/traces.jsonl, or
// "" when the home directory is unknown.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "bpgroup", "traces", "traces.jsonl")
}

// Validate checks every field and returns the first problem found.
func (c Config) Validate() error {
	if !attributeRe.MatchString(c.Attribute) {
		return fmt.Errorf("attribute: invalid JSX attribute name %q", c.Attribute)
	}
	if !identifierRe.MatchString(c.JoinFunction) {
		return fmt.Errorf("join_function: %q is not a JavaScript identifier", c.JoinFunction)
	}
	if c.MergeLibrary == "" || strings.ContainsAny(c.MergeLibrary, "\"\\\n") {
		return fmt.Errorf("merge_library: invalid module specifier %q", c.MergeLibrary)
	}
	if _, err := jsx.ParseLanguage(c.Language); err != nil {
		return fmt.Errorf("language: %w", err)
	}
	if c.Indent < 1 || c.Indent > 8 {
		return fmt.Errorf("indent: must be between 1 and 8, got %d", c.Indent)
	}
	if c.WatchDebounce < 0 {
		return fmt.Errorf("watch_debounce: must not be negative, got %s", c.WatchDebounce)
	}
	if err := c.Tracing.Validate(); err != nil {
		return err
	}
	return nil
}

// PipelineOptions converts the config into run options. The tracer is
// left for the caller to set.
func (c Config) PipelineOptions() (pipeline.Options, error) {
	lang, err := jsx.ParseLanguage(c.Language)
	if err != nil {
		return pipeline.Options{}, err
	}
	reg := flags.New(c.Flags)
	return pipeline.Options{
		Attribute:    c.Attribute,
		JoinFunction: c.JoinFunction,
		MergeLibrary: c.MergeLibrary,
		Language:     lang,
		Indent:       strings.Repeat(" ", c.Indent),
		LiteralOnly:  reg.Enabled(flags.FlagLiteralOnly),
	}, nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return templates.ConfigTemplate()
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. An existing file is left untouched.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "writing default config", "path", configPath)

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file %s already exists", configPath)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "created default config", "path", configPath)
	return nil
}
