// Package config loads devkit settings from an optional devkit.yaml,
// DEVKIT_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/zeusync/devkit/internal/core/diff"
	"github.com/zeusync/devkit/internal/core/jsonvalue"
	"github.com/zeusync/devkit/internal/core/markdown"
	"github.com/zeusync/devkit/internal/core/observability/log"
)

const (
	EnvPrefix  = "DEVKIT"
	ConfigName = "devkit"
)

type Config struct {
	Indent   string         `mapstructure:"indent"`
	Log      LogConfig      `mapstructure:"log"`
	Diff     DiffConfig     `mapstructure:"diff"`
	History  HistoryConfig  `mapstructure:"history"`
	Markdown MarkdownConfig `mapstructure:"markdown"`
	Workers  int            `mapstructure:"workers"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type DiffConfig struct {
	TextDiff      bool `mapstructure:"text_diff"`
	TextMinLength int  `mapstructure:"text_min_length"`
}

type HistoryConfig struct {
	MaxDepth int  `mapstructure:"max_depth"`
	Dedup    bool `mapstructure:"dedup"`
}

type MarkdownConfig struct {
	WordsPerMinute int  `mapstructure:"words_per_minute"`
	Mermaid        bool `mapstructure:"mermaid"`
	Sanitize       bool `mapstructure:"sanitize"`
}

// SetDefaults registers every key so environment variables are picked up
// by Unmarshal even when no file sets them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("indent", "2")
	v.SetDefault("workers", 0)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.encoding", "console")

	v.SetDefault("diff.text_diff", false)
	v.SetDefault("diff.text_min_length", diff.DefaultTextDiffMinLength)

	v.SetDefault("history.max_depth", 0)
	v.SetDefault("history.dedup", false)

	v.SetDefault("markdown.words_per_minute", markdown.DefaultWordsPerMinute)
	v.SetDefault("markdown.mermaid", true)
	v.SetDefault("markdown.sanitize", true)
}

// Load reads configuration into v. An explicit path must exist; without
// one, devkit.yaml is looked up in the working directory and the user
// config directory and skipped when absent.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/devkit")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := jsonvalue.ParseIndent(c.Indent); err != nil {
		errs = append(errs, err)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Encoding {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unknown log encoding %q", c.Log.Encoding))
	}
	if c.History.MaxDepth < 0 {
		errs = append(errs, errors.New("history.max_depth must not be negative"))
	}
	if c.Markdown.WordsPerMinute < 0 {
		errs = append(errs, errors.New("markdown.words_per_minute must not be negative"))
	}
	return errors.Join(errs...)
}

func (c *Config) IndentValue() jsonvalue.Indent {
	i, _ := jsonvalue.ParseIndent(c.Indent)
	return i
}

func (c *Config) DiffOptions() []diff.Option {
	if !c.Diff.TextDiff {
		return nil
	}
	return []diff.Option{diff.WithTextDiff(c.Diff.TextMinLength)}
}

func (c *Config) MarkdownConfig(logger log.Log) markdown.Config {
	mc := markdown.DefaultConfig()
	mc.Mermaid = c.Markdown.Mermaid
	mc.Sanitize = c.Markdown.Sanitize
	mc.WordsPerMinute = c.Markdown.WordsPerMinute
	mc.Logger = logger
	return mc
}

func (c *Config) NewLogger() (*log.Logger, error) {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	return log.New(level, log.WithEncoding(c.Log.Encoding)), nil
}
