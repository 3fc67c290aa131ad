// Package config holds neovate-desk's own settings. These tune the tool
// (data directory, output format, log level, migration defaults) and never
// change where the Neovate config document lives.
package config

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"

	"github.com/andywolf/neovate-desk/internal/logging"
	"github.com/andywolf/neovate-desk/internal/paths"
	"github.com/andywolf/neovate-desk/internal/skills"
)

// DefaultIdentifier is the desktop application's bundle identifier. The
// app-local data directory is named after it.
const DefaultIdentifier = "com.neovate.desktop"

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Keys lists every settings key so environment overrides are visible to
// Unmarshal even when no settings file mentions them.
var Keys = []string{
	"app.identifier",
	"app.data_dir",
	"output.format",
	"log.level",
	"skills.exclude",
	"skills.mode",
}

// Config represents the full neovate-desk settings
type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Output OutputConfig `mapstructure:"output"`
	Log    LogConfig    `mapstructure:"log"`
	Skills SkillsConfig `mapstructure:"skills"`
}

// AppConfig locates the application-local data directory
type AppConfig struct {
	Identifier string `mapstructure:"identifier"`
	DataDir    string `mapstructure:"data_dir"`
}

// OutputConfig controls how command results are rendered
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LogConfig controls structured log output on stderr
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SkillsConfig tunes skills migration
type SkillsConfig struct {
	Exclude []string `mapstructure:"exclude"`
	Mode    string   `mapstructure:"mode"` // default conflict mode for `skills migrate`
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	cfg := &Config{}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(cfg)

	if viper.GetBool("verbose") {
		cfg.Log.Level = string(logging.SeverityDebug)
	}

	return cfg, nil
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.App.Identifier == "" {
		cfg.App.Identifier = DefaultIdentifier
	}

	if cfg.App.DataDir == "" {
		cfg.App.DataDir = paths.AppDataDir(cfg.App.Identifier)
	} else if expanded, err := paths.ExpandTilde(cfg.App.DataDir); err == nil {
		cfg.App.DataDir = expanded
	}

	if cfg.Output.Format == "" {
		cfg.Output.Format = FormatText
	}
	cfg.Output.Format = strings.ToLower(cfg.Output.Format)

	if cfg.Log.Level == "" {
		cfg.Log.Level = string(logging.SeverityWarning)
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.ContainsAny(c.App.Identifier, `/\`) {
		return fmt.Errorf("invalid app identifier: %s (must not contain path separators)", c.App.Identifier)
	}

	validFormats := map[string]bool{FormatText: true, FormatJSON: true, FormatYAML: true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output format: %s (must be text, json, or yaml)", c.Output.Format)
	}

	if _, err := logging.ParseSeverity(c.Log.Level); err != nil {
		return err
	}

	if c.Skills.Mode != "" {
		if _, err := skills.ParseMode(c.Skills.Mode); err != nil {
			return fmt.Errorf("invalid skills.mode: %w", err)
		}
	}

	for _, pattern := range c.Skills.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid skills.exclude pattern: %s", pattern)
		}
	}

	return nil
}

// Severity returns the configured minimum log severity.
func (c *Config) Severity() logging.Severity {
	sev, err := logging.ParseSeverity(c.Log.Level)
	if err != nil {
		return logging.SeverityWarning
	}
	return sev
}

// SkillsOptions returns the migrator options derived from the settings.
func (c *Config) SkillsOptions() skills.Options {
	return skills.Options{Exclude: c.Skills.Exclude}
}
