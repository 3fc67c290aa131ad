package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/andywolf/neovate-desk/internal/paths"
)

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			App:    AppConfig{Identifier: DefaultIdentifier, DataDir: "/tmp/data"},
			Output: OutputConfig{Format: FormatText},
			Log:    LogConfig{Level: "WARNING"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:   "valid yaml output",
			mutate: func(c *Config) { c.Output.Format = FormatYAML },
		},
		{
			name:   "valid lowercase log level",
			mutate: func(c *Config) { c.Log.Level = "debug" },
		},
		{
			name: "valid skills settings",
			mutate: func(c *Config) {
				c.Skills.Mode = "skip"
				c.Skills.Exclude = []string{"draft-*", "{tmp,old}"}
			},
		},
		{
			name:    "identifier with separator",
			mutate:  func(c *Config) { c.App.Identifier = "com/neovate" },
			wantErr: true,
			errMsg:  "invalid app identifier",
		},
		{
			name:    "invalid output format",
			mutate:  func(c *Config) { c.Output.Format = "xml" },
			wantErr: true,
			errMsg:  "invalid output format",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: true,
			errMsg:  "invalid log level",
		},
		{
			name:    "invalid skills mode",
			mutate:  func(c *Config) { c.Skills.Mode = "merge" },
			wantErr: true,
			errMsg:  "invalid skills.mode",
		},
		{
			name:    "invalid exclude pattern",
			mutate:  func(c *Config) { c.Skills.Exclude = []string{"[oops"} },
			wantErr: true,
			errMsg:  "invalid skills.exclude pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.errMsg)
					return
				}
				if tt.errMsg != "" && !containsString(err.Error(), tt.errMsg) {
					t.Errorf("Validate() error = %q, want error containing %q", err.Error(), tt.errMsg)
				}
			} else {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv(paths.HomeEnv, home)

	tests := []struct {
		name           string
		config         Config
		wantIdentifier string
		wantDataDir    string
		wantFormat     string
		wantLevel      string
	}{
		{
			name:           "empty config",
			config:         Config{},
			wantIdentifier: DefaultIdentifier,
			wantDataDir:    paths.AppDataDir(DefaultIdentifier),
			wantFormat:     FormatText,
			wantLevel:      "WARNING",
		},
		{
			name:           "custom identifier drives data dir",
			config:         Config{App: AppConfig{Identifier: "com.example.dev"}},
			wantIdentifier: "com.example.dev",
			wantDataDir:    paths.AppDataDir("com.example.dev"),
			wantFormat:     FormatText,
			wantLevel:      "WARNING",
		},
		{
			name: "explicit data dir with tilde",
			config: Config{
				App:    AppConfig{DataDir: "~/neovate-data"},
				Output: OutputConfig{Format: "JSON"},
				Log:    LogConfig{Level: "info"},
			},
			wantIdentifier: DefaultIdentifier,
			wantDataDir:    filepath.Join(home, "neovate-data"),
			wantFormat:     FormatJSON,
			wantLevel:      "info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config
			applyDefaults(&cfg)
			if cfg.App.Identifier != tt.wantIdentifier {
				t.Errorf("Identifier = %q, want %q", cfg.App.Identifier, tt.wantIdentifier)
			}
			if cfg.App.DataDir != tt.wantDataDir {
				t.Errorf("DataDir = %q, want %q", cfg.App.DataDir, tt.wantDataDir)
			}
			if cfg.Output.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", cfg.Output.Format, tt.wantFormat)
			}
			if cfg.Log.Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", cfg.Log.Level, tt.wantLevel)
			}
		})
	}
}

func TestLoad_FromFileAndEnv(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	dir := t.TempDir()
	settings := filepath.Join(dir, ".neovate-desk.yaml")
	content := `app:
  data_dir: ` + filepath.Join(dir, "data") + `
output:
  format: yaml
skills:
  mode: replace
  exclude:
    - "draft-*"
`
	if err := os.WriteFile(settings, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	viper.SetConfigFile(settings)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error: %v", err)
	}
	viper.Set("verbose", true)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	if cfg.App.DataDir != filepath.Join(dir, "data") {
		t.Errorf("DataDir = %q", cfg.App.DataDir)
	}
	if cfg.Output.Format != FormatYAML {
		t.Errorf("Format = %q, want yaml", cfg.Output.Format)
	}
	if cfg.Skills.Mode != "replace" {
		t.Errorf("Mode = %q, want replace", cfg.Skills.Mode)
	}
	if len(cfg.Skills.Exclude) != 1 || cfg.Skills.Exclude[0] != "draft-*" {
		t.Errorf("Exclude = %v", cfg.Skills.Exclude)
	}
	if cfg.Severity() != "DEBUG" {
		t.Errorf("Severity() = %q, want DEBUG when verbose", cfg.Severity())
	}
	if opts := cfg.SkillsOptions(); len(opts.Exclude) != 1 {
		t.Errorf("SkillsOptions() = %+v", opts)
	}
}

func TestSeverity_FallsBackToWarning(t *testing.T) {
	cfg := &Config{Log: LogConfig{Level: "nonsense"}}
	if got := cfg.Severity(); got != "WARNING" {
		t.Errorf("Severity() = %q, want WARNING", got)
	}
}

func containsString(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		(len(s) > 0 && len(substr) > 0 && findSubstring(s, substr)))
}

func findSubstring(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
