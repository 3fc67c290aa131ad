package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/andywolf/neovate-desk/internal/commands"
	"github.com/andywolf/neovate-desk/internal/config"
	"github.com/andywolf/neovate-desk/internal/logging"
	"github.com/andywolf/neovate-desk/internal/paths"
	"github.com/andywolf/neovate-desk/internal/version"
)

// ErrSilent signals a failure whose details were already written to stdout.
var ErrSilent = errors.New("command failed")

var settingsFile string

var rootCmd = &cobra.Command{
	Use:   "neovate-desk",
	Short: "neovate-desk - Neovate desktop configuration backend",
	Long: `neovate-desk manages the Neovate configuration at ~/.neovate/config.json.

It reads and safely rewrites the config (with timestamped backups), installs
the built-in plugins into the application data directory, and migrates skill
directories between locations.

Examples:
  neovate-desk config read
  neovate-desk plugin enable notify
  neovate-desk skills migrate ~/old-skills ~/.neovate/skills`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Set version for --version flag
	rootCmd.Version = version.Short()
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "settings file (default is .neovate-desk.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (text, json, yaml)")
	bindFlags()
}

func bindFlags() {
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("output"))
}

func initConfig() {
	if settingsFile != "" {
		viper.SetConfigFile(settingsFile)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error getting working directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(cwd)
		if home, err := paths.ResolveHome(); err == nil {
			viper.AddConfigPath(filepath.Join(home, paths.ConfigDirName))
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".neovate-desk")
	}

	viper.SetEnvPrefix("NEOVATE_DESK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range config.Keys {
		_ = viper.BindEnv(key)
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using settings file:", viper.ConfigFileUsed())
		}
	} else if settingsFile != "" {
		fmt.Fprintln(os.Stderr, "Error reading settings file:", err)
		os.Exit(1)
	}
}

// app bundles what every subcommand needs for one invocation.
type app struct {
	cfg    *config.Config
	svc    *commands.Service
	logger logging.Logger
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	logger := logging.New(
		logging.WithInvocationID(uuid.New().String()),
		logging.WithMinSeverity(cfg.Severity()),
		logging.WithLabels(map[string]string{"version": version.Short()}),
	)
	logger.Debugf("data dir: %s", cfg.App.DataDir)

	svc := commands.NewService(cfg.App.DataDir,
		commands.WithLogger(logger),
		commands.WithSkillsOptions(cfg.SkillsOptions()),
	)
	return &app{cfg: cfg, svc: svc, logger: logger}, nil
}
