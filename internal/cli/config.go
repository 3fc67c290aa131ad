package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/andywolf/neovate-desk/internal/configstore"
	"github.com/andywolf/neovate-desk/internal/redact"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write the Neovate config",
	Long: `Read and write ~/.neovate/config.json.

Writes are validated as JSON before anything touches disk. An existing
config is first copied to config.json.bak-<unix-seconds>.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE:  configPath,
}

var configReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Print the config content",
	Long: `Print the config content.

When no config exists yet an empty object placeholder is printed.
With --redact, API keys, tokens and passwords are masked.`,
	Args: cobra.NoArgs,
	RunE: configRead,
}

var configWriteCmd = &cobra.Command{
	Use:   "write [FILE|-]",
	Short: "Replace the config with new JSON content",
	Long: `Replace the config with new JSON content read from FILE, or from
stdin when FILE is "-" or omitted.

Examples:
  neovate-desk config write new-config.json
  echo '{"model":"x"}' | neovate-desk config write`,
	Args: cobra.MaximumNArgs(1),
	RunE: configWrite,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configReadCmd, configWriteCmd)

	configReadCmd.Flags().Bool("redact", false, "mask credentials in the printed content")
}

func configPath(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	path, err := a.svc.GetConfigPath()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	return render(out, a.cfg.Output.Format, map[string]string{"path": path}, func(w io.Writer) {
		fmt.Fprintln(w, path)
	})
}

func configRead(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	res, err := a.svc.ReadConfig()
	if err != nil {
		return err
	}
	if masked, _ := cmd.Flags().GetBool("redact"); masked {
		res.Content = redact.JSON(res.Content)
	}
	return render(cmd.OutOrStdout(), a.cfg.Output.Format, res, func(w io.Writer) {
		if !res.Exists {
			a.logger.Infof("no config at %s yet", res.Path)
		}
		fmt.Fprint(w, res.Content)
	})
}

func configWrite(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	source := "-"
	if len(args) == 1 {
		source = args[0]
	}
	content, err := readInput(cmd.InOrStdin(), source)
	if err != nil {
		return err
	}

	res, err := a.svc.WriteConfig(content)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), a.cfg.Output.Format, res, func(w io.Writer) {
		printWriteResult(w, res)
	})
}

func printWriteResult(w io.Writer, res *configstore.WriteResult) {
	fmt.Fprintf(w, "%s %s\n", okStyle.Render("Saved"), res.Path)
	if res.BackupPath != nil {
		fmt.Fprintf(w, "Backup: %s\n", *res.BackupPath)
	}
}

// readInput reads all of stdin for "-", otherwise the named file.
func readInput(stdin io.Reader, source string) (string, error) {
	if source == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", source, err)
	}
	return string(data), nil
}
