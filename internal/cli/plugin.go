package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andywolf/neovate-desk/internal/commands"
	"github.com/andywolf/neovate-desk/internal/plugins"
)

var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Manage built-in plugins",
	Long: fmt.Sprintf(`Manage the plugins bundled with neovate-desk.

Built-in plugins are installed into <app-data>/plugins/ and referenced from
the "plugins" array of the Neovate config.

Available plugins: %s`, strings.Join(plugins.IDs(), ", ")),
}

var pluginInstallCmd = &cobra.Command{
	Use:   "install ID",
	Short: "Install a built-in plugin without touching the config",
	Long: `Install a built-in plugin script.

An existing file at the destination is left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: pluginInstall,
}

var pluginListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in plugins and their install state",
	Args:  cobra.NoArgs,
	RunE:  pluginList,
}

var pluginEnableCmd = &cobra.Command{
	Use:   "enable ID",
	Short: "Install a built-in plugin and add it to the config",
	Args:  cobra.ExactArgs(1),
	RunE:  pluginEnable,
}

var pluginDisableCmd = &cobra.Command{
	Use:   "disable ID",
	Short: "Remove a built-in plugin from the config",
	Long: `Remove every config entry that refers to a built-in plugin.

The installed script stays on disk.`,
	Args: cobra.ExactArgs(1),
	RunE: pluginDisable,
}

func init() {
	rootCmd.AddCommand(pluginCmd)
	pluginCmd.AddCommand(pluginInstallCmd, pluginListCmd, pluginEnableCmd, pluginDisableCmd)
}

func pluginInstall(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	res, err := a.svc.InstallBuiltinPlugin(args[0])
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), a.cfg.Output.Format, res, func(w io.Writer) {
		if res.Wrote {
			fmt.Fprintf(w, "%s %s to %s\n", okStyle.Render("Installed"), res.ID, res.Path)
		} else {
			fmt.Fprintf(w, "%s already present at %s\n", res.ID, res.Path)
		}
	})
}

func pluginList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	list, err := a.svc.ListBuiltinPlugins()
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), a.cfg.Output.Format, list, func(w io.Writer) {
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-12s %-14s %-8s %s", "PLUGIN", "STATE", "ENABLED", "PATH")))
		for _, p := range list {
			state := "not installed"
			if p.Installed {
				state = "installed"
			}
			enabled := "no"
			if p.Enabled {
				enabled = okStyle.Render("yes")
			}
			fmt.Fprintf(w, "%-12s %-14s %-8s %s\n", p.ID, state, enabled, p.Path)
		}
	})
}

func pluginEnable(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	res, err := a.svc.EnableBuiltinPlugin(args[0])
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), a.cfg.Output.Format, res, func(w io.Writer) {
		printToggle(w, res, "enabled")
	})
}

func pluginDisable(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	res, err := a.svc.DisableBuiltinPlugin(args[0])
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), a.cfg.Output.Format, res, func(w io.Writer) {
		printToggle(w, res, "disabled")
	})
}

func printToggle(w io.Writer, res *commands.ToggleResult, verb string) {
	if res.Wrote {
		fmt.Fprintf(w, "Installed %s to %s\n", res.ID, res.Path)
	}
	if !res.Changed {
		fmt.Fprintf(w, "%s is already %s\n", res.ID, verb)
		return
	}
	fmt.Fprintf(w, "%s %s\n", okStyle.Render(strings.ToUpper(verb[:1])+verb[1:]), res.ID)
	if res.BackupPath != nil {
		fmt.Fprintf(w, "Backup: %s\n", *res.BackupPath)
	}
}
