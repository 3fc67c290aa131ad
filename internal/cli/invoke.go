package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andywolf/neovate-desk/internal/commands"
)

var invokeCmd = &cobra.Command{
	Use:   "invoke COMMAND [ARGS_JSON|-]",
	Short: "Run one command with JSON arguments and print a JSON envelope",
	Long: fmt.Sprintf(`Run one command the way the desktop shell does: a command name plus a JSON
object of camelCase arguments. The result is always printed as
{"ok":true,"data":...} or {"ok":false,"error":"..."} and the exit status
is non-zero on failure.

Commands: %s

Examples:
  neovate-desk invoke read_config
  neovate-desk invoke install_builtin_plugin '{"id":"notify"}'
  neovate-desk invoke apply_skills_migration '{"sourcePath":"~/a","targetPath":"~/b","mode":"skip"}'`,
		strings.Join(commands.CommandNames(), ", ")),
	Args: cobra.RangeArgs(1, 2),
	RunE: invoke,
}

func init() {
	rootCmd.AddCommand(invokeCmd)
}

func invoke(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	a, err := newApp()
	if err != nil {
		_ = writeJSONLine(out, commands.Response{Error: err.Error()})
		return ErrSilent
	}

	argsJSON := ""
	switch {
	case len(args) == 2 && args[1] == "-":
		argsJSON, err = readInput(cmd.InOrStdin(), "-")
		if err != nil {
			_ = writeJSONLine(out, commands.Response{Error: err.Error()})
			return ErrSilent
		}
	case len(args) == 2:
		argsJSON = args[1]
	}

	resp := a.svc.Invoke(args[0], argsJSON)
	if err := writeJSONLine(out, resp); err != nil {
		return err
	}
	if !resp.OK {
		return ErrSilent
	}
	return nil
}
