package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/andywolf/neovate-desk/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including commit hash and build date.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		format := strings.ToLower(viper.GetString("output.format"))
		return render(cmd.OutOrStdout(), format, version.Resolve(), func(w io.Writer) {
			if verbose {
				fmt.Fprintln(w, version.Full())
			} else {
				fmt.Fprintln(w, version.Info())
			}
		})
	},
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "print verbose version information")
	rootCmd.AddCommand(versionCmd)
}
