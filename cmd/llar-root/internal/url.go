package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/llar-root/formula"
	"github.com/goplus/llar-root/pkgs/root"
)

var urlCmd = &cobra.Command{
	Use:   "url [version]",
	Short: "Print the source archive URL of a version",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runURL,
}

func init() {
	rootCmd.AddCommand(urlCmd)
}

func runURL(cmd *cobra.Command, args []string) error {
	ver := formula.PreferredVersion(root.Versions)
	if len(args) == 1 {
		ver = args[0]
	}
	fmt.Fprintln(cmd.OutOrStdout(), root.URLForVersion(ver))
	return nil
}
