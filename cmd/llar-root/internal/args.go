package internal

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goplus/llar-root/formula"
	"github.com/goplus/llar-root/pkgs/buildsys/cmake"
	"github.com/goplus/llar-root/pkgs/root"
)

var (
	argsPrefix    string
	argsSource    string
	argsBuildType string
)

var argsCmd = &cobra.Command{
	Use:   "args [spec]",
	Short: "Print the cmake arguments of a spec",
	Long:  `Args prints, one per line, the arguments install would pass to cmake for the spec, without building anything.`,
	RunE:  runArgs,
}

func init() {
	argsCmd.Flags().StringVar(&argsPrefix, "prefix", "/usr/local", "Installation prefix")
	argsCmd.Flags().StringVar(&argsSource, "source", "<source>", "Source directory")
	argsCmd.Flags().StringVar(&argsBuildType, "build-type", "", "CMAKE_BUILD_TYPE in the standard arguments")
	rootCmd.AddCommand(argsCmd)
}

func runArgs(cmd *cobra.Command, args []string) error {
	spec, err := root.ParseSpec(specArg(args))
	if err != nil {
		return err
	}
	prefix, err := filepath.Abs(argsPrefix)
	if err != nil {
		return err
	}
	stdArgs := cmake.StdArgs(prefix, cmake.StdOptions{
		BuildType: argsBuildType,
		Darwin:    spec.Platform() == formula.Darwin,
	})
	for _, a := range root.ConfigureArgs(spec, argsSource, stdArgs) {
		fmt.Fprintln(cmd.OutOrStdout(), a)
	}
	return nil
}
