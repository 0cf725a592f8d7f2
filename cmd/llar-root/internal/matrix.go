package internal

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goplus/llar-root/formula"
	"github.com/goplus/llar-root/pkgs/buildsys/cmake"
	"github.com/goplus/llar-root/pkgs/root"
)

var matrixPlatforms []string

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Print the cmake arguments of every declared spec",
	Long:  `Matrix prints one line per combination of declared version, variant selection and platform, followed by its cmake arguments.`,
	Args:  cobra.NoArgs,
	RunE:  runMatrix,
}

func init() {
	matrixCmd.Flags().StringSliceVar(&matrixPlatforms, "platform", []string{string(formula.Linux), string(formula.Darwin)}, "Platforms to include")
	rootCmd.AddCommand(matrixCmd)
}

func runMatrix(cmd *cobra.Command, args []string) error {
	var platforms []formula.Platform
	for _, p := range matrixPlatforms {
		platforms = append(platforms, formula.Platform(p))
	}
	m := root.Matrix(platforms...)
	for _, spec := range m.Specs() {
		stdArgs := cmake.StdArgs("<prefix>", cmake.StdOptions{Darwin: spec.Platform() == formula.Darwin})
		args := root.ConfigureArgs(spec, "<source>", stdArgs)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", spec, strings.Join(args[1:], " "))
	}
	return nil
}
