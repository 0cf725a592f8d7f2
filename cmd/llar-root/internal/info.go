package internal

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goplus/llar-root/formula"
	"github.com/goplus/llar-root/pkgs/root"
)

var infoCmd = &cobra.Command{
	Use:   "info [spec]",
	Short: "Describe versions, variants, dependencies and patches",
	Long:  `Info lists the declared versions and variants and, for the given spec (default: the newest version with default variants), the dependencies and patches that apply.`,
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	spec, err := root.ParseSpec(specArg(args))
	if err != nil {
		return err
	}
	printInfo(cmd.OutOrStdout(), spec)
	return nil
}

func printInfo(out io.Writer, spec formula.Spec) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Package:\t%s\n", root.Name)
	fmt.Fprintf(w, "Homepage:\t%s\n", root.Homepage)
	fmt.Fprintf(w, "Spec:\t%s\n\n", spec)

	preferred := formula.PreferredVersion(root.Versions)
	fmt.Fprintln(w, "Versions:")
	for _, v := range formula.SortedVersions(root.Versions) {
		mark := ""
		if v.Version == preferred {
			mark = " (preferred)"
		}
		fmt.Fprintf(w, "  %s\t%s%s\n", v.Version, v.Checksum, mark)
	}

	fmt.Fprintln(w, "\nVariants:")
	for _, v := range root.Variants {
		fmt.Fprintf(w, "  %s\t[default=%t]\t%s\n", v.Variant, v.Default, v.Description)
	}

	fmt.Fprintln(w, "\nDependencies:")
	for _, d := range formula.ActiveDependencies(root.Dependencies, spec) {
		fmt.Fprintf(w, "  %s\t(%s)\n", d.Name, d.Type)
	}

	fmt.Fprintln(w, "\nPatches:")
	for _, p := range formula.ActivePatches(root.Patches, spec) {
		fmt.Fprintf(w, "  %s\n", p)
	}
}
