package internal

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/goplus/llar-root/internal/receipt"
	"github.com/goplus/llar-root/pkgs/root"
)

var envPrefix string

var envCmd = &cobra.Command{
	Use:   "env --prefix DIR [-- command [args...]]",
	Short: "Print the environment for packages depending on an installed ROOT",
	Long: `Env prints shell export statements setting ROOTSYS and ROOT_VERSION and prepending the ROOT library directory to PYTHONPATH.

Given a command after "--", env runs it in that environment instead.`,
	RunE: runEnv,
}

func init() {
	envCmd.Flags().StringVar(&envPrefix, "prefix", "", "Installation prefix of ROOT (required)")
	_ = envCmd.MarkFlagRequired("prefix")
	rootCmd.AddCommand(envCmd)
}

func runEnv(cmd *cobra.Command, args []string) error {
	prefix, err := filepath.Abs(envPrefix)
	if err != nil {
		return err
	}
	if _, err := receipt.Read(prefix); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		newLogger().Warn("no llar-root install found in prefix", "prefix", prefix)
	}
	e := root.DependentEnv(prefix)
	if len(args) == 0 {
		fmt.Fprint(cmd.OutOrStdout(), e.Shell())
		return nil
	}

	c := exec.CommandContext(cmd.Context(), args[0], args[1:]...)
	c.Env = e.Apply(os.Environ())
	c.Stdin = cmd.InOrStdin()
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	if err := c.Run(); err != nil {
		return errors.Wrapf(err, "running %s", args[0])
	}
	return nil
}
