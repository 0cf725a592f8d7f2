package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/goplus/llar-root/formula"
	"github.com/goplus/llar-root/internal/config"
	"github.com/goplus/llar-root/internal/env"
	"github.com/goplus/llar-root/internal/receipt"
	"github.com/goplus/llar-root/internal/stage"
	"github.com/goplus/llar-root/mod/module"
	"github.com/goplus/llar-root/pkgs/buildsys"
	"github.com/goplus/llar-root/pkgs/buildsys/cmake"
	"github.com/goplus/llar-root/pkgs/root"
)

var (
	installPrefix    string
	installSource    string
	installKeepStage bool
)

var installCmd = &cobra.Command{
	Use:   "install [spec]",
	Short: "Build ROOT and install it into a prefix",
	Long: `Install fetches the ROOT sources for the requested spec, verifies them,
configures them with cmake, builds them with make and installs them into --prefix.

A spec looks like "root@6.06.04 +gdml ~debug platform=linux". Variants that are
not mentioned take their defaults; a missing version selects the newest release.`,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installPrefix, "prefix", "", "Installation prefix (required)")
	installCmd.Flags().StringVar(&installSource, "source", "", "Use an existing source tree instead of downloading one")
	installCmd.Flags().BoolVar(&installKeepStage, "keep-stage", false, "Keep the stage directory after a successful install")
	_ = installCmd.MarkFlagRequired("prefix")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	spec, err := root.ParseSpec(specArg(args))
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	prefix, err := filepath.Abs(installPrefix)
	if err != nil {
		return errors.Wrap(err, "resolving prefix")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := &buildsys.Exec{Paths: cfg.Tools, Env: cfg.ToolEnv()}
	if !verbose {
		runner.Stdout = io.Discard
		runner.Stderr = io.Discard
	}

	stageRoot, err := env.StageDir(cfg.WorkDir)
	if err != nil {
		return errors.Wrap(err, "creating stage root")
	}
	st, err := stage.New(stageRoot, module.Version{Path: root.Name, Version: spec.Version()}, stage.Key(spec.String()), logger)
	if err != nil {
		return err
	}
	if err := st.Lock(ctx); err != nil {
		return err
	}
	defer st.Unlock()

	sourceDir, origin, err := prepareSource(ctx, st, spec, cfg)
	if err != nil {
		return err
	}

	stdArgs := cmake.StdArgs(prefix, cmake.StdOptions{
		BuildType:  cfg.BuildType,
		Darwin:     spec.Platform() == formula.Darwin,
		PrefixPath: cfg.PrefixPath,
	})
	dirs := root.Dirs{Source: sourceDir, Build: st.BuildDir(), Prefix: prefix}
	err = root.Install(ctx, spec, dirs, stdArgs, root.Options{Runner: runner, Logger: logger})
	if err != nil {
		var be *root.BuildError
		if errors.As(err, &be) && !verbose {
			return fmt.Errorf("%w (rerun with -v to see the %s output)", err, be.Step)
		}
		return err
	}

	var variants []string
	for _, v := range spec.Enabled() {
		variants = append(variants, string(v))
	}
	if err := receipt.Write(prefix, &receipt.Receipt{
		Spec:        spec.String(),
		Version:     spec.Version(),
		Platform:    string(spec.Platform()),
		Variants:    variants,
		Args:        root.ConfigureArgs(spec, sourceDir, stdArgs),
		Source:      origin,
		InstallTime: time.Now(),
	}); err != nil {
		return err
	}

	if !installKeepStage && !cfg.KeepStage && installSource == "" {
		if err := st.Destroy(); err != nil {
			logger.Warn("failed to remove stage", "dir", st.Dir(), "error", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "installed %s to %s\n", spec, prefix)
	return nil
}

// prepareSource returns the source tree to build and where it came from.
func prepareSource(ctx context.Context, st *stage.Stage, spec formula.Spec, cfg *config.Config) (dir, origin string, err error) {
	if installSource != "" {
		dir, err = filepath.Abs(installSource)
		if err != nil {
			return "", "", err
		}
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			return "", "", errors.Errorf("source %s is not a directory", installSource)
		}
		return dir, dir, nil
	}

	checksum, ok := formula.ChecksumOf(root.Versions, spec.Version())
	if !ok {
		return "", "", errors.Errorf("version %s has no declared checksum; pass --source to build it from a local tree", spec.Version())
	}
	url := root.URLForVersion(spec.Version())
	if err := st.Fetch(ctx, url, checksum); err != nil {
		return "", "", err
	}
	dir, err = st.SourceDir()
	if err != nil {
		return "", "", err
	}

	if patches := formula.ActivePatches(root.Patches, spec); len(patches) > 0 {
		if cfg.PatchDir == "" {
			return "", "", errors.Errorf("%s needs patches %s but no patch_dir is configured", spec, strings.Join(patches, ", "))
		}
		runner := &buildsys.Exec{Paths: cfg.Tools}
		if err := st.ApplyPatches(ctx, runner, dir, cfg.PatchDir, patches); err != nil {
			return "", "", err
		}
	}
	return dir, url, nil
}

func specArg(args []string) string {
	s := strings.Join(args, " ")
	if strings.TrimSpace(s) == "" {
		return root.Name
	}
	return s
}
