package root

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/goplus/llar-root/formula"
	"github.com/goplus/llar-root/pkgs/buildsys"
	"github.com/goplus/llar-root/pkgs/buildsys/makefile"
)

// Step names one of the external build steps.
type Step string

const (
	StepGenerate Step = "generate"
	StepBuild    Step = "build"
	StepInstall  Step = "install"
)

// BuildError reports which external step failed. The tool's own output
// is the place to look for why.
type BuildError struct {
	Step Step
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("root: %s step failed: %v", e.Step, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Dirs are the directories one build works with.
type Dirs struct {
	Source string // fetched and verified source tree
	Build  string // created if missing
	Prefix string // installation root
}

// Options configures Install.
type Options struct {
	// Runner executes cmake and make. Defaults to buildsys.Exec.
	Runner buildsys.Runner
	// Logger defaults to a null logger.
	Logger hclog.Logger
}

// Install configures, builds and installs spec: it runs cmake with
// ConfigureArgs, then make, then make install, all inside dirs.Build. The
// first failing step aborts the build with a *BuildError; nothing is
// retried or rolled back.
func Install(ctx context.Context, spec formula.Spec, dirs Dirs, stdArgs []string, opts Options) error {
	runner := opts.Runner
	if runner == nil {
		runner = &buildsys.Exec{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.With("spec", spec.String())

	c := configure(spec, dirs.Source, dirs.Build, stdArgs, runner)
	if err := os.MkdirAll(c.BuildDir(), 0o755); err != nil {
		return err
	}
	logger.Info("configuring", "build_dir", c.BuildDir(), "prefix", dirs.Prefix)
	logger.Debug("cmake arguments", "args", c.Args())
	if err := c.Generate(ctx); err != nil {
		return &BuildError{Step: StepGenerate, Err: err}
	}

	m := makefile.New(c.BuildDir(), runner)
	logger.Info("building")
	if err := m.Build(ctx); err != nil {
		return &BuildError{Step: StepBuild, Err: err}
	}
	logger.Info("installing", "prefix", dirs.Prefix)
	if err := m.Install(ctx); err != nil {
		return &BuildError{Step: StepInstall, Err: err}
	}
	logger.Info("installed", "prefix", dirs.Prefix)
	return nil
}
