// Package makefile runs make in a generated build tree.
package makefile

import (
	"context"

	"github.com/goplus/llar-root/pkgs/buildsys"
)

// Make drives make in a build directory.
type Make struct {
	dir    string
	runner buildsys.Runner
}

// New returns a Make that runs in dir.
func New(dir string, runner buildsys.Runner) *Make {
	return &Make{dir: dir, runner: runner}
}

// Build runs make with the given targets; no targets builds the default
// one.
func (m *Make) Build(ctx context.Context, targets ...string) error {
	return m.runner.Run(ctx, m.dir, "make", targets...)
}

// Install runs "make install".
func (m *Make) Install(ctx context.Context) error {
	return m.Build(ctx, "install")
}
