package root

import (
	"path/filepath"

	"github.com/goplus/llar-root/pkgs/env"
)

// VersionTag is published to dependents as ROOT_VERSION.
const VersionTag = "v6"

// DependentEnv returns the environment a package building against the
// ROOT installed at prefix sees: ROOTSYS, ROOT_VERSION, and prefix/lib in
// front of PYTHONPATH for the PyROOT bindings.
func DependentEnv(prefix string) *env.Env {
	e := &env.Env{}
	e.Set("ROOTSYS", prefix)
	e.Set("ROOT_VERSION", VersionTag)
	e.PrependPath("PYTHONPATH", filepath.Join(prefix, "lib"))
	return e
}
