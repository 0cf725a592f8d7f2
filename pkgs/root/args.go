package root

import (
	"github.com/goplus/llar-root/formula"
	"github.com/goplus/llar-root/pkgs/buildsys"
	"github.com/goplus/llar-root/pkgs/buildsys/cmake"
)

// standard is the C++ language regime a release line builds with.
type standard int

const (
	cxx98 standard = iota
	cxx14
)

// standardFor maps a major version to its language regime. A new major
// line with different requirements gets its own case here.
func standardFor(major int) standard {
	switch major {
	case 5:
		return cxx98
	default:
		return cxx14
	}
}

// ConfigureArgs returns the cmake argument list for spec, starting with
// sourceDir. stdArgs are the host's standard arguments and are inserted
// verbatim before the platform-specific tail.
func ConfigureArgs(spec formula.Spec, sourceDir string, stdArgs []string) []string {
	return configure(spec, sourceDir, "", stdArgs, nil).Args()
}

func configure(spec formula.Spec, sourceDir, buildDir string, stdArgs []string, runner buildsys.Runner) *cmake.CMake {
	c := cmake.New(sourceDir, buildDir, runner)

	if spec.Has(Debug) {
		c.BuildType("Debug")
	} else {
		c.BuildType("Release")
	}

	switch standardFor(spec.Major()) {
	case cxx98:
		c.Define("CMAKE_CXX_STANDARD", "98")
		c.Switch("cxx14", false)
	case cxx14:
		c.Switch("cxx14", true)
	}

	c.Switch("cocoa", false)
	c.Switch("bonjour", false)
	c.Switch("x11", true)

	c.Switch("gdml", spec.Has(GDML))
	c.Switch("pythia8", spec.Has(Pythia8))

	c.Append(stdArgs...)

	if spec.Platform() == formula.Darwin {
		c.Define("castor", "OFF")
		c.Define("rfio", "OFF")
		c.Define("dcache", "OFF")
	}
	return c
}
