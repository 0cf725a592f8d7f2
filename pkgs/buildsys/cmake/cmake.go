// Package cmake assembles CMake command lines and runs the configure step.
package cmake

import (
	"context"
	"slices"
	"strings"

	"github.com/goplus/llar-root/pkgs/buildsys"
)

// CMake accumulates the arguments of one "cmake" invocation. Arguments keep
// the order they were added in: CMake lets a later -D override an earlier
// one, so the order is part of the result.
type CMake struct {
	buildDir string
	args     []string
	runner   buildsys.Runner
}

// New returns a CMake whose argument list starts with sourceDir and which
// configures into buildDir.
func New(sourceDir, buildDir string, runner buildsys.Runner) *CMake {
	return &CMake{
		buildDir: buildDir,
		args:     []string{sourceDir},
		runner:   runner,
	}
}

// BuildType adds -DCMAKE_BUILD_TYPE:STRING=<name>.
func (c *CMake) BuildType(name string) *CMake {
	return c.DefineTyped("CMAKE_BUILD_TYPE", "STRING", name)
}

// Define adds a -D<key>=<value> definition.
func (c *CMake) Define(key, value string) *CMake {
	c.args = append(c.args, "-D"+key+"="+value)
	return c
}

// DefineTyped adds a -D<key>:<type>=<value> definition.
func (c *CMake) DefineTyped(key, typeName, value string) *CMake {
	c.args = append(c.args, "-D"+key+":"+typeName+"="+value)
	return c
}

// Switch adds -D<key>=on or -D<key>=off.
func (c *CMake) Switch(key string, on bool) *CMake {
	if on {
		return c.Define(key, "on")
	}
	return c.Define(key, "off")
}

// Append adds raw arguments verbatim.
func (c *CMake) Append(args ...string) *CMake {
	c.args = append(c.args, args...)
	return c
}

// Args returns a copy of the accumulated arguments.
func (c *CMake) Args() []string {
	return slices.Clone(c.args)
}

// BuildDir returns the directory cmake is run in.
func (c *CMake) BuildDir() string {
	return c.buildDir
}

// Generate runs cmake with the accumulated arguments inside the build
// directory, which must exist.
func (c *CMake) Generate(ctx context.Context) error {
	return c.runner.Run(ctx, c.buildDir, "cmake", c.args...)
}

// -----------------------------------------------------------------------------

// StdOptions tunes the standard arguments.
type StdOptions struct {
	// BuildType sets CMAKE_BUILD_TYPE; empty leaves it to the package.
	BuildType string
	// Darwin adds the macOS framework lookup policy.
	Darwin bool
	// PrefixPath lists installation roots of dependencies.
	PrefixPath []string
}

// StdArgs returns the standard arguments a host passes to every CMake
// package installing into prefix.
func StdArgs(prefix string, opts StdOptions) []string {
	args := []string{"-DCMAKE_INSTALL_PREFIX:PATH=" + prefix}
	if opts.BuildType != "" {
		args = append(args, "-DCMAKE_BUILD_TYPE:STRING="+opts.BuildType)
	}
	args = append(args, "-DCMAKE_VERBOSE_MAKEFILE:BOOL=ON")
	if opts.Darwin {
		args = append(args, "-DCMAKE_FIND_FRAMEWORK:STRING=LAST")
	}
	args = append(args,
		"-DCMAKE_INSTALL_RPATH_USE_LINK_PATH:BOOL=FALSE",
		"-DCMAKE_INSTALL_RPATH:STRING="+prefix+"/lib;"+prefix+"/lib64",
	)
	if len(opts.PrefixPath) > 0 {
		args = append(args, "-DCMAKE_PREFIX_PATH:STRING="+strings.Join(opts.PrefixPath, ";"))
	}
	return args
}
