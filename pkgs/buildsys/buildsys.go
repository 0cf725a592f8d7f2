// Package buildsys runs the external tools (cmake, make, patch) that build
// helpers delegate to.
package buildsys

import (
	"context"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// Runner executes an external tool in a working directory and reports
// whether it succeeded. Output is not interpreted.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// Exec is a Runner backed by os/exec.
type Exec struct {
	// Paths maps a tool name to the executable to run instead, e.g.
	// "cmake" -> "/opt/cmake/bin/cmake".
	Paths map[string]string

	// Env overrides entries of the process environment for every tool.
	Env map[string]string

	Stdout io.Writer
	Stderr io.Writer
}

var _ Runner = (*Exec)(nil)

// Run implements Runner.
func (e *Exec) Run(ctx context.Context, dir, name string, args ...string) error {
	bin := name
	if p, ok := e.Paths[name]; ok && p != "" {
		bin = p
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if len(e.Env) > 0 {
		cmd.Env = MergeEnv(os.Environ(), e.Env)
	}
	return cmd.Run()
}

// MergeEnv overlays override onto a KEY=VALUE environ and returns the
// result sorted by key.
func MergeEnv(base []string, override map[string]string) []string {
	envMap := make(map[string]string, len(base)+len(override))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range override {
		envMap[k] = v
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}
