// Package buildsystest provides a recording buildsys.Runner for tests.
package buildsystest

import (
	"context"
	"slices"
	"strings"

	"github.com/goplus/llar-root/pkgs/buildsys"
)

// Call is one recorded tool invocation.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// String formats c as "name arg1 arg2".
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner records every invocation. Fail maps a tool invocation, formatted
// as Call.String, to the error it returns.
type Runner struct {
	Calls []Call
	Fail  map[string]error
}

var _ buildsys.Runner = (*Runner)(nil)

// Run implements buildsys.Runner.
func (r *Runner) Run(ctx context.Context, dir, name string, args ...string) error {
	c := Call{Dir: dir, Name: name, Args: slices.Clone(args)}
	r.Calls = append(r.Calls, c)
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.Fail[c.String()]
}
