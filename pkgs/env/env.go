// Package env records environment changes a package publishes to its
// dependents and applies them to an environ.
package env

import (
	"os"
	"strings"
)

type op uint8

const (
	opSet op = iota
	opPrependPath
)

type modification struct {
	op    op
	key   string
	value string
}

// Env is an ordered list of environment modifications.
type Env struct {
	mods []modification
}

// Set records key=value, replacing any earlier value.
func (e *Env) Set(key, value string) {
	e.mods = append(e.mods, modification{op: opSet, key: key, value: value})
}

// PrependPath records that path is placed first in the search-path
// variable key. Existing entries are kept after it in their original order.
func (e *Env) PrependPath(key, path string) {
	e.mods = append(e.mods, modification{op: opPrependPath, key: key, value: path})
}

// Apply returns environ with the modifications applied. Variables already
// present keep their position; new variables are appended in first-touched order.
// environ itself is not modified.
func (e *Env) Apply(environ []string) []string {
	out := make([]string, 0, len(environ)+len(e.mods))
	index := make(map[string]int, len(environ))
	for _, kv := range environ {
		k, _, _ := strings.Cut(kv, "=")
		if i, ok := index[k]; ok {
			out[i] = kv
			continue
		}
		index[k] = len(out)
		out = append(out, kv)
	}

	for _, m := range e.mods {
		cur := ""
		i, ok := index[m.key]
		if ok {
			_, cur, _ = strings.Cut(out[i], "=")
		}
		kv := m.key + "=" + m.apply(cur)
		if ok {
			out[i] = kv
			continue
		}
		index[m.key] = len(out)
		out = append(out, kv)
	}
	return out
}

// Shell renders the modifications as POSIX shell export statements, one
// per line, resolving search paths against the variable's current value.
func (e *Env) Shell() string {
	var b strings.Builder
	for _, m := range e.mods {
		b.WriteString("export " + m.key + "=")
		switch m.op {
		case opPrependPath:
			b.WriteString(quote(m.value) + "${" + m.key + ":+" + string(os.PathListSeparator) + "$" + m.key + "}")
		default:
			b.WriteString(quote(m.value))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m modification) apply(cur string) string {
	switch m.op {
	case opPrependPath:
		if cur == "" {
			return m.value
		}
		return m.value + string(os.PathListSeparator) + cur
	default:
		return m.value
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
