package formula

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/hashicorp/go-version"
)

var (
	// ErrEmptySpec is returned when parsing an empty spec string.
	ErrEmptySpec = errors.New("empty spec")
	// ErrUnknownVariant is returned when a spec names a variant the package
	// does not declare.
	ErrUnknownVariant = errors.New("unknown variant")
)

// -----------------------------------------------------------------------------

// Variant is a named boolean optional-feature switch on a package spec.
type Variant string

// Platform identifies the target operating system of a build.
type Platform string

const (
	Darwin Platform = "darwin"
	Linux  Platform = "linux"
)

// HostPlatform returns the platform this process runs on.
func HostPlatform() Platform {
	return Platform(runtime.GOOS)
}

// -----------------------------------------------------------------------------

// Spec is the resolved description of one package build request: the
// selected version, the enabled variants and the target platform.
//
// A Spec is a value: its methods never modify the receiver, and With
// returns a copy.
//
// A variant is enabled, disabled or unset. Only explicit values are
// printed, so a parsed spec prints back to the same spec.
type Spec struct {
	name     string
	version  string
	platform Platform
	enabled  []Variant // sorted, unique
	disabled []Variant // sorted, unique, disjoint from enabled
}

// NewSpec returns the spec of package name at ver for platform with the
// given variants enabled. Other variants are unset.
func NewSpec(name, ver string, platform Platform, enabled ...Variant) Spec {
	s := Spec{name: name, version: ver, platform: platform}
	for _, v := range enabled {
		s.enabled = insert(s.enabled, v)
	}
	return s
}

// Name returns the package name.
func (s Spec) Name() string { return s.name }

// Version returns the selected version string as given.
func (s Spec) Version() string { return s.version }

// Platform returns the target platform.
func (s Spec) Platform() Platform { return s.platform }

// Has reports whether variant v is enabled.
func (s Spec) Has(v Variant) bool {
	_, ok := slices.BinarySearch(s.enabled, v)
	return ok
}

// Enabled returns the enabled variants in sorted order.
func (s Spec) Enabled() []Variant {
	return slices.Clone(s.enabled)
}

// Disabled returns the variants explicitly switched off, in sorted order.
func (s Spec) Disabled() []Variant {
	return slices.Clone(s.disabled)
}

// With returns a copy of s with variant v switched on or off.
func (s Spec) With(v Variant, on bool) Spec {
	out := s.clone()
	if on {
		out.enabled = insert(out.enabled, v)
		out.disabled = remove(out.disabled, v)
	} else {
		out.disabled = insert(out.disabled, v)
		out.enabled = remove(out.enabled, v)
	}
	return out
}

// WithVersion returns a copy of s selecting version ver.
func (s Spec) WithVersion(ver string) Spec {
	out := s.clone()
	out.version = ver
	return out
}

// WithPlatform returns a copy of s targeting platform p.
func (s Spec) WithPlatform(p Platform) Spec {
	out := s.clone()
	out.platform = p
	return out
}

// Major returns the major version number, or -1 if the version does not
// start with a number. Releases use both three and four component schemes,
// so only the first component is interpreted.
func (s Spec) Major() int {
	if v, err := version.NewVersion(s.version); err == nil {
		return v.Segments()[0]
	}
	head, _, _ := strings.Cut(s.version, ".")
	n, err := strconv.Atoi(head)
	if err != nil {
		return -1
	}
	return n
}

// String formats s as "name@version+a~b platform=p", with variants in
// sorted order.
func (s Spec) String() string {
	var b strings.Builder
	b.WriteString(s.name)
	if s.version != "" {
		b.WriteString("@" + s.version)
	}
	on, off := s.enabled, s.disabled
	for len(on) > 0 || len(off) > 0 {
		if len(off) == 0 || (len(on) > 0 && on[0] < off[0]) {
			b.WriteString("+" + string(on[0]))
			on = on[1:]
		} else {
			b.WriteString("~" + string(off[0]))
			off = off[1:]
		}
	}
	if s.platform != "" {
		b.WriteString(" platform=" + string(s.platform))
	}
	return b.String()
}

func (s Spec) clone() Spec {
	out := s
	out.enabled = slices.Clone(s.enabled)
	out.disabled = slices.Clone(s.disabled)
	return out
}

func remove(vs []Variant, v Variant) []Variant {
	if i, ok := slices.BinarySearch(vs, v); ok {
		return slices.Delete(vs, i, i+1)
	}
	return vs
}

func insert(vs []Variant, v Variant) []Variant {
	i, ok := slices.BinarySearch(vs, v)
	if ok {
		return vs
	}
	return slices.Insert(vs, i, v)
}

// -----------------------------------------------------------------------------

// ParseSpec parses a spec string such as "root@6.06.04 +gdml~debug
// platform=darwin". Variants not mentioned take their declared default, so
// every declared variant ends up explicitly on or off; variants not
// declared in decls are rejected. A missing platform means the
// host platform. The version is not validated.
func ParseSpec(s string, decls []VariantDecl) (Spec, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Spec{}, ErrEmptySpec
	}

	known := make(map[Variant]bool, len(decls))
	spec := NewSpec("", "", HostPlatform())
	for _, d := range decls {
		known[d.Variant] = true
		spec = spec.With(d.Variant, d.Default)
	}

	for _, field := range fields {
		if key, val, ok := strings.Cut(field, "="); ok {
			if key != "platform" {
				return Spec{}, fmt.Errorf("spec %q: unknown attribute %q", s, key)
			}
			spec.platform = Platform(val)
			continue
		}

		head := field
		if i := strings.IndexAny(field, "+~"); i >= 0 {
			head = field[:i]
		}
		if head != "" {
			name, ver, hasVer := strings.Cut(head, "@")
			if name != "" {
				spec.name = name
			}
			if hasVer {
				spec.version = ver
			}
		}

		rest := field[len(head):]
		for rest != "" {
			on := rest[0] == '+'
			rest = rest[1:]
			end := strings.IndexAny(rest, "+~")
			if end < 0 {
				end = len(rest)
			}
			v := Variant(rest[:end])
			rest = rest[end:]
			if !known[v] {
				return Spec{}, fmt.Errorf("spec %q: %w %q", s, ErrUnknownVariant, v)
			}
			spec = spec.With(v, on)
		}
	}
	return spec, nil
}
