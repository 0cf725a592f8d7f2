package formula

import (
	"slices"
	"strings"

	"github.com/goplus/llar-root/pkgs/gnu"
)

// -----------------------------------------------------------------------------

// VersionDecl declares a supported version and the MD5 checksum of its
// source archive.
type VersionDecl struct {
	Version  string
	Checksum string
}

// SortedVersions returns the declared versions, newest first.
func SortedVersions(decls []VersionDecl) []VersionDecl {
	out := slices.Clone(decls)
	slices.SortStableFunc(out, func(a, b VersionDecl) int {
		return gnu.Compare(b.Version, a.Version)
	})
	return out
}

// PreferredVersion returns the newest declared version, or "" if none.
func PreferredVersion(decls []VersionDecl) string {
	if len(decls) == 0 {
		return ""
	}
	return SortedVersions(decls)[0].Version
}

// ChecksumOf returns the declared checksum of version ver.
func ChecksumOf(decls []VersionDecl, ver string) (string, bool) {
	for _, d := range decls {
		if d.Version == ver {
			return d.Checksum, true
		}
	}
	return "", false
}

// -----------------------------------------------------------------------------

// VariantDecl declares an optional feature and its default.
type VariantDecl struct {
	Variant     Variant
	Default     bool
	Description string
}

// DefaultVariants returns the variants that are enabled by default.
func DefaultVariants(decls []VariantDecl) []Variant {
	var out []Variant
	for _, d := range decls {
		if d.Default {
			out = append(out, d.Variant)
		}
	}
	return out
}

// -----------------------------------------------------------------------------

// DepType classifies when a dependency is needed.
type DepType uint8

const (
	DepBuild DepType = 1 << iota
	DepLink
	DepRun
)

// DepDefault is the type of a dependency declared without one.
const DepDefault = DepBuild | DepLink

func (t DepType) String() string {
	var parts []string
	if t&DepBuild != 0 {
		parts = append(parts, "build")
	}
	if t&DepLink != 0 {
		parts = append(parts, "link")
	}
	if t&DepRun != 0 {
		parts = append(parts, "run")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// Condition reports whether a declaration applies to a spec.
type Condition func(s Spec) bool

// Dependency declares a package this one depends on. When is nil for
// unconditional dependencies.
type Dependency struct {
	Name string
	Type DepType
	When Condition
}

// Active reports whether d applies to s.
func (d Dependency) Active(s Spec) bool {
	return d.When == nil || d.When(s)
}

// ActiveDependencies returns the dependencies that apply to s, in
// declaration order.
func ActiveDependencies(deps []Dependency, s Spec) []Dependency {
	var out []Dependency
	for _, d := range deps {
		if d.Active(s) {
			out = append(out, d)
		}
	}
	return out
}

// Patch declares a patch file applied to the source tree when When holds.
type Patch struct {
	File string
	When Condition
}

// ActivePatches returns the patch files that apply to s, in declaration
// order.
func ActivePatches(patches []Patch, s Spec) []string {
	var out []string
	for _, p := range patches {
		if p.When == nil || p.When(s) {
			out = append(out, p.File)
		}
	}
	return out
}

// -----------------------------------------------------------------------------

// WhenVariant holds when variant v is enabled.
func WhenVariant(v Variant) Condition {
	return func(s Spec) bool { return s.Has(v) }
}

// WhenVersion holds when the exact version ver is selected.
func WhenVersion(ver string) Condition {
	return func(s Spec) bool { return s.Version() == ver }
}

// WhenPlatform holds when targeting platform p.
func WhenPlatform(p Platform) Condition {
	return func(s Spec) bool { return s.Platform() == p }
}

// WhenNotPlatform holds when not targeting platform p.
func WhenNotPlatform(p Platform) Condition {
	return func(s Spec) bool { return s.Platform() != p }
}

// All holds when every condition holds.
func All(conds ...Condition) Condition {
	return func(s Spec) bool {
		for _, c := range conds {
			if !c(s) {
				return false
			}
		}
		return true
	}
}
