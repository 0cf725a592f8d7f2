// Package root is the build recipe of ROOT, the CERN data analysis
// framework (https://root.cern.ch).
package root

import (
	"fmt"

	"github.com/goplus/llar-root/formula"
)

// Name is the package name used in specs.
const Name = "root"

// Homepage of the project.
const Homepage = "https://root.cern.ch"

const (
	Graphviz formula.Variant = "graphviz"
	GDML     formula.Variant = "gdml"
	Pythia8  formula.Variant = "pythia8"
	Debug    formula.Variant = "debug"
)

// Versions lists the supported releases with the MD5 of their source
// archives.
var Versions = []formula.VersionDecl{
	{Version: "6.08.02", Checksum: "50c4dbb8aa81124aa58524e776fd4b4b"},
	{Version: "6.06.06", Checksum: "4308449892210c8d36e36924261fea26"},
	{Version: "6.06.04", Checksum: "55a2f98dd4cea79c9c4e32407c2d6d17"},
	{Version: "6.06.02", Checksum: "e9b8b86838f65b0a78d8d02c66c2ec55"},
	{Version: "5.34.36", Checksum: "6a1ad549b3b79b10bbb1f116b49067ee"},
}

// Variants lists the optional features.
var Variants = []formula.VariantDecl{
	{Variant: Graphviz, Default: false, Description: "Enable graphviz support"},
	{Variant: GDML, Default: true, Description: "Enable GDML support"},
	{Variant: Pythia8, Default: false, Description: "Enable pythia8 support"},
	{Variant: Debug, Default: false, Description: "Enable debugging support"},
}

// Dependencies lists the packages ROOT needs. The image and crypto
// libraries come from the system frameworks on darwin.
var Dependencies = []formula.Dependency{
	{Name: "cmake", Type: formula.DepBuild},
	{Name: "pcre", Type: formula.DepDefault},
	{Name: "fftw", Type: formula.DepDefault},
	{Name: "graphviz", Type: formula.DepDefault, When: formula.WhenVariant(Graphviz)},
	{Name: "python", Type: formula.DepDefault},
	{Name: "gsl", Type: formula.DepDefault},
	{Name: "libxml2", Type: formula.DepDefault},
	{Name: "jpeg", Type: formula.DepDefault},
	{Name: "libpng", Type: formula.DepDefault, When: formula.WhenNotPlatform(formula.Darwin)},
	{Name: "openssl", Type: formula.DepDefault, When: formula.WhenNotPlatform(formula.Darwin)},
	{Name: "freetype", Type: formula.DepDefault, When: formula.WhenNotPlatform(formula.Darwin)},
}

// Patches lists source patches; both fix macOS-only build breaks.
var Patches = []formula.Patch{
	{
		File: "math_uint.patch",
		When: formula.All(formula.WhenPlatform(formula.Darwin), formula.WhenVersion("6.06.02")),
	},
	{
		File: "root6-60606-mathmore.patch",
		When: formula.All(formula.WhenPlatform(formula.Darwin), formula.WhenVersion("6.06.06")),
	},
}

// ParseSpec parses a spec string against ROOT's variants. The package
// name defaults to "root" and the version to the newest release.
func ParseSpec(s string) (formula.Spec, error) {
	spec, err := formula.ParseSpec(s, Variants)
	if err != nil {
		return formula.Spec{}, err
	}
	if spec.Version() == "" {
		spec = spec.WithVersion(formula.PreferredVersion(Versions))
	}
	switch spec.Name() {
	case Name:
	case "":
		spec = formula.NewSpec(Name, spec.Version(), spec.Platform(), spec.Enabled()...)
	default:
		return formula.Spec{}, fmt.Errorf("spec %q is not a %s spec", s, Name)
	}
	return spec, nil
}

// Matrix returns every spec of the declared versions on the given
// platforms.
func Matrix(platforms ...formula.Platform) formula.Matrix {
	m := formula.Matrix{Name: Name, Platforms: platforms}
	for _, v := range formula.SortedVersions(Versions) {
		m.Versions = append(m.Versions, v.Version)
	}
	for _, v := range Variants {
		m.Variants = append(m.Variants, v.Variant)
	}
	return m
}
