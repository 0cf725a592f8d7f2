package formula

// Matrix describes a family of specs of one package: every combination of
// a version, a platform and a subset of the listed variants.
type Matrix struct {
	Name      string
	Versions  []string
	Platforms []Platform
	Variants  []Variant
}

// Specs returns the cartesian product of the matrix. Versions vary
// slowest, then platforms, then variant subsets in binary counting order
// over Variants (the first variant toggles fastest). Every listed variant
// is explicitly on or off in each spec.
func (m *Matrix) Specs() []Spec {
	n := m.Count()
	if n == 0 {
		return nil
	}
	subsets := 1 << len(m.Variants)
	specs := make([]Spec, 0, n)
	for _, ver := range m.Versions {
		for _, p := range m.Platforms {
			for mask := 0; mask < subsets; mask++ {
				spec := NewSpec(m.Name, ver, p)
				for i, v := range m.Variants {
					spec = spec.With(v, mask&(1<<i) != 0)
				}
				specs = append(specs, spec)
			}
		}
	}
	return specs
}

// Count returns the number of specs Specs would produce.
func (m *Matrix) Count() int {
	if len(m.Versions) == 0 || len(m.Platforms) == 0 {
		return 0
	}
	return len(m.Versions) * len(m.Platforms) * (1 << len(m.Variants))
}
