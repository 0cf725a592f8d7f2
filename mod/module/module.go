// Package module defines the module.Version type along with support code.
package module

import (
	"fmt"
	"path/filepath"
)

// A Version (for clients, a module.Version) represents a specific version
// of a package identified by its path.
type Version struct {
	Path    string // Package name, e.g. "root"
	Version string // Version string as declared, e.g. "6.06.04"
}

// String returns "path@version".
func (v Version) String() string {
	if v.Version == "" {
		return v.Path
	}
	return v.Path + "@" + v.Version
}

// EscapePath returns the escaped form of the given module path as a valid
// file system path. It fails if the module path is invalid.
func EscapePath(path string) (escaped string, err error) {
	return filepath.Localize(path)
}

// DirName returns the directory name used to lay out v on disk:
// "<escaped path>@<version>-<key>". key distinguishes builds of the same
// version, such as different variant selections.
func DirName(v Version, key string) (string, error) {
	escaped, err := EscapePath(v.Path)
	if err != nil {
		return "", fmt.Errorf("invalid module path %q: %w", v.Path, err)
	}
	name := escaped + "@" + v.Version
	if key != "" {
		name += "-" + key
	}
	if _, err := filepath.Localize(name); err != nil {
		return "", fmt.Errorf("invalid module version %q: %w", v.Version, err)
	}
	return name, nil
}
