package recipe

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CppInfo declares the consumer-facing layout of a package: which
// subdirectories of the package root a dependent build adds to its include
// search path, library search path, and executable path.
//
// All entries are relative to the package root. A header-only package has
// exactly one include directory and empty library and binary lists.
type CppInfo struct {
	IncludeDirs []string
	LibDirs     []string
	BinDirs     []string
}

// DefaultInfo returns the implicit CppInfo for the given package kind.
// Header-only packages expose "include" and nothing else.
func DefaultInfo(pkgType string) CppInfo {
	switch pkgType {
	case Library:
		return CppInfo{
			IncludeDirs: []string{"include"},
			LibDirs:     []string{"lib"},
		}
	default:
		return CppInfo{
			IncludeDirs: []string{"include"},
		}
	}
}

// PkgConfig renders the info as pkg-config metadata for a package
// installed at pkgDir.
func (c *CppInfo) PkgConfig(name, version, pkgDir string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "prefix=%s\n", filepath.ToSlash(pkgDir))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Name: %s\n", name)
	fmt.Fprintf(&sb, "Version: %s\n", version)

	if len(c.IncludeDirs) > 0 {
		flags := make([]string, 0, len(c.IncludeDirs))
		for _, dir := range c.IncludeDirs {
			flags = append(flags, "-I${prefix}/"+filepath.ToSlash(dir))
		}
		fmt.Fprintf(&sb, "Cflags: %s\n", strings.Join(flags, " "))
	}
	if len(c.LibDirs) > 0 {
		flags := make([]string, 0, len(c.LibDirs))
		for _, dir := range c.LibDirs {
			flags = append(flags, "-L${prefix}/"+filepath.ToSlash(dir))
		}
		fmt.Fprintf(&sb, "Libs: %s\n", strings.Join(flags, " "))
	}
	return sb.String()
}
