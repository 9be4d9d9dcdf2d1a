package recipe

import (
	"github.com/cpakg/cpak/mod/module"
)

// Context carries the folders a packaging callback operates on.
// Both directories are created and owned by the packaging orchestrator;
// the callback only reads from SourceDir and writes under PackageDir.
type Context struct {
	// SourceDir is the root of the staged (exported) source tree.
	SourceDir string

	// PackageDir is the root of the package output tree.
	PackageDir string

	// DepDirs maps each already-packaged dependency to its package
	// directory, so a recipe can reference dependency artifacts.
	DepDirs map[module.Version]string
}
