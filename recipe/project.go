package recipe

import (
	"io/fs"
)

// -----------------------------------------------------------------------------

// Project represents a project (module) being packaged.
type Project struct {
	FileFS fs.ReadFileFS
}

// ReadFile reads the content of a file in the project.
func (p *Project) ReadFile(path string) ([]byte, error) {
	return p.FileFS.ReadFile(path)
}

// -----------------------------------------------------------------------------
