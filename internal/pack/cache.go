package pack

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cpakg/cpak/mod/module"
	classfile "github.com/cpakg/cpak/recipe"
)

// Workspace directory layout:
//
//	workspaceDir/
//	  <escaped>/                      # module-level dir (cacheDir)
//	    .cache.json                   # pack cache: maps "version-matrix" -> packEntry
//	    src@<version>/                # staged source tree
//	  <escaped>@<version>-<matrix>/   # package output dir (packageDir)
//	    include/
//	    ...
const cacheFile = ".cache.json"

// packEntry contains metadata about a single successful packaging.
type packEntry struct {
	Metadata string            `json:"metadata"`
	Info     classfile.CppInfo `json:"info"`
	PackTime time.Time         `json:"pack_time"`
}

// packCache maps "version-matrixString" keys to their pack entries.
type packCache struct {
	Cache map[string]*packEntry `json:"cache"`
}

func cacheKey(version, matrix string) string {
	return version + "-" + matrix
}

func (c *packCache) get(version, matrix string) (*packEntry, bool) {
	entry, ok := c.Cache[cacheKey(version, matrix)]
	return entry, ok
}

func (c *packCache) set(version, matrix string, entry *packEntry) {
	if c.Cache == nil {
		c.Cache = make(map[string]*packEntry)
	}
	c.Cache[cacheKey(version, matrix)] = entry
}

// cacheDir returns the module-level directory for cache storage: workspaceDir/<escapedPath>.
func (p *Packager) cacheDir(modPath string) (string, error) {
	escaped, err := module.EscapePath(modPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(p.workspaceDir, escaped), nil
}

// packageDir returns the package output directory: workspaceDir/<escapedPath>@<version>-<matrix>.
func (p *Packager) packageDir(modPath, version string) (string, error) {
	escaped, err := module.EscapePath(modPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(p.workspaceDir, fmt.Sprintf("%s@%s-%s", escaped, version, p.matrix)), nil
}

// loadCache reads the cache file for a module from the workspace directory.
func (p *Packager) loadCache(modPath string) (*packCache, error) {
	dir, err := p.cacheDir(modPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, cacheFile))
	if err != nil {
		return nil, err
	}
	var cache packCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, err
	}
	return &cache, nil
}

// saveCache writes the cache file for a module to the workspace directory.
func (p *Packager) saveCache(modPath string, cache *packCache) error {
	dir, err := p.cacheDir(modPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, cacheFile), data, 0o644)
}
