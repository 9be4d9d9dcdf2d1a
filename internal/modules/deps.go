package modules

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/cpakg/cpak/internal/vcs"
	"github.com/cpakg/cpak/mod/module"
	"github.com/cpakg/cpak/mod/versions"
	classfile "github.com/cpakg/cpak/recipe"

	irecipe "github.com/cpakg/cpak/internal/recipe"
)

// resolveDeps resolves the direct dependencies of a module version.
// It first asks the recipe's OnRequire callback, then falls back to the
// versions.json table when the callback declares nothing.
func resolveDeps(ctx context.Context, mainMod module.Version, mainRecipe *irecipe.Recipe) ([]module.Version, error) {
	var deps classfile.RecipeDeps

	// TODO(cpak): Support different code host sites.
	repo, err := vcs.NewRepo(fmt.Sprintf("github.com/%s", mainMod.Path))
	if err != nil {
		return nil, err
	}

	moduleDir, err := moduleDirOf(mainMod.Path)
	if err != nil {
		return nil, err
	}
	sourceCacheDir, err := sourceCacheDirOf(mainMod)
	if err != nil {
		return nil, err
	}
	repoFS := repo.At(mainMod.Version, sourceCacheDir)
	proj := &classfile.Project{
		FileFS: repoFS,
	}
	// onRequire is optional
	if mainRecipe.OnRequire != nil {
		mainRecipe.OnRequire(proj, &deps)
	}

	current, err := versionTableOf(moduleDir, mainMod.Version)
	if err != nil {
		return nil, err
	}

	var vers []module.Version

	for _, dep := range deps.Deps() {
		if dep.Version == "" {
			// A dep declared without a version falls back to the version
			// pinned in the table.
			idx := slices.IndexFunc(current, func(depInTable module.Version) bool {
				return depInTable.Path == dep.Path
			})
			if idx < 0 {
				// It seems safe to drop deps here, because we resolve deps
				// recursively and finally we will find that dep.
				continue
			}
			dep.Version = current[idx].Version
		}
		vers = append(vers, dep)
	}

	if len(vers) > 0 {
		return vers, nil
	}

	for _, dep := range current {
		if dep.Version != "" {
			vers = append(vers, dep)
		}
	}

	return vers, nil
}

// versionTableOf returns the pinned dependencies of the given version from
// the module's versions.json. A missing table means no pinned deps.
func versionTableOf(moduleDir, version string) ([]module.Version, error) {
	versionsFile := filepath.Join(moduleDir, "versions.json")
	v, err := versions.Parse(versionsFile, nil)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return v.Dependencies[version], nil
}
