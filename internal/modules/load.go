// Package modules resolves the module graph: it loads recipes, resolves
// their dependencies, and computes the build list with Minimal Version
// Selection.
package modules

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/cpakg/cpak/internal/mvs"
	"github.com/cpakg/cpak/internal/recipe"
	"github.com/cpakg/cpak/internal/recipe/repo"
	"github.com/cpakg/cpak/internal/vcs"
	"github.com/cpakg/cpak/mod/module"
	"github.com/cpakg/cpak/mod/versions"
)

// A Module is a resolved member of the build list: the recipe serving the
// selected version plus where the module's state lives on disk.
type Module struct {
	*recipe.Recipe

	Path    string
	Dir     string
	Version string

	Deps []*Module
}

// Options contains options for Load.
type Options struct {
	// Tidy, if true, computes minimal dependencies using mvs.Req
	// and updates the versions.json file.
	Tidy bool
	// LocalDir specifies the local directory to fallback when a recipe
	// is not found in the hub. If empty, no fallback applies.
	LocalDir string
	// Store provides access to the recipe hub.
	Store *repo.Store
}

func latestVersion(ctx context.Context, modPath string, comparator module.VersionComparator) (version string, err error) {
	// TODO(cpak): Support different code host sites
	repo, err := vcs.NewRepo(fmt.Sprintf("github.com/%s", modPath))
	if err != nil {
		return "", err
	}

	tags, err := repo.Tags(ctx)
	if err != nil {
		return "", err
	}
	if len(tags) == 0 {
		return "", fmt.Errorf("failed to retrieve the latest version: no tags found")
	}
	slices.SortFunc(tags, func(a, b string) int {
		// we want the max heap
		return -comparator(module.Version{Path: modPath, Version: a}, module.Version{Path: modPath, Version: b})
	})

	return tags[0], nil
}

// Load loads the main module's recipe and resolves the full dependency
// graph using the MVS algorithm. It returns resolved modules for the whole
// build list, main module first, with Deps filled in for each.
func Load(ctx context.Context, main module.Version, opts Options) ([]*Module, error) {
	srcs := newSources(opts.Store, opts.LocalDir)

	if main.Version == "" {
		cmp, err := srcs.comparatorOf(ctx, main.Path)
		if err != nil {
			return nil, err
		}
		latest, err := latestVersion(ctx, main.Path, cmp)
		if err != nil {
			return nil, err
		}
		main.Version = latest
	}
	mainRecipe, err := srcs.recipeOf(ctx, main)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	mainDeps, err := resolveDeps(ctx, main, mainRecipe)
	if err != nil {
		return nil, err
	}
	cmp := func(p, v1, v2 string) int {
		// none is an internal version for MVS, which means the smallest
		if v1 == "none" && v2 != "none" {
			return -1
		} else if v1 != "none" && v2 == "none" {
			return +1
		} else if v1 == "none" && v2 == "none" {
			return 0
		}
		compare, err := srcs.comparatorOf(ctx, p)
		if err != nil {
			panic(err)
		}
		return compare(module.Version{Path: p, Version: v1}, module.Version{Path: p, Version: v2})
	}
	onLoad := func(mod module.Version) ([]module.Version, error) {
		r, err := srcs.recipeOf(ctx, mod)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
		defer cancel()

		return resolveDeps(ctx, mod, r)
	}

	reqs := &mvsReqs{
		roots: mainDeps,
		isMain: func(v module.Version) bool {
			return v.Path == main.Path && v.Version == main.Version
		},
		cmp:    cmp,
		onLoad: onLoad,
	}

	buildList, err := mvs.BuildList([]module.Version{main}, reqs)
	if err != nil {
		return nil, err
	}

	// Tidy: compute minimal dependencies and update versions.json
	if opts.Tidy {
		if err := tidy(main, reqs); err != nil {
			return nil, err
		}
	}

	modCache := make(map[module.Version]*Module)

	convertToModules := func(modList []module.Version) ([]*Module, error) {
		var mods []*Module

		for _, mod := range modList {
			if cacheMod, ok := modCache[mod]; ok {
				mods = append(mods, cacheMod)
				continue
			}
			r, err := srcs.recipeOf(ctx, mod)
			if err != nil {
				return nil, err
			}
			moduleDir, err := moduleDirOf(mod.Path)
			if err != nil {
				return nil, err
			}
			m := &Module{
				Recipe:  r,
				Path:    mod.Path,
				Dir:     moduleDir,
				Version: mod.Version,
			}
			modCache[mod] = m
			mods = append(mods, m)
		}

		return mods, nil
	}

	mods, err := convertToModules(buildList)
	if err != nil {
		return nil, err
	}

	// fill the deps
	for _, mod := range mods {
		var deps []*Module

		if mod.Path == main.Path && mod.Version == main.Version {
			deps = mods[1:]
		} else {
			minReqs, err := mvs.Req(module.Version{Path: mod.Path, Version: mod.Version}, nil, reqs)
			if err != nil {
				return nil, err
			}
			deps, err = convertToModules(minReqs)
			if err != nil {
				return nil, err
			}
		}
		mod.Deps = deps
	}

	return mods, nil
}

// tidy computes minimal dependencies using mvs.Req and updates versions.json.
func tidy(main module.Version, reqs *mvsReqs) error {
	minDeps, err := mvs.Req(main, nil, reqs)
	if err != nil {
		return err
	}
	moduleDir, err := moduleDirOf(main.Path)
	if err != nil {
		return err
	}
	versionsFile := filepath.Join(moduleDir, "versions.json")
	v, err := versions.Parse(versionsFile, nil)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		v = &versions.Versions{Path: main.Path}
	}
	if v.Dependencies == nil {
		v.Dependencies = make(map[string][]module.Version)
	}

	var newDeps []module.Version
	for _, dep := range minDeps {
		if dep.Path == main.Path {
			continue
		}
		newDeps = append(newDeps, dep)
	}

	v.Dependencies[main.Version] = newDeps

	data, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return err
	}

	return os.WriteFile(versionsFile, data, 0644)
}
