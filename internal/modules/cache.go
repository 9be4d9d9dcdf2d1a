package modules

import (
	"context"
	"io/fs"
	"os"
	"sync"

	"github.com/cpakg/cpak/internal/recipe"
	"github.com/cpakg/cpak/internal/recipe/repo"
	"github.com/cpakg/cpak/mod/module"
)

// sources caches per-module recipe collections for one load run.
// Recipes come from the recipe hub through the store; a local directory,
// when given, takes precedence for modules it carries recipes for.
type sources struct {
	store    *repo.Store
	localDir string

	mu      sync.Mutex
	modules map[string]*recipeModule
}

func newSources(store *repo.Store, localDir string) *sources {
	return &sources{
		store:    store,
		localDir: localDir,
		modules:  make(map[string]*recipeModule),
	}
}

// moduleOf returns the recipe collection for modPath, syncing it from the
// hub on first use.
func (s *sources) moduleOf(ctx context.Context, modPath string) (*recipeModule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.modules[modPath]; ok {
		return m, nil
	}

	fsys, err := s.fsOf(ctx, modPath)
	if err != nil {
		return nil, err
	}
	m := newRecipeModule(fsys, modPath)
	s.modules[modPath] = m
	return m, nil
}

// fsOf picks the filesystem holding modPath's recipes. When the hub has no
// recipes for the module, a local directory carrying recipe files serves as
// fallback, so a recipe under development can be used before it is published.
func (s *sources) fsOf(ctx context.Context, modPath string) (fs.FS, error) {
	fsys, err := s.store.ModuleFS(ctx, modPath)
	if err == nil {
		if matches, _ := fs.Glob(fsys, "*"+defaultRecipeSuffix); len(matches) > 0 {
			return fsys, nil
		}
	}
	if s.localDir != "" {
		local := os.DirFS(s.localDir)
		if matches, _ := fs.Glob(local, "*"+defaultRecipeSuffix); len(matches) > 0 {
			return local, nil
		}
	}
	if err != nil {
		return nil, err
	}
	return fsys, nil
}

// recipeOf returns the recipe serving the given module version.
func (s *sources) recipeOf(ctx context.Context, mod module.Version) (*recipe.Recipe, error) {
	m, err := s.moduleOf(ctx, mod.Path)
	if err != nil {
		return nil, err
	}
	return m.at(mod.Version)
}

// comparatorOf returns the version comparator for the given module.
func (s *sources) comparatorOf(ctx context.Context, modPath string) (module.VersionComparator, error) {
	m, err := s.moduleOf(ctx, modPath)
	if err != nil {
		return nil, err
	}
	return m.comparator()
}
