// Copyright 2025 The cpak Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modules

import (
	"fmt"
	"go/token"
	"io/fs"
	"strings"
	"sync"

	"github.com/goplus/ixgo/xgobuild"
	"github.com/goplus/xgo/ast"
	"github.com/goplus/xgo/parser"

	"github.com/cpakg/cpak/internal/recipe"
	"github.com/cpakg/cpak/mod/module"
	"github.com/cpakg/cpak/x/gnu"
)

// loadMu serializes ixgo interpreter loading (recipe.LoadFS, loadComparatorFS).
// The ixgo interpreter has internal race conditions during concurrent loading,
// so all load operations must be serialized.
var loadMu sync.Mutex

const defaultRecipeSuffix = "_cpak.gox"
const defaultComparatorSuffix = "_cmp.gox"

// recipeModule represents a single module's recipe collection.
// It provides access to the module's version comparator and recipes.
// The fsys should be rooted at the module's directory within the recipe repository.
type recipeModule struct {
	fsys       fs.FS
	modPath    string
	comparator func() (module.VersionComparator, error)

	mu      sync.Mutex
	recipes map[string]*recipe.Recipe // keyed by recipe file path
}

// newRecipeModule creates a new recipeModule for the given module.
// The fsys should be rooted at the module's directory (already positioned by the caller).
// The modPath is used for constructing module.Version in version comparisons.
func newRecipeModule(fsys fs.FS, modPath string) *recipeModule {
	m := &recipeModule{
		fsys:    fsys,
		modPath: modPath,
		recipes: make(map[string]*recipe.Recipe),
	}
	m.comparator = sync.OnceValues(func() (module.VersionComparator, error) {
		return loadOrDefaultComparator(m.fsys)
	})
	return m
}

// loadOrDefaultComparator searches for a _cmp.gox comparator file in fsys.
// If found, it loads and returns the custom comparator.
// If no comparator file exists, it falls back to GNU version comparison.
// If a comparator file exists but fails to load, the error is returned.
func loadOrDefaultComparator(fsys fs.FS) (module.VersionComparator, error) {
	matches, _ := fs.Glob(fsys, "*"+defaultComparatorSuffix)
	if len(matches) == 0 {
		return func(v1, v2 module.Version) int {
			return gnu.Compare(v1.Version, v2.Version)
		}, nil
	}
	loadMu.Lock()
	defer loadMu.Unlock()
	return loadComparatorFS(fsys.(fs.ReadFileFS), matches[0])
}

// at returns the recipe for the specified version.
// It finds the appropriate recipe based on version matching and caches the result.
func (m *recipeModule) at(version string) (*recipe.Recipe, error) {
	cmp, err := m.comparator()
	if err != nil {
		return nil, err
	}

	mod := module.Version{Path: m.modPath, Version: version}
	recipePath, err := m.findMaxFromVer(mod, cmp)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.recipes[recipePath]; ok {
		return r, nil
	}
	loadMu.Lock()
	r, err := recipe.LoadFS(m.fsys.(fs.ReadFileFS), recipePath)
	loadMu.Unlock()

	if err != nil {
		return nil, err
	}
	m.recipes[recipePath] = r
	return r, nil
}

// findMaxFromVer finds the recipe file with the highest fromVer that is
// <= the target version. A recipe that declares no fromVer serves every
// version and is chosen only when no versioned recipe matches.
func (m *recipeModule) findMaxFromVer(mod module.Version, compare module.VersionComparator) (recipePath string, err error) {
	var maxFromVer string
	err = fs.WalkDir(m.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !strings.HasSuffix(path, defaultRecipeSuffix) {
			return nil
		}

		fromVer, err := fromVerOf(m.fsys.(fs.ReadFileFS), path)
		if err != nil {
			return err
		}
		fromVerMod := module.Version{Path: mod.Path, Version: fromVer}

		if fromVer != "" && compare(fromVerMod, mod) > 0 {
			return nil
		}
		switch {
		case recipePath == "":
			// First eligible candidate.
		case fromVer == "":
			// An unversioned recipe never beats an existing candidate.
			return nil
		case maxFromVer != "" && compare(fromVerMod, module.Version{Path: mod.Path, Version: maxFromVer}) <= 0:
			return nil
		}
		maxFromVer = fromVer
		recipePath = path
		return nil
	})

	if err != nil {
		return "", err
	}

	if recipePath == "" {
		return "", fmt.Errorf("no recipe found for %s", mod.Path)
	}

	return recipePath, nil
}

// fromVerOf extracts the fromVer value from a recipe file by parsing its AST.
// Recipes without a fromVer call yield an empty string.
func fromVerOf(fsys fs.ReadFileFS, recipePath string) (string, error) {
	content, err := fsys.ReadFile(recipePath)
	if err != nil {
		return "", err
	}

	fset := token.NewFileSet()
	astFile, err := parser.ParseEntry(fset, recipePath, content, parser.Config{
		ClassKind: xgobuild.ClassKind,
	})
	if err != nil {
		return "", err
	}
	return fromVerFrom(astFile)
}

// fromVerFrom extracts the fromVer value from a recipe AST.
func fromVerFrom(recipeAST *ast.File) (string, error) {
	var fromVer string
	var err error

	ast.Inspect(recipeAST, func(n ast.Node) bool {
		c, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		if fn, ok := c.Fun.(*ast.Ident); ok && fn.Name == "fromVer" {
			fromVer, err = parseCallArg(c, fn.Name)
			return false
		}
		return true
	})

	return fromVer, err
}

// parseCallArg extracts the first string argument from a function call expression.
func parseCallArg(c *ast.CallExpr, fnName string) (string, error) {
	if len(c.Args) == 0 {
		return "", fmt.Errorf("failed to parse %s from AST: no argument", fnName)
	}
	var argResult string
	switch arg := c.Args[0].(type) {
	case *ast.BasicLit:
		argResult = strings.Trim(strings.Trim(arg.Value, `"`), "`")
		if argResult == "" {
			return "", fmt.Errorf("failed to parse %s from AST: empty argument", fnName)
		}
	default:
		return "", fmt.Errorf("failed to parse %s from AST: argument is not a string literal", fnName)
	}
	return argResult, nil
}
