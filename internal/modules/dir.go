package modules

import (
	"os"
	"path/filepath"

	"github.com/cpakg/cpak/internal/env"
	"github.com/cpakg/cpak/mod/module"
)

func moduleDirOf(modPath string) (string, error) {
	recipeDir, err := env.RecipeDir()
	if err != nil {
		return "", err
	}
	escapedModPath, err := module.EscapePath(modPath)
	if err != nil {
		return "", err
	}
	moduleDir := filepath.Join(recipeDir, escapedModPath)

	if err := os.MkdirAll(moduleDir, 0700); err != nil {
		return "", err
	}
	return moduleDir, nil
}

func sourceCacheDirOf(mod module.Version) (string, error) {
	moduleDir, err := moduleDirOf(mod.Path)
	if err != nil {
		return "", err
	}
	sourceCacheDir := filepath.Join(moduleDir, ".source", mod.Version)

	if err := os.MkdirAll(sourceCacheDir, 0700); err != nil {
		return "", err
	}
	return sourceCacheDir, nil
}
