// Package env locates the directories cpak owns on the local machine.
package env

import (
	"os"
	"path/filepath"
)

// WorkDir returns the root directory for all cpak state,
// located at <UserCacheDir>/.cpak.
func WorkDir() (string, error) {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userCacheDir, ".cpak"), nil
}

// RecipeDir returns the directory where recipe repositories are stored.
// It creates the directory with 0700 permissions if it doesn't exist.
func RecipeDir() (string, error) {
	workDir, err := WorkDir()
	if err != nil {
		return "", err
	}
	recipeDir := filepath.Join(workDir, "recipes")

	if err := os.MkdirAll(recipeDir, 0700); err != nil {
		return "", err
	}
	return recipeDir, nil
}

// PackageDir returns the default workspace directory where packaged
// modules are stored. It creates the directory with 0700 permissions if it
// doesn't exist.
func PackageDir() (string, error) {
	workDir, err := WorkDir()
	if err != nil {
		return "", err
	}
	pkgDir := filepath.Join(workDir, "pkg")

	if err := os.MkdirAll(pkgDir, 0700); err != nil {
		return "", err
	}
	return pkgDir, nil
}
