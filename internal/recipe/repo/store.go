// Copyright 2025 The cpak Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package repo manages the local store of recipe repositories.
package repo

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cpakg/cpak/internal/env"
	"github.com/cpakg/cpak/mod/module"
)

// Syncer is the repository access a Store needs: resolving the latest
// revision and downloading subdirectories at a revision.
// *vcs.Repo implements it.
type Syncer interface {
	Latest(ctx context.Context) (string, error)
	SyncDir(ctx context.Context, ref, path, destDir string) error
}

// Store manages a recipe repository, handling storage layout and
// synchronization. It provides access to module recipes through a
// filesystem abstraction.
type Store struct {
	dir     string
	vcsRepo Syncer

	refOnce sync.Once
	ref     string
	refErr  error
}

// New creates a new Store with the given directory and repository.
// The dir specifies where this recipe repository is stored locally.
func New(dir string, vcsRepo Syncer) *Store {
	return &Store{
		dir:     dir,
		vcsRepo: vcsRepo,
	}
}

// ModuleFS returns a filesystem interface for the specified module.
// It synchronizes the module's recipes from remote and returns an fs.FS
// rooted at the module's directory.
func (s *Store) ModuleFS(ctx context.Context, modPath string) (fs.FS, error) {
	modDir, err := s.moduleDirOf(modPath)
	if err != nil {
		return nil, err
	}

	ref, err := s.latestRef(ctx)
	if err != nil {
		return nil, err
	}

	// Sync to the repository root directory, not the module directory.
	// SyncDir creates the module path structure within the destination.
	if err := s.vcsRepo.SyncDir(ctx, ref, modPath, s.dir); err != nil {
		return nil, err
	}

	return os.DirFS(modDir), nil
}

// latestRef resolves the hub revision once per Store.
func (s *Store) latestRef(ctx context.Context) (string, error) {
	s.refOnce.Do(func() {
		s.ref, s.refErr = s.vcsRepo.Latest(ctx)
	})
	return s.ref, s.refErr
}

// moduleDirOf returns the directory path for a module within the repository.
// It creates the directory with 0700 permissions if it doesn't exist.
func (s *Store) moduleDirOf(modPath string) (string, error) {
	escapedModPath, err := module.EscapePath(modPath)
	if err != nil {
		return "", err
	}
	moduleDir := filepath.Join(s.dir, escapedModPath)

	if err := os.MkdirAll(moduleDir, 0700); err != nil {
		return "", err
	}
	return moduleDir, nil
}

// DefaultDir returns the default root directory where all recipe
// repositories are stored.
func DefaultDir() (string, error) {
	return env.RecipeDir()
}
