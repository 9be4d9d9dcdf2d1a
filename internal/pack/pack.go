// Copyright 2025 The cpak Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pack turns resolved modules into installed packages: it stages
// each module's sources, runs the recipe's packaging callback, and records
// the consumer-facing metadata.
package pack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/cpakg/cpak/internal/env"
	"github.com/cpakg/cpak/internal/modules"
	"github.com/cpakg/cpak/internal/pack/lockedfile"
	"github.com/cpakg/cpak/internal/vcs"
	"github.com/cpakg/cpak/mod/module"
	classfile "github.com/cpakg/cpak/recipe"
)

// sourceRepo is the repository access packaging needs: listing tags and
// downloading trees at a ref. *vcs.Repo implements it.
type sourceRepo interface {
	Tags(ctx context.Context) ([]string, error)
	SyncDir(ctx context.Context, ref, path, destDir string) error
}

// Packager packages modules into a workspace directory, one package per
// module version and matrix combination.
type Packager struct {
	matrix       string
	workspaceDir string
	newRepo      func(repoPath string) (sourceRepo, error)
}

// Options contains options for NewPackager.
type Options struct {
	// MatrixStr names the variant being produced (e.g. "amd64-linux").
	// Empty selects the host os/arch.
	MatrixStr string
	// WorkspaceDir is where packages and caches live. Empty selects the
	// default package directory.
	WorkspaceDir string
}

// Result describes one packaged module.
type Result struct {
	Path       string
	Version    string
	PackageDir string
	Info       classfile.CppInfo
	Metadata   string // pkg-config rendering of Info
}

// NewPackager creates a Packager for the given options.
func NewPackager(opts Options) (*Packager, error) {
	workspaceDir := opts.WorkspaceDir
	if workspaceDir == "" {
		var err error
		workspaceDir, err = env.PackageDir()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(workspaceDir, 0755); err != nil {
		return nil, err
	}
	matrix := opts.MatrixStr
	if matrix == "" {
		matrix = hostMatrix()
	}
	return &Packager{
		matrix:       matrix,
		workspaceDir: workspaceDir,
		newRepo: func(repoPath string) (sourceRepo, error) {
			return vcs.NewRepo(repoPath)
		},
	}, nil
}

// hostMatrix returns the variant name for the host platform.
func hostMatrix() string {
	m := classfile.Matrix{
		Require: map[string][]string{
			"arch": {runtime.GOARCH},
			"os":   {runtime.GOOS},
		},
	}
	return m.Combinations()[0]
}

// Pack packages all modules in dependency-first order and returns one
// Result per module, in pack order (main module last).
func (p *Packager) Pack(ctx context.Context, mods []*modules.Module) ([]Result, error) {
	targets := p.packList(mods)

	// Recipes may mutate the environment while packaging; restore it after.
	savedEnv := os.Environ()
	defer func() {
		os.Clearenv()
		for _, e := range savedEnv {
			if k, v, ok := strings.Cut(e, "="); ok {
				os.Setenv(k, v)
			}
		}
	}()

	pkgDirs := make(map[module.Version]string)
	var results []Result

	for _, mod := range targets {
		res, err := p.packOne(ctx, mod, pkgDirs)
		if err != nil {
			return nil, fmt.Errorf("pack %s@%s: %w", mod.Path, mod.Version, err)
		}
		pkgDirs[module.Version{Path: mod.Path, Version: mod.Version}] = res.PackageDir
		results = append(results, res)
	}
	return results, nil
}

// packList returns the modules in dependency-first order: every module's
// deps precede it, the main module comes last.
func (p *Packager) packList(mods []*modules.Module) []*modules.Module {
	var list []*modules.Module
	visited := make(map[*modules.Module]bool)

	var visit func(m *modules.Module)
	visit = func(m *modules.Module) {
		if visited[m] {
			return
		}
		visited[m] = true
		for _, dep := range m.Deps {
			visit(dep)
		}
		list = append(list, m)
	}
	for _, m := range mods {
		visit(m)
	}
	return list
}

// transitiveDeps returns mod's transitive dependencies in dependency-first
// order, excluding mod itself.
func (p *Packager) transitiveDeps(mod *modules.Module) []module.Version {
	var deps []module.Version
	visited := map[*modules.Module]bool{mod: true}

	var visit func(m *modules.Module)
	visit = func(m *modules.Module) {
		if visited[m] {
			return
		}
		visited[m] = true
		for _, dep := range m.Deps {
			visit(dep)
		}
		deps = append(deps, module.Version{Path: m.Path, Version: m.Version})
	}
	for _, dep := range mod.Deps {
		visit(dep)
	}
	return deps
}

func (p *Packager) packOne(ctx context.Context, mod *modules.Module, pkgDirs map[module.Version]string) (Result, error) {
	cacheDir, err := p.cacheDir(mod.Path)
	if err != nil {
		return Result{}, err
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return Result{}, err
	}
	pkgDir, err := p.packageDir(mod.Path, mod.Version)
	if err != nil {
		return Result{}, err
	}

	unlock, err := lockedfile.MutexAt(filepath.Join(cacheDir, ".lock")).Lock()
	if err != nil {
		return Result{}, err
	}
	defer unlock()

	// Another process may have packaged this variant already.
	if cache, err := p.loadCache(mod.Path); err == nil {
		if entry, ok := cache.get(mod.Version, p.matrix); ok {
			if _, err := os.Stat(pkgDir); err == nil {
				return Result{
					Path:       mod.Path,
					Version:    mod.Version,
					PackageDir: pkgDir,
					Info:       entry.Info,
					Metadata:   entry.Metadata,
				}, nil
			}
		}
	}

	srcDir, err := p.stageSource(ctx, mod)
	if err != nil {
		return Result{}, err
	}

	// The packaging view of the staged tree contains exactly the declared
	// sources: the exportsSources filter always applies. noCopySource only
	// skips the per-run private copy, reusing a filtered view kept in the
	// workspace instead.
	var exportDir string
	if mod.NoCopySource {
		exportDir = filepath.Join(cacheDir, "export@"+mod.Version)
		if entries, err := os.ReadDir(exportDir); err != nil || len(entries) == 0 {
			if err := os.MkdirAll(exportDir, 0755); err != nil {
				return Result{}, err
			}
			if _, err := classfile.Copy(mod.ExportsSources, srcDir, exportDir); err != nil {
				return Result{}, err
			}
		}
	} else {
		exportDir, err = os.MkdirTemp(p.workspaceDir, ".export-*")
		if err != nil {
			return Result{}, err
		}
		defer os.RemoveAll(exportDir)
		if _, err := classfile.Copy(mod.ExportsSources, srcDir, exportDir); err != nil {
			return Result{}, err
		}
	}

	tmpPkgDir, err := os.MkdirTemp(p.workspaceDir, ".pkg-*")
	if err != nil {
		return Result{}, err
	}
	defer os.RemoveAll(tmpPkgDir)

	depDirs := make(map[module.Version]string)
	for _, dep := range p.transitiveDeps(mod) {
		if dir, ok := pkgDirs[dep]; ok {
			depDirs[dep] = dir
		}
	}

	out := &classfile.PackageResult{}
	pctx := &classfile.Context{
		SourceDir:  exportDir,
		PackageDir: tmpPkgDir,
		DepDirs:    depDirs,
	}
	proj := &classfile.Project{
		FileFS: os.DirFS(exportDir).(fs.ReadFileFS),
	}

	switch {
	case mod.OnPackage != nil:
		mod.OnPackage(pctx, proj, out)
	case mod.PackageType == classfile.HeaderLibrary:
		// Header-only packages have an implicit packaging step.
		files, err := classfile.Copy("*.h", exportDir, tmpPkgDir)
		if err != nil {
			out.AddErr(err)
		} else {
			out.AddFiles(files...)
		}
	default:
		return Result{}, fmt.Errorf("recipe declares no onPackage")
	}
	if errs := out.Errs(); len(errs) > 0 {
		return Result{}, errors.Join(errs...)
	}

	os.RemoveAll(pkgDir)
	if err := os.Rename(tmpPkgDir, pkgDir); err != nil {
		return Result{}, err
	}

	info := classfile.DefaultInfo(mod.PackageType)
	if mod.OnPackageInfo != nil {
		mod.OnPackageInfo(&info)
	}
	name := path.Base(mod.Path)
	metadata := info.PkgConfig(name, mod.Version, pkgDir)

	if err := os.WriteFile(filepath.Join(pkgDir, name+".pc"), []byte(metadata), 0644); err != nil {
		return Result{}, err
	}
	infoData, err := json.MarshalIndent(&info, "", "\t")
	if err != nil {
		return Result{}, err
	}
	if err := os.WriteFile(filepath.Join(pkgDir, "cpakinfo.json"), infoData, 0644); err != nil {
		return Result{}, err
	}

	cache, err := p.loadCache(mod.Path)
	if err != nil {
		cache = &packCache{}
	}
	cache.set(mod.Version, p.matrix, &packEntry{
		Metadata: metadata,
		Info:     info,
		PackTime: time.Now(),
	})
	if err := p.saveCache(mod.Path, cache); err != nil {
		return Result{}, err
	}

	return Result{
		Path:       mod.Path,
		Version:    mod.Version,
		PackageDir: pkgDir,
		Info:       info,
		Metadata:   metadata,
	}, nil
}

// Installed returns the Result recorded for an already packaged module
// variant without packaging it. It fails if the variant was never packaged
// or its package directory is gone.
func (p *Packager) Installed(modPath, version string) (Result, error) {
	cache, err := p.loadCache(modPath)
	if err != nil {
		return Result{}, fmt.Errorf("%s@%s is not packaged for %s", modPath, version, p.matrix)
	}
	entry, ok := cache.get(version, p.matrix)
	if !ok {
		return Result{}, fmt.Errorf("%s@%s is not packaged for %s", modPath, version, p.matrix)
	}
	pkgDir, err := p.packageDir(modPath, version)
	if err != nil {
		return Result{}, err
	}
	if _, err := os.Stat(pkgDir); err != nil {
		return Result{}, fmt.Errorf("%s@%s package directory is missing: %w", modPath, version, err)
	}
	return Result{
		Path:       modPath,
		Version:    version,
		PackageDir: pkgDir,
		Info:       entry.Info,
		Metadata:   entry.Metadata,
	}, nil
}

// stageSource downloads the module's source tree at the recipe's revision
// into the workspace. An already staged tree is reused.
func (p *Packager) stageSource(ctx context.Context, mod *modules.Module) (string, error) {
	cacheDir, err := p.cacheDir(mod.Path)
	if err != nil {
		return "", err
	}
	srcDir := filepath.Join(cacheDir, "src@"+mod.Version)
	if entries, err := os.ReadDir(srcDir); err == nil && len(entries) > 0 {
		return srcDir, nil
	}

	repoPath := mod.SCMURL
	if repoPath == "" {
		repoPath = "github.com/" + mod.Path
	}
	repoPath = strings.TrimPrefix(strings.TrimPrefix(repoPath, "https://"), "http://")

	repo, err := p.newRepo(repoPath)
	if err != nil {
		return "", err
	}
	ref := p.resolveRef(ctx, repo, mod)

	if err := os.MkdirAll(srcDir, 0755); err != nil {
		return "", err
	}
	if err := repo.SyncDir(ctx, ref, "", srcDir); err != nil {
		return "", err
	}
	return srcDir, nil
}

// resolveRef picks the revision to stage. An explicit revision wins;
// "auto" (or none) matches a tag against the version, falling back to the
// version string itself.
func (p *Packager) resolveRef(ctx context.Context, repo sourceRepo, mod *modules.Module) string {
	rev := mod.SCMRevision
	if rev != "" && rev != "auto" {
		return rev
	}
	if tags, err := repo.Tags(ctx); err == nil {
		for _, tag := range tags {
			if tag == mod.Version || tag == "v"+mod.Version {
				return tag
			}
		}
	}
	return mod.Version
}
