package pack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cpakg/cpak/internal/modules"
	"github.com/cpakg/cpak/internal/recipe"
	"github.com/cpakg/cpak/mod/module"
	classfile "github.com/cpakg/cpak/recipe"
)

// mod creates a Module with the given path, version, and direct deps.
func mod(path, version string, deps ...*modules.Module) *modules.Module {
	return &modules.Module{
		Path:    path,
		Version: version,
		Deps:    deps,
	}
}

// paths returns the "Path@Version" strings for []*modules.Module.
func paths(mods []*modules.Module) string {
	var s []string
	for _, m := range mods {
		s = append(s, fmt.Sprintf("%s@%s", m.Path, m.Version))
	}
	return strings.Join(s, " ")
}

// versions returns the "Path@Version" strings for []module.Version.
func versions(vers []module.Version) string {
	var s []string
	for _, v := range vers {
		s = append(s, fmt.Sprintf("%s@%s", v.Path, v.Version))
	}
	return strings.Join(s, " ")
}

func TestPackList(t *testing.T) {
	p := &Packager{}

	t.Run("single module", func(t *testing.T) {
		A := mod("A", "1.0.0")
		got := p.packList([]*modules.Module{A})
		if want := "A@1.0.0"; paths(got) != want {
			t.Errorf("got %q, want %q", paths(got), want)
		}
	})

	t.Run("linear chain", func(t *testing.T) {
		// A -> B -> C
		C := mod("C", "1.0.0")
		B := mod("B", "1.0.0", C)
		A := mod("A", "1.0.0", B, C) // main has all deps
		got := p.packList([]*modules.Module{A, B, C})
		if want := "C@1.0.0 B@1.0.0 A@1.0.0"; paths(got) != want {
			t.Errorf("got %q, want %q", paths(got), want)
		}
	})

	t.Run("diamond", func(t *testing.T) {
		// A -> B -> C, A -> D -> C
		C := mod("C", "1.2.0")
		B := mod("B", "1.2.0", C)
		D := mod("D", "1.0.0", C)
		A := mod("A", "1.0.0", B, C, D) // main has all deps
		got := p.packList([]*modules.Module{A, B, C, D})
		// C first (leaf), then B, then D, then A (root)
		if want := "C@1.2.0 B@1.2.0 D@1.0.0 A@1.0.0"; paths(got) != want {
			t.Errorf("got %q, want %q", paths(got), want)
		}
	})

	t.Run("empty", func(t *testing.T) {
		got := p.packList(nil)
		if len(got) != 0 {
			t.Errorf("got %d modules, want 0", len(got))
		}
	})
}

func TestTransitiveDeps(t *testing.T) {
	p := &Packager{}

	t.Run("simple", func(t *testing.T) {
		// C -> D
		D := mod("D", "1.0.0")
		C := mod("C", "1.2.0", D)

		got := p.transitiveDeps(C)
		if want := "D@1.0.0"; versions(got) != want {
			t.Errorf("got %q, want %q", versions(got), want)
		}
	})

	t.Run("dep ordering by topology", func(t *testing.T) {
		// B -> C -> D, B -> D
		D := mod("D", "1.2.0")
		C := mod("C", "1.1.0", D)
		B := mod("B", "1.2.0", C, D)

		got := p.transitiveDeps(B)
		// D before C because C depends on D
		if want := "D@1.2.0 C@1.1.0"; versions(got) != want {
			t.Errorf("got %q, want %q", versions(got), want)
		}
	})

	t.Run("shared transitive dep", func(t *testing.T) {
		// A -> B -> D, A -> C -> D
		D := mod("D", "2.0.0")
		B := mod("B", "1.0.0", D)
		C := mod("C", "1.0.0", D)
		A := mod("A", "1.0.0", B, C, D)

		got := p.transitiveDeps(A)
		if want := "D@2.0.0 B@1.0.0 C@1.0.0"; versions(got) != want {
			t.Errorf("got %q, want %q", versions(got), want)
		}
	})

	t.Run("circular dependency", func(t *testing.T) {
		// B -> C -> D -> B (cycle)
		D := mod("D", "1.0.0")
		C := mod("C", "1.0.0", D)
		B := mod("B", "1.0.0", C)
		D.Deps = []*modules.Module{B}

		got := p.transitiveDeps(B)
		if want := "D@1.0.0 C@1.0.0"; versions(got) != want {
			t.Errorf("got %q, want %q", versions(got), want)
		}
	})

	t.Run("leaf module has no deps", func(t *testing.T) {
		D := mod("D", "1.0.0")
		if got := p.transitiveDeps(D); len(got) != 0 {
			t.Errorf("got %q, want empty", versions(got))
		}
	})
}

// ---------------------------------------------------------------------------
// Pack() tests with a mock source repository
// ---------------------------------------------------------------------------

// mockRepo serves a local directory as the module's source tree.
type mockRepo struct {
	srcDir string
	tags   []string

	syncs   int
	lastRef string
}

func (m *mockRepo) Tags(ctx context.Context) ([]string, error) {
	return m.tags, nil
}

func (m *mockRepo) SyncDir(ctx context.Context, ref, path, destDir string) error {
	m.syncs++
	m.lastRef = ref
	return os.CopyFS(destDir, os.DirFS(m.srcDir))
}

// setupPackager creates a Packager over a temp workspace whose newRepo
// always serves srcDir.
func setupPackager(t *testing.T, repo *mockRepo) *Packager {
	t.Helper()
	return &Packager{
		matrix:       "amd64-linux",
		workspaceDir: t.TempDir(),
		newRepo: func(repoPath string) (sourceRepo, error) {
			return repo, nil
		},
	}
}

// writeSourceTree creates a fake upstream source tree with headers.
func writeSourceTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"include/util.h":  "#pragma once\n",
		"include/extra.h": "#pragma once\n",
		"README.md":       "docs\n",
		"src/util.c":      "int x;\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func headerOnlyModule(path, version string) *modules.Module {
	return &modules.Module{
		Recipe: &recipe.Recipe{
			ModPath:        path,
			Version:        version,
			PackageType:    classfile.HeaderLibrary,
			ExportsSources: "include/*",
		},
		Path:    path,
		Version: version,
	}
}

func TestPack_HeaderLibrary(t *testing.T) {
	repo := &mockRepo{srcDir: writeSourceTree(t), tags: []string{"v1.0.0"}}
	p := setupPackager(t, repo)

	main := headerOnlyModule("acme/hdrlib", "1.0.0")
	results, err := p.Pack(context.Background(), []*modules.Module{main})
	if err != nil {
		t.Fatalf("Pack() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	res := results[0]

	// Headers land in the package, preserving their relative paths.
	for _, name := range []string{"include/util.h", "include/extra.h"} {
		if _, err := os.Stat(filepath.Join(res.PackageDir, filepath.FromSlash(name))); err != nil {
			t.Errorf("missing packaged header %s: %v", name, err)
		}
	}
	// Non-headers are excluded by the implicit packaging step.
	for _, name := range []string{"README.md", "src/util.c"} {
		if _, err := os.Stat(filepath.Join(res.PackageDir, filepath.FromSlash(name))); err == nil {
			t.Errorf("unexpected file %s in package", name)
		}
	}

	if got, want := res.Info.IncludeDirs, []string{"include"}; len(got) != 1 || got[0] != want[0] {
		t.Errorf("IncludeDirs = %v, want %v", got, want)
	}
	if len(res.Info.LibDirs) != 0 || len(res.Info.BinDirs) != 0 {
		t.Errorf("LibDirs/BinDirs = %v/%v, want empty", res.Info.LibDirs, res.Info.BinDirs)
	}
	if !strings.Contains(res.Metadata, "-I${prefix}/include") {
		t.Errorf("metadata %q missing include flag", res.Metadata)
	}
	if strings.Contains(res.Metadata, "Libs:") {
		t.Errorf("metadata %q should not carry Libs for a header-only package", res.Metadata)
	}

	// The pkg-config file is written next to the artifacts.
	if _, err := os.Stat(filepath.Join(res.PackageDir, "hdrlib.pc")); err != nil {
		t.Errorf("missing hdrlib.pc: %v", err)
	}

	// The revision is resolved from the version tag.
	if repo.lastRef != "v1.0.0" {
		t.Errorf("staged ref = %q, want %q", repo.lastRef, "v1.0.0")
	}
}

func TestPack_CacheHit(t *testing.T) {
	repo := &mockRepo{srcDir: writeSourceTree(t)}
	p := setupPackager(t, repo)

	main := headerOnlyModule("acme/hdrlib", "1.0.0")

	results1, err := p.Pack(context.Background(), []*modules.Module{main})
	if err != nil {
		t.Fatalf("first Pack() error = %v", err)
	}
	results2, err := p.Pack(context.Background(), []*modules.Module{main})
	if err != nil {
		t.Fatalf("second Pack() error = %v", err)
	}

	if results1[0].Metadata != results2[0].Metadata {
		t.Errorf("metadata differs between runs: %q vs %q", results1[0].Metadata, results2[0].Metadata)
	}
	// The source tree is staged once; the second run is served from cache.
	if repo.syncs != 1 {
		t.Errorf("SyncDir calls = %d, want 1", repo.syncs)
	}
}

func TestPack_OnPackageCallback(t *testing.T) {
	repo := &mockRepo{srcDir: writeSourceTree(t)}
	p := setupPackager(t, repo)

	var gotSource string
	main := headerOnlyModule("acme/hdrlib", "1.0.0")
	main.Recipe.NoCopySource = true
	main.Recipe.OnPackage = func(ctx *classfile.Context, proj *classfile.Project, out *classfile.PackageResult) {
		gotSource = ctx.SourceDir
		files, err := classfile.Copy("*.h", ctx.SourceDir, ctx.PackageDir)
		if err != nil {
			out.AddErr(err)
			return
		}
		out.AddFiles(files...)
	}

	results, err := p.Pack(context.Background(), []*modules.Module{main})
	if err != nil {
		t.Fatalf("Pack() error = %v", err)
	}
	if gotSource == "" {
		t.Fatal("onPackage was not invoked")
	}
	if _, err := os.Stat(filepath.Join(results[0].PackageDir, "include", "util.h")); err != nil {
		t.Errorf("missing packaged header: %v", err)
	}
}

func TestPack_NoCopySourceExportFilter(t *testing.T) {
	// A stray header outside the declared export path must not be packaged,
	// even when the recipe reads the staged tree in place.
	srcDir := t.TempDir()
	files := map[string]string{
		"include/util.h": "#pragma once\n",
		"src/internal.h": "#pragma once\n",
	}
	for name, content := range files {
		path := filepath.Join(srcDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	repo := &mockRepo{srcDir: srcDir}
	p := setupPackager(t, repo)

	main := headerOnlyModule("acme/hdrlib", "1.0.0")
	main.Recipe.NoCopySource = true

	results, err := p.Pack(context.Background(), []*modules.Module{main})
	if err != nil {
		t.Fatalf("Pack() error = %v", err)
	}
	res := results[0]

	if _, err := os.Stat(filepath.Join(res.PackageDir, "include", "util.h")); err != nil {
		t.Errorf("missing packaged header include/util.h: %v", err)
	}
	if _, err := os.Stat(filepath.Join(res.PackageDir, "src", "internal.h")); err == nil {
		t.Error("src/internal.h was packaged despite exportsSources \"include/*\"")
	}
}

func TestPack_OnPackageError(t *testing.T) {
	repo := &mockRepo{srcDir: writeSourceTree(t)}
	p := setupPackager(t, repo)

	main := headerOnlyModule("acme/badlib", "1.0.0")
	main.Recipe.OnPackage = func(ctx *classfile.Context, proj *classfile.Project, out *classfile.PackageResult) {
		out.AddErr(fmt.Errorf("missing header"))
	}

	_, err := p.Pack(context.Background(), []*modules.Module{main})
	if err == nil {
		t.Fatal("Pack() error = nil, want packaging error")
	}
	if !strings.Contains(err.Error(), "missing header") {
		t.Errorf("error = %v, want it to contain %q", err, "missing header")
	}
}

func TestPack_WithDeps(t *testing.T) {
	repo := &mockRepo{srcDir: writeSourceTree(t)}
	p := setupPackager(t, repo)

	dep := headerOnlyModule("acme/base", "2.0.0")
	main := headerOnlyModule("acme/app", "1.0.0")
	main.Deps = []*modules.Module{dep}

	var gotDeps map[module.Version]string
	main.Recipe.OnPackage = func(ctx *classfile.Context, proj *classfile.Project, out *classfile.PackageResult) {
		gotDeps = ctx.DepDirs
		if _, err := classfile.Copy("*.h", ctx.SourceDir, ctx.PackageDir); err != nil {
			out.AddErr(err)
		}
	}

	results, err := p.Pack(context.Background(), []*modules.Module{main, dep})
	if err != nil {
		t.Fatalf("Pack() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// Deps are packaged first; the main module's result comes last.
	if results[0].Path != "acme/base" || results[1].Path != "acme/app" {
		t.Errorf("pack order = %s, %s; want acme/base, acme/app", results[0].Path, results[1].Path)
	}

	depVer := module.Version{Path: "acme/base", Version: "2.0.0"}
	if dir, ok := gotDeps[depVer]; !ok || dir != results[0].PackageDir {
		t.Errorf("DepDirs[%v] = %q, want %q", depVer, dir, results[0].PackageDir)
	}
}

func TestPack_ExplicitRevision(t *testing.T) {
	repo := &mockRepo{srcDir: writeSourceTree(t), tags: []string{"v1.0.0"}}
	p := setupPackager(t, repo)

	main := headerOnlyModule("acme/hdrlib", "1.0.0")
	main.Recipe.SCMRevision = "0badc0ffee"

	if _, err := p.Pack(context.Background(), []*modules.Module{main}); err != nil {
		t.Fatalf("Pack() error = %v", err)
	}
	if repo.lastRef != "0badc0ffee" {
		t.Errorf("staged ref = %q, want explicit revision", repo.lastRef)
	}
}

func TestPackageDirConvention(t *testing.T) {
	p := &Packager{matrix: "amd64-linux", workspaceDir: "/ws"}

	dir, err := p.packageDir("acme/hdrlib", "1.0.0")
	if err != nil {
		t.Fatalf("packageDir() error = %v", err)
	}
	want := filepath.Join("/ws", "acme", "hdrlib@1.0.0-amd64-linux")
	if dir != want {
		t.Errorf("packageDir = %q, want %q", dir, want)
	}
}

func TestHostMatrix(t *testing.T) {
	m := hostMatrix()
	if m == "" {
		t.Fatal("hostMatrix() is empty")
	}
	if !strings.Contains(m, "-") {
		t.Errorf("hostMatrix() = %q, want arch-os form", m)
	}
}
