package pack

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	classfile "github.com/cpakg/cpak/recipe"
)

func TestSaveAndLoadCache(t *testing.T) {
	p := &Packager{matrix: "amd64-linux", workspaceDir: t.TempDir()}

	now := time.Now().Truncate(time.Second)
	cache := &packCache{}
	cache.set("1.0.0", "amd64-linux", &packEntry{
		Metadata: "Cflags: -I${prefix}/include\n",
		Info:     classfile.CppInfo{IncludeDirs: []string{"include"}},
		PackTime: now,
	})

	if err := p.saveCache("acme/hdrlib", cache); err != nil {
		t.Fatalf("saveCache failed: %v", err)
	}

	loaded, err := p.loadCache("acme/hdrlib")
	if err != nil {
		t.Fatalf("loadCache failed: %v", err)
	}
	entry, ok := loaded.get("1.0.0", "amd64-linux")
	if !ok {
		t.Fatal("cache entry not found")
	}
	if entry.Metadata != "Cflags: -I${prefix}/include\n" {
		t.Errorf("Metadata mismatch: got %q", entry.Metadata)
	}
	if len(entry.Info.IncludeDirs) != 1 || entry.Info.IncludeDirs[0] != "include" {
		t.Errorf("Info.IncludeDirs = %v, want [include]", entry.Info.IncludeDirs)
	}
	if !entry.PackTime.Truncate(time.Second).Equal(now) {
		t.Errorf("PackTime mismatch: got %v, want %v", entry.PackTime, now)
	}

	// Entries for other variants are distinct.
	if _, ok := loaded.get("1.0.0", "arm64-darwin"); ok {
		t.Error("unexpected entry for a different matrix")
	}
}

func TestInstalled(t *testing.T) {
	p := &Packager{matrix: "amd64-linux", workspaceDir: t.TempDir()}

	cache := &packCache{}
	cache.set("1.0.0", "amd64-linux", &packEntry{
		Metadata: "Cflags: -I${prefix}/include\n",
		Info:     classfile.CppInfo{IncludeDirs: []string{"include"}},
		PackTime: time.Now(),
	})
	if err := p.saveCache("acme/hdrlib", cache); err != nil {
		t.Fatal(err)
	}

	// The package directory must exist too.
	if _, err := p.Installed("acme/hdrlib", "1.0.0"); err == nil {
		t.Fatal("expected error for missing package directory, got nil")
	}
	pkgDir, err := p.packageDir("acme/hdrlib", "1.0.0")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(pkgDir, 0755); err != nil {
		t.Fatal(err)
	}

	res, err := p.Installed("acme/hdrlib", "1.0.0")
	if err != nil {
		t.Fatalf("Installed failed: %v", err)
	}
	if res.PackageDir != pkgDir {
		t.Errorf("PackageDir = %q, want %q", res.PackageDir, pkgDir)
	}
	if res.Metadata != "Cflags: -I${prefix}/include\n" {
		t.Errorf("Metadata = %q", res.Metadata)
	}

	if _, err := p.Installed("acme/hdrlib", "2.0.0"); err == nil {
		t.Error("expected error for unpackaged version, got nil")
	}
	if _, err := p.Installed("acme/other", "1.0.0"); err == nil {
		t.Error("expected error for unpackaged module, got nil")
	}
}

func TestLoadCache_NotExist(t *testing.T) {
	p := &Packager{matrix: "amd64-linux", workspaceDir: t.TempDir()}

	if _, err := p.loadCache("acme/nothing"); err == nil {
		t.Fatal("expected error for missing cache file, got nil")
	}
}

func TestLoadCache_InvalidJSON(t *testing.T) {
	p := &Packager{matrix: "amd64-linux", workspaceDir: t.TempDir()}

	dir, err := p.cacheDir("acme/hdrlib")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, cacheFile), []byte("invalid json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := p.loadCache("acme/hdrlib"); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}
