package internal

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestParseModuleArg(t *testing.T) {
	tests := []struct {
		arg         string
		wantModPath string
		wantVersion string
	}{
		{"owner/repo@v1.0.0", "owner/repo", "v1.0.0"},
		{"owner/repo@1.0.0", "owner/repo", "1.0.0"},
		{"owner/repo", "owner/repo", ""},
		{"org/owner/repo@v2.0.0", "org/owner/repo", "v2.0.0"},
		{"simple@latest", "simple", "latest"},
		{"no-version", "no-version", ""},
		{"multiple@at@signs", "multiple@at", "signs"},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			modPath, version := parseModuleArg(tt.arg)
			if modPath != tt.wantModPath {
				t.Errorf("parseModuleArg(%q) modPath = %q, want %q", tt.arg, modPath, tt.wantModPath)
			}
			if version != tt.wantVersion {
				t.Errorf("parseModuleArg(%q) version = %q, want %q", tt.arg, version, tt.wantVersion)
			}
		})
	}
}

func TestZipDir(t *testing.T) {
	srcDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(srcDir, "include"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "include", "util.h"), []byte("#pragma once\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "hdrlib.pc"), []byte("Name: hdrlib\n"), 0644); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(t.TempDir(), "out.zip")
	if err := zipDir(srcDir, dest); err != nil {
		t.Fatalf("zipDir failed: %v", err)
	}

	r, err := zip.OpenReader(dest)
	if err != nil {
		t.Fatalf("failed to open zip: %v", err)
	}
	defer r.Close()

	got := make(map[string]bool)
	for _, f := range r.File {
		got[f.Name] = true
	}
	for _, name := range []string{filepath.Join("include", "util.h"), "hdrlib.pc"} {
		if !got[name] {
			t.Errorf("zip missing entry %q, got %v", name, got)
		}
	}
}

func TestOutputResult_Directory(t *testing.T) {
	srcDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(srcDir, "hdrlib.pc"), []byte("Name: hdrlib\n"), 0644); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(t.TempDir(), "out")
	if err := outputResult(srcDir, dest); err != nil {
		t.Fatalf("outputResult failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dest, "hdrlib.pc"))
	if err != nil {
		t.Fatalf("copied file missing: %v", err)
	}
	if string(data) != "Name: hdrlib\n" {
		t.Errorf("copied content = %q", data)
	}
}
