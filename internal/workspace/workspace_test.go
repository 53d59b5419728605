package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDerivesPaths(t *testing.T) {
	l := New(filepath.Join("src", "core"), "ws")

	if want := filepath.Join("src", "core", "dependencies"); l.DepsSourceDir != want {
		t.Errorf("DepsSourceDir = %q, want %q", l.DepsSourceDir, want)
	}
	if want := filepath.Join("src", "core"); l.CoreSourceDir != want {
		t.Errorf("CoreSourceDir = %q, want %q", l.CoreSourceDir, want)
	}
	for _, dir := range []string{l.DepsBuildDir, l.DepsInstallDir, l.CoreBuildDir, l.CoreInstallDir} {
		if filepath.Dir(dir) != "ws" {
			t.Errorf("%q not under workspace root", dir)
		}
	}
	if l.DepsBuildDir == l.CoreBuildDir || l.DepsInstallDir == l.CoreInstallDir {
		t.Error("build units share a directory")
	}
}

func TestEnsureCreatesTree(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ws")
	l := New(t.TempDir(), root)

	if err := l.Ensure(); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	for _, dir := range []string{l.DepsBuildDir, l.DepsInstallDir, l.CoreBuildDir, l.CoreInstallDir} {
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			t.Errorf("missing directory %s", dir)
		}
	}

	// Idempotent: a second Ensure must not fail.
	if err := l.Ensure(); err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
}
