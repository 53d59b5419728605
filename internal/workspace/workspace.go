// Package workspace derives and creates the on-disk directory tree used by
// the two build units.
package workspace

import (
	"os"
	"path/filepath"
)

// Layout holds every directory path the superbuild touches.
//
// Workspace directory layout:
//
//	root/
//	  dependencies-build/     # deps unit build tree
//	  dependencies-install/   # deps unit install prefix, consumed by the core configure
//	  core-build/             # core unit build tree
//	  core-install/           # final install prefix
type Layout struct {
	Root string

	DepsSourceDir  string
	DepsBuildDir   string
	DepsInstallDir string

	CoreSourceDir  string
	CoreBuildDir   string
	CoreInstallDir string
}

// New derives a Layout from the core source tree and the workspace root.
// The dependencies superbuild project is the "dependencies" subdirectory of
// the core source tree.
func New(sourceDir, root string) Layout {
	return Layout{
		Root:           root,
		DepsSourceDir:  filepath.Join(sourceDir, "dependencies"),
		DepsBuildDir:   filepath.Join(root, "dependencies-build"),
		DepsInstallDir: filepath.Join(root, "dependencies-install"),
		CoreSourceDir:  sourceDir,
		CoreBuildDir:   filepath.Join(root, "core-build"),
		CoreInstallDir: filepath.Join(root, "core-install"),
	}
}

// Ensure creates the build and install directories if absent. It never
// removes anything.
func (l Layout) Ensure() error {
	for _, dir := range []string{
		l.DepsBuildDir, l.DepsInstallDir, l.CoreBuildDir, l.CoreInstallDir,
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
