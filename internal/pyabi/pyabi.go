// Package pyabi locates a specific minor-version Python interpreter and
// derives the include directory and link library a compiled binding must
// link against. Everything here is best-effort: failures are reported to
// the caller and must never abort a run.
package pyabi

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pyosim/osimsetup/internal/execx"
)

// Interp is a resolved ABI-pinned interpreter: its executable, the header
// directory, and the link library file downstream artifacts link against.
type Interp struct {
	Exe        string
	IncludeDir string
	Library    string
}

const versionSrc = "import sys; print('%d.%d' % sys.version_info[:2])"

// Resolve finds the interpreter for the given minor version ("3.11" style)
// and introspects its include dir and link library. The returned error is
// advisory; callers downgrade it to a warning and continue without hints.
func Resolve(r execx.Runner, minor string) (*Interp, error) {
	exe, err := findInterp(r, minor)
	if err != nil {
		return nil, err
	}

	includeDir, err := r.Output(exe, "-c", "import sysconfig; print(sysconfig.get_paths()['include'])")
	if err != nil || includeDir == "" {
		return nil, fmt.Errorf("python %s: cannot determine include dir: %v", minor, err)
	}

	lib, err := findLibrary(r, exe, minor)
	if err != nil {
		return nil, err
	}

	return &Interp{Exe: exe, IncludeDir: includeDir, Library: lib}, nil
}

// findInterp tries, in order: the versioned executable name, the Windows
// launcher, and an unversioned python whose reported version matches.
func findInterp(r execx.Runner, minor string) (string, error) {
	if exe, err := r.LookPath("python" + minor); err == nil {
		return exe, nil
	}
	if _, err := r.LookPath("py"); err == nil {
		if exe, err := r.Output("py", "-"+minor, "-c", "import sys; print(sys.executable)"); err == nil && exe != "" {
			return exe, nil
		}
	}
	for _, name := range []string{"python3", "python"} {
		exe, err := r.LookPath(name)
		if err != nil {
			continue
		}
		if got, err := r.Output(exe, "-c", versionSrc); err == nil && got == minor {
			return exe, nil
		}
	}
	return "", fmt.Errorf("python %s not found", minor)
}

// findLibrary derives the link library path from the interpreter's own
// sysconfig, falling back to the conventional "libs" directory next to the
// executable when introspection points nowhere.
func findLibrary(r execx.Runner, exe, minor string) (string, error) {
	name, _ := r.Output(exe, "-c", "import sysconfig; print(sysconfig.get_config_var('LDLIBRARY') or '')")
	if name == "" {
		// Windows pythons do not report LDLIBRARY.
		name = "python" + strings.ReplaceAll(minor, ".", "") + ".lib"
	}

	if libDir, err := r.Output(exe, "-c", "import sysconfig; print(sysconfig.get_config_var('LIBDIR') or '')"); err == nil && libDir != "" {
		if p := filepath.Join(libDir, name); exists(p) {
			return p, nil
		}
	}

	// Conventional install layout: <python dir>\libs\pythonXY.lib.
	if p := filepath.Join(filepath.Dir(exe), "libs", name); exists(p) {
		return p, nil
	}

	return "", fmt.Errorf("python %s: link library %s not found", minor, name)
}

// CopyLibrary copies the resolved link library into the install tree's
// library directory so relocated SDKs link without a system Python.
func (p *Interp) CopyLibrary(installDir string) error {
	libDir := filepath.Join(installDir, "sdk", "lib")
	if runtime.GOOS != "windows" {
		libDir = filepath.Join(installDir, "lib")
	}
	if err := os.MkdirAll(libDir, 0o755); err != nil {
		return err
	}
	src, err := os.Open(p.Library)
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := os.Create(filepath.Join(libDir, filepath.Base(p.Library)))
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	return err
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
