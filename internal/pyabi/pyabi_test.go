package pyabi

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pyosim/osimsetup/internal/execx"
)

// fakeRunner answers LookPath from paths and Output from canned responses
// keyed by the full command line.
type fakeRunner struct {
	paths   map[string]string
	outputs map[string]string
}

var _ execx.Runner = (*fakeRunner)(nil)

func (f *fakeRunner) LookPath(name string) (string, error) {
	if p, ok := f.paths[name]; ok {
		return p, nil
	}
	return "", errors.New(name + ": executable file not found")
}

func (f *fakeRunner) Run(name string, args ...string) error {
	return errors.New("unexpected Run")
}

func (f *fakeRunner) Output(name string, args ...string) (string, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	if out, ok := f.outputs[key]; ok {
		return out, nil
	}
	return "", errors.New("no output for " + key)
}

func introspection(exe, include, libDir, libName string) map[string]string {
	m := make(map[string]string)
	m[exe+" -c import sysconfig; print(sysconfig.get_paths()['include'])"] = include
	m[exe+" -c import sysconfig; print(sysconfig.get_config_var('LIBDIR') or '')"] = libDir
	m[exe+" -c import sysconfig; print(sysconfig.get_config_var('LDLIBRARY') or '')"] = libName
	return m
}

func TestResolveVersionedInterp(t *testing.T) {
	tmp := t.TempDir()
	libDir := filepath.Join(tmp, "lib")
	if err := os.MkdirAll(libDir, 0o755); err != nil {
		t.Fatal(err)
	}
	lib := filepath.Join(libDir, "libpython3.11.so")
	if err := os.WriteFile(lib, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	exe := filepath.Join(tmp, "python3.11")
	r := &fakeRunner{
		paths:   map[string]string{"python3.11": exe},
		outputs: introspection(exe, filepath.Join(tmp, "include"), libDir, "libpython3.11.so"),
	}

	p, err := Resolve(r, "3.11")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Exe != exe {
		t.Errorf("Exe = %q, want %q", p.Exe, exe)
	}
	if p.IncludeDir != filepath.Join(tmp, "include") {
		t.Errorf("IncludeDir = %q", p.IncludeDir)
	}
	if p.Library != lib {
		t.Errorf("Library = %q, want %q", p.Library, lib)
	}
}

func TestResolveSiblingLibsFallback(t *testing.T) {
	// Conventional Windows-style layout: libs/ next to the executable,
	// no LDLIBRARY/LIBDIR reported.
	tmp := t.TempDir()
	exe := filepath.Join(tmp, "python.exe")
	libsDir := filepath.Join(tmp, "libs")
	if err := os.MkdirAll(libsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	lib := filepath.Join(libsDir, "python311.lib")
	if err := os.WriteFile(lib, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	r := &fakeRunner{
		paths:   map[string]string{"python3.11": exe},
		outputs: introspection(exe, filepath.Join(tmp, "include"), "", ""),
	}

	p, err := Resolve(r, "3.11")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Library != lib {
		t.Errorf("Library = %q, want sibling libs fallback %q", p.Library, lib)
	}
}

func TestResolveUnversionedInterpByVersionCheck(t *testing.T) {
	tmp := t.TempDir()
	libDir := filepath.Join(tmp, "lib")
	os.MkdirAll(libDir, 0o755)
	os.WriteFile(filepath.Join(libDir, "libpython3.10.so"), nil, 0o644)

	exe := filepath.Join(tmp, "python3")
	outputs := introspection(exe, filepath.Join(tmp, "include"), libDir, "libpython3.10.so")
	outputs[exe+" -c "+versionSrc] = "3.10"

	r := &fakeRunner{
		paths:   map[string]string{"python3": exe},
		outputs: outputs,
	}

	p, err := Resolve(r, "3.10")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Exe != exe {
		t.Errorf("Exe = %q, want %q", p.Exe, exe)
	}
}

func TestResolveWrongMinorVersion(t *testing.T) {
	exe := "/usr/bin/python3"
	outputs := map[string]string{exe + " -c " + versionSrc: "3.12"}

	r := &fakeRunner{
		paths:   map[string]string{"python3": exe},
		outputs: outputs,
	}

	if _, err := Resolve(r, "3.10"); err == nil {
		t.Fatal("Resolve accepted an interpreter with the wrong minor version")
	}
}

func TestResolveInterpreterMissing(t *testing.T) {
	r := &fakeRunner{paths: map[string]string{}}
	_, err := Resolve(r, "3.11")
	if err == nil {
		t.Fatal("Resolve found a nonexistent interpreter")
	}
	if !strings.Contains(err.Error(), "3.11") {
		t.Errorf("error %q does not name the pinned version", err)
	}
}

func TestResolveLibraryMissing(t *testing.T) {
	tmp := t.TempDir()
	exe := filepath.Join(tmp, "python3.11")
	r := &fakeRunner{
		paths:   map[string]string{"python3.11": exe},
		outputs: introspection(exe, filepath.Join(tmp, "include"), "", ""),
	}

	_, err := Resolve(r, "3.11")
	if err == nil {
		t.Fatal("Resolve succeeded without a link library on disk")
	}
	if !strings.Contains(err.Error(), "python311.lib") {
		t.Errorf("error %q does not name the expected library", err)
	}
}

func TestCopyLibrary(t *testing.T) {
	tmp := t.TempDir()
	lib := filepath.Join(tmp, "python311.lib")
	if err := os.WriteFile(lib, []byte("lib"), 0o644); err != nil {
		t.Fatal(err)
	}

	install := filepath.Join(tmp, "install")
	p := &Interp{Library: lib}
	if err := p.CopyLibrary(install); err != nil {
		t.Fatalf("CopyLibrary: %v", err)
	}

	dest := filepath.Join(install, "lib", "python311.lib")
	if runtime.GOOS == "windows" {
		dest = filepath.Join(install, "sdk", "lib", "python311.lib")
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("copied library missing: %v", err)
	}
	if string(data) != "lib" {
		t.Errorf("copied content = %q", data)
	}
}

func TestCopyLibraryMissingSourceFails(t *testing.T) {
	p := &Interp{Library: filepath.Join(t.TempDir(), "absent.lib")}
	if err := p.CopyLibrary(t.TempDir()); err == nil {
		t.Fatal("CopyLibrary succeeded with a missing source")
	}
}
