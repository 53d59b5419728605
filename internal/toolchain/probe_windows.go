//go:build windows

package toolchain

import (
	"golang.org/x/sys/windows/registry"

	"github.com/pyosim/osimsetup/internal/execx"
)

const compilerRemedy = "install Visual Studio 2022 with the Desktop development with C++ workload"

// compilerProbes locates an MSVC toolchain: cl on PATH (developer prompt),
// the Visual Studio installer's vswhere marker, or the VS setup registry key.
func compilerProbes() []Probe {
	return []Probe{
		PathProbe("cl"),
		FileProbe(
			`C:\Program Files (x86)\Microsoft Visual Studio\Installer\vswhere.exe`,
			`C:\Program Files\Microsoft Visual Studio\Installer\vswhere.exe`,
		),
		registryProbe(`SOFTWARE\Microsoft\VisualStudio\Setup`, "SharedInstallationPath"),
	}
}

func nsisProbes() []Probe {
	return []Probe{
		FileProbe(
			`C:\Program Files (x86)\NSIS\makensis.exe`,
			`C:\Program Files\NSIS\makensis.exe`,
		),
	}
}

// registryProbe reads a string value from HKLM, honoring the 32-bit
// registry view where Visual Studio setup writes.
func registryProbe(path, name string) Probe {
	return func(execx.Runner) (string, bool) {
		for _, access := range []uint32{
			registry.QUERY_VALUE,
			registry.QUERY_VALUE | registry.WOW64_32KEY,
		} {
			k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, access)
			if err != nil {
				continue
			}
			v, _, err := k.GetStringValue(name)
			k.Close()
			if err == nil && v != "" {
				return v, true
			}
		}
		return "", false
	}
}
