//go:build !windows

package toolchain

const compilerRemedy = "install gcc or clang"

func compilerProbes() []Probe {
	return []Probe{PathProbe("cc", "gcc", "clang")}
}

func nsisProbes() []Probe {
	return nil
}
