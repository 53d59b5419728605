package toolchain

import "github.com/pyosim/osimsetup/internal/config"

// Required returns the prerequisite set for one provisioning run, with
// installer steps carrying the configured version pins. Order matters only
// for reporting; nothing here depends on another entry being checked first.
func Required(cfg config.Config) []Tool {
	return []Tool{
		{
			Name:   "C++ toolchain",
			Remedy: compilerRemedy,
			Probes: compilerProbes(),
		},
		{
			Name:        "cmake",
			Remedy:      "install CMake and put it on PATH",
			MinVersion:  cfg.CmakeVersion,
			VersionArgs: []string{"--version"},
			Probes:      []Probe{PathProbe("cmake")},
			Install: []InstallStep{
				{Tool: "python", Args: pipInstall("cmake", cfg.CmakeVersion)},
				{Tool: "choco", Args: chocoInstall("cmake", cfg.CmakeVersion)},
			},
		},
		{
			Name:        "ninja",
			Optional:    true,
			Remedy:      "install Ninja and put it on PATH",
			MinVersion:  cfg.NinjaVersion,
			VersionArgs: []string{"--version"},
			Probes:      []Probe{PathProbe("ninja")},
			Install: []InstallStep{
				{Tool: "python", Args: pipInstall("ninja", cfg.NinjaVersion)},
				{Tool: "choco", Args: chocoInstall("ninja", cfg.NinjaVersion)},
			},
		},
		{
			Name:   "python",
			Remedy: "install Python 3 and put it on PATH",
			Probes: []Probe{PathProbe("python3", "python")},
			Install: []InstallStep{
				{Tool: "choco", Args: chocoInstall("python", "")},
			},
		},
		{
			Name:   "swig",
			Remedy: "install SWIG and put it on PATH",
			Probes: []Probe{PathProbe("swig")},
			Install: []InstallStep{
				{Tool: "choco", Args: chocoInstall("swig", cfg.SwigVersion)},
			},
		},
		{
			Name:     "nsis",
			Optional: true,
			Remedy:   "install NSIS",
			Probes:   append([]Probe{PathProbe("makensis")}, nsisProbes()...),
			Install: []InstallStep{
				{Tool: "choco", Args: chocoInstall("nsis", "")},
			},
		},
	}
}

// pipInstall builds a quiet "python -m pip install" step, pinned when a
// version is given.
func pipInstall(pkg, pin string) []string {
	spec := pkg
	if pin != "" {
		spec = pkg + "==" + pin
	}
	return []string{"-m", "pip", "install", "--quiet", spec}
}

// chocoInstall builds a non-interactive choco step with progress suppressed.
func chocoInstall(pkg, pin string) []string {
	args := []string{"install", "-y", "--no-progress", pkg}
	if pin != "" {
		args = append(args, "--version", pin)
	}
	return args
}
