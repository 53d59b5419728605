// Package config resolves the driver configuration from command flags,
// environment variables and built-in defaults, in that priority order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables honored by Resolve. Flags take precedence over all
// of them.
const (
	EnvBuildType    = "OSIM_BUILD_TYPE"
	EnvJobs         = "OSIM_JOBS"
	EnvPythonABI    = "OSIM_PYTHON_ABI"
	EnvSwigVersion  = "OSIM_SWIG_VERSION"
	EnvCmakeVersion = "OSIM_CMAKE_VERSION"
	EnvNinjaVersion = "OSIM_NINJA_VERSION"
)

const (
	DefaultBuildType = "Release"
	DefaultJobs      = 4
	DefaultBranch    = "main"
)

// BuildTypes is the set of accepted CMAKE_BUILD_TYPE values.
var BuildTypes = []string{"Release", "Debug", "RelWithDebInfo", "MinSizeRel"}

// Config is the resolved, immutable driver configuration. It is produced
// once by Resolve and passed explicitly to every downstream operation.
type Config struct {
	BuildType string
	Jobs      int
	Branch    string // recorded and displayed only

	NoMoco               bool
	AllowFallbackInstall bool
	PythonABI            string // "3.11" style; empty disables ABI resolution

	SourceDir    string
	WorkspaceDir string
	Verbose      bool

	// Tool version pins, empty when unpinned.
	SwigVersion  string
	CmakeVersion string
	NinjaVersion string
}

// Overrides carries explicitly set flag values. Zero values mean "not set on
// the command line"; Jobs is a pointer so that an explicit --jobs 0 is still
// rejected by validation rather than silently defaulted.
type Overrides struct {
	BuildType            string
	Jobs                 *int
	Branch               string
	NoMoco               bool
	AllowFallbackInstall bool
	PythonABI            string
	SourceDir            string
	WorkspaceDir         string
	Verbose              bool
}

// Resolve merges overrides, environment and defaults into a Config and
// validates it. A sibling .env file, when present, is loaded into the
// environment first but never overrides variables already set. Validation
// failures happen before any side effect on the filesystem.
func Resolve(ov Overrides) (Config, error) {
	_ = godotenv.Load() // optional; missing .env is not an error

	cfg := Config{
		BuildType:            pick(ov.BuildType, os.Getenv(EnvBuildType), DefaultBuildType),
		Branch:               pick(ov.Branch, "", DefaultBranch),
		NoMoco:               ov.NoMoco,
		AllowFallbackInstall: ov.AllowFallbackInstall,
		PythonABI:            pick(ov.PythonABI, os.Getenv(EnvPythonABI), ""),
		Verbose:              ov.Verbose,
		SwigVersion:          os.Getenv(EnvSwigVersion),
		CmakeVersion:         os.Getenv(EnvCmakeVersion),
		NinjaVersion:         os.Getenv(EnvNinjaVersion),
	}

	jobs, err := resolveJobs(ov.Jobs)
	if err != nil {
		return Config{}, err
	}
	cfg.Jobs = jobs

	if !validBuildType(cfg.BuildType) {
		return Config{}, fmt.Errorf("invalid build type %q: must be one of Release, Debug, RelWithDebInfo, MinSizeRel", cfg.BuildType)
	}
	if cfg.Jobs < 1 {
		return Config{}, fmt.Errorf("job count must be at least 1, got %d", cfg.Jobs)
	}

	cfg.SourceDir = ov.SourceDir
	if cfg.SourceDir == "" {
		cfg.SourceDir = "."
	}
	cfg.WorkspaceDir = ov.WorkspaceDir
	if cfg.WorkspaceDir == "" {
		cfg.WorkspaceDir = filepath.Join(cfg.SourceDir, "..", "osim-workspace")
	}

	return cfg, nil
}

func resolveJobs(flag *int) (int, error) {
	if flag != nil {
		return *flag, nil
	}
	if env := os.Getenv(EnvJobs); env != "" {
		n, err := strconv.Atoi(env)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", EnvJobs, env, err)
		}
		return n, nil
	}
	return DefaultJobs, nil
}

func validBuildType(bt string) bool {
	for _, v := range BuildTypes {
		if bt == v {
			return true
		}
	}
	return false
}

// pick returns the first non-empty value.
func pick(flag, env, def string) string {
	if flag != "" {
		return flag
	}
	if env != "" {
		return env
	}
	return def
}
