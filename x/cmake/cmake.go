// Package cmake wraps the cmake configure/build/install workflow.
package cmake

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/pyosim/osimsetup/internal/execx"
)

type defineValue struct {
	value    string
	typeName string
}

// CMake drives one configure→build→install cycle against one source tree.
type CMake struct {
	runner     execx.Runner
	sourceDir  string
	buildDir   string
	installDir string
	generator  string
	platform   string
	buildType  string
	jobs       int
	defines    map[string]defineValue
}

// New returns a ready-to-use CMake that runs commands through r.
func New(r execx.Runner, sourceDir, buildDir, installDir string) *CMake {
	return &CMake{
		runner:     r,
		sourceDir:  sourceDir,
		buildDir:   buildDir,
		installDir: installDir,
		defines:    make(map[string]defineValue),
	}
}

// Generator sets the CMake generator (e.g. "Ninja", "Visual Studio 17 2022").
func (c *CMake) Generator(name string) { c.generator = name }

// Platform sets the generator platform passed as -A (Visual Studio only).
func (c *CMake) Platform(name string) { c.platform = name }

// BuildType sets CMAKE_BUILD_TYPE (e.g. "Release", "Debug").
func (c *CMake) BuildType(name string) { c.buildType = name }

// Jobs sets the compiler-level parallelism forwarded to the native build
// tool. It is passed after "--", not as cmake's own --parallel flag.
func (c *CMake) Jobs(n int) { c.jobs = n }

// Define adds a -D<key>:STRING=<value> definition.
func (c *CMake) Define(key, value string) {
	c.defines[key] = defineValue{value: value, typeName: "STRING"}
}

// DefineBool adds a -D<key>:BOOL=ON/OFF definition.
func (c *CMake) DefineBool(key string, value bool) {
	v := "OFF"
	if value {
		v = "ON"
	}
	c.defines[key] = defineValue{value: v, typeName: "BOOL"}
}

// DefinePath adds a -D<key>:PATH=<value> definition.
func (c *CMake) DefinePath(key, value string) {
	c.defines[key] = defineValue{value: value, typeName: "PATH"}
}

// Use configures the process environment so that the configure step finds
// headers and libraries from a non-system dependency installed at root.
func (c *CMake) Use(root string) {
	includeDir := filepath.Join(root, "include")
	libDir := filepath.Join(root, "lib")

	prependPath("CMAKE_PREFIX_PATH", root)
	if _, err := os.Stat(includeDir); err == nil {
		prependPath("CMAKE_INCLUDE_PATH", includeDir)
	}
	if _, err := os.Stat(libDir); err == nil {
		prependPath("CMAKE_LIBRARY_PATH", libDir)
	}

	if runtime.GOOS == "windows" {
		if _, err := os.Stat(includeDir); err == nil {
			prependPath("INCLUDE", includeDir)
		}
		if _, err := os.Stat(libDir); err == nil {
			prependPath("LIB", libDir)
		}
	} else {
		if _, err := os.Stat(includeDir); err == nil {
			appendFlag("CPPFLAGS", "-I"+includeDir)
		}
		if _, err := os.Stat(libDir); err == nil {
			appendFlag("LDFLAGS", "-L"+libDir)
		}
	}
}

// Configure runs "cmake -S <source> -B <build>" with all configured options.
// Extra args are appended at the end.
func (c *CMake) Configure(args ...string) error {
	if err := os.MkdirAll(c.buildDir, 0o755); err != nil {
		return err
	}
	cmakeArgs := c.ConfigureArgs(args...)
	return c.runner.Run("cmake", cmakeArgs...)
}

// ConfigureArgs returns the argument list Configure would run.
func (c *CMake) ConfigureArgs(args ...string) []string {
	cmakeArgs := []string{"-S", c.sourceDir, "-B", c.buildDir}
	if c.generator != "" {
		cmakeArgs = append(cmakeArgs, "-G", c.generator)
	}
	if c.platform != "" {
		cmakeArgs = append(cmakeArgs, "-A", c.platform)
	}
	if c.installDir != "" {
		c.DefinePath("CMAKE_INSTALL_PREFIX", c.installDir)
	}
	if c.buildType != "" {
		c.Define("CMAKE_BUILD_TYPE", c.buildType)
	}
	cmakeArgs = append(cmakeArgs, c.definesArgs()...)
	return append(cmakeArgs, args...)
}

// Build runs "cmake --build <build>". The configured job count goes to the
// native build tool; under Visual Studio generators the per-translation-unit
// parallelism is pinned to 1.
func (c *CMake) Build(args ...string) error {
	return c.runner.Run("cmake", c.BuildArgs(args...)...)
}

// BuildArgs returns the argument list Build would run.
func (c *CMake) BuildArgs(args ...string) []string {
	cmakeArgs := []string{"--build", c.buildDir}
	if c.buildType != "" {
		cmakeArgs = append(cmakeArgs, "--config", c.buildType)
	}
	cmakeArgs = append(cmakeArgs, args...)
	if c.jobs > 0 {
		if strings.HasPrefix(c.generator, "Visual Studio") {
			cmakeArgs = append(cmakeArgs, "--",
				"/maxcpucount:"+strconv.Itoa(c.jobs), "/p:CL_MPCount=1")
		} else {
			cmakeArgs = append(cmakeArgs, "--", "-j", strconv.Itoa(c.jobs))
		}
	}
	return cmakeArgs
}

// Install runs "cmake --install <build>" with optional extra arguments.
func (c *CMake) Install(args ...string) error {
	cmakeArgs := []string{"--install", c.buildDir}
	if c.buildType != "" {
		cmakeArgs = append(cmakeArgs, "--config", c.buildType)
	}
	if c.installDir != "" {
		cmakeArgs = append(cmakeArgs, "--prefix", c.installDir)
	}
	cmakeArgs = append(cmakeArgs, args...)
	return c.runner.Run("cmake", cmakeArgs...)
}

// InstallDir returns the configured install prefix.
func (c *CMake) InstallDir() string { return c.installDir }

func (c *CMake) definesArgs() []string {
	if len(c.defines) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.defines))
	for k := range c.defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		d := c.defines[k]
		args = append(args, "-D"+k+":"+d.typeName+"="+d.value)
	}
	return args
}

// prependPath prepends value to a PATH-style env var.
func prependPath(key, value string) {
	sep := ":"
	if runtime.GOOS == "windows" {
		sep = ";"
	}
	if cur := os.Getenv(key); cur != "" {
		value += sep + cur
	}
	os.Setenv(key, value)
}

// appendFlag appends a space-separated flag to an env var.
func appendFlag(key, flag string) {
	if cur := os.Getenv(key); cur != "" {
		flag = cur + " " + flag
	}
	os.Setenv(key, flag)
}
