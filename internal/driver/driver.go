// Package driver runs the provisioning flow: prerequisite checks, then the
// dependencies build unit, then the core build unit. Steps are strictly
// sequential; any fatal error aborts the whole run with no retry and no
// rollback of partially built artifacts.
package driver

import (
	"fmt"
	"runtime"

	"github.com/gookit/color"
	"github.com/qiniu/x/log"

	"github.com/pyosim/osimsetup/internal/config"
	"github.com/pyosim/osimsetup/internal/execx"
	"github.com/pyosim/osimsetup/internal/pyabi"
	"github.com/pyosim/osimsetup/internal/toolchain"
	"github.com/pyosim/osimsetup/internal/workspace"
	"github.com/pyosim/osimsetup/x/cmake"
)

var (
	colArrow   = color.HEX("#FFEB3B")
	colSuccess = color.HEX("#1976D2")
)

// Driver executes one provisioning run.
type Driver struct {
	cfg    config.Config
	layout workspace.Layout
	runner execx.Runner
	tools  []toolchain.Tool
	state  State
}

// New returns a Driver for the given resolved configuration.
func New(cfg config.Config, layout workspace.Layout, r execx.Runner) *Driver {
	return &Driver{
		cfg:    cfg,
		layout: layout,
		runner: r,
		tools:  toolchain.Required(cfg),
		state:  StateInit,
	}
}

// State reports the driver's current state.
func (d *Driver) State() State { return d.state }

// Run performs the whole flow. It must only be called once per Driver.
func (d *Driver) Run() error {
	d.state = StateConfigResolved
	step("checking toolchain prerequisites")

	checker := &toolchain.Checker{Runner: d.runner, AllowInstall: d.cfg.AllowFallbackInstall}
	if err := checker.Ensure(d.tools); err != nil {
		return d.fail(err)
	}
	d.state = StatePrereqsSatisfied

	if err := d.layout.Ensure(); err != nil {
		return d.fail(fmt.Errorf("creating workspace: %w", err))
	}

	py := d.resolvePython()

	if d.cfg.NoMoco {
		log.Warn("--no-moco has no effect: the Moco module is currently always disabled")
	}

	step("building dependencies (" + d.layout.DepsSourceDir + ")")
	deps := cmake.New(d.runner, d.layout.DepsSourceDir, d.layout.DepsBuildDir, d.layout.DepsInstallDir)
	d.applyCommon(deps, py)
	if err := deps.Configure(); err != nil {
		return d.fail(fmt.Errorf("dependencies configure: %w", err))
	}
	if err := deps.Build(); err != nil {
		return d.fail(fmt.Errorf("dependencies build: %w", err))
	}
	d.state = StateDependenciesBuilt
	if err := deps.Install(); err != nil {
		return d.fail(fmt.Errorf("dependencies install: %w", err))
	}
	d.state = StateDependenciesInstalled

	step("building core project (" + d.layout.CoreSourceDir + ")")
	core := cmake.New(d.runner, d.layout.CoreSourceDir, d.layout.CoreBuildDir, d.layout.CoreInstallDir)
	d.applyCommon(core, py)
	core.DefinePath("OPENSIM_DEPENDENCIES_DIR", d.layout.DepsInstallDir)
	core.DefineBool("OPENSIM_WITH_MOCO", false)
	core.Use(d.layout.DepsInstallDir)
	if err := core.Configure(); err != nil {
		return d.fail(fmt.Errorf("core configure: %w", err))
	}
	if err := core.Build(); err != nil {
		return d.fail(fmt.Errorf("core build: %w", err))
	}
	d.state = StateCoreBuilt
	if err := core.Install(); err != nil {
		return d.fail(fmt.Errorf("core install: %w", err))
	}
	d.state = StateCoreInstalled

	if py != nil {
		if err := py.CopyLibrary(d.layout.CoreInstallDir); err != nil {
			log.Warnf("copying python link library: %v", err)
		}
	}

	d.state = StateDone
	colSuccess.Printf("done: %s (branch %s) installed to %s\n",
		d.cfg.BuildType, d.cfg.Branch, core.InstallDir())
	return nil
}

// resolvePython runs ABI resolution when the feature is enabled. Resolution
// failures degrade to a warning and the run continues without hints.
func (d *Driver) resolvePython() *pyabi.Interp {
	if d.cfg.PythonABI == "" {
		return nil
	}
	py, err := pyabi.Resolve(d.runner, d.cfg.PythonABI)
	if err != nil {
		log.Warnf("%v; continuing without interpreter hints", err)
		return nil
	}
	return py
}

// applyCommon sets the options shared by both build units: the fixed
// generator/platform for the host, the build type, the job count and the
// resolved interpreter triple.
func (d *Driver) applyCommon(c *cmake.CMake, py *pyabi.Interp) {
	gen, platform := d.generator()
	c.Generator(gen)
	if platform != "" {
		c.Platform(platform)
	}
	c.BuildType(d.cfg.BuildType)
	c.Jobs(d.cfg.Jobs)
	if py != nil {
		c.DefinePath("PYTHON_EXECUTABLE", py.Exe)
		c.DefinePath("PYTHON_INCLUDE_DIR", py.IncludeDir)
		c.DefinePath("PYTHON_LIBRARY", py.Library)
	}
}

// generator picks the fixed generator/platform for the host: MSVC with the
// x64 platform on Windows, Ninja when available elsewhere.
func (d *Driver) generator() (name, platform string) {
	if runtime.GOOS == "windows" {
		return "Visual Studio 17 2022", "x64"
	}
	if _, err := d.runner.LookPath("ninja"); err == nil {
		return "Ninja", ""
	}
	return "Unix Makefiles", ""
}

func (d *Driver) fail(err error) error {
	d.state = StateFailed
	return err
}

func step(msg string) {
	colArrow.Print("-> ")
	fmt.Println(msg)
}
