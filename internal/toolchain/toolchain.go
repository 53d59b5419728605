// Package toolchain probes for the build tooling the superbuild needs and,
// when the fallback-install policy allows it, installs what is missing
// through a package manager.
package toolchain

import (
	"fmt"
	"os"
	"strings"

	"github.com/qiniu/x/log"
	"golang.org/x/mod/semver"

	"github.com/pyosim/osimsetup/internal/execx"
)

// Probe is one strategy for locating a tool. Probes report found/not-found
// and never fail hard; fatality is the caller's decision.
type Probe func(r execx.Runner) (path string, ok bool)

// PathProbe resolves the first of names on the search path.
func PathProbe(names ...string) Probe {
	return func(r execx.Runner) (string, bool) {
		for _, name := range names {
			if path, err := r.LookPath(name); err == nil {
				return path, true
			}
		}
		return "", false
	}
}

// FileProbe checks for an on-disk marker, e.g. an SDK install location.
func FileProbe(paths ...string) Probe {
	return func(execx.Runner) (string, bool) {
		for _, p := range paths {
			if _, err := os.Stat(p); err == nil {
				return p, true
			}
		}
		return "", false
	}
}

// InstallStep is one fallback installer invocation. Tool is the package
// manager executable and must itself resolve on the search path for the
// step to be attempted.
type InstallStep struct {
	Tool string
	Args []string
}

// Tool describes one prerequisite: how to find it and how to install it.
type Tool struct {
	Name     string
	Optional bool
	Remedy   string // what the operator should do when it is missing

	// MinVersion, when set, is compared against the probed tool's reported
	// version. Older versions produce a warning, not a failure.
	MinVersion  string
	VersionArgs []string

	Probes  []Probe
	Install []InstallStep
}

// Checker runs the check-then-optionally-install pass. It is idempotent:
// a present tool causes zero installer invocations regardless of policy.
type Checker struct {
	Runner       execx.Runner
	AllowInstall bool
}

// Find runs the tool's probes in order until one succeeds.
func (c *Checker) Find(t Tool) (string, bool) {
	for _, probe := range t.Probes {
		if path, ok := probe(c.Runner); ok {
			return path, true
		}
	}
	return "", false
}

// Ensure verifies every tool, installing missing ones when the policy
// allows. A missing required tool with the policy disabled is fatal and
// stops before any build step runs.
func (c *Checker) Ensure(tools []Tool) error {
	for _, t := range tools {
		if path, ok := c.Find(t); ok {
			c.checkVersion(t, path)
			continue
		}
		if t.Optional {
			if c.AllowInstall && len(t.Install) > 0 {
				if err := c.install(t); err != nil {
					log.Warnf("%s: %v", t.Name, err)
				}
			} else {
				log.Warnf("%s not found; continuing without it", t.Name)
			}
			continue
		}
		if !c.AllowInstall {
			return fmt.Errorf("%s not found: %s (or rerun with --allow-fallback-install)", t.Name, t.Remedy)
		}
		if err := c.install(t); err != nil {
			return err
		}
	}
	return nil
}

// install tries the tool's installer steps in order. A step whose package
// manager is absent is skipped. The first step that exits zero is treated
// as success; there is no re-probe afterwards.
func (c *Checker) install(t Tool) error {
	for _, step := range t.Install {
		if _, err := c.Runner.LookPath(step.Tool); err != nil {
			continue
		}
		log.Infof("installing %s via %s", t.Name, step.Tool)
		if err := c.Runner.Run(step.Tool, step.Args...); err != nil {
			log.Warnf("%s install via %s failed: %v", t.Name, step.Tool, err)
			continue
		}
		return nil
	}
	return fmt.Errorf("%s not found and automatic install failed: %s", t.Name, t.Remedy)
}

func (c *Checker) checkVersion(t Tool, path string) {
	if t.MinVersion == "" || len(t.VersionArgs) == 0 {
		return
	}
	out, err := c.Runner.Output(path, t.VersionArgs...)
	if err != nil {
		return
	}
	got := parseVersion(out)
	if got == "" {
		return
	}
	if semver.Compare("v"+got, "v"+t.MinVersion) < 0 {
		log.Warnf("%s %s is older than the pinned %s", t.Name, got, t.MinVersion)
	}
}

// parseVersion extracts the first dotted numeric token from a tool's
// version banner, e.g. "cmake version 3.28.1" → "3.28.1".
func parseVersion(out string) string {
	for _, f := range strings.Fields(out) {
		if f[0] >= '0' && f[0] <= '9' && strings.Contains(f, ".") {
			return strings.TrimFunc(f, func(r rune) bool {
				return (r < '0' || r > '9') && r != '.'
			})
		}
	}
	return ""
}
