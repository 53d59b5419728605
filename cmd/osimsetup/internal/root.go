package internal

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/pyosim/osimsetup/internal/config"
	"github.com/pyosim/osimsetup/internal/driver"
	"github.com/pyosim/osimsetup/internal/execx"
	"github.com/pyosim/osimsetup/internal/workspace"
)

var (
	flagBuildType string
	flagJobs      int
	flagBranch    string
	flagNoMoco    bool
	flagFallback  bool
	flagPythonABI string
	flagSource    string
	flagWorkspace string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "osimsetup",
	Short: "osimsetup provisions build tooling and runs the OpenSim superbuild",
	Long: `osimsetup checks for the required build tooling (a C++ toolchain, CMake,
Python, SWIG and friends), optionally installs what is missing through a
package manager, and then drives the two-stage CMake superbuild: the
dependencies project first, then the core project against its install tree.`,
	SilenceUsage: true,
	RunE:         runSetup,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flagBuildType, "build-type", "", "CMake build type: Release, Debug, RelWithDebInfo or MinSizeRel (default Release)")
	f.IntVarP(&flagJobs, "jobs", "j", config.DefaultJobs, "compiler parallelism for both build units")
	f.StringVar(&flagBranch, "branch", "", "source branch being built, recorded for display (default main)")
	f.BoolVar(&flagNoMoco, "no-moco", false, "disable the Moco module")
	f.BoolVar(&flagFallback, "allow-fallback-install", false, "install missing tools via pip/choco instead of failing")
	f.StringVar(&flagPythonABI, "python-abi", "", "pin the Python minor version to link against, e.g. 3.11")
	f.StringVar(&flagSource, "source", "", "core source tree (default current directory)")
	f.StringVar(&flagWorkspace, "workspace", "", "workspace root for build and install trees")
	f.BoolVarP(&flagVerbose, "verbose", "v", false, "stream child build output")
}

// Execute runs the root command. It is called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runSetup(cmd *cobra.Command, args []string) error {
	ov := config.Overrides{
		BuildType:            flagBuildType,
		Branch:               flagBranch,
		NoMoco:               flagNoMoco,
		AllowFallbackInstall: flagFallback,
		PythonABI:            flagPythonABI,
		SourceDir:            flagSource,
		WorkspaceDir:         flagWorkspace,
		Verbose:              flagVerbose,
	}
	if cmd.Flags().Changed("jobs") {
		ov.Jobs = &flagJobs
	}
	cfg, err := config.Resolve(ov)
	if err != nil {
		return err
	}

	// Child build output is discarded unless -v, the driver's own status
	// lines always reach the console.
	stdout, stderr := io.Writer(os.Stdout), io.Writer(os.Stderr)
	if !cfg.Verbose {
		stdout, stderr = io.Discard, io.Discard
	}
	runner := execx.NewSystem(stdout, stderr)

	layout := workspace.New(cfg.SourceDir, cfg.WorkspaceDir)
	return driver.New(cfg, layout, runner).Run()
}
