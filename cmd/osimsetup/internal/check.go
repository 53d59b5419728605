package internal

import (
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/pyosim/osimsetup/internal/config"
	"github.com/pyosim/osimsetup/internal/execx"
	"github.com/pyosim/osimsetup/internal/toolchain"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe for the required build tools without installing anything",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Resolve(config.Overrides{})
	if err != nil {
		return err
	}

	checker := &toolchain.Checker{Runner: execx.NewSystem(io.Discard, io.Discard)}
	missing := 0
	for _, t := range toolchain.Required(cfg) {
		path, ok := checker.Find(t)
		switch {
		case ok:
			fmt.Printf("%s %-14s %s\n", color.Success.Sprint("ok"), t.Name, path)
		case t.Optional:
			fmt.Printf("%s %-14s optional, not found\n", color.Warn.Sprint("--"), t.Name)
		default:
			fmt.Printf("%s %-14s %s\n", color.Error.Sprint("!!"), t.Name, t.Remedy)
			missing++
		}
	}
	if missing > 0 {
		return fmt.Errorf("%d required tool(s) missing", missing)
	}
	return nil
}
