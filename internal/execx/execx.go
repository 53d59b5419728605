// Package execx abstracts external command execution so that callers can be
// exercised against a recording double in tests.
package execx

import (
	"io"
	"os/exec"
	"strings"
)

// Runner resolves and runs external commands.
type Runner interface {
	// LookPath resolves name on the search path.
	LookPath(name string) (string, error)

	// Run executes name with args, streaming output to the runner's writers.
	Run(name string, args ...string) error

	// Output executes name with args and returns its trimmed stdout.
	Output(name string, args ...string) (string, error)
}

// System is the os/exec backed Runner.
type System struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewSystem returns a Runner that writes child output to stdout/stderr.
func NewSystem(stdout, stderr io.Writer) *System {
	return &System{Stdout: stdout, Stderr: stderr}
}

func (s *System) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (s *System) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr
	return cmd.Run()
}

func (s *System) Output(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Stderr = s.Stderr
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
