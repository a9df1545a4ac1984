// Package execx wraps external tool invocation behind a small runner
// interface so adapters and oracles can be tested without real
// subprocesses.
package execx

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/hleroy/pdfprep/internal/process"
)

// CommandRunner abstracts command execution to enable testing without
// real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// Runner implements CommandRunner using os/exec.
type Runner struct{}

// Compile-time interface check.
var _ CommandRunner = Runner{}

// Run executes name with args, capturing stdout and stderr. On context
// cancellation the whole process group is killed so document tools
// cannot leave worker children behind.
func (Runner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		if cmd.Process != nil {
			process.KillProcessGroup(cmd.Process.Pid)
		}
		return nil
	}

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
