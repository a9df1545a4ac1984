//go:build !windows

package execx

import (
	"os/exec"
	"syscall"
)

// setProcessGroup places the child in its own process group so a
// context-triggered kill reaches its descendants too.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
