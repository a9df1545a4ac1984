//go:build windows

package execx

import "os/exec"

// setProcessGroup is a no-op on Windows; process.KillProcessGroup uses
// taskkill's tree kill instead.
func setProcessGroup(cmd *exec.Cmd) {}
