//go:build unix

package textworld

import (
	"os/exec"
	"syscall"
)

// detach moves the bridge into its own process group so a terminal
// interrupt reaches only twrl, which then closes the bridge itself.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
