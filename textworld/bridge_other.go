//go:build !unix

package textworld

import "os/exec"

func detach(cmd *exec.Cmd) {}
