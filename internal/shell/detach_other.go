//go:build !unix

package shell

import "os/exec"

func detachAttrs(cmd *exec.Cmd) {}
