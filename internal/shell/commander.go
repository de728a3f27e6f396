package shell

import (
	"bytes"
	"context"
	"os"
	"os/exec"
)

type Result struct {
	Stdout []byte
	Stderr []byte
}

// Commander runs a non-interactive command and captures its output.
type Commander interface {
	Run(ctx context.Context, dir, name string, args ...string) (Result, error)
}

type ExecCommander struct {
	// Env is appended to the inherited environment.
	Env []string
}

func (e *ExecCommander) Run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, err
}
