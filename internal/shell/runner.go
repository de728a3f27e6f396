package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

type Mode string

const (
	ModeReplace Mode = "replace"
	ModeDetach  Mode = "detach"
)

func (m Mode) Valid() bool {
	return m == ModeReplace || m == ModeDetach
}

// Request is a resolved command line plus the lifecycle it runs under.
type Request struct {
	Name string
	Args []string
	Dir  string
	Env  []string
	Mode Mode
}

// ShellRequest wraps an already expanded command line in `sh -c`.
func ShellRequest(command, dir string, mode Mode) Request {
	return Request{Name: "sh", Args: []string{"-c", command}, Dir: dir, Mode: mode}
}

func (r Request) String() string {
	if len(r.Args) == 2 && r.Name == "sh" && r.Args[0] == "-c" {
		return r.Args[1]
	}
	return strings.TrimSpace(r.Name + " " + strings.Join(r.Args, " "))
}

type ProcessError struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *ProcessError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *ProcessError) Unwrap() error { return e.Err }

// WrapExit converts the error returned by running req into a *ProcessError.
func WrapExit(req Request, err error) error {
	if err == nil {
		return nil
	}
	pe := &ProcessError{Command: req.String(), Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		pe.ExitCode = exitErr.ExitCode()
	}
	return pe
}

type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func NewRunner() *Runner {
	return &Runner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Command builds the foreground process for req, attached to the runner's stdio.
func (r *Runner) Command(req Request) *exec.Cmd {
	cmd := exec.Command(req.Name, req.Args...)
	cmd.Dir = req.Dir
	if len(req.Env) > 0 {
		cmd.Env = append(os.Environ(), req.Env...)
	}
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd
}

// Foreground runs req to completion in the current terminal.
func (r *Runner) Foreground(req Request) error {
	return WrapExit(req, r.Command(req).Run())
}

// Detach starts req in its own session and returns once it has been spawned.
func (r *Runner) Detach(req Request) error {
	cmd := exec.Command(req.Name, req.Args...)
	cmd.Dir = req.Dir
	if len(req.Env) > 0 {
		cmd.Env = append(os.Environ(), req.Env...)
	}
	detachAttrs(cmd)
	if err := cmd.Start(); err != nil {
		return WrapExit(req, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// Quote single-quotes s for safe use in an sh command line.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
