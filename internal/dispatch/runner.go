package dispatch

import (
	"errors"
	"io"
	"os/exec"
)

// Runner abstracts child process execution for the dispatch pipeline.
type Runner interface {
	Run(name string, args []string, env []string, stdout, stderr io.Writer) (int, error)
}

// ExecRunner executes commands on the local host.
type ExecRunner struct{}

// Dispatch command-runner implementation backed by os/exec. The call blocks
// until the child exits; its exit code is returned alongside any run error.
func (r ExecRunner) Run(name string, args []string, env []string, stdout, stderr io.Writer) (int, error) {
	cmd := exec.Command(name, args...)
	cmd.Env = env
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), err
	}

	exitCode := 1
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		exitCode = 127
	}
	return exitCode, err
}
