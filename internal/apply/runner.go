package apply

import (
	"context"
	"os/exec"
)

// Runner executes an external tool synchronously and returns its
// combined output. No timeout is imposed; the apply tools are
// short-lived local utilities and a hang hangs the whole command.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// ExecRunner returns the Runner backed by os/exec.
func ExecRunner() Runner {
	return execRunner{}
}
