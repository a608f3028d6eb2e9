// Package exec runs the short-lived host tools that some metric sources read
// a single value from (sysctl, ioreg, nvidia-smi).
package exec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rileyhilliard/pulse/internal/errors"
)

// waitDelay bounds how long Run waits for output pipes after the process is killed.
const waitDelay = 100 * time.Millisecond

// LocalRunner executes tools on the local machine via os/exec.
type LocalRunner struct{}

// NewLocalRunner returns a Runner backed by os/exec.
func NewLocalRunner() *LocalRunner {
	return &LocalRunner{}
}

// Run executes name with args, killing it once timeout elapses.
// A zero timeout means no bound beyond ctx.
func (r *LocalRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return "", errors.NewProbeTimeout(name)
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", errors.WrapWithCode(err, errors.ErrProbe,
				fmt.Sprintf("'%s' exited with status %d", name, exitErr.ExitCode()),
				strings.TrimSpace(stderr.String()))
		}
		return "", errors.WrapWithCode(err, errors.ErrProbe,
			fmt.Sprintf("Couldn't run '%s'", name),
			"Make sure the tool is installed and on PATH.")
	}

	return stdout.String(), nil
}
