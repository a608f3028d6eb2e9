//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks

package exec

import (
	"context"
	"time"
)

// Runner invokes an external tool and returns its stdout.
// A run that exceeds timeout fails with an error wrapping context.DeadlineExceeded.
type Runner interface {
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error)
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error) {
	return f(ctx, timeout, name, args...)
}
