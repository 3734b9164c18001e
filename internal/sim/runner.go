package sim

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// RetryPolicy bounds retries of an external process invocation with
// exponential backoff. External simulators fail transiently on license
// contention, so a couple of retries is cheap relative to one evaluation.
type RetryPolicy struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
}

// DefaultRetryPolicy retries twice with short exponential backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:     2,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		BackoffFactor:  2.0,
	}
}

// Runner invokes the external simulator binary on a design file inside a
// working directory. Output artifacts land next to the design file under
// the simulator's own naming, keyed by the run prefix.
type Runner struct {
	Binary string
	Hide   bool
	Retry  RetryPolicy
}

// Run executes one simulation. It is context-cancellable; cancellation is
// returned as-is so callers can distinguish it from simulator failure.
func (r Runner) Run(ctx context.Context, workDir, designFile, prefix string) error {
	if r.Binary == "" {
		return fmt.Errorf("sim: simulator binary is not configured")
	}

	args := make([]string, 0, 3)
	if r.Hide {
		args = append(args, "-hide")
	}
	args = append(args, designFile, "prefix="+prefix)

	backoff := r.Retry.InitialBackoff
	var lastErr error
	for attempt := 0; attempt <= r.Retry.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff = time.Duration(float64(backoff) * r.Retry.BackoffFactor)
			if r.Retry.MaxBackoff > 0 && backoff > r.Retry.MaxBackoff {
				backoff = r.Retry.MaxBackoff
			}
		}

		cmd := exec.CommandContext(ctx, r.Binary, args...)
		cmd.Dir = workDir
		out, err := cmd.CombinedOutput()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = fmt.Errorf("sim: %s %v failed: %w (output: %s)", r.Binary, args, err, truncate(out, 512))
	}
	return lastErr
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
