// Package executil provides subprocess execution utilities.
package executil

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

const maxStderrLen = 500

// killDelay is how long a subprocess gets to exit after SIGTERM before it
// is killed outright.
const killDelay = 5 * time.Second

// limitedWriter caps writes to a bytes.Buffer at a maximum byte count.
// Bytes beyond the limit are silently discarded.
type limitedWriter struct {
	buf *bytes.Buffer
	n   int64
	max int64
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.n >= w.max {
		return len(p), nil
	}
	remaining := w.max - w.n
	origLen := len(p)
	if int64(origLen) > remaining {
		p = p[:remaining]
	}
	n, err := w.buf.Write(p)
	w.n += int64(n)
	if err != nil {
		return n, err
	}
	return origLen, nil
}

// Output holds the separated streams of a finished command. Stderr is
// capped at 500 bytes to prevent large or ANSI-polluted output from
// corrupting logs or the status bar.
type Output struct {
	Stdout []byte
	Stderr []byte
}

// StderrText returns the captured stderr as trimmed text.
func (o Output) StderrText() string {
	return string(bytes.TrimSpace(o.Stderr))
}

// Executor runs external commands.
type Executor interface {
	// RunDir executes a command in a specific directory (empty means
	// inherit cwd) and returns its separated output. A non-zero exit
	// returns the Output alongside the wrapped *exec.ExitError so callers
	// can inspect exit codes with errors.As.
	RunDir(ctx context.Context, dir, cmd string, args ...string) (Output, error)
}

// RealExecutor calls actual commands on the host.
//
// Cancellation sends SIGTERM and escalates to SIGKILL after a grace
// period. Run always waits for the process to be reaped, so no exit path
// leaves an orphaned child behind.
type RealExecutor struct{}

// RunDir executes a command in a specific directory.
func (e *RealExecutor) RunDir(ctx context.Context, dir, cmd string, args ...string) (Output, error) {
	c := exec.CommandContext(ctx, cmd, args...)
	if dir != "" {
		c.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &limitedWriter{buf: &stderr, max: maxStderrLen}

	c.Cancel = func() error {
		return c.Process.Signal(syscall.SIGTERM)
	}
	c.WaitDelay = killDelay

	err := c.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		// Prefer the context error: a killed process reports a generic
		// signal exit, but the caller needs to know whether it was a
		// timeout or an explicit cancel.
		if ctx.Err() != nil {
			return out, fmt.Errorf("exec %s: %w", cmd, ctx.Err())
		}
		return out, fmt.Errorf("exec %s in %s: %w", cmd, dir, err)
	}
	return out, nil
}
