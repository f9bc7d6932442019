package adapter

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// maxStderrBytes caps captured stderr. It is only used for logging.
const maxStderrBytes = 64 << 10

// command describes one CLI process invocation.
type command struct {
	Binary    string
	Args      []string
	Stdin     string
	Dir       string
	Timeout   time.Duration
	MaxOutput int
	KillGrace time.Duration
}

// runResult holds what was observed from a finished process.
type runResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
	TimedOut bool
}

// run starts the process, feeds stdin, and waits for exit or the deadline.
// On deadline the whole process group gets SIGTERM, then SIGKILL once
// KillGrace has passed.
func run(ctx context.Context, c command) (runResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	stdout := newCappedBuffer(c.MaxOutput)
	stderr := newCappedBuffer(maxStderrBytes)

	cmd := exec.CommandContext(ctx, c.Binary, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if c.Stdin != "" {
		cmd.Stdin = strings.NewReader(c.Stdin)
	}
	configureProcessGroup(cmd)
	cmd.WaitDelay = c.KillGrace

	start := time.Now()
	err := cmd.Run()
	if ctx.Err() != nil {
		killProcessGroup(cmd)
	}

	res := runResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: -1,
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			res.TimedOut = true
			res.Stdout = ""
		case errors.Is(ctx.Err(), context.Canceled):
			return res, ctx.Err()
		}
		return res, err
	}
	if stdout.Overflowed() {
		return res, ErrOutputLimit
	}
	return res, nil
}

// cappedBuffer keeps the first limit bytes written to it and drops the rest.
// It never returns a write error so the child is not killed by EPIPE.
type cappedBuffer struct {
	mu         sync.Mutex
	buf        bytes.Buffer
	limit      int
	overflowed bool
}

func newCappedBuffer(limit int) *cappedBuffer {
	return &cappedBuffer{limit: limit}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	remaining := b.limit - b.buf.Len()
	if remaining <= 0 {
		if len(p) > 0 {
			b.overflowed = true
		}
		return len(p), nil
	}
	if len(p) > remaining {
		b.buf.Write(p[:remaining])
		b.overflowed = true
		return len(p), nil
	}
	b.buf.Write(p)
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Overflowed reports whether any bytes were dropped.
func (b *cappedBuffer) Overflowed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overflowed
}
