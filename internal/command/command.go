// Package command runs an external program as a benchmark trial.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"stopwatch/internal/config"
)

const (
	maxStderrInError = 256
	// waitDelay bounds how long Run waits for output pipes after the process
	// is killed, in case it left children holding them open.
	waitDelay = 500 * time.Millisecond
)

// Command is a core.Trial that executes the configured program once per Run.
// It is NOT safe for concurrent use.
type Command struct {
	Config  config.BenchmarkConfig
	Timeout time.Duration
	Debug   *DebugLogger

	runs int
}

func (c *Command) Run(ctx context.Context) error {
	if len(c.Config.Command) == 0 {
		return errors.New("no command configured")
	}
	c.runs++

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	argv := c.Config.Command
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = c.Config.Dir
	cmd.WaitDelay = waitDelay
	if len(c.Config.Env) > 0 {
		cmd.Env = append(os.Environ(), envList(c.Config.Env)...)
	}

	var stdout, stderr bytes.Buffer
	if c.Debug != nil {
		cmd.Stdout = &stdout
	}
	cmd.Stderr = &stderr

	c.Debug.LogRun(c.runs, argv, c.Config.Dir)
	err := cmd.Run()
	c.Debug.LogOutput(c.runs, stdout.Bytes(), stderr.Bytes())

	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && c.Timeout > 0 {
		err = fmt.Errorf("timed out after %v: %w", c.Timeout, ctx.Err())
	} else if msg := lastLine(stderr.Bytes()); msg != "" {
		err = fmt.Errorf("%w: %s", err, msg)
	}
	c.Debug.LogError(c.runs, err)
	return fmt.Errorf("%s: %w", argv[0], err)
}

func envList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list := make([]string, 0, len(keys))
	for _, k := range keys {
		list = append(list, k+"="+env[k])
	}
	return list
}

func lastLine(out []byte) string {
	s := strings.TrimSpace(string(out))
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	if len(s) > maxStderrInError {
		s = s[:maxStderrInError] + "..."
	}
	return s
}
