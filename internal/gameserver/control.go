package gameserver

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"
)

// Controller launches the server start script and tails its output logs.
// The script runs detached in its own session so it survives the bot.
type Controller struct {
	script    string
	stdoutLog string
	stderrLog string

	mu      sync.Mutex
	pending *time.Timer
}

func NewController(script, stdoutLog, stderrLog string) *Controller {
	return &Controller{
		script:    script,
		stdoutLog: stdoutLog,
		stderrLog: stderrLog,
	}
}

func (c *Controller) StartDetached() error {
	if _, err := os.Stat(c.script); err != nil {
		return fmt.Errorf("start script not found: %s", c.script)
	}

	out, err := os.OpenFile(c.stdoutLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening stdout log: %w", err)
	}
	errLog, err := os.OpenFile(c.stderrLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		out.Close()
		return fmt.Errorf("opening stderr log: %w", err)
	}

	cmd := exec.Command("bash", c.script)
	cmd.Stdout = out
	cmd.Stderr = errLog
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		out.Close()
		errLog.Close()
		return fmt.Errorf("starting script: %w", err)
	}

	out.Close()
	errLog.Close()
	return cmd.Process.Release()
}

// ScheduleStart arms a one-shot deferred start. Only one may be pending at
// a time; a second request inside the window is refused so two starts never
// race. Returns whether the start was scheduled.
func (c *Controller) ScheduleStart(delay time.Duration, done func(error)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != nil {
		return false
	}
	c.pending = time.AfterFunc(delay, func() {
		err := c.StartDetached()
		c.mu.Lock()
		c.pending = nil
		c.mu.Unlock()
		if done != nil {
			done(err)
		}
	})
	return true
}

// Tail returns the last stdout and stderr lines of the start script logs.
func (c *Controller) Tail(stdoutLines, stderrLines int) (string, string) {
	return tailFile(c.stdoutLog, stdoutLines), tailFile(c.stderrLog, stderrLines)
}

func tailFile(path string, n int) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
