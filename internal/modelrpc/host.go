package modelrpc

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"sync"
)

// Host makes sure a model worker exists
type Host interface {
	Exists(ctx context.Context) bool
	Create(ctx context.Context) error
}

// ExternalHost is used when the worker is started by something else
// (a container, systemd). It always reports the worker as present.
type ExternalHost struct{}

// Exists implements Host
func (ExternalHost) Exists(context.Context) bool { return true }

// Create implements Host
func (ExternalHost) Create(context.Context) error { return nil }

// ProcessHost launches the worker as a child process and restarts it on
// demand after it exits.
type ProcessHost struct {
	Command string
	Args    []string
	Env     []string

	mu   sync.Mutex
	cmd  *exec.Cmd
	done chan struct{}
}

// NewProcessHost creates a host for the given worker command
func NewProcessHost(command string, args ...string) *ProcessHost {
	return &ProcessHost{Command: command, Args: args}
}

// Exists implements Host
func (h *ProcessHost) Exists(context.Context) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.runningLocked()
}

// Create implements Host. It is a no-op when the worker is already running.
func (h *ProcessHost) Create(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.runningLocked() {
		return nil
	}
	if h.Command == "" {
		return errors.New("model worker command is required")
	}

	// The worker outlives the request that started it, so no CommandContext here
	cmd := exec.Command(h.Command, h.Args...)
	cmd.Env = append(os.Environ(), h.Env...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return err
	}

	done := make(chan struct{})
	h.cmd, h.done = cmd, done
	go func() {
		err := cmd.Wait()
		slog.Default().Warn(LogMsgWorkerExited, "pid", cmd.Process.Pid, "error", err)
		close(done)
	}()

	slog.Default().InfoContext(ctx, LogMsgWorkerCreated, "pid", cmd.Process.Pid, "command", h.Command)
	return nil
}

// Stop kills the worker and waits for it to exit
func (h *ProcessHost) Stop(ctx context.Context) error {
	h.mu.Lock()
	cmd, done := h.cmd, h.done
	h.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}
	_ = cmd.Process.Kill()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *ProcessHost) runningLocked() bool {
	if h.done == nil {
		return false
	}
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}
