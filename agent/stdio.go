package agent

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// shutdownTimeout is how long Close waits for the child process to exit
// before killing it
const shutdownTimeout = 5 * time.Second

// stdioTransport runs a server as a child process and exposes its
// stdin/stdout as the local channel. The process is owned exclusively by
// one session.
type stdioTransport struct {
	cancel context.CancelFunc
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
}

func newStdioTransport(ctx context.Context, command string, args []string, env map[string]string) (*stdioTransport, error) {
	ctx, cancel := context.WithCancel(ctx)

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Env = os.Environ()
	for key, value := range env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("creating stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("creating stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("starting %s: %w", command, err)
	}

	return &stdioTransport{
		cancel: cancel,
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdout,
	}, nil
}

func (t *stdioTransport) Reader() io.Reader {
	return t.stdout
}

func (t *stdioTransport) Writer() io.Writer {
	return t.stdin
}

// Close shuts the child process down: stdin close signals EOF, then a
// bounded wait, then a kill
func (t *stdioTransport) Close() error {
	defer t.cancel()

	if t.stdin != nil {
		t.stdin.Close()
	}

	done := make(chan error, 1)
	go func() {
		done <- t.cmd.Wait()
	}()

	select {
	case err := <-done:
		if err != nil && err.Error() != "signal: killed" {
			return fmt.Errorf("server process exited with error: %w", err)
		}
		return nil
	case <-time.After(shutdownTimeout):
		if t.cmd.Process != nil {
			if err := t.cmd.Process.Kill(); err != nil {
				return fmt.Errorf("killing server process: %w", err)
			}
		}
		<-done
		return nil
	}
}
