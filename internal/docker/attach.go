package docker

import (
	"context"
	"fmt"
	"io"

	"github.com/docker/docker/api/types/container"

	"github.com/jeanhaley32/bluepill/internal/terminal"
)

// Attach bridges the local terminal to the container tty until the container's
// shell exits. The local terminal mode is restored on every return path.
func (m *Manager) Attach(ctx context.Context, id string) (int, error) {
	info, err := m.client.ContainerInspect(ctx, id)
	if err != nil {
		return -1, fmt.Errorf("failed to inspect container: %w", err)
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	waitCh, waitErrCh := m.client.ContainerWait(sessionCtx, id, container.WaitConditionNextExit)

	hijacked, err := m.client.ContainerAttach(sessionCtx, id, container.AttachOptions{
		Stream: true,
		Stdin:  true,
		Stdout: true,
		Stderr: true,
	})
	if err != nil {
		return -1, fmt.Errorf("failed to attach to container: %w", err)
	}
	defer hijacked.Close()

	if terminal.IsTerminalFile(m.stdin) {
		restore, err := terminal.MakeRaw(int(m.stdin.Fd()))
		if err != nil {
			return -1, err
		}
		defer restore()
	}

	if info.State == nil || !info.State.Running {
		if err := m.StartContainer(sessionCtx, id); err != nil {
			return -1, err
		}
	}

	if terminal.IsTerminalFile(m.stdout) {
		terminal.WatchResize(sessionCtx, int(m.stdout.Fd()), func(width, height int) {
			err := m.client.ContainerResize(sessionCtx, id, container.ResizeOptions{
				Width:  uint(width),
				Height: uint(height),
			})
			if err != nil {
				m.logger.Debug("failed to resize container tty", "id", id, "error", err)
			}
		})
	}

	// Input stops flowing to the container when the session ends, leaving
	// later keystrokes for whoever reads next.
	go func() {
		_, err := io.Copy(hijacked.Conn, m.input.WithContext(sessionCtx))
		if err != nil {
			m.logger.Debug("stdin copy ended", "error", err)
			return
		}
		_ = hijacked.CloseWrite()
	}()

	outputDone := make(chan error, 1)
	go func() {
		_, err := io.Copy(m.stdout, hijacked.Reader)
		outputDone <- err
	}()

	select {
	case err := <-outputDone:
		if err != nil {
			m.logger.Debug("output copy ended", "error", err)
		}
	case <-ctx.Done():
		return -1, ctx.Err()
	}

	select {
	case result := <-waitCh:
		if result.Error != nil {
			return -1, fmt.Errorf("container exited with error: %s", result.Error.Message)
		}
		return int(result.StatusCode), nil
	case err := <-waitErrCh:
		return -1, fmt.Errorf("failed waiting for container: %w", err)
	case <-ctx.Done():
		return -1, ctx.Err()
	}
}
