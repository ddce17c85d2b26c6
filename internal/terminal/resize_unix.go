//go:build darwin || linux

package terminal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WatchResize calls onResize with the size of the terminal on fd right away and
// again after every SIGWINCH, until ctx is done.
func WatchResize(ctx context.Context, fd int, onResize func(width, height int)) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGWINCH)

	report := func() {
		if width, height, err := Size(fd); err == nil {
			onResize(width, height)
		}
	}

	go func() {
		defer signal.Stop(sigChan)
		report()
		for {
			select {
			case <-sigChan:
				report()
			case <-ctx.Done():
				return
			}
		}
	}()
}
