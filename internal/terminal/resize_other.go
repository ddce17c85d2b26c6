//go:build !(darwin || linux)

package terminal

import "context"

// WatchResize reports the terminal size once. Platforms without SIGWINCH get no
// further updates.
func WatchResize(ctx context.Context, fd int, onResize func(width, height int)) {
	if width, height, err := Size(fd); err == nil {
		onResize(width, height)
	}
}
