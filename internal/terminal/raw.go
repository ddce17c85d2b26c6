package terminal

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"
)

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(syscall.Stdin))
}

// IsTerminalFile returns true if f is connected to a terminal.
func IsTerminalFile(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// MakeRaw puts the terminal on fd into raw mode. The returned function restores
// the previous mode and is safe to call more than once.
func MakeRaw(fd int) (restore func(), err error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to set raw terminal mode: %w", err)
	}

	restored := false
	return func() {
		if restored {
			return
		}
		restored = true
		_ = term.Restore(fd, state)
	}, nil
}

// Size returns the width and height of the terminal on fd.
func Size(fd int) (width, height int, err error) {
	return term.GetSize(fd)
}
