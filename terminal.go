package emil

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Terminal is the thin adapter over the real terminal: raw-mode
// enter/exit, size queries, and resize notification. Keystroke decoding
// and signal dispatch beyond resize are external collaborators per §1;
// this type only owns what the display pipeline needs to know the
// terminal's shape and to emit bytes into it safely.
type Terminal struct {
	fd       int
	oldState *term.State
	resize   chan Size
	sigwinch chan os.Signal
}

// Size is a terminal's dimensions in character cells.
type Size struct {
	Rows, Cols int
}

// NewTerminal wraps fd (typically os.Stdin's descriptor) for raw-mode
// control.
func NewTerminal(fd int) *Terminal {
	return &Terminal{fd: fd, resize: make(chan Size, 1)}
}

// EnterRaw puts the terminal into raw mode and switches to the alternate
// screen buffer.
func (t *Terminal) EnterRaw() error {
	old, err := term.MakeRaw(t.fd)
	if err != nil {
		return wrapError(KindIOFailed, "enter raw mode", err)
	}
	t.oldState = old
	os.Stdout.WriteString("\x1b[?1049h\x1b[2J\x1b[H")

	t.sigwinch = make(chan os.Signal, 1)
	signal.Notify(t.sigwinch, syscall.SIGWINCH)
	go t.watchResize()
	return nil
}

// ExitRaw restores the terminal's original mode and leaves the alternate
// screen, matching EnterRaw's setup in reverse.
func (t *Terminal) ExitRaw() error {
	if t.sigwinch != nil {
		signal.Stop(t.sigwinch)
	}
	os.Stdout.WriteString("\x1b[?1049l")
	if t.oldState == nil {
		return nil
	}
	if err := term.Restore(t.fd, t.oldState); err != nil {
		return wrapError(KindIOFailed, "restore terminal", err)
	}
	return nil
}

// Size returns the current terminal dimensions, falling back to 80x24 if
// the ioctl fails (e.g. output redirected to a file).
func (t *Terminal) Size() Size {
	cols, rows, err := term.GetSize(t.fd)
	if err != nil {
		return Size{Rows: 24, Cols: 80}
	}
	return Size{Rows: rows, Cols: cols}
}

// Resize returns a channel that receives an updated Size after each
// SIGWINCH.
func (t *Terminal) Resize() <-chan Size { return t.resize }

func (t *Terminal) watchResize() {
	for range t.sigwinch {
		t.resize <- t.Size()
	}
}

// getTerminalSize is a lower-level size query: it reads the window size
// of fd directly with the TIOCGWINSZ ioctl.
func getTerminalSize(fd int) (Size, error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return Size{}, err
	}
	return Size{Rows: int(ws.Row), Cols: int(ws.Col)}, nil
}
