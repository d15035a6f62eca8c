package emil

// Window is one visible split onto a Buffer: its own cursor shadow
// (scx/scy track the last rendered screen position, cx/cy the logical
// cursor), scroll offsets, and display height. Several windows may point
// at the same buffer; only the focused window's cursor drives edits.
type Window struct {
	buf     *Buffer
	focused bool

	cx, cy         int
	scx, scy       int
	rowoff, coloff int
	height         int
}

func newWindow(buf *Buffer) *Window {
	return &Window{buf: buf, cx: buf.cx, cy: buf.cy}
}

func (w *Window) Buffer() *Buffer { return w.buf }

// OpenInFocusedWindow points the focused window at buf, used by the CLI
// entrypoint to display the first file given on the command line.
func (s *EditorState) OpenInFocusedWindow(buf *Buffer) {
	w := s.FocusedWindow()
	w.buf = buf
	w.cx, w.cy = buf.cx, buf.cy
	w.rowoff, w.coloff = 0, 0
	s.current = buf
}
func (w *Window) Focused() bool   { return w.focused }
func (w *Window) Height() int     { return w.height }

// windowFocusedIdx returns the index of the focused window, or 0 if none
// is marked (a state that should not occur in practice).
func (s *EditorState) windowFocusedIdx() int {
	for i, w := range s.windows {
		if w.focused {
			return i
		}
	}
	return 0
}

// FindBufferWindow returns the index of a window displaying buf, or -1.
func (s *EditorState) FindBufferWindow(buf *Buffer) int {
	for i, w := range s.windows {
		if w.buf == buf {
			return i
		}
	}
	return -1
}

// synchronizeBufferCursor clamps win's cursor to buf's current extent and
// copies it onto buf, used after a buffer mutation (e.g. undo, revert)
// shrinks the row count out from under a window's remembered position.
func synchronizeBufferCursor(buf *Buffer, win *Window) {
	if win.cy >= len(buf.rows) {
		if len(buf.rows) > 0 {
			win.cy = len(buf.rows) - 1
		} else {
			win.cy = 0
		}
	}
	if win.cy < len(buf.rows) && win.cx > buf.rows[win.cy].Len() {
		win.cx = buf.rows[win.cy].Len()
	}
	buf.cx, buf.cy = win.cx, win.cy
}

// FocusedWindow returns the currently focused window.
func (s *EditorState) FocusedWindow() *Window {
	return s.windows[s.windowFocusedIdx()]
}

// FocusNext switches focus to the next window in cyclic order, saving the
// outgoing window's cursor back from its buffer first.
func (s *EditorState) FocusNext() {
	if len(s.windows) == 1 {
		s.SetStatus("No other windows to select")
		return
	}
	curIdx := s.windowFocusedIdx()
	cur := s.windows[curIdx]
	cur.cx, cur.cy = cur.buf.cx, cur.buf.cy
	cur.focused = false

	nextIdx := (curIdx + 1) % len(s.windows)
	next := s.windows[nextIdx]
	next.focused = true

	s.current = next.buf
	next.buf.cx, next.buf.cy = next.cx, next.cy
	synchronizeBufferCursor(next.buf, next)
}

// CreateWindow splits off a new, unfocused window onto the currently
// focused buffer, and forces every window's height to be recomputed by
// the display pipeline on next layout.
func (s *EditorState) CreateWindow() {
	buf := s.FocusedWindow().buf
	w := newWindow(buf)
	w.cx, w.cy = buf.cx, buf.cy
	s.windows = append(s.windows, w)
	for _, win := range s.windows {
		win.height = 0
	}
}

// DestroyWindow removes the window at idx, switching focus away first if
// it was the focused one. Refuses to destroy the last window.
func (s *EditorState) DestroyWindow(idx int) {
	if len(s.windows) == 1 {
		s.SetStatus("Can't kill last window")
		return
	}
	if idx == s.windowFocusedIdx() {
		s.FocusNext()
	}
	s.windows = append(s.windows[:idx], s.windows[idx+1:]...)
	for _, win := range s.windows {
		win.height = 0
	}
}

// DestroyOtherWindows collapses the layout down to just the focused
// window.
func (s *EditorState) DestroyOtherWindows() {
	if len(s.windows) == 1 {
		s.SetStatus("No other windows to delete")
		return
	}
	idx := s.windowFocusedIdx()
	focused := s.windows[idx]
	focused.focused = true
	focused.height = 0
	s.current = focused.buf
	s.windows = []*Window{focused}
}
