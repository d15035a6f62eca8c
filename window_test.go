package emil

import "testing"

func TestNewEditorStateHasOneFocusedWindow(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	if len(s.windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(s.windows))
	}
	if !s.windows[0].focused {
		t.Fatal("the only window should be focused")
	}
}

func TestCreateWindowAddsUnfocusedSplit(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	s.CreateWindow()
	if len(s.windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(s.windows))
	}
	focused := 0
	for _, w := range s.windows {
		if w.focused {
			focused++
		}
	}
	if focused != 1 {
		t.Fatalf("exactly one window must stay focused, got %d", focused)
	}
}

func TestFocusNextRotatesAndPreservesCursor(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	s.CreateWindow()
	s.current.SetCursor(0, 0)
	insertString(s.current, "hi")

	s.FocusNext()
	if s.windowFocusedIdx() != 1 {
		t.Fatalf("focus idx = %d, want 1", s.windowFocusedIdx())
	}

	s.FocusNext()
	if s.windowFocusedIdx() != 0 {
		t.Fatalf("focus should wrap back to 0, got %d", s.windowFocusedIdx())
	}
}

func TestFocusNextNoopOnSingleWindow(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	s.FocusNext()
	if s.windowFocusedIdx() != 0 {
		t.Fatal("single-window focus-next should be a no-op")
	}
	if s.Status().Text == "" {
		t.Fatal("expected a status message explaining there are no other windows")
	}
}

func TestDestroyWindowRefusesLastWindow(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	s.DestroyWindow(0)
	if len(s.windows) != 1 {
		t.Fatal("should refuse to destroy the last window")
	}
}

func TestDestroyFocusedWindowFocusesNext(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	s.CreateWindow()
	s.DestroyWindow(0)
	if len(s.windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(s.windows))
	}
	if !s.windows[0].focused {
		t.Fatal("remaining window must be focused")
	}
}

func TestDestroyOtherWindowsCollapsesLayout(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	s.CreateWindow()
	s.CreateWindow()
	s.DestroyOtherWindows()
	if len(s.windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(s.windows))
	}
}

func TestFindBufferWindow(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	buf := NewBuffer()
	s.AddBuffer(buf)
	if idx := s.FindBufferWindow(buf); idx != -1 {
		t.Fatalf("got %d, want -1 (no window shows the new buffer yet)", idx)
	}
	s.OpenInFocusedWindow(buf)
	if idx := s.FindBufferWindow(buf); idx != 0 {
		t.Fatalf("got %d, want 0", idx)
	}
}

func TestSynchronizeBufferCursorClampsAfterShrink(t *testing.T) {
	buf := NewBuffer()
	buf.rows = []*Row{newRow([]byte("one")), newRow([]byte("two")), newRow([]byte("three"))}
	win := newWindow(buf)
	win.cx, win.cy = 4, 2

	buf.rows = buf.rows[:1] // simulate an external shrink (e.g. undo/revert)
	synchronizeBufferCursor(buf, win)

	if win.cy != 0 {
		t.Fatalf("cy = %d, want clamped to 0", win.cy)
	}
	if win.cx > buf.rows[0].Len() {
		t.Fatalf("cx = %d exceeds row length %d", win.cx, buf.rows[0].Len())
	}
}
