package emil

import "testing"

func charKey(r rune) Key { return Key{Rune: r} }
func ctrlKey(r rune) Key { return Key{Rune: r, Ctrl: true} }
func altKey(r rune) Key  { return Key{Rune: r, Alt: true} }

func TestDispatchInsertsPlainRunes(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	for _, r := range "hi" {
		s.Dispatch(charKey(r))
	}
	buf := s.FocusedWindow().buf
	if string(buf.RowAt(0).Bytes()) != "hi" {
		t.Fatalf("got %q, want %q", buf.RowAt(0).Bytes(), "hi")
	}
}

func TestDispatchEnterSplitsRow(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	for _, r := range "ab" {
		s.Dispatch(charKey(r))
	}
	s.Dispatch(Key{Special: SpecialEnter})
	buf := s.FocusedWindow().buf
	if buf.NumRows() != 2 {
		t.Fatalf("got %d rows, want 2", buf.NumRows())
	}
	cx, cy := buf.Cursor()
	if cx != 0 || cy != 1 {
		t.Fatalf("cursor at (%d,%d), want (0,1)", cx, cy)
	}
}

func TestDispatchCtrlAMovesToLineStart(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	buf := s.FocusedWindow().buf
	insertString(buf, "hello")
	s.Dispatch(ctrlKey('a'))
	cx, _ := buf.Cursor()
	if cx != 0 {
		t.Fatalf("cx = %d, want 0", cx)
	}
}

func TestDispatchCtrlEMovesToLineEnd(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	buf := s.FocusedWindow().buf
	insertString(buf, "hello")
	buf.SetCursor(0, 0)
	s.Dispatch(ctrlKey('e'))
	cx, _ := buf.Cursor()
	if cx != 5 {
		t.Fatalf("cx = %d, want 5", cx)
	}
}

func TestDispatchCtrlKKillsLineIntoKillRing(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	buf := s.FocusedWindow().buf
	insertString(buf, "hello")
	buf.SetCursor(0, 0)
	s.Dispatch(ctrlKey('k'))
	if buf.RowAt(0).Len() != 0 {
		t.Fatalf("row should be empty after kill-line, got %q", buf.RowAt(0).Bytes())
	}
	if string(s.killRing.Current()) != "hello" {
		t.Fatalf("got kill-ring top %q, want %q", s.killRing.Current(), "hello")
	}
}

func TestDispatchCtrlYYanksCurrentKill(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	buf := s.FocusedWindow().buf
	insertString(buf, "hello")
	buf.SetCursor(0, 0)
	s.Dispatch(ctrlKey('k'))
	s.Dispatch(ctrlKey('y'))
	if string(buf.RowAt(0).Bytes()) != "hello" {
		t.Fatalf("got %q after yank, want %q", buf.RowAt(0).Bytes(), "hello")
	}
}

func TestDispatchCtrlUnderscoreUndoesLastEdit(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	buf := s.FocusedWindow().buf
	insertString(buf, "hi")
	s.Dispatch(ctrlKey('_'))
	if buf.RowAt(0).Len() != 0 {
		t.Fatalf("got %q after undo, want empty row", buf.RowAt(0).Bytes())
	}
}

func TestDispatchMovementArrowsClampAtBufferEdges(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	buf := s.FocusedWindow().buf
	insertString(buf, "hi")
	buf.SetCursor(0, 0)
	s.Dispatch(Key{Special: SpecialUp}) // already at row 0: should stay put
	cx, cy := buf.Cursor()
	if cx != 0 || cy != 0 {
		t.Fatalf("cursor moved to (%d,%d), want clamp at (0,0)", cx, cy)
	}
}

func TestDispatchCtrlSEntersSearchMode(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	buf := s.FocusedWindow().buf
	insertString(buf, "hello world")
	buf.SetCursor(0, 0)

	s.Dispatch(ctrlKey('s'))
	if !s.searching {
		t.Fatal("expected searching=true after C-s")
	}

	for _, r := range "world" {
		s.Dispatch(charKey(r))
	}
	if buf.matchX != 6 {
		t.Fatalf("got matchX=%d, want 6", buf.matchX)
	}

	s.Dispatch(Key{Special: SpecialEnter})
	if s.searching {
		t.Fatal("expected searching=false after Enter accepts the search")
	}
}

func TestDispatchSearchCtrlGCancelsAndRestoresCursor(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	buf := s.FocusedWindow().buf
	insertString(buf, "hello world")
	buf.SetCursor(0, 0)

	s.Dispatch(ctrlKey('s'))
	s.Dispatch(charKey('w'))
	s.Dispatch(ctrlKey('g'))
	if s.searching {
		t.Fatal("expected searching=false after C-g")
	}
	cx, _ := buf.Cursor()
	if cx != buf.matchX {
		t.Fatalf("cursor should rest on the last match, got cx=%d matchX=%d", cx, buf.matchX)
	}
}

func TestDispatchSearchBackspaceNarrowsQuery(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	buf := s.FocusedWindow().buf
	insertString(buf, "abcxabcy")
	buf.SetCursor(0, 0)

	s.Dispatch(ctrlKey('s'))
	for _, r := range "abcx" {
		s.Dispatch(charKey(r))
	}
	s.Dispatch(Key{Special: SpecialBackspace})
	if string(buf.query) != "abc" {
		t.Fatalf("got query %q, want %q", buf.query, "abc")
	}
	if !s.searching {
		t.Fatal("backspace should not end the search")
	}
}

func TestDispatchSearchFallsThroughToOrdinaryDispatchOnOtherKeys(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	buf := s.FocusedWindow().buf
	insertString(buf, "hello world")
	buf.SetCursor(0, 0)

	s.Dispatch(ctrlKey('s'))
	s.Dispatch(charKey('h'))
	// Ctrl-A isn't part of the search alphabet: it should end the search
	// and then run as an ordinary "move to line start" command.
	s.Dispatch(ctrlKey('a'))
	if s.searching {
		t.Fatal("expected search to end on a non-search key")
	}
	cx, _ := buf.Cursor()
	if cx != 0 {
		t.Fatalf("cx = %d, want 0 (Ctrl-A fell through to line-start)", cx)
	}
}

func TestDispatchMetaWCopiesRegionToKillRing(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	buf := s.FocusedWindow().buf
	insertString(buf, "hello world")
	buf.SetCursor(0, 0)
	buf.SetMark(5, 0)

	s.Dispatch(altKey('w'))
	if string(s.killRing.Current()) != "hello" {
		t.Fatalf("got kill-ring top %q, want %q", s.killRing.Current(), "hello")
	}
	if string(buf.RowAt(0).Bytes()) != "hello world" {
		t.Fatal("M-w must copy without deleting the region")
	}
}

func TestDispatchCtrlXCtrlCRequestsQuit(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	s.Dispatch(ctrlKey('x'))
	if !s.pendingCtrlX {
		t.Fatal("expected pendingCtrlX=true after C-x")
	}
	s.Dispatch(ctrlKey('c'))
	if s.pendingCtrlX {
		t.Fatal("pendingCtrlX should clear after the suffix key")
	}
	if !s.QuitRequested() {
		t.Fatal("expected QuitRequested() after C-x C-c")
	}
}

func TestDispatchCtrlXCtrlFStartsFindFilePrompt(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	s.Dispatch(ctrlKey('x'))
	s.Dispatch(ctrlKey('f'))
	if !s.Prompting() {
		t.Fatal("expected a prompt to be active after C-x C-f")
	}
	if s.ActivePrompt() == nil {
		t.Fatal("expected ActivePrompt() to return the find-file prompt")
	}
}

func TestDispatchWhilePromptingIsANoop(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	s.prompting = true
	buf := s.FocusedWindow().buf
	s.Dispatch(charKey('x'))
	if buf.RowAt(0).Len() != 0 {
		t.Fatal("Dispatch should not touch the buffer while a prompt is active")
	}
}
