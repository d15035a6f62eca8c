package emil

// Dispatch applies one decoded key to the focused window's buffer.
// Binding every named command (query-replace, register ops, ...) to a
// keymap is the external dispatch collaborator of §1;
// this covers the baseline movement/edit/file set needed to drive the
// editor end to end.
func (s *EditorState) Dispatch(k Key) {
	if s.prompting {
		return // caller routes to the active Prompt instead
	}
	w := s.FocusedWindow()
	buf := w.buf

	if s.pendingCtrlX {
		s.dispatchCtrlX(buf, k)
		return
	}

	if s.searching {
		s.dispatchSearch(buf, k)
		return
	}

	switch {
	case k.Ctrl && k.Rune == 'g':
		buf.ClearMark()
		s.SetStatus("Quit")

	case k.Ctrl && k.Rune == 's':
		s.searching = true
		buf.StartSearch()
		s.SetStatus("Search: ")

	case k.Ctrl && k.Rune == 'x':
		s.pendingCtrlX = true
		s.SetStatus("C-x-")

	case k.Alt && k.Rune == 'w':
		s.copyRegionToClipboard(buf)

	case k.Ctrl && k.Rune == 'n', k.Special == SpecialDown:
		s.moveCursor(buf, 0, 1)

	case k.Ctrl && k.Rune == 'p', k.Special == SpecialUp:
		s.moveCursor(buf, 0, -1)

	case k.Ctrl && k.Rune == 'f', k.Special == SpecialRight:
		s.moveCursor(buf, 1, 0)

	case k.Ctrl && k.Rune == 'b', k.Special == SpecialLeft:
		s.moveCursor(buf, -1, 0)

	case k.Special == SpecialHome, k.Ctrl && k.Rune == 'a':
		buf.SetCursor(0, buf.cy)

	case k.Special == SpecialEnd, k.Ctrl && k.Rune == 'e':
		if row := buf.CurrentRow(); row != nil {
			buf.SetCursor(row.Len(), buf.cy)
		}

	case k.Special == SpecialEnter:
		buf.InsertNewline(s, 1)

	case k.Special == SpecialTab:
		buf.Indent(s, true)

	case k.Special == SpecialBackspace, k.Ctrl && k.Rune == 'h':
		buf.Backspace(s, 1)

	case k.Ctrl && k.Rune == 'd', k.Special == SpecialDelete:
		buf.DeleteChar(s, 1)

	case k.Ctrl && k.Rune == 'k':
		buf.KillLine(s)

	case k.Ctrl && k.Rune == 'y':
		if text := s.killRing.Current(); text != nil {
			buf.InsertAt(s, buf.cx, buf.cy, text)
		}

	case k.Ctrl && k.Rune == ' ':
		buf.SetMark(buf.cx, buf.cy)

	case k.Ctrl && k.Rune == 'w':
		buf.KillRegion(s)

	case k.Ctrl && k.Rune == '_':
		if err := buf.DoUndo(1); err != nil {
			s.SetStatus("%s", err.Error())
		}

	case k.IsRune() && !k.Ctrl && !k.Alt:
		if k.Rune < 0x80 {
			buf.InsertChar(s, byte(k.Rune), 1)
		} else {
			buf.InsertUnicode(s, k.Rune)
		}
	}
}

// dispatchSearch routes keys while an incremental search is active: C-s
// repeats (advancing to the next match), Backspace narrows the query back
// up, Enter/Escape/C-g/any non-search key ends the search and leaves the
// cursor on the last match found.
func (s *EditorState) dispatchSearch(buf *Buffer, k Key) {
	switch {
	case k.Ctrl && k.Rune == 's':
		buf.SearchNext()

	case k.Ctrl && k.Rune == 'g':
		buf.SetCursor(buf.matchX, buf.matchY)
		s.endSearch()

	case k.Special == SpecialEnter, k.Special == SpecialEscape:
		s.endSearch()

	case k.Special == SpecialBackspace, k.Ctrl && k.Rune == 'h':
		buf.SearchBackspace()
		s.SetStatus("Search: %s", buf.query)

	case k.IsRune() && !k.Ctrl && !k.Alt && k.Rune < 0x80:
		buf.SearchAppend(byte(k.Rune))
		s.SetStatus("Search: %s", buf.query)

	default:
		s.endSearch()
		s.Dispatch(k)
	}
}

func (s *EditorState) endSearch() {
	s.searching = false
	s.SetStatus("")
}

// dispatchCtrlX routes the key following a C-x prefix press. Unrecognized
// suffixes just drop the prefix, matching the source editor's behavior of
// silently ignoring unbound prefix sequences.
func (s *EditorState) dispatchCtrlX(buf *Buffer, k Key) {
	s.pendingCtrlX = false
	switch {
	case k.Ctrl && k.Rune == 'c':
		s.RequestQuit()
		s.SetStatus("")
	case k.Ctrl && k.Rune == 'f':
		s.StartPrompt(PromptFiles, "Find file: ", nil)
	case k.Ctrl && k.Rune == 's':
		if buf.Filename() == "" {
			s.SetStatus("No filename to save to")
			return
		}
		if _, err := Save(buf); err != nil {
			s.SetStatus("%s", err.Error())
		} else {
			s.SetStatus("Wrote %s", buf.DisplayName())
		}
	default:
		s.SetStatus("")
	}
}

// copyRegionToClipboard pushes the region to the kill ring and, if a
// system clipboard is attached, writes it out via OSC 52 too.
func (s *EditorState) copyRegionToClipboard(buf *Buffer) {
	text, ok := buf.RegionText()
	if !ok {
		s.SetStatus("No region is active")
		return
	}
	s.killRing.Push(text, false)
	buf.ClearMark()
	if s.clipboard == nil {
		s.SetStatus("Region copied")
		return
	}
	if err := s.clipboard.Copy(text); err != nil {
		s.SetStatus("%s", err.Error())
		return
	}
	s.SetStatus("Region copied to clipboard")
}

// moveCursor moves the buffer cursor by dy rows, or, when dy is 0, by one
// codepoint in the direction of dx (wrapping across row ends), clamping
// at buffer edges.
func (s *EditorState) moveCursor(buf *Buffer, dx, dy int) {
	cx, cy := buf.Cursor()
	if dy != 0 {
		cy += dy
		if cy < 0 {
			cy = 0
		}
		if row := buf.RowAt(cy); row != nil && cx > row.Len() {
			cx = row.Len()
		}
		buf.SetCursor(cx, cy)
		return
	}
	if dx > 0 {
		row := buf.CurrentRow()
		if row != nil && cx < row.Len() {
			buf.SetCursor(cx+codepointLenAt(row.bytes, cx), cy)
		} else if cy+1 < len(buf.rows) {
			buf.SetCursor(0, cy+1)
		}
		return
	}
	if dx < 0 {
		if cx > 0 {
			row := buf.CurrentRow()
			n := 1
			for cx-n > 0 && !isUTF8Boundary(row.bytes, cx-n) {
				n++
			}
			buf.SetCursor(cx-n, cy)
		} else if cy > 0 {
			prev := buf.RowAt(cy - 1)
			buf.SetCursor(prev.Len(), cy-1)
		}
	}
}
