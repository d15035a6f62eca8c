package emil

import "unicode/utf8"

// Indent is the number of spaces one level of indent/unindent uses for
// buffers that prefer spaces; tab-indenting buffers use a literal tab.
const Indent = 8

// editGuard reports whether an edit should proceed; read-only buffers
// silently no-op with a status message, per §4.3.
func (b *Buffer) editGuard(s *EditorState) bool {
	if b.readOnly {
		if s != nil {
			s.SetStatus("Buffer is read-only")
		}
		return false
	}
	return true
}

// InsertChar inserts one ASCII byte at the cursor count times, advancing
// cx by count.
func (b *Buffer) InsertChar(s *EditorState, c byte, count int) {
	if !b.editGuard(s) {
		return
	}
	if count <= 0 {
		count = 1
	}
	b.ensureCurrentRow()
	row := b.rows[b.cy]
	for i := 0; i < count; i++ {
		row.insertBytes(b.cx, []byte{c})
		undoAppendChar(b, c)
		b.cx++
	}
	b.markDirty()
	b.invalidateScreenCache()
}

// InsertUnicode inserts a multi-byte codepoint at the cursor, advancing cx
// by its byte length.
func (b *Buffer) InsertUnicode(s *EditorState, r rune) {
	if !b.editGuard(s) {
		return
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	data := buf[:n]
	b.ensureCurrentRow()
	row := b.rows[b.cy]
	row.insertBytes(b.cx, data)
	undoAppendBytes(b, data)
	b.cx += n
	b.markDirty()
	b.invalidateScreenCache()
}

// ensureCurrentRow materializes the virtual after-end line as a real row
// if the cursor currently sits past the last row.
func (b *Buffer) ensureCurrentRow() {
	if b.cy >= len(b.rows) {
		b.InsertRow(len(b.rows), nil)
	}
}

// InsertNewline splits the current row at cx, moving the cursor to the
// start of the new row.
func (b *Buffer) InsertNewline(s *EditorState, count int) {
	if !b.editGuard(s) {
		return
	}
	if count <= 0 {
		count = 1
	}
	for i := 0; i < count; i++ {
		b.insertNewlineRaw()
	}
}

func (b *Buffer) insertNewlineRaw() {
	b.ensureCurrentRow()
	row := b.rows[b.cy]
	tail := append([]byte(nil), row.bytes[b.cx:]...)
	row.truncate(b.cx)
	b.InsertRow(b.cy+1, tail)
	undoAppendChar(b, '\n')
	b.cy++
	b.cx = 0
	b.markDirty()
}

// InsertNewlineAndIndent splits the row like InsertNewline and then copies
// the leading whitespace of the previous row onto the new row.
func (b *Buffer) InsertNewlineAndIndent(s *EditorState) {
	if !b.editGuard(s) {
		return
	}
	prevY := b.cy
	b.insertNewlineRaw()
	prev := b.RowAt(prevY)
	if prev == nil {
		return
	}
	n := prev.leadingWhitespace()
	if n == 0 {
		return
	}
	lead := append([]byte(nil), prev.bytes[:n]...)
	row := b.rows[b.cy]
	row.insertBytes(0, lead)
	for _, c := range lead {
		undoAppendChar(b, c)
	}
	b.cx = len(lead)
	b.markDirty()
}

// OpenLine is like InsertNewline but leaves the cursor on the original
// row.
func (b *Buffer) OpenLine(s *EditorState) {
	if !b.editGuard(s) {
		return
	}
	savedX, savedY := b.cx, b.cy
	b.insertNewlineRaw()
	b.cx, b.cy = savedX, savedY
}

// DeleteChar forward-deletes the codepoint at the cursor. At row end it
// joins the row with the next one.
func (b *Buffer) DeleteChar(s *EditorState, count int) {
	if !b.editGuard(s) {
		return
	}
	if count <= 0 {
		count = 1
	}
	for i := 0; i < count; i++ {
		if !b.deleteCharOnce() {
			break
		}
	}
}

func (b *Buffer) deleteCharOnce() bool {
	if b.cy >= len(b.rows) {
		return false
	}
	row := b.rows[b.cy]
	if b.cx < row.Len() {
		removed := row.deleteCodepoint(b.cx)
		undoDelChar(b, removed)
		b.markDirty()
		b.invalidateScreenCache()
		return true
	}
	// At end of row: join with next row, deleting the implicit newline.
	if b.cy+1 >= len(b.rows) {
		return false
	}
	next := b.rows[b.cy+1]
	row.append(next.bytes)
	b.DeleteRow(b.cy + 1)
	undoDelChar(b, []byte{'\n'})
	b.markDirty()
	return true
}

// Backspace deletes the codepoint before the cursor. At column 0 it joins
// with the previous row.
func (b *Buffer) Backspace(s *EditorState, count int) {
	if !b.editGuard(s) {
		return
	}
	if count <= 0 {
		count = 1
	}
	for i := 0; i < count; i++ {
		if !b.backspaceOnce() {
			break
		}
	}
}

func (b *Buffer) backspaceOnce() bool {
	if b.cy >= len(b.rows) {
		if b.cy == 0 {
			return false
		}
		b.cy--
		b.cx = b.RowAt(b.cy).Len()
	}
	row := b.rows[b.cy]
	if b.cx > 0 {
		start := b.cx - 1
		for start > 0 && !isUTF8Boundary(row.bytes, start) {
			start--
		}
		removed := row.deleteRange(start, b.cx)
		undoBackspaceSpan(b, start, b.cy, b.cx, b.cy, removed)
		b.cx = start
		b.markDirty()
		b.invalidateScreenCache()
		return true
	}
	if b.cy == 0 {
		return false
	}
	prev := b.rows[b.cy-1]
	joinCol := prev.Len()
	prevY := b.cy - 1
	curY := b.cy
	prev.append(row.bytes)
	b.DeleteRow(b.cy)
	undoBackspaceSpan(b, joinCol, prevY, 0, curY, []byte{'\n'})
	b.cy = prevY
	b.cx = joinCol
	b.markDirty()
	return true
}

// Indent inserts one indent level at the cursor: a literal tab, or
// Indent spaces.
func (b *Buffer) Indent(s *EditorState, useTab bool) {
	if !b.editGuard(s) {
		return
	}
	if useTab {
		b.InsertChar(s, '\t', 1)
		return
	}
	for i := 0; i < Indent; i++ {
		b.InsertChar(s, ' ', 1)
	}
}

// Unindent removes one indent level of leading whitespace from the
// current row, starting at column 0.
func (b *Buffer) Unindent(s *EditorState) {
	if !b.editGuard(s) {
		return
	}
	row := b.CurrentRow()
	if row == nil {
		return
	}
	n := 0
	for n < row.Len() && n < Indent {
		c := row.bytes[n]
		if c == '\t' {
			n++
			break
		}
		if c != ' ' {
			break
		}
		n++
	}
	if n == 0 {
		return
	}
	removed := row.deleteRange(0, n)
	recordDelete(b, 0, b.cy, n, b.cy, removed)
	if b.cx > 0 {
		b.cx -= n
		if b.cx < 0 {
			b.cx = 0
		}
	}
	b.markDirty()
	b.invalidateScreenCache()
}

// KillLine deletes from the cursor to end-of-line, or the newline itself
// if the cursor is already at end-of-line, pushing the removed text to
// the kill ring.
func (b *Buffer) KillLine(s *EditorState) {
	if !b.editGuard(s) {
		return
	}
	row := b.CurrentRow()
	if row == nil {
		return
	}
	if b.cx < row.Len() {
		removed := row.deleteRange(b.cx, row.Len())
		recordDelete(b, b.cx, b.cy, b.cx+len(removed), b.cy, removed)
		if s != nil {
			s.killRing.Push(removed, false)
		}
		b.markDirty()
		b.invalidateScreenCache()
		return
	}
	if b.cy+1 >= len(b.rows) {
		return
	}
	next := b.rows[b.cy+1]
	row.append(next.bytes)
	b.DeleteRow(b.cy + 1)
	recordDelete(b, b.cx, b.cy, 0, b.cy+1, []byte{'\n'})
	if s != nil {
		s.killRing.Push([]byte{'\n'}, false)
	}
	b.markDirty()
	b.invalidateScreenCache()
}

// DeleteRange removes the stream span [startX,startY)..(endX,endY) and
// returns the removed bytes, recording a single undo record. Used by
// region-kill and rectangle operations.
func (b *Buffer) DeleteRange(s *EditorState, startX, startY, endX, endY int) []byte {
	if !b.editGuard(s) {
		return nil
	}
	removed := captureRange(b, startX, startY, endX, endY)
	bulkDelete(b, startX, startY, endX, endY)
	recordDelete(b, startX, startY, endX, endY, removed)
	b.SetCursor(startX, startY)
	b.markDirty()
	return removed
}

// InsertAt inserts data at (x,y) using a bulk splice, recording a single
// undo record. Used by yank and undo/redo-adjacent paste operations.
func (b *Buffer) InsertAt(s *EditorState, x, y int, data []byte) (endX, endY int) {
	if !b.editGuard(s) {
		return x, y
	}
	bulkInsert(b, x, y, data)
	endX, endY = endOfInsert(x, y, data)
	recordInsert(b, x, y, endX, endY, data)
	b.SetCursor(endX, endY)
	b.markDirty()
	return endX, endY
}

// endOfInsert computes the cursor position after inserting data starting
// at (x,y), without mutating any buffer.
func endOfInsert(x, y int, data []byte) (endX, endY int) {
	endX, endY = x, y
	lastNL := -1
	lines := 0
	for i, c := range data {
		if c == '\n' {
			lines++
			lastNL = i
		}
	}
	if lines == 0 {
		return x + len(data), y
	}
	return len(data) - lastNL - 1, y + lines
}

// captureRange copies the stream-region text between two buffer
// coordinates without mutating the buffer.
func captureRange(b *Buffer, startX, startY, endX, endY int) []byte {
	if startY == endY {
		row := b.RowAt(startY)
		if row == nil {
			return nil
		}
		return append([]byte(nil), row.bytes[startX:endX]...)
	}
	var out []byte
	first := b.RowAt(startY)
	out = append(out, first.bytes[startX:]...)
	out = append(out, '\n')
	for y := startY + 1; y < endY; y++ {
		out = append(out, b.RowAt(y).bytes...)
		out = append(out, '\n')
	}
	last := b.RowAt(endY)
	out = append(out, last.bytes[:endX]...)
	return out
}
