package emil

import (
	"bytes"
	"fmt"
)

// RefreshHint narrows what a refresh needs to redraw. CursorOnly is an
// optimization for keystrokes that only move the cursor within the
// current viewport; anything that changes what's on screen must use
// RefreshFull.
type RefreshHint int

const (
	RefreshFull RefreshHint = iota
	RefreshCursorOnly
)

const (
	escEnterAlt   = "\x1b[?1049h"
	escLeaveAlt   = "\x1b[?1049l"
	escHideCursor = "\x1b[?25l"
	escShowCursor = "\x1b[?25h"
	escReverse    = "\x1b[7m"
	escReset      = "\x1b[0m"
	escRed        = "\x1b[91m"
	escEraseLine  = "\x1b[K"
	escEraseBelow = "\x1b[J"
)

// highlightBounds are the four byte-offset cut points computed once per
// row before rendering, so the row loop only has to compare against them
// rather than recompute region/match membership per cell.
type highlightBounds struct {
	regionStart, regionEnd int // -1,-1 if no region covers this row
	matchStart, matchEnd   int // -1,-1 if no search match covers this row
}

const noBound = -1

// rowHighlights computes the highlight span for one row of buf, given the
// already-normalized region (if any).
func rowHighlights(buf *Buffer, rowIdx int, region Region, hasRegion bool) highlightBounds {
	hb := highlightBounds{regionStart: noBound, regionEnd: noBound, matchStart: noBound, matchEnd: noBound}
	row := buf.RowAt(rowIdx)
	if row == nil {
		return hb
	}
	if hasRegion && rowIdx >= region.StartY && rowIdx <= region.EndY {
		start, end := 0, row.Len()
		if rowIdx == region.StartY {
			start = region.StartX
		}
		if rowIdx == region.EndY {
			end = region.EndX
		}
		hb.regionStart, hb.regionEnd = start, end
	}
	if buf.matchValid && buf.matchY == rowIdx && len(buf.query) > 0 {
		hb.matchStart = buf.matchX
		hb.matchEnd = buf.matchX + len(buf.query)
	}
	return hb
}

func inSpan(byteOff, start, end int) bool {
	return start != noBound && byteOff >= start && byteOff < end
}

// Render runs the full display pipeline and returns the single byte
// buffer to write to the terminal in one write() call. If hint upgrades
// itself (scroll moved the viewport under a CursorOnly request), the
// caller sees the full-redraw output transparently.
func (s *EditorState) Render(hint RefreshHint) []byte {
	var out bytes.Buffer
	out.WriteString(escHideCursor)

	rows, cols := s.screenRows, s.screenCols
	if rows <= 0 || cols <= 0 {
		rows, cols = 24, 80
	}
	contentRows := rows - 1 // reserve one row for the minibuffer

	scrolled := s.layoutWindows(contentRows, cols)
	if scrolled && hint == RefreshCursorOnly {
		hint = RefreshFull
	}

	if hint == RefreshFull {
		y := 0
		for _, w := range s.windows {
			s.renderWindow(&out, w, cols, y)
			y += w.height + 1 // +1 for its status row
		}
	} else {
		// CursorOnly still needs the focused window's status bar redrawn
		// (cursor line/col changed) but not its body.
		y := s.windowTop(s.FocusedWindow())
		s.renderStatusBar(&out, s.FocusedWindow(), cols, y+s.FocusedWindow().height)
	}

	s.renderMinibuffer(&out, cols, rows-1)

	focused := s.FocusedWindow()
	out.WriteString(fmt.Sprintf("\x1b[%d;%dH", s.windowTop(focused)+focused.scy+1, focused.scx+1))
	out.WriteString(escShowCursor)
	return out.Bytes()
}

// windowTop returns the screen row a window's content begins on.
func (s *EditorState) windowTop(target *Window) int {
	y := 0
	for _, w := range s.windows {
		if w == target {
			return y
		}
		y += w.height + 1
	}
	return 0
}

// layoutWindows divides contentRows evenly across windows (each also
// claiming one row for its status bar), then runs scroll/clamp for each
// window against its buffer. Returns true if any window's viewport
// offset changed, which forces a full redraw under RefreshCursorOnly.
func (s *EditorState) layoutWindows(contentRows, cols int) bool {
	n := len(s.windows)
	if n == 0 {
		return false
	}
	perWindow := contentRows / n
	extra := contentRows % n
	changed := false
	for i, w := range s.windows {
		h := perWindow - 1 // minus its own status row
		if i < extra {
			h++
		}
		if h < 1 {
			h = 1
		}
		if w.height != h {
			w.height = h
		}
		if w.focused {
			w.cx, w.cy = w.buf.cx, w.buf.cy
			synchronizeBufferCursor(w.buf, w)
		}
		if s.scrollWindow(w, cols) {
			changed = true
		}
	}
	return changed
}

// scrollWindow clamps cx/cy to the buffer and adjusts rowoff/coloff so
// the cursor stays within the window, then computes scx/scy (the cursor
// position relative to the window's content area, used for cursor
// addressing).
func (s *EditorState) scrollWindow(w *Window, cols int) bool {
	buf := w.buf
	before := [2]int{w.rowoff, w.coloff}

	if w.cy < 0 {
		w.cy = 0
	}
	if w.cy >= len(buf.rows) {
		if len(buf.rows) > 0 {
			w.cy = len(buf.rows) - 1
		} else {
			w.cy = 0
		}
	}

	if buf.wordWrap {
		starts := buf.screenLineStarts(cols)
		cursorLine := starts[w.cy]
		if len(buf.rows) > 0 {
			cursorLine += screenLineOffsetWithin(buf.rows[w.cy], cols, w.cx)
		}
		if cursorLine < w.rowoff {
			w.rowoff = cursorLine
		}
		if cursorLine >= w.rowoff+w.height {
			w.rowoff = cursorLine - w.height + 1
		}
		w.coloff = 0
		w.scy = cursorLine - w.rowoff
		w.scx = screenColumnWithin(buf.rows[w.cy], cols, w.cx)
	} else {
		if w.cy < w.rowoff {
			w.rowoff = w.cy
		}
		if w.cy >= w.rowoff+w.height {
			w.rowoff = w.cy - w.height + 1
		}
		col := 0
		if w.cy < len(buf.rows) {
			col = buf.rows[w.cy].DisplayColumn(w.cx)
		}
		if col < w.coloff {
			w.coloff = col
		}
		if col >= w.coloff+cols {
			w.coloff = col - cols + 1
		}
		w.scy = w.cy - w.rowoff
		w.scx = col - w.coloff
	}
	if w.rowoff < 0 {
		w.rowoff = 0
	}
	if w.coloff < 0 {
		w.coloff = 0
	}
	return before[0] != w.rowoff || before[1] != w.coloff
}

// screenLineOffsetWithin returns how many wrapped screen-lines into row
// byte offset cx falls, used to compute absolute screen-line position
// under word-wrap.
func screenLineOffsetWithin(row *Row, screencols, cx int) int {
	n := 0
	byteOff := 0
	for {
		_, nextByte, more := wordWrapBreak(row, screencols, 0, byteOff)
		if cx < nextByte || !more {
			return n
		}
		byteOff = nextByte
		n++
	}
}

// screenColumnWithin returns the display column cx falls at within its
// own wrapped screen-line (i.e. relative to that screen-line's start).
func screenColumnWithin(row *Row, screencols, cx int) int {
	byteOff := 0
	lineStartCol := 0
	for {
		breakCol, nextByte, more := wordWrapBreak(row, screencols, lineStartCol, byteOff)
		if cx < nextByte || !more {
			return row.DisplayColumn(cx) - lineStartCol
		}
		byteOff = nextByte
		lineStartCol += breakCol
	}
}

// renderWindow emits one window's body (content rows only, not its
// status bar) starting at screen row y, then its status bar.
func (s *EditorState) renderWindow(out *bytes.Buffer, w *Window, cols, y int) {
	fmt.Fprintf(out, "\x1b[%d;1H", y+1)
	buf := w.buf
	region, hasRegion := buf.CurrentRegion()

	if buf.wordWrap {
		s.renderWrapped(out, w, buf, cols, region, hasRegion)
	} else {
		s.renderUnwrapped(out, w, buf, cols, region, hasRegion)
	}
	s.renderStatusBar(out, w, cols, y+w.height)
}

func (s *EditorState) renderUnwrapped(out *bytes.Buffer, w *Window, buf *Buffer, cols int, region Region, hasRegion bool) {
	for i := 0; i < w.height; i++ {
		rowIdx := w.rowoff + i
		if rowIdx >= len(buf.rows) {
			out.WriteByte('~')
			out.WriteString(escEraseLine)
			out.WriteString("\r\n")
			continue
		}
		row := buf.rows[rowIdx]
		hb := rowHighlights(buf, rowIdx, region, hasRegion)
		reversed := false
		written := 0
		byteOff := skipToColumn(row, w.coloff)
		col := w.coloff
		for byteOff < row.Len() && written < cols {
			want := inSpan(byteOff, hb.regionStart, hb.regionEnd) || inSpan(byteOff, hb.matchStart, hb.matchEnd)
			if want != reversed {
				if want {
					out.WriteString(escReverse)
				} else {
					out.WriteString(escReset)
				}
				reversed = want
			}
			wth, n := unitWidth(row.bytes, byteOff, col)
			writeCell(out, row.bytes, byteOff, n)
			col += wth
			written += wth
			byteOff += n
		}
		if reversed {
			out.WriteString(escReset)
		}
		out.WriteString(escEraseLine)
		out.WriteString("\r\n")
	}
}

func (s *EditorState) renderWrapped(out *bytes.Buffer, w *Window, buf *Buffer, cols int, region Region, hasRegion bool) {
	starts := buf.screenLineStarts(cols)
	emitted := 0
	for rowIdx := 0; rowIdx < len(buf.rows) && emitted < w.height; rowIdx++ {
		if starts[rowIdx+1] <= w.rowoff {
			continue
		}
		row := buf.rows[rowIdx]
		hb := rowHighlights(buf, rowIdx, region, hasRegion)
		byteOff := 0
		lineStartCol := 0
		lineNo := starts[rowIdx]
		for emitted < w.height {
			breakColVal, breakByte, more := wordWrapBreak(row, cols, lineStartCol, byteOff)
			if lineNo >= w.rowoff {
				reversed := false
				col := lineStartCol
				i := byteOff
				for i < breakByte {
					want := inSpan(i, hb.regionStart, hb.regionEnd) || inSpan(i, hb.matchStart, hb.matchEnd)
					if want != reversed {
						if want {
							out.WriteString(escReverse)
						} else {
							out.WriteString(escReset)
						}
						reversed = want
					}
					wth, n := unitWidth(row.bytes, i, col)
					writeCell(out, row.bytes, i, n)
					col += wth
					i += n
				}
				if reversed {
					out.WriteString(escReset)
				}
				out.WriteString(escEraseLine)
				out.WriteString("\r\n")
				emitted++
				if !more {
					break
				}
				byteOff = breakByte
				lineStartCol += breakColVal
				continue
			}
			if !more {
				break
			}
			byteOff = breakByte
			lineStartCol += breakColVal
			lineNo++
		}
	}
	for ; emitted < w.height; emitted++ {
		out.WriteByte('~')
		out.WriteString(escEraseLine)
		out.WriteString("\r\n")
	}
}

// skipToColumn returns the byte offset of the first cell at or after
// display column target, for horizontal scroll under no-wrap.
func skipToColumn(row *Row, target int) int {
	if target <= 0 {
		return 0
	}
	b := row.bytes
	col := 0
	i := 0
	for i < len(b) {
		w, n := unitWidth(b, i, col)
		if col >= target {
			return i
		}
		col += w
		i += n
	}
	return len(b)
}

// writeCell emits the display form of one unit at b[i:i+n]: control chars
// as ^X, everything else verbatim (tabs expand to the terminal's own tab
// stops since we always write from column 0 of a fresh line).
func writeCell(out *bytes.Buffer, b []byte, i, n int) {
	c := b[i]
	if n == 1 && isControl(c) && c != '\t' {
		out.WriteByte('^')
		out.WriteByte(c ^ 0x40)
		return
	}
	out.Write(b[i : i+n])
}

// renderStatusBar emits one reverse-video status line for w at screen
// row y: display name, dirty/read-only flags, cursor line/col, and a
// position tag.
func (s *EditorState) renderStatusBar(out *bytes.Buffer, w *Window, cols, y int) {
	fmt.Fprintf(out, "\x1b[%d;1H", y+1)
	buf := w.buf
	flags := ""
	if buf.Dirty() > 0 {
		flags += "*"
	}
	if buf.ReadOnly() {
		flags += "%"
	}
	cx, cy := buf.Cursor()
	left := fmt.Sprintf(" %s%s  L%d:C%d", buf.DisplayName(), flags, cy+1, cx+1)
	right := positionTag(buf, w, s.screenCols) + " "

	out.WriteString(escReverse)
	pad := cols - len(left) - len(right)
	if pad < 0 {
		if len(left) > cols {
			left = left[:cols]
		}
		pad = cols - len(left)
		if pad < 0 {
			pad = 0
		}
		right = ""
	}
	out.WriteString(left)
	for i := 0; i < pad; i++ {
		out.WriteByte(' ')
	}
	out.WriteString(right)
	out.WriteString(escReset)
	out.WriteString("\r\n")
}

// positionTag summarizes scroll position as Emp (empty buffer), All
// (whole buffer visible), Top, Bot, or a percentage.
func positionTag(buf *Buffer, w *Window, screencols int) string {
	total := buf.TotalScreenLines(screencols)
	if total <= 1 && len(buf.rows) <= 1 && buf.rows[0].Len() == 0 {
		return "Emp"
	}
	if total <= w.height {
		return "All"
	}
	if w.rowoff == 0 {
		return "Top"
	}
	if w.rowoff+w.height >= total {
		return "Bot"
	}
	pct := w.rowoff * 100 / total
	return fmt.Sprintf("%d%%", pct)
}

// renderMinibuffer clears the minibuffer line, shows the status message
// if fresh (red if the last search had no match), or the minibuffer
// buffer's own content while a prompt is active.
func (s *EditorState) renderMinibuffer(out *bytes.Buffer, cols, y int) {
	fmt.Fprintf(out, "\x1b[%d;1H", y+1)
	out.WriteString(escEraseLine)
	if s.prompting {
		row := s.minibuffer.rows[0]
		text := row.bytes
		if len(text) > cols {
			text = text[:cols]
		}
		out.Write(text)
		return
	}
	msg := s.Status()
	if msg.Text == "" {
		return
	}
	text := msg.Text
	if len(text) > cols {
		text = text[:cols]
	}
	if !s.current.matchValid && len(s.current.query) > 0 {
		out.WriteString(escRed)
		out.WriteString(text)
		out.WriteString(escReset)
		return
	}
	out.WriteString(text)
}
