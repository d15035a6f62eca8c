package emil

// wordWrapBreak walks forward from lineStartByte/lineStartCol, accumulating
// display width, and returns where the next screen-line break falls.
//
//   - If the remainder of the row fits within screencols, it breaks at row
//     end (more = false).
//   - Else if a word boundary was seen within the available span, it
//     breaks at the boundary's right edge.
//   - Else it hard-breaks at the column limit (a long token with no
//     boundary).
//   - A wide character that would straddle the right margin forces a
//     break before it.
//
// breakCol is relative to lineStartCol; breakByte is an absolute offset
// into row's bytes.
func wordWrapBreak(row *Row, screencols, lineStartCol, lineStartByte int) (breakCol, breakByte int, more bool) {
	b := row.bytes
	col := lineStartCol
	i := lineStartByte

	lastBoundaryCol := -1
	lastBoundaryByte := -1

	for i < len(b) {
		w, n := unitWidth(b, i, col)
		if col-lineStartCol+w > screencols {
			break
		}
		c := b[i]
		col += w
		i += n
		if c < 0x80 && isWordSeparator(c) {
			lastBoundaryCol = col - lineStartCol
			lastBoundaryByte = i
		}
	}

	if i >= len(b) {
		return col - lineStartCol, i, false
	}
	if lastBoundaryByte >= 0 {
		return lastBoundaryCol, lastBoundaryByte, true
	}
	return col - lineStartCol, i, true
}

// countScreenLines returns the number of screen rows row occupies under
// word-wrap at the given width. Always at least 1, even for empty rows.
func countScreenLines(row *Row, screencols int) int {
	if screencols <= 0 {
		return 1
	}
	n := 0
	byteOff := 0
	for {
		n++
		_, nextByte, more := wordWrapBreak(row, screencols, 0, byteOff)
		if !more {
			break
		}
		if nextByte <= byteOff {
			// Defensive: a pathological zero-width screencols could fail
			// to advance; force progress to avoid an infinite loop.
			break
		}
		byteOff = nextByte
	}
	return n
}

// invalidateScreenCache drops the buffer's screen-line cache. Called on
// row insert/delete, row byte mutation, wrap-mode toggle, or screencols
// change.
func (b *Buffer) invalidateScreenCache() {
	b.screenLineStart = nil
	b.cacheValidWidth = -1
}

// screenLineStarts returns, and lazily rebuilds, the cumulative screen-line
// index for each row under the given width/wrap mode: screenLineStarts[i]
// is the number of screen lines occupied by rows [0, i).
func (b *Buffer) screenLineStarts(screencols int) []int {
	if b.screenLineStart != nil && b.cacheValidWidth == screencols && b.cacheValidWrap == b.wordWrap {
		return b.screenLineStart
	}
	starts := make([]int, len(b.rows)+1)
	total := 0
	for i, row := range b.rows {
		starts[i] = total
		if b.wordWrap {
			total += countScreenLines(row, screencols)
		} else {
			total++
		}
	}
	starts[len(b.rows)] = total
	b.screenLineStart = starts
	b.cacheValidWidth = screencols
	b.cacheValidWrap = b.wordWrap
	return starts
}

// TotalScreenLines returns the number of screen lines the whole buffer
// occupies under the given width.
func (b *Buffer) TotalScreenLines(screencols int) int {
	starts := b.screenLineStarts(screencols)
	return starts[len(starts)-1]
}
