package emil

import "bytes"

// StartSearch begins an incremental search from the current cursor
// position, clearing any previous query.
func (b *Buffer) StartSearch() {
	b.query = nil
	b.matchValid = false
}

// SearchAppend extends the query by one byte and re-searches from the
// point the previous match started (or the cursor, if this is the first
// character), so typing narrows the current match rather than jumping.
func (b *Buffer) SearchAppend(c byte) {
	b.query = append(b.query, c)
	fromX, fromY := b.cx, b.cy
	if b.matchValid {
		fromX, fromY = b.matchX, b.matchY
	}
	b.findFrom(fromX, fromY)
}

// SearchBackspace removes the last byte of the query and re-searches
// from the current cursor, which sits on the last match; the position
// the search started from is not remembered.
func (b *Buffer) SearchBackspace() {
	if len(b.query) == 0 {
		return
	}
	b.query = b.query[:len(b.query)-1]
	if len(b.query) == 0 {
		b.matchValid = false
		return
	}
	b.findFrom(b.cx, b.cy)
}

// SearchNext advances to the next occurrence after the current match,
// wrapping to the start of the buffer.
func (b *Buffer) SearchNext() {
	if len(b.query) == 0 {
		return
	}
	fromY := b.cy
	fromX := b.cx + 1
	if b.matchValid {
		fromY = b.matchY
		fromX = b.matchX + 1
	}
	if !b.findFrom(fromX, fromY) {
		b.findFrom(0, 0)
	}
}

// findFrom scans forward from (x,y) for the current query, stream order,
// wrapping within the scan itself only up to the buffer's end (callers
// decide whether to wrap to the start). Updates matchX/matchY/matchValid
// and, on a hit, the cursor.
func (b *Buffer) findFrom(x, y int) bool {
	for ; y < len(b.rows); y++ {
		idx := indexFrom(b.rows[y].bytes, b.query, x)
		if idx >= 0 {
			b.matchX, b.matchY, b.matchValid = idx, y, true
			b.SetCursor(idx, y)
			return true
		}
		x = 0
	}
	b.matchValid = false
	return false
}

func indexFrom(haystack, needle []byte, from int) int {
	if from < 0 {
		from = 0
	}
	if from > len(haystack) {
		return -1
	}
	idx := bytes.Index(haystack[from:], needle)
	if idx < 0 {
		return -1
	}
	return idx + from
}
