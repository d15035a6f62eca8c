package emil

// Region is the span between the cursor and the mark, normalized so that
// Start precedes or equals End in stream order.
type Region struct {
	StartX, StartY int
	EndX, EndY     int
}

// CurrentRegion returns the buffer's region and whether the mark is
// currently valid. The region is read fresh each time rather than cached,
// since cursor and mark move independently between calls.
func (b *Buffer) CurrentRegion() (Region, bool) {
	if !b.markValid {
		return Region{}, false
	}
	sx, sy, ex, ey := b.cx, b.cy, b.markX, b.markY
	if pointLess(ex, ey, sx, sy) {
		sx, sy, ex, ey = ex, ey, sx, sy
	}
	return Region{StartX: sx, StartY: sy, EndX: ex, EndY: ey}, true
}

func pointLess(x1, y1, x2, y2 int) bool {
	if y1 != y2 {
		return y1 < y2
	}
	return x1 < x2
}

// RegionText returns the text covered by the region without mutating the
// buffer.
func (b *Buffer) RegionText() ([]byte, bool) {
	r, ok := b.CurrentRegion()
	if !ok {
		return nil, false
	}
	return captureRange(b, r.StartX, r.StartY, r.EndX, r.EndY), true
}

// KillRegion deletes the region and pushes it to the kill ring.
func (b *Buffer) KillRegion(s *EditorState) bool {
	r, ok := b.CurrentRegion()
	if !ok {
		if s != nil {
			s.SetStatus("No region is active")
		}
		return false
	}
	removed := b.DeleteRange(s, r.StartX, r.StartY, r.EndX, r.EndY)
	if s != nil {
		s.killRing.Push(removed, false)
	}
	b.ClearMark()
	return true
}

// CopyRegion pushes the region's text to the kill ring without deleting
// it.
func (b *Buffer) CopyRegion(s *EditorState) bool {
	text, ok := b.RegionText()
	if !ok {
		if s != nil {
			s.SetStatus("No region is active")
		}
		return false
	}
	if s != nil {
		s.killRing.Push(text, false)
		s.SetStatus("Region copied")
	}
	return true
}

// RectBounds normalizes the cursor/mark pair into a rectangle expressed as
// row range and column range, for rectangle-mode operations. Columns are
// display columns, not byte offsets, since a rectangle's left/right edges
// must line up visually across rows of differing encoding density.
type RectBounds struct {
	TopY, BotY     int
	LeftCol, RightCol int
}

// CurrentRect computes the rectangle bounds from the cursor and mark.
func (b *Buffer) CurrentRect() (RectBounds, bool) {
	if !b.markValid {
		return RectBounds{}, false
	}
	topY, botY := b.cy, b.markY
	if botY < topY {
		topY, botY = botY, topY
	}
	leftCol := b.columnOf(b.cx, b.cy)
	rightCol := b.columnOf(b.markX, b.markY)
	if rightCol < leftCol {
		leftCol, rightCol = rightCol, leftCol
	}
	return RectBounds{TopY: topY, BotY: botY, LeftCol: leftCol, RightCol: rightCol}, true
}

func (b *Buffer) columnOf(bytePos, rowIdx int) int {
	row := b.RowAt(rowIdx)
	if row == nil {
		return 0
	}
	return row.DisplayColumn(bytePos)
}

// byteAtColumn converts a display column back to a byte offset in row,
// clamped to the row's length when the column falls past the row's text
// (a ragged-right rectangle edge).
func byteAtColumn(row *Row, col int) int {
	b := row.bytes
	c := 0
	i := 0
	for i < len(b) {
		w, n := unitWidth(b, i, c)
		if c+w > col {
			return i
		}
		c += w
		i += n
	}
	return len(b)
}

// DeleteRectangle removes the column span [LeftCol,RightCol) from every
// row in [TopY,BotY], clamping at each row's own length, and returns the
// removed text as a list of per-row fragments (for rectangle-yank).
func (b *Buffer) DeleteRectangle(s *EditorState, rect RectBounds) [][]byte {
	if !b.editGuard(s) {
		return nil
	}
	out := make([][]byte, 0, rect.BotY-rect.TopY+1)
	var recs []*UndoRecord
	for y := rect.TopY; y <= rect.BotY; y++ {
		row := b.RowAt(y)
		if row == nil {
			out = append(out, nil)
			continue
		}
		start := byteAtColumn(row, rect.LeftCol)
		end := byteAtColumn(row, rect.RightCol)
		if end < start {
			end = start
		}
		removed := row.deleteRange(start, end)
		recs = append(recs, buildDeleteRecord(start, y, end, y, removed))
		out = append(out, removed)
	}
	if len(recs) > 0 {
		clearRedos(b)
		sealUndo(b)
		pushGroup(b, recs...)
	}
	b.SetCursor(byteAtColumn(b.RowAt(rect.TopY), rect.LeftCol), rect.TopY)
	b.markDirty()
	b.invalidateScreenCache()
	return out
}

// InsertRectangle inserts frags, one per row starting at TopY, at column
// LeftCol, extending the buffer with blank rows if the rectangle runs
// past the last row.
func (b *Buffer) InsertRectangle(s *EditorState, topY, leftCol int, frags [][]byte) {
	if !b.editGuard(s) {
		return
	}
	var recs []*UndoRecord
	for i, frag := range frags {
		y := topY + i
		if y >= len(b.rows) {
			b.InsertRow(len(b.rows), nil)
		}
		row := b.rows[y]
		col := leftCol
		if pad := col - row.DisplayWidth(); pad > 0 {
			row.append(spaces(pad))
		}
		at := byteAtColumn(row, leftCol)
		row.insertBytes(at, frag)
		recs = append(recs, buildInsertRecord(at, y, at+len(frag), y, frag))
	}
	if len(recs) > 0 {
		clearRedos(b)
		sealUndo(b)
		pushGroup(b, recs...)
	}
	b.markDirty()
	b.invalidateScreenCache()
}

func spaces(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = ' '
	}
	return out
}
