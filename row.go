package emil

// Row holds one line of a buffer as raw UTF-8 bytes, plus a memoized
// display width that is invalidated on any byte mutation.
type Row struct {
	bytes       []byte
	cachedWidth int // -1 means stale
}

func newRow(data []byte) *Row {
	r := &Row{cachedWidth: -1}
	r.bytes = append(r.bytes, data...)
	return r
}

// Bytes returns the row's raw content. Callers must not retain slices of
// it across mutations.
func (r *Row) Bytes() []byte { return r.bytes }

// Len returns the byte length of the row.
func (r *Row) Len() int { return len(r.bytes) }

func (r *Row) invalidate() { r.cachedWidth = -1 }

// DisplayWidth returns the total display column count of the row,
// recomputing and caching it if stale.
func (r *Row) DisplayWidth() int {
	if r.cachedWidth < 0 {
		r.cachedWidth = computeWidth(r.bytes)
	}
	return r.cachedWidth
}

// DisplayColumn returns the display column corresponding to bytePos.
func (r *Row) DisplayColumn(bytePos int) int {
	return displayColumn(r.bytes, bytePos)
}

// insertBytes splices data into the row at byte offset pos. pos must be a
// codepoint boundary; this is a low-level RowStore primitive and does not
// touch undo or cursor state.
func (r *Row) insertBytes(pos int, data []byte) {
	if len(data) == 0 {
		return
	}
	r.bytes = append(r.bytes, data...) // grow capacity
	copy(r.bytes[pos+len(data):], r.bytes[pos:len(r.bytes)-len(data)])
	copy(r.bytes[pos:], data)
	r.invalidate()
}

// deleteCodepoint removes the single codepoint starting at pos and returns
// the bytes that were removed.
func (r *Row) deleteCodepoint(pos int) []byte {
	n := codepointLenAt(r.bytes, pos)
	if n == 0 {
		return nil
	}
	removed := append([]byte(nil), r.bytes[pos:pos+n]...)
	r.bytes = append(r.bytes[:pos], r.bytes[pos+n:]...)
	r.invalidate()
	return removed
}

// deleteRange removes bytes [start, end) and returns them.
func (r *Row) deleteRange(start, end int) []byte {
	if end <= start {
		return nil
	}
	removed := append([]byte(nil), r.bytes[start:end]...)
	r.bytes = append(r.bytes[:start], r.bytes[end:]...)
	r.invalidate()
	return removed
}

// append concatenates data onto the end of the row.
func (r *Row) append(data []byte) {
	r.bytes = append(r.bytes, data...)
	r.invalidate()
}

// truncate cuts the row down to length n.
func (r *Row) truncate(n int) {
	r.bytes = r.bytes[:n]
	r.invalidate()
}

// leadingWhitespace returns the byte count of the run of tabs/spaces at
// the start of the row, used by insert_newline_and_indent.
func (r *Row) leadingWhitespace() int {
	i := 0
	for i < len(r.bytes) && (r.bytes[i] == ' ' || r.bytes[i] == '\t') {
		i++
	}
	return i
}

// ---- RowStore operations on a Buffer's row sequence ----

// InsertRow inserts a new row at index at, shifting subsequent rows right.
// Panics with OutOfRange if at > numrows, per the editor's invariant that
// cursor/index arguments are caller-verified, not user input.
func (b *Buffer) InsertRow(at int, data []byte) {
	if at < 0 || at > len(b.rows) {
		panic(outOfRange("InsertRow", at, len(b.rows)))
	}
	row := newRow(data)
	b.rows = append(b.rows, nil)
	copy(b.rows[at+1:], b.rows[at:])
	b.rows[at] = row
	b.invalidateScreenCache()
}

// DeleteRow removes the row at index at, shifting subsequent rows left.
func (b *Buffer) DeleteRow(at int) {
	if at < 0 || at >= len(b.rows) {
		panic(outOfRange("DeleteRow", at, len(b.rows)))
	}
	b.rows = append(b.rows[:at], b.rows[at+1:]...)
	b.invalidateScreenCache()
}

// NumRows returns the number of rows in the buffer.
func (b *Buffer) NumRows() int { return len(b.rows) }

// RowAt returns the row at index i, or nil if out of range.
func (b *Buffer) RowAt(i int) *Row {
	if i < 0 || i >= len(b.rows) {
		return nil
	}
	return b.rows[i]
}
