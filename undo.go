package emil

// UndoLimit caps the number of undo records retained per buffer.
const UndoLimit = 1000

// UndoRecord is one reversible edit. For inserts, data is what was
// inserted and undo re-deletes [start,end). For deletes, data is what was
// deleted and undo re-inserts it at start. Data is always stored in
// forward file order, regardless of which direction the edit travelled.
type UndoRecord struct {
	prev                       *UndoRecord
	startX, startY             int
	endX, endY                 int
	isDelete                   bool
	data                       []byte
	appendOK                   bool
	paired                     bool
}

func newUndoRecord() *UndoRecord {
	return &UndoRecord{appendOK: true}
}

func aligned(x1, y1, x2, y2 int) bool { return x1 == x2 && y1 == y2 }

// pushUndo prepends rec to buf's undo list and prunes the tail once
// undoCount exceeds UndoLimit. Pruning walks to the node preceding the
// limit and truncates there, which may cut a paired group mid-sequence —
// an accepted ambiguity from the source editor (see DESIGN.md).
func pushUndo(buf *Buffer, rec *UndoRecord) {
	rec.prev = buf.undo
	buf.undo = rec
	buf.undoCount++
	if buf.undoCount > UndoLimit {
		cur := buf.undo
		for i := 1; i < UndoLimit && cur.prev != nil; i++ {
			cur = cur.prev
		}
		cur.prev = nil
		buf.undoCount = UndoLimit
	}
}

// pushGroup pushes a sequence of records representing one user-level
// compound edit (e.g. replace-range = delete + insert). recs must be in
// the order they logically happened; the last one undone (the earliest
// pushed, deepest in the stack) is left non-paired so the chain stops
// there, and every other record is marked paired so one undo keystroke
// walks the whole group.
func pushGroup(buf *Buffer, recs ...*UndoRecord) {
	for _, r := range recs {
		pushUndo(buf, r)
	}
	for i := 1; i < len(recs); i++ {
		recs[i].paired = true
	}
}

func sealUndo(buf *Buffer) {
	if buf.undo != nil {
		buf.undo.appendOK = false
	}
}

func clearRedos(buf *Buffer) {
	buf.redo = nil
}

// clearUndos discards the entire undo and redo history.
func (b *Buffer) clearUndos() {
	b.undo = nil
	b.redo = nil
	b.undoCount = 0
}

// UndoCount returns the number of undo records currently retained.
func (b *Buffer) UndoCount() int { return b.undoCount }

// CanUndo reports whether there is anything left to undo.
func (b *Buffer) CanUndo() bool { return b.undo != nil }

// CanRedo reports whether there is anything left to redo.
func (b *Buffer) CanRedo() bool { return b.redo != nil }

// ---- bulk replay ----

// bulkInsert splices data into buf at (startX, startY) using row-level
// operations rather than a per-character loop. It does not record undo.
func bulkInsert(buf *Buffer, startX, startY int, data []byte) {
	if len(data) == 0 {
		return
	}
	if startY >= len(buf.rows) {
		buf.InsertRow(len(buf.rows), nil)
	}

	nl := indexByte(data, '\n')
	if nl < 0 {
		buf.rows[startY].insertBytes(startX, data)
		buf.markDirty()
		buf.invalidateScreenCache()
		return
	}

	row := buf.rows[startY]
	suffix := append([]byte(nil), row.bytes[startX:]...)
	row.truncate(startX)
	row.append(data[:nl])

	insertAt := startY + 1
	p := data[nl+1:]
	for {
		next := indexByte(p, '\n')
		if next < 0 {
			combined := append(append([]byte(nil), p...), suffix...)
			buf.InsertRow(insertAt, combined)
			break
		}
		buf.InsertRow(insertAt, p[:next])
		insertAt++
		p = p[next+1:]
	}
	buf.markDirty()
	buf.invalidateScreenCache()
}

// bulkDelete removes the span [startX,startY)..(endX,endY) from buf using
// row-level operations. It does not record undo.
func bulkDelete(buf *Buffer, startX, startY, endX, endY int) {
	if len(buf.rows) == 0 || startY >= len(buf.rows) {
		return
	}
	if startY == endY {
		buf.rows[startY].deleteRange(startX, endX)
		buf.markDirty()
		buf.invalidateScreenCache()
		return
	}

	rowsToDel := endY - startY - 1
	for i := 0; i < rowsToDel; i++ {
		buf.DeleteRow(startY + 1)
	}
	if startY+1 >= len(buf.rows) {
		buf.markDirty()
		buf.invalidateScreenCache()
		return
	}
	first := buf.rows[startY]
	last := buf.rows[startY+1]
	tail := append([]byte(nil), last.bytes[endX:]...)
	first.truncate(startX)
	first.append(tail)
	buf.DeleteRow(startY + 1)
	buf.markDirty()
	buf.invalidateScreenCache()
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// DoUndo replays count undo records (or one if count is 0), moving each
// from the undo list to the redo list. Each requested step fully drains
// any paired group it lands on before the next step is considered.
func (b *Buffer) DoUndo(count int) error {
	if b.readOnly {
		return ErrReadOnly
	}
	times := count
	if times == 0 {
		times = 1
	}
	for j := 0; j < times; j++ {
		if err := b.undoOneChain(); err != nil {
			return err
		}
	}
	return nil
}

func (b *Buffer) undoOneChain() error {
	if b.undo == nil {
		return newError(KindNoMatch, "No further undo information.")
	}
	rec := b.undo
	paired := rec.paired

	if rec.isDelete {
		bulkInsert(b, rec.startX, rec.startY, rec.data)
		b.SetCursor(rec.endX, rec.endY)
	} else {
		bulkDelete(b, rec.startX, rec.startY, rec.endX, rec.endY)
		b.SetCursor(rec.startX, rec.startY)
	}

	orig := b.redo
	b.redo = rec
	b.undo = rec.prev
	b.redo.prev = orig
	b.undoCount--

	if paired {
		return b.undoOneChain()
	}
	return nil
}

// DoRedo replays count redo records (or one if count is 0).
func (b *Buffer) DoRedo(count int) error {
	if b.readOnly {
		return ErrReadOnly
	}
	times := count
	if times == 0 {
		times = 1
	}
	for j := 0; j < times; j++ {
		if err := b.redoOneChain(); err != nil {
			return err
		}
	}
	return nil
}

func (b *Buffer) redoOneChain() error {
	if b.redo == nil {
		return newError(KindNoMatch, "No further redo information.")
	}
	rec := b.redo

	if rec.isDelete {
		bulkDelete(b, rec.startX, rec.startY, rec.endX, rec.endY)
		b.SetCursor(rec.startX, rec.startY)
	} else {
		bulkInsert(b, rec.startX, rec.startY, rec.data)
		b.SetCursor(rec.endX, rec.endY)
	}

	orig := b.undo
	b.undo = rec
	b.redo = rec.prev
	b.undo.prev = orig
	b.undoCount++

	if b.redo != nil && b.redo.paired {
		return b.redoOneChain()
	}
	return nil
}

// ---- coalescing recorders, called by the editing primitives in edit.go ----

// undoAppendChar records the insertion of a single byte at the cursor,
// coalescing into the current record when possible.
func undoAppendChar(b *Buffer, c byte) {
	clearRedos(b)
	if b.undo == nil || !b.undo.appendOK || b.undo.isDelete || !aligned(b.undo.endX, b.undo.endY, b.cx, b.cy) {
		sealUndo(b)
		rec := newUndoRecord()
		rec.startX, rec.startY = b.cx, b.cy
		rec.endX, rec.endY = b.cx, b.cy
		pushUndo(b, rec)
	}
	b.undo.data = append(b.undo.data, c)
	if c == '\n' {
		b.undo.endX = 0
		b.undo.endY++
	} else {
		b.undo.endX++
	}
}

// undoAppendBytes records the insertion of a multi-byte codepoint.
func undoAppendBytes(b *Buffer, data []byte) {
	clearRedos(b)
	if b.undo == nil || !b.undo.appendOK || b.undo.isDelete || !aligned(b.undo.endX, b.undo.endY, b.cx, b.cy) {
		sealUndo(b)
		rec := newUndoRecord()
		rec.startX, rec.startY = b.cx, b.cy
		rec.endX, rec.endY = b.cx, b.cy
		pushUndo(b, rec)
	}
	b.undo.data = append(b.undo.data, data...)
	b.undo.endX += len(data)
}

// undoBackspaceSpan records a deletion moving leftward (backspace) of an
// arbitrary byte span — one codepoint, or a newline when two rows join —
// prepending the data so the stored bytes stay in forward file order.
func undoBackspaceSpan(b *Buffer, startX, startY, endX, endY int, data []byte) {
	clearRedos(b)
	coalesce := b.undo != nil && b.undo.appendOK && b.undo.isDelete &&
		endX == b.undo.startX && endY == b.undo.startY
	if !coalesce {
		sealUndo(b)
		rec := newUndoRecord()
		rec.endX, rec.endY = endX, endY
		rec.startX, rec.startY = startX, startY
		rec.isDelete = true
		pushUndo(b, rec)
	}
	b.undo.data = append(append([]byte(nil), data...), b.undo.data...)
	b.undo.startX, b.undo.startY = startX, startY
}

// undoDelChar records a forward deletion, appending the deleted bytes so
// the stored data stays in forward file order.
func undoDelChar(b *Buffer, deleted []byte) {
	clearRedos(b)
	coalesce := b.undo != nil && b.undo.appendOK && b.undo.isDelete &&
		b.undo.startX == b.cx && b.undo.startY == b.cy
	if !coalesce {
		sealUndo(b)
		rec := newUndoRecord()
		rec.startX, rec.startY = b.cx, b.cy
		rec.endX, rec.endY = b.cx, b.cy
		rec.isDelete = true
		pushUndo(b, rec)
	}
	b.undo.data = append(b.undo.data, deleted...)
	if len(deleted) == 1 && deleted[0] == '\n' {
		b.undo.endY++
		b.undo.endX = 0
	} else {
		b.undo.endX += len(deleted)
	}
}

// buildInsertRecord constructs a single non-coalescing insert record
// without pushing it, so callers that need to group several records into
// one undo transaction (rectangle insert) can do so via pushGroup.
func buildInsertRecord(startX, startY, endX, endY int, data []byte) *UndoRecord {
	rec := newUndoRecord()
	rec.startX, rec.startY = startX, startY
	rec.endX, rec.endY = endX, endY
	rec.data = append([]byte(nil), data...)
	rec.appendOK = false
	return rec
}

// buildDeleteRecord constructs a single non-coalescing delete record
// without pushing it, so callers that need to group several records into
// one undo transaction (rectangle delete) can do so via pushGroup.
func buildDeleteRecord(startX, startY, endX, endY int, data []byte) *UndoRecord {
	rec := newUndoRecord()
	rec.startX, rec.startY = startX, startY
	rec.endX, rec.endY = endX, endY
	rec.data = append([]byte(nil), data...)
	rec.isDelete = true
	rec.appendOK = false
	return rec
}

// recordInsert pushes a single non-coalescing insert record, used by
// primitives that insert a whole span at once (paste, newline splice).
func recordInsert(b *Buffer, startX, startY, endX, endY int, data []byte) {
	clearRedos(b)
	sealUndo(b)
	pushUndo(b, buildInsertRecord(startX, startY, endX, endY, data))
}

// recordDelete pushes a single non-coalescing delete record, used by
// primitives that remove a whole span at once (kill-region, backspace
// across a row join).
func recordDelete(b *Buffer, startX, startY, endX, endY int, data []byte) {
	clearRedos(b)
	sealUndo(b)
	pushUndo(b, buildDeleteRecord(startX, startY, endX, endY, data))
}
