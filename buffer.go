package emil

import (
	"fmt"
	"path/filepath"
)

// Buffer is an editable in-memory document: an ordered sequence of rows
// plus cursor, mark, undo/redo state, and per-buffer flags. It is the
// aggregate root for everything the display pipeline and editing
// primitives operate on.
type Buffer struct {
	rows []*Row

	cx, cy         int // cursor: byte offset within row, row index
	markX, markY   int
	markValid      bool
	rectangleMode  bool
	dirty          int
	readOnly       bool
	singleLine     bool
	wordWrap       bool
	specialBuffer  bool
	filename       string
	displayName    string
	query          []byte
	matchX, matchY int
	matchValid     bool

	undo      *UndoRecord
	redo      *UndoRecord
	undoCount int

	screenLineStart []int
	cacheValidWidth int // screencols the cache was built for, -1 if invalid
	cacheValidWrap  bool

	completion completionState

	// lockHolderPID is the PID reported by an advisory-lock conflict, or 0.
	lockHolderPID int
	// openModTime and externalMod track the mtime-drift check of §7.
	openModTime int64
	externalMod bool

	next *Buffer
}

// NewBuffer creates an empty buffer with one blank row, matching the
// source editor's invariant that every buffer has at least a virtual
// current line.
func NewBuffer() *Buffer {
	b := &Buffer{cacheValidWidth: -1}
	b.rows = []*Row{newRow(nil)}
	return b
}

// SetWordWrap enables or disables word-wrap. Panics if combined with
// single_line, per the buffer invariant.
func (b *Buffer) SetWordWrap(on bool) {
	if on && b.singleLine {
		panic("emil: word_wrap and single_line are mutually exclusive")
	}
	if b.wordWrap != on {
		b.wordWrap = on
		b.invalidateScreenCache()
	}
}

func (b *Buffer) WordWrap() bool { return b.wordWrap }

// SetSingleLine marks the buffer as single-line (used by the minibuffer).
func (b *Buffer) SetSingleLine(on bool) {
	if on && b.wordWrap {
		panic("emil: word_wrap and single_line are mutually exclusive")
	}
	b.singleLine = on
}

func (b *Buffer) SingleLine() bool { return b.singleLine }

func (b *Buffer) SetReadOnly(on bool) { b.readOnly = on }
func (b *Buffer) ReadOnly() bool      { return b.readOnly }

func (b *Buffer) SetSpecial(on bool) { b.specialBuffer = on }
func (b *Buffer) Special() bool      { return b.specialBuffer }

func (b *Buffer) Dirty() int      { return b.dirty }
func (b *Buffer) ClearDirty()     { b.dirty = 0 }
func (b *Buffer) markDirty()      { b.dirty++ }

func (b *Buffer) Filename() string { return b.filename }

// SetFilename sets the backing filename and derives a display name.
func (b *Buffer) SetFilename(name string) {
	b.filename = name
	if name == "" {
		b.displayName = "*scratch*"
		return
	}
	b.displayName = filepath.Base(name)
}

// DisplayName returns the status-bar display name, falling back to
// *scratch* for unnamed buffers.
func (b *Buffer) DisplayName() string {
	if b.displayName == "" {
		return "*scratch*"
	}
	return b.displayName
}

// Cursor returns the current cursor position (byte offset, row index).
func (b *Buffer) Cursor() (cx, cy int) { return b.cx, b.cy }

// SetCursor sets the cursor, clamping to buffer bounds and the nearest
// UTF-8 boundary.
func (b *Buffer) SetCursor(cx, cy int) {
	if cy < 0 {
		cy = 0
	}
	if cy > len(b.rows) {
		cy = len(b.rows)
	}
	b.cy = cy
	if cy < len(b.rows) {
		row := b.rows[cy]
		if cx < 0 {
			cx = 0
		}
		if cx > row.Len() {
			cx = row.Len()
		}
		for cx > 0 && !isUTF8Boundary(row.bytes, cx) {
			cx--
		}
		b.cx = cx
	} else {
		b.cx = 0
	}
}

// Mark returns the mark position and whether it is valid.
func (b *Buffer) Mark() (mx, my int, ok bool) { return b.markX, b.markY, b.markValid }

// SetMark sets the mark to the given position (typically the cursor).
func (b *Buffer) SetMark(x, y int) {
	b.markX, b.markY = x, y
	b.markValid = true
}

// ClearMark invalidates the mark.
func (b *Buffer) ClearMark() { b.markValid = false }

func (b *Buffer) RectangleMode() bool     { return b.rectangleMode }
func (b *Buffer) SetRectangleMode(v bool) { b.rectangleMode = v }

// CurrentRow returns the row the cursor sits on, or nil if cy is the
// virtual after-end line.
func (b *Buffer) CurrentRow() *Row {
	return b.RowAt(b.cy)
}

// checkInvariants validates the structural invariants from spec §3/§8.
// It is used by tests, not by production code paths.
func (b *Buffer) checkInvariants() error {
	if b.wordWrap && b.singleLine {
		return fmt.Errorf("word_wrap and single_line both set")
	}
	if b.cy < 0 || b.cy > len(b.rows) {
		return fmt.Errorf("cy %d out of [0,%d]", b.cy, len(b.rows))
	}
	if b.cy < len(b.rows) {
		row := b.rows[b.cy]
		if b.cx < 0 || b.cx > row.Len() {
			return fmt.Errorf("cx %d out of [0,%d]", b.cx, row.Len())
		}
		if !isUTF8Boundary(row.bytes, b.cx) {
			return fmt.Errorf("cx %d not on a UTF-8 boundary", b.cx)
		}
	}
	return nil
}

// RowsToString renders the buffer as LF-joined text with a trailing
// newline, the inverse of Load.
func (b *Buffer) RowsToString() string {
	total := 0
	for _, r := range b.rows {
		total += r.Len() + 1
	}
	out := make([]byte, 0, total)
	for _, r := range b.rows {
		out = append(out, r.bytes...)
		out = append(out, '\n')
	}
	return string(out)
}
