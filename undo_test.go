package emil

import "testing"

func insertString(b *Buffer, s string) {
	for _, c := range s {
		if c < 0x80 {
			b.InsertChar(nil, byte(c), 1)
		} else {
			b.InsertUnicode(nil, c)
		}
	}
}

func TestUndoRedoSingleInsert(t *testing.T) {
	b := NewBuffer()
	insertString(b, "hello")
	if got := string(b.RowAt(0).Bytes()); got != "hello" {
		t.Fatalf("got %q", got)
	}
	if err := b.DoUndo(1); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := string(b.RowAt(0).Bytes()); got != "" {
		t.Fatalf("after undo got %q, want empty", got)
	}
	if err := b.DoRedo(1); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if got := string(b.RowAt(0).Bytes()); got != "hello" {
		t.Fatalf("after redo got %q, want hello", got)
	}
}

func TestCoalescingInsertsUndoAsOneStep(t *testing.T) {
	b := NewBuffer()
	insertString(b, "hello")
	if b.UndoCount() != 1 {
		t.Fatalf("expected coalesced inserts to form 1 undo record, got %d", b.UndoCount())
	}
	if err := b.DoUndo(1); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := string(b.RowAt(0).Bytes()); got != "" {
		t.Fatalf("one undo should restore pre-insert state, got %q", got)
	}
}

func TestInsertNewlineThenEnterBoundaryScenario(t *testing.T) {
	b := NewBuffer()
	insertString(b, "Hello")
	b.SetCursor(5, 0)
	b.InsertNewline(nil, 1)
	if b.NumRows() != 2 || string(b.RowAt(0).Bytes()) != "Hello" || string(b.RowAt(1).Bytes()) != "" {
		t.Fatalf("rows = %q, %q", b.RowAt(0).Bytes(), b.RowAt(1).Bytes())
	}
	if cx, cy := b.Cursor(); cx != 0 || cy != 1 {
		t.Fatalf("cursor = (%d,%d), want (0,1)", cx, cy)
	}
}

func TestForwardDeleteJoinsRowsBoundaryScenario(t *testing.T) {
	b := NewBuffer()
	b.rows = []*Row{newRow([]byte("Hello")), newRow([]byte("World"))}
	b.SetCursor(5, 0)
	b.DeleteChar(nil, 1)
	if b.NumRows() != 1 || string(b.RowAt(0).Bytes()) != "HelloWorld" {
		t.Fatalf("got rows %v", b.rows)
	}
	if cx, cy := b.Cursor(); cx != 5 || cy != 0 {
		t.Fatalf("cursor = (%d,%d), want (5,0)", cx, cy)
	}
}

func TestBackspaceJoinsRows(t *testing.T) {
	b := NewBuffer()
	b.rows = []*Row{newRow([]byte("Hello")), newRow([]byte("World"))}
	b.SetCursor(0, 1)
	b.Backspace(nil, 1)
	if b.NumRows() != 1 || string(b.RowAt(0).Bytes()) != "HelloWorld" {
		t.Fatalf("got rows %v", b.rows)
	}
	if cx, cy := b.Cursor(); cx != 5 || cy != 0 {
		t.Fatalf("cursor = (%d,%d), want (5,0)", cx, cy)
	}
	if err := b.DoUndo(1); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if b.NumRows() != 2 || string(b.RowAt(0).Bytes()) != "Hello" || string(b.RowAt(1).Bytes()) != "World" {
		t.Fatalf("undo did not restore rows: %v", b.rows)
	}
}

func TestUndoLimitPruning(t *testing.T) {
	b := NewBuffer()
	// InsertChar coalesces runs into one record, so the loop uses InsertAt,
	// which records each single-char insert as its own undo record.
	for i := 0; i < UndoLimit+1; i++ {
		b.InsertAt(nil, b.cx, b.cy, []byte{'x'})
	}
	if b.UndoCount() != UndoLimit {
		t.Fatalf("undo count = %d, want %d", b.UndoCount(), UndoLimit)
	}
	undone := 0
	for {
		if err := b.DoUndo(1); err != nil {
			break
		}
		undone++
	}
	if undone != UndoLimit {
		t.Fatalf("could undo %d times, want %d (earliest insert must be unrecoverable)", undone, UndoLimit)
	}
}

func TestDoUndoOnEmptyHistoryReturnsNoMatch(t *testing.T) {
	b := NewBuffer()
	err := b.DoUndo(1)
	if err == nil {
		t.Fatal("expected an error with no undo history")
	}
	ee, ok := err.(*Error)
	if !ok || ee.Kind != KindNoMatch {
		t.Fatalf("got %v, want KindNoMatch", err)
	}
}

func TestKillRegionThenInsertUndoInTwoSteps(t *testing.T) {
	b := NewBuffer()
	b.rows = []*Row{newRow([]byte("hello world"))}
	b.SetMark(0, 0)
	b.SetCursor(11, 0)
	if !b.KillRegion(nil) {
		t.Fatal("KillRegion reported failure")
	}
	insertString(b, "bye")
	if got := string(b.RowAt(0).Bytes()); got != "bye" {
		t.Fatalf("got %q", got)
	}
	// Undo the coalesced insert, then the single-record region kill; each
	// is its own top-level undo step here since they are unrelated
	// operations, not a single paired group.
	if err := b.DoUndo(1); err != nil {
		t.Fatalf("undo insert: %v", err)
	}
	if err := b.DoUndo(1); err != nil {
		t.Fatalf("undo kill: %v", err)
	}
	if got := string(b.RowAt(0).Bytes()); got != "hello world" {
		t.Fatalf("got %q, want hello world restored", got)
	}
}
