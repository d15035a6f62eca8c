package emil

import "testing"

func TestWordWrapBreak(t *testing.T) {
	row := newRow([]byte("hello world"))

	col, byteOff, more := wordWrapBreak(row, 7, 0, 0)
	if col != 6 || byteOff != 6 || !more {
		t.Fatalf("first break = (%d,%d,%v), want (6,6,true)", col, byteOff, more)
	}

	col, byteOff, more = wordWrapBreak(row, 7, 0, byteOff)
	if col != 5 || byteOff != 11 || more {
		t.Fatalf("second break = (%d,%d,%v), want (5,11,false)", col, byteOff, more)
	}
}

func TestWordWrapBreakFitsWithoutBreaking(t *testing.T) {
	row := newRow([]byte("short"))
	col, byteOff, more := wordWrapBreak(row, 80, 0, 0)
	if more || col != 5 || byteOff != 5 {
		t.Fatalf("got (%d,%d,%v), want (5,5,false)", col, byteOff, more)
	}
}

func TestWordWrapBreakHardBreakOnLongToken(t *testing.T) {
	row := newRow([]byte("supercalifragilistic"))
	col, byteOff, more := wordWrapBreak(row, 5, 0, 0)
	if !more || col != 5 || byteOff != 5 {
		t.Fatalf("got (%d,%d,%v), want (5,5,true)", col, byteOff, more)
	}
}

func TestWordWrapBreakIsIdempotentAcrossRow(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	row := newRow([]byte(text))
	var rebuilt []byte
	byteOff := 0
	col := 0
	for {
		_, next, more := wordWrapBreak(row, 10, col, byteOff)
		rebuilt = append(rebuilt, row.bytes[byteOff:next]...)
		byteOff = next
		col = 0
		if !more {
			break
		}
	}
	if string(rebuilt) != text {
		t.Fatalf("rebuilt %q, want %q", rebuilt, text)
	}
}

func TestCountScreenLinesAlwaysAtLeastOne(t *testing.T) {
	empty := newRow(nil)
	if n := countScreenLines(empty, 80); n != 1 {
		t.Fatalf("empty row: got %d, want 1", n)
	}
}

func TestScreenLineStartsCacheInvalidatesOnWidthChange(t *testing.T) {
	b := NewBuffer()
	b.SetWordWrap(true)
	b.rows[0] = newRow([]byte("hello world foo bar"))

	starts40 := b.screenLineStarts(40)
	total40 := starts40[len(starts40)-1]

	starts5 := b.screenLineStarts(5)
	total5 := starts5[len(starts5)-1]

	if total5 <= total40 {
		t.Fatalf("narrower width should need more screen lines: %d vs %d", total5, total40)
	}
}
