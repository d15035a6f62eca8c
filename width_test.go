package emil

import "testing"

func TestDisplayColumn(t *testing.T) {
	cases := []struct {
		name string
		data string
		pos  int
		want int
	}{
		{"ascii printable", "hello", 5, 5},
		{"tab to next stop", "\t", 1, 8},
		{"tab mid-column", "ab\t", 3, 8},
		{"control char is two columns", "\x01x", 1, 2},
		{"del is two columns", "\x7fx", 1, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := displayColumn([]byte(c.data), c.pos); got != c.want {
				t.Fatalf("displayColumn(%q, %d) = %d, want %d", c.data, c.pos, got, c.want)
			}
		})
	}
}

func TestDisplayColumnMonotonicAndZeroAtStart(t *testing.T) {
	row := newRow([]byte("hello\tworld"))
	if got := row.DisplayColumn(0); got != 0 {
		t.Fatalf("column at 0 = %d, want 0", got)
	}
	prev := -1
	for i := 0; i <= row.Len(); i++ {
		if !isUTF8Boundary(row.bytes, i) {
			continue
		}
		col := row.DisplayColumn(i)
		if col < prev {
			t.Fatalf("display column not monotonic at byte %d: %d < %d", i, col, prev)
		}
		prev = col
	}
}

func TestUnicodeCodepointWidthSum(t *testing.T) {
	// A¢B inserted one codepoint at a time; ¢ (U+00A2) is a single-width
	// codepoint, so the total display width is 3.
	row := newRow(nil)
	row.insertBytes(0, []byte("A"))
	row.insertBytes(row.Len(), []byte("¢"))
	row.insertBytes(row.Len(), []byte("B"))
	if w := row.DisplayWidth(); w != 3 {
		t.Fatalf("got %d, want 3", w)
	}
}

func TestUTF8BoundaryHelpers(t *testing.T) {
	b := []byte("A¢B") // A=1 byte, ¢=2 bytes, B=1 byte
	if !isUTF8Boundary(b, 0) || !isUTF8Boundary(b, 1) || !isUTF8Boundary(b, 3) {
		t.Fatal("lead bytes and row-start/end should be boundaries")
	}
	if isUTF8Boundary(b, 2) {
		t.Fatal("continuation byte should not be a boundary")
	}
	if n := codepointLenAt(b, 1); n != 2 {
		t.Fatalf("codepointLenAt(¢) = %d, want 2", n)
	}
}
