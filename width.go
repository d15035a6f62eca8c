package emil

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// TabStop is the terminal column multiple that TAB advances to.
const TabStop = 8

// isWordSeparator reports the bytes that terminate a word for wrap purposes:
// whitespace plus the printable non-word punctuation set from the spec.
func isWordSeparator(c byte) bool {
	switch c {
	case ' ', '\t', '-', '.', ',', ';', ':', '!', '?', ')', ']', '}', '"', '\'':
		return true
	}
	return false
}

func isControl(c byte) bool {
	return (c < 0x20 && c != '\t') || c == 0x7f
}

// unitWidth decodes the "unit" (byte, control escape, tab stop, or rune)
// starting at b[i] and returns its display width and its byte length.
// col is the current display column, needed to compute tab stops.
func unitWidth(b []byte, i, col int) (width, size int) {
	c := b[i]
	switch {
	case c == '\t':
		next := (col/TabStop + 1) * TabStop
		return next - col, 1
	case isControl(c):
		return 2, 1
	case c < 0x80:
		return 1, 1
	default:
		r, n := utf8.DecodeRune(b[i:])
		w := runewidth.RuneWidth(r)
		if n <= 0 {
			n = 1
		}
		return w, n
	}
}

// displayColumn sums the display widths of bytes [0, bytePos) in b, walking
// from an initial column of 0. bytePos must land on a UTF-8 boundary.
func displayColumn(b []byte, bytePos int) int {
	col := 0
	i := 0
	for i < bytePos && i < len(b) {
		w, n := unitWidth(b, i, col)
		col += w
		i += n
	}
	return col
}

// computeWidth returns the full display width of a row's bytes.
func computeWidth(b []byte) int {
	return displayColumn(b, len(b))
}

// isUTF8Boundary reports whether pos lies on a codepoint boundary in b:
// either at the end of the slice, or at a byte that is not a UTF-8
// continuation byte (0x80-0xBF).
func isUTF8Boundary(b []byte, pos int) bool {
	if pos <= 0 || pos >= len(b) {
		return true
	}
	return b[pos]&0xC0 != 0x80
}

// utf8SeqLen returns the number of bytes in the UTF-8 sequence that starts
// with lead byte c, per its lead-byte class. Returns 1 for ASCII or an
// invalid/continuation lead byte (defensive fallback, never 0).
func utf8SeqLen(c byte) int {
	switch {
	case c < 0x80:
		return 1
	case c&0xE0 == 0xC0:
		return 2
	case c&0xF0 == 0xE0:
		return 3
	case c&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}

// codepointLenAt returns the byte length of the codepoint starting at
// pos in b, clamped so it never runs past the end of the slice.
func codepointLenAt(b []byte, pos int) int {
	if pos >= len(b) {
		return 0
	}
	n := utf8SeqLen(b[pos])
	if pos+n > len(b) {
		n = len(b) - pos
	}
	return n
}
