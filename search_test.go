package emil

import "testing"

func TestSearchFindsMatchAndAdvances(t *testing.T) {
	b := NewBuffer()
	b.rows = []*Row{newRow([]byte("the cat sat on the mat"))}
	b.SetCursor(0, 0)
	b.StartSearch()
	b.SearchAppend('t')
	b.SearchAppend('h')
	b.SearchAppend('e')
	if !b.matchValid || b.matchX != 0 {
		t.Fatalf("expected match at 0, got matchX=%d valid=%v", b.matchX, b.matchValid)
	}

	b.SearchNext()
	if !b.matchValid || b.matchX != 15 {
		t.Fatalf("expected second match at 15, got matchX=%d", b.matchX)
	}
}

func TestSearchNextWrapsToStart(t *testing.T) {
	b := NewBuffer()
	b.rows = []*Row{newRow([]byte("one cat two"))}
	b.SetCursor(0, 0)
	b.StartSearch()
	b.SearchAppend('c')
	b.SearchAppend('a')
	b.SearchAppend('t')
	if b.matchX != 4 {
		t.Fatalf("got matchX=%d, want 4", b.matchX)
	}
	b.SearchNext() // only one occurrence: should wrap back to the same match
	if !b.matchValid || b.matchX != 4 {
		t.Fatalf("expected wraparound back to matchX=4, got %d valid=%v", b.matchX, b.matchValid)
	}
}

func TestSearchNoMatchLeavesFlagUnset(t *testing.T) {
	b := NewBuffer()
	b.rows = []*Row{newRow([]byte("hello world"))}
	b.StartSearch()
	b.SearchAppend('z')
	if b.matchValid {
		t.Fatal("expected no match")
	}
}

func TestSearchBackspaceRenarrowsFromOrigin(t *testing.T) {
	b := NewBuffer()
	b.rows = []*Row{newRow([]byte("abcxabcy"))}
	b.SetCursor(0, 0)
	b.StartSearch()
	b.SearchAppend('a')
	b.SearchAppend('b')
	b.SearchAppend('c')
	b.SearchAppend('x') // matches "abcx" at 0
	if b.matchX != 0 {
		t.Fatalf("got matchX=%d, want 0", b.matchX)
	}
	b.SearchBackspace() // query back to "abc", re-search from cursor (0)
	if b.matchX != 0 {
		t.Fatalf("got matchX=%d, want 0 after backspace", b.matchX)
	}
}

func TestSearchAcrossRows(t *testing.T) {
	b := NewBuffer()
	b.rows = []*Row{newRow([]byte("nothing here")), newRow([]byte("found it"))}
	b.SetCursor(0, 0)
	b.StartSearch()
	for _, c := range "found" {
		b.SearchAppend(byte(c))
	}
	if !b.matchValid || b.matchY != 1 || b.matchX != 0 {
		t.Fatalf("got matchX=%d matchY=%d valid=%v", b.matchX, b.matchY, b.matchValid)
	}
}
