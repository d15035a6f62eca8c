package emil

// KillRingLimit bounds the number of entries retained in the kill ring.
const KillRingLimit = 60

// KillRing is a bounded ring of killed text spans, with a yank-pop cursor
// tracking which entry the most recent yank pulled from.
type KillRing struct {
	entries [][]byte
	pos     int // index of the most recently yanked entry
}

// Push adds text to the kill ring. If appendToLast is true and the ring is
// non-empty, text is appended to the most recent entry instead of
// starting a new one, matching successive kill-line calls joining into
// one yankable span.
func (k *KillRing) Push(text []byte, appendToLast bool) {
	if len(text) == 0 {
		return
	}
	if appendToLast && len(k.entries) > 0 {
		last := len(k.entries) - 1
		k.entries[last] = append(k.entries[last], text...)
		k.pos = last
		return
	}
	k.entries = append(k.entries, append([]byte(nil), text...))
	if len(k.entries) > KillRingLimit {
		k.entries = k.entries[len(k.entries)-KillRingLimit:]
	}
	k.pos = len(k.entries) - 1
}

// PushFront adds text as a new entry that precedes the stream position of
// the previous push, used by backward-kill operations (backspace-based
// kills) that accumulate text in reverse.
func (k *KillRing) PushFront(text []byte, prependToLast bool) {
	if len(text) == 0 {
		return
	}
	if prependToLast && len(k.entries) > 0 {
		last := len(k.entries) - 1
		k.entries[last] = append(append([]byte(nil), text...), k.entries[last]...)
		k.pos = last
		return
	}
	k.Push(text, false)
}

// Current returns the text at the yank-pop cursor, or nil if the ring is
// empty.
func (k *KillRing) Current() []byte {
	if len(k.entries) == 0 {
		return nil
	}
	return k.entries[k.pos]
}

// Empty reports whether the ring has nothing to yank.
func (k *KillRing) Empty() bool { return len(k.entries) == 0 }

// CyclePrev moves the yank-pop cursor to the entry pushed before the
// current one (older), wrapping around, and returns it. Used by
// successive yank-pop invocations immediately following a yank.
func (k *KillRing) CyclePrev() []byte {
	if len(k.entries) == 0 {
		return nil
	}
	k.pos--
	if k.pos < 0 {
		k.pos = len(k.entries) - 1
	}
	return k.entries[k.pos]
}
