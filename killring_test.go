package emil

import "testing"

func TestKillRingPushAndCurrent(t *testing.T) {
	var k KillRing
	if !k.Empty() {
		t.Fatal("fresh kill ring should be empty")
	}
	k.Push([]byte("first"), false)
	k.Push([]byte("second"), false)
	if got := k.Current(); string(got) != "second" {
		t.Fatalf("got %q, want second", got)
	}
}

func TestKillRingAppendCoalescesSuccessiveKills(t *testing.T) {
	var k KillRing
	k.Push([]byte("hello"), false)
	k.Push([]byte(" world"), true)
	if got := k.Current(); string(got) != "hello world" {
		t.Fatalf("got %q, want coalesced entry", got)
	}
}

func TestKillRingCyclePrevWraps(t *testing.T) {
	var k KillRing
	k.Push([]byte("a"), false)
	k.Push([]byte("b"), false)
	k.Push([]byte("c"), false)
	if got := k.CyclePrev(); string(got) != "b" {
		t.Fatalf("got %q, want b", got)
	}
	if got := k.CyclePrev(); string(got) != "a" {
		t.Fatalf("got %q, want a", got)
	}
	if got := k.CyclePrev(); string(got) != "c" {
		t.Fatalf("got %q, want c (wrapped around)", got)
	}
}

func TestKillRingCapacityBounded(t *testing.T) {
	var k KillRing
	for i := 0; i < KillRingLimit+10; i++ {
		k.Push([]byte{byte('a' + i%26)}, false)
	}
	if len(k.entries) != KillRingLimit {
		t.Fatalf("got %d entries, want capped at %d", len(k.entries), KillRingLimit)
	}
}

func TestKillRingPushFrontPrependsToLast(t *testing.T) {
	var k KillRing
	k.Push([]byte("world"), false)
	k.PushFront([]byte("hello "), true)
	if got := k.Current(); string(got) != "hello world" {
		t.Fatalf("got %q, want hello world", got)
	}
}
