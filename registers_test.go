package emil

import "testing"

func TestRegisterSetAndGetText(t *testing.T) {
	var rb RegisterBank
	if !rb.SetText('a', []byte("hello")) {
		t.Fatal("SetText should succeed for an in-range name")
	}
	data, ok := rb.Get('a')
	if !ok || data.Kind != RegisterText || string(data.Text) != "hello" {
		t.Fatalf("got %+v, %v", data, ok)
	}
}

func TestUnwrittenRegisterReadsEmpty(t *testing.T) {
	var rb RegisterBank
	data, ok := rb.Get('z')
	if !ok || data.Kind != RegisterEmpty {
		t.Fatalf("got %+v, %v, want RegisterEmpty", data, ok)
	}
}

func TestRegisterOutOfRangeNameRejected(t *testing.T) {
	var rb RegisterBank
	if rb.SetText(200, []byte("x")) {
		t.Fatal("expected out-of-range register name to be rejected")
	}
	if _, ok := rb.Get(200); ok {
		t.Fatal("expected Get to report out-of-range")
	}
}

func TestRegisterIncrementNumber(t *testing.T) {
	var rb RegisterBank
	v, ok := rb.IncrementNumber('0', 1)
	if !ok || v != 1 {
		t.Fatalf("got %d, %v", v, ok)
	}
	v, ok = rb.IncrementNumber('0', 4)
	if !ok || v != 5 {
		t.Fatalf("got %d, %v", v, ok)
	}
}

func TestRegisterIncrementResetsNonNumberSlot(t *testing.T) {
	var rb RegisterBank
	rb.SetText('0', []byte("not a number"))
	v, ok := rb.IncrementNumber('0', 3)
	if !ok || v != 3 {
		t.Fatalf("got %d, %v, want IncrementNumber to reset a non-number slot to 0 then add", v, ok)
	}
}

func TestRegisterSetOverwrites(t *testing.T) {
	var rb RegisterBank
	rb.SetText('x', []byte("old"))
	rb.Set('x', RegisterData{Kind: RegisterPoint, Point: RegisterPointData{Filename: "f", X: 1, Y: 2}})
	data, _ := rb.Get('x')
	if data.Kind != RegisterPoint || data.Point.Filename != "f" {
		t.Fatalf("got %+v", data)
	}
}
