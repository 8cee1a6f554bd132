package cpu

import "testing"

func TestADCSignedOverflow(t *testing.T) {
	// 0x50 + 0x50 = 0xA0: two positive operands producing a negative
	// result, the textbook signed-overflow case.
	c := &Context{A: 0x50}
	c.Ops.Dl = 0x50
	ADC(c, NMOS)
	if c.A != 0xA0 {
		t.Errorf("A = %#02x, want 0xa0", c.A)
	}
	if !c.P.Overflow {
		t.Error("Overflow not set")
	}
	if c.P.Carry {
		t.Error("Carry incorrectly set")
	}
	if !c.P.Negative {
		t.Error("Negative not set")
	}
}

func TestADCBinaryCarryOut(t *testing.T) {
	c := &Context{A: 0xFF}
	c.Ops.Dl = 0x01
	ADC(c, NMOS)
	if c.A != 0x00 || !c.P.Carry || !c.P.Zero {
		t.Errorf("got A:%#02x C:%v Z:%v, want A:0x00 C:true Z:true", c.A, c.P.Carry, c.P.Zero)
	}
}

func TestADCRicohNeverDecimal(t *testing.T) {
	c := &Context{A: 0x09}
	c.P.Decimal = true
	c.Ops.Dl = 0x01
	ADC(c, NMOSRicoh)
	// Binary 0x09+0x01 = 0x0A; a BCD adder would have produced 0x10.
	if c.A != 0x0A {
		t.Errorf("A = %#02x, want 0x0a (RP2A03 must ignore the D flag)", c.A)
	}
}

func TestADCDecimalOnNMOS(t *testing.T) {
	c := &Context{A: 0x09}
	c.P.Decimal = true
	c.Ops.Dl = 0x01
	ADC(c, NMOS)
	if c.A != 0x10 {
		t.Errorf("A = %#02x, want 0x10 (BCD 09+01=10)", c.A)
	}
}

func TestSBCBorrow(t *testing.T) {
	c := &Context{A: 0x00}
	c.P.Carry = true // carry set means "no borrow" going in
	c.Ops.Dl = 0x01
	SBC(c, NMOSRicoh)
	if c.A != 0xFF || c.P.Carry {
		t.Errorf("got A:%#02x C:%v, want A:0xff C:false", c.A, c.P.Carry)
	}
}

func TestCompareEqual(t *testing.T) {
	c := &Context{}
	Compare(c, 0x42, 0x42)
	if !c.P.Zero || !c.P.Carry || c.P.Negative {
		t.Errorf("Compare(0x42,0x42): Z:%v C:%v N:%v, want Z:true C:true N:false", c.P.Zero, c.P.Carry, c.P.Negative)
	}
}

func TestASLMemSetsCarryFromBit7(t *testing.T) {
	c := &Context{}
	c.Ops.Dl = 0x80
	ASLMem(c)
	if c.Ops.Dl != 0x00 || !c.P.Carry || !c.P.Zero {
		t.Errorf("got Dl:%#02x C:%v Z:%v, want Dl:0x00 C:true Z:true", c.Ops.Dl, c.P.Carry, c.P.Zero)
	}
}

func TestLAXLoadsBothRegisters(t *testing.T) {
	c := &Context{}
	c.Ops.Dl = 0x7F
	LAX(c)
	if c.A != 0x7F || c.X != 0x7F {
		t.Errorf("got A:%#02x X:%#02x, want both 0x7f", c.A, c.X)
	}
}

func TestDCPComparesAfterDecrement(t *testing.T) {
	c := &Context{A: 0x04}
	c.Ops.Dl = 0x05
	DCP(c)
	if c.Ops.Dl != 0x04 || !c.P.Zero || !c.P.Carry {
		t.Errorf("got Dl:%#02x Z:%v C:%v, want Dl:0x04 Z:true C:true", c.Ops.Dl, c.P.Zero, c.P.Carry)
	}
}

func TestBITSetsNAndVFromMemoryNotResult(t *testing.T) {
	c := &Context{A: 0x00}
	c.Ops.Dl = 0xC0 // bits 7 and 6 both set
	BIT(c)
	if !c.P.Negative || !c.P.Overflow || !c.P.Zero {
		t.Errorf("got N:%v V:%v Z:%v, want all true", c.P.Negative, c.P.Overflow, c.P.Zero)
	}
}

func TestLXAIsDeterministic(t *testing.T) {
	c1 := &Context{A: 0xFF}
	c1.Ops.Dl = 0x0F
	LXA(c1)
	c2 := &Context{A: 0xFF}
	c2.Ops.Dl = 0x0F
	LXA(c2)
	if c1.A != c2.A || c1.X != c2.X {
		t.Errorf("LXA not deterministic: %#02x/%#02x vs %#02x/%#02x", c1.A, c1.X, c2.A, c2.X)
	}
}
