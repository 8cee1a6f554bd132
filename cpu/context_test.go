package cpu

import "testing"

func TestFlagsRegisterByteSerialization(t *testing.T) {
	tests := []struct {
		name string
		f    FlagsRegister
		b    bool
		want uint8
	}{
		{"all clear, no B", FlagsRegister{}, false, 0x20},
		{"all clear, B set", FlagsRegister{}, true, 0x30},
		{"carry+zero", FlagsRegister{Carry: true, Zero: true}, false, 0x23},
		{"negative+overflow", FlagsRegister{Negative: true, Overflow: true}, false, 0xE0},
		{"everything", FlagsRegister{true, true, true, true, true, true}, true, 0xFF},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.f.Byte(tc.b); got != tc.want {
				t.Errorf("Byte(%v) = %#02x, want %#02x", tc.b, got, tc.want)
			}
		})
	}
}

func TestFlagsRegisterSetByteIgnoresBAndS1(t *testing.T) {
	var f FlagsRegister
	f.SetByte(0xFF)
	want := FlagsRegister{Carry: true, Zero: true, InterruptDisable: true, Decimal: true, Overflow: true, Negative: true}
	if f != want {
		t.Errorf("SetByte(0xFF) = %+v, want %+v", f, want)
	}
}

func TestProgramCounterWraps(t *testing.T) {
	var pc ProgramCounter
	pc.SetValue(0xFFFF)
	pc.Increment()
	if pc.Value() != 0x0000 {
		t.Errorf("PC wrapped to %#04x, want 0x0000", pc.Value())
	}
}

func TestInstructionRegisterLatchResetsTm(t *testing.T) {
	ir := InstructionRegister{Opcode: 0xEA, Tm: 5}
	ir.Latch(0x00)
	if ir.Opcode != 0x00 || ir.Tm != 0 {
		t.Errorf("Latch(0x00) = %+v, want Opcode:0 Tm:0", ir)
	}
}

func TestVariantValid(t *testing.T) {
	if VariantUnknown.valid() {
		t.Error("VariantUnknown reported valid")
	}
	if !NMOS.valid() || !NMOSRicoh.valid() {
		t.Error("NMOS/NMOSRicoh reported invalid")
	}
	if variantMax.valid() {
		t.Error("variantMax reported valid")
	}
}
