package rp2a03

import (
	"testing"

	"github.com/retrosix/rp2a03core/bus"
	"github.com/retrosix/rp2a03core/cpu"
	"github.com/retrosix/rp2a03core/pin"
)

func TestFromPowerOnRegisterState(t *testing.T) {
	r, out := FromPowerOn()
	ctx := r.Context()
	if ctx.A != 0 || ctx.X != 0 || ctx.Y != 0 || ctx.SP != 0 {
		t.Errorf("got A:%#02x X:%#02x Y:%#02x SP:%#02x, want all zero", ctx.A, ctx.X, ctx.Y, ctx.SP)
	}
	if ctx.P.Byte(false) != 0x24 {
		t.Errorf("flags = %#02x, want 0x24", ctx.P.Byte(false))
	}
	if out.RW != pin.On {
		t.Error("power-on pinout should present RW as a read")
	}
	if out.RDY != pin.On {
		t.Error("power-on pinout should hold RDY asserted until the host releases it")
	}
	if out.IRQ != pin.Off || out.NMI != pin.Off || out.Res != pin.Off {
		t.Error("power-on pinout should have IRQ/NMI/Res deasserted")
	}
}

func TestFromPowerOnRunsAfterReset(t *testing.T) {
	r, in := FromPowerOn()
	ram := bus.NewFlatRAM(nil)
	ram.Write(0xFFFC, 0x00)
	ram.Write(0xFFFD, 0x80)
	ram.Write(0x8000, 0xA9) // LDA #$42
	ram.Write(0x8001, 0x42)

	in.Res = pin.On
	if _, err := r.Tick(ram, in); err != nil {
		t.Fatalf("tick: %v", err)
	}
	in.Res = pin.Off
	for i := 0; i < 8; i++ {
		if _, err := r.Tick(ram, in); err != nil {
			t.Fatalf("reset tick %d: %v", i, err)
		}
	}
	if r.Context().PC.Value() != 0x8000 {
		t.Fatalf("PC after reset = %#04x, want 0x8000", r.Context().PC.Value())
	}

	// FromPowerOn holds RDY asserted; the host must release it before the
	// engine is allowed to run a real instruction.
	in.RDY = pin.Off
	for i := 0; i < 2; i++ {
		if _, err := r.Tick(ram, in); err != nil {
			t.Fatalf("LDA tick %d: %v", i, err)
		}
	}
	if r.Context().A != 0x42 {
		t.Errorf("A = %#02x after LDA #$42, want 0x42", r.Context().A)
	}
}

func TestNewVariantDecimalModeDiffersFromRicoh(t *testing.T) {
	ricoh, _, err := NewVariant(cpu.NMOSRicoh)
	if err != nil {
		t.Fatalf("NewVariant(NMOSRicoh): %v", err)
	}
	nmos, _, err := NewVariant(cpu.NMOS)
	if err != nil {
		t.Fatalf("NewVariant(NMOS): %v", err)
	}
	ricoh.Context().A, ricoh.Context().P.Decimal = 0x09, true
	ricoh.Context().Ops.Dl = 0x01
	cpu.ADC(&ricoh.engine.Ctx, ricoh.engine.Variant)

	nmos.Context().A, nmos.Context().P.Decimal = 0x09, true
	nmos.Context().Ops.Dl = 0x01
	cpu.ADC(&nmos.engine.Ctx, nmos.engine.Variant)

	if ricoh.Context().A != 0x0A {
		t.Errorf("Ricoh ADC in decimal mode = %#02x, want 0x0a (ignores D flag)", ricoh.Context().A)
	}
	if nmos.Context().A != 0x10 {
		t.Errorf("NMOS ADC in decimal mode = %#02x, want 0x10 (BCD 09+01=10)", nmos.Context().A)
	}
}

func TestNewVariantRejectsInvalidVariant(t *testing.T) {
	if _, _, err := NewVariant(cpu.VariantUnknown); err == nil {
		t.Error("NewVariant(VariantUnknown) returned nil error, want a validation error")
	}
}
