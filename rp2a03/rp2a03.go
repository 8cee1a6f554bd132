// Package rp2a03 is the NES-specific façade over package cpu: it pins
// the engine to the Ricoh RP2A03/RP2A07 variant (documented opcodes,
// the stable undocumented subset, no decimal mode) and supplies the
// deterministic power-on register state spec.md §4.4 calls for, leaving
// the cycle-by-cycle bus protocol itself untouched.
package rp2a03

import (
	"github.com/retrosix/rp2a03core/bus"
	"github.com/retrosix/rp2a03core/cpu"
	"github.com/retrosix/rp2a03core/pin"
)

// RP2A03 wraps a cpu.CPU locked to the NMOSRicoh variant.
type RP2A03 struct {
	engine *cpu.CPU
}

// FromPowerOn returns an RP2A03 with A=X=Y=0, SP=0, P=0x24 (Interrupt
// Disable set, the always-one bit synthesized on readback) and an
// undefined PC — the host must drive a Reset pin transition before the
// first meaningful instruction fetch, exactly as real hardware requires.
// The returned Pinout holds RDY asserted and IRQ/NMI deasserted, with RW
// set to read: the host must explicitly release RDY before the engine is
// allowed to run a real cycle.
func FromPowerOn() (*RP2A03, pin.Pinout) {
	engine, err := cpu.NewCPU(cpu.NMOSRicoh)
	if err != nil {
		// NMOSRicoh is always a valid Variant; this would indicate a
		// programming error in this package, not a runtime condition.
		panic(err)
	}
	engine.Ctx.A, engine.Ctx.X, engine.Ctx.Y, engine.Ctx.SP = 0, 0, 0, 0
	engine.Ctx.P.SetByte(0x24)
	return &RP2A03{engine: engine}, pin.Pinout{RW: pin.On, RDY: pin.On}
}

// NewVariant returns an RP2A03-shaped wrapper over a different 65xx
// Variant, for running conformance tests against the public 6502
// functional-test ROMs (which assume BCD arithmetic works). The NES
// itself only ever uses FromPowerOn; this exists for test harnesses
// that want the same Tick contract against a decimal-capable core. The
// returned Pinout follows the same power-on contract as FromPowerOn.
func NewVariant(v cpu.Variant) (*RP2A03, pin.Pinout, error) {
	engine, err := cpu.NewCPU(v)
	if err != nil {
		return nil, pin.Pinout{}, err
	}
	engine.Ctx.A, engine.Ctx.X, engine.Ctx.Y, engine.Ctx.SP = 0, 0, 0, 0
	engine.Ctx.P.SetByte(0x24)
	return &RP2A03{engine: engine}, pin.Pinout{RW: pin.On, RDY: pin.On}, nil
}

// Context exposes the underlying architectural state for inspection —
// tests and tracers read it, nothing should mutate it directly except
// through Tick.
func (r *RP2A03) Context() *cpu.Context { return &r.engine.Ctx }

// Tick advances the CPU by one clock cycle. See cpu.CPU.Tick for the
// full contract.
func (r *RP2A03) Tick(b bus.Bus, in pin.Pinout) (pin.Pinout, error) {
	return r.engine.Tick(b, in)
}
