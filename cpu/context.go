// Package cpu implements the architectural and micro-architectural state
// of a 65xx processor (Context, §3) together with its instruction
// semantics (§4.2) and cycle-accurate dispatch engine (§4.3). The engine
// is deliberately generic across 65xx family members — a Variant
// selects which optional behavior (decimal mode) applies — so the RP2A03 façade in package rp2a03 is a thin, opinionated
// wrapper over it rather than a separate implementation.
package cpu

import "fmt"

// Variant selects which member of the 65xx family this engine emulates.
// The RP2A03 façade always constructs an NMOSRicoh engine; other variants
// exist so the same cycle engine can be exercised against the public
// 6502 functional-test ROMs, which assume decimal mode works.
type Variant int

const (
	VariantUnknown Variant = iota
	// NMOS is a stock 6502/6507: documented opcodes plus the stable
	// undocumented subset, with BCD arithmetic.
	NMOS
	// NMOSRicoh is the RP2A03/RP2A07 variant used in the NES: identical
	// to NMOS except ADC/SBC never enter decimal mode, matching real
	// silicon which has the BCD circuitry physically omitted.
	NMOSRicoh
	variantMax
)

func (v Variant) valid() bool { return v > VariantUnknown && v < variantMax }

// Flag bit positions within the serialized status byte. Bit 5 (S1) is
// always set on serialization; bit 4 (B) is set by BRK/PHP and clear on
// IRQ/NMI entry, and is never stored in the live FlagsRegister itself.
const (
	flagCarry     = uint8(1) << 0
	flagZero      = uint8(1) << 1
	flagInterrupt = uint8(1) << 2
	flagDecimal   = uint8(1) << 3
	flagBreak     = uint8(1) << 4
	flagS1        = uint8(1) << 5
	flagOverflow  = uint8(1) << 6
	flagNegative  = uint8(1) << 7
)

// FlagsRegister holds the six architectural status bits. Bit 5 (always
// one) and bit 4 (B, meaningful only at push time) are not part of the
// live register — they're synthesized by Byte and discarded by SetByte.
type FlagsRegister struct {
	Carry            bool
	Zero             bool
	InterruptDisable bool
	Decimal          bool
	Overflow         bool
	Negative         bool
}

// Byte serializes the flags for a stack push. b selects the B bit: set
// for BRK/PHP, clear for IRQ/NMI entry. Bit 5 is always set.
func (f FlagsRegister) Byte(b bool) uint8 {
	var v uint8
	if f.Carry {
		v |= flagCarry
	}
	if f.Zero {
		v |= flagZero
	}
	if f.InterruptDisable {
		v |= flagInterrupt
	}
	if f.Decimal {
		v |= flagDecimal
	}
	if f.Overflow {
		v |= flagOverflow
	}
	if f.Negative {
		v |= flagNegative
	}
	v |= flagS1
	if b {
		v |= flagBreak
	}
	return v
}

// SetByte loads the flags from a stack pull (PLP/RTI). Bits 4 and 5 are
// ignored, matching real hardware: they're artifacts of the push, not
// storage.
func (f *FlagsRegister) SetByte(v uint8) {
	f.Carry = v&flagCarry != 0
	f.Zero = v&flagZero != 0
	f.InterruptDisable = v&flagInterrupt != 0
	f.Decimal = v&flagDecimal != 0
	f.Overflow = v&flagOverflow != 0
	f.Negative = v&flagNegative != 0
}

// ProgramCounter is conceptually a 16 bit register, but several
// addressing modes and the JMP-indirect page-wrap bug mutate only one
// half within a single cycle, so the halves are kept as independent
// fields rather than folded into a uint16 immediately.
type ProgramCounter struct {
	Lo uint8
	Hi uint8
}

// Value returns the 16 bit program counter.
func (pc ProgramCounter) Value() uint16 {
	return uint16(pc.Hi)<<8 | uint16(pc.Lo)
}

// SetValue loads both halves from a 16 bit value.
func (pc *ProgramCounter) SetValue(v uint16) {
	pc.Lo = uint8(v)
	pc.Hi = uint8(v >> 8)
}

// Increment advances the counter by one, wrapping 0xFFFF to 0x0000.
func (pc *ProgramCounter) Increment() {
	pc.SetValue(pc.Value() + 1)
}

// InstructionRegister pairs the currently latched opcode with tm, the
// tick-within-instruction counter: 0 on the cycle the opcode was fetched,
// incrementing each subsequent cycle until the instruction terminates.
type InstructionRegister struct {
	Opcode uint8
	Tm     uint8
}

// Latch loads a new opcode and resets tm to 0, as happens on every
// opcode-fetch cycle (including the synthetic 0x00 fetch for IRQ/NMI
// entry and BRK).
func (ir *InstructionRegister) Latch(opcode uint8) {
	ir.Opcode = opcode
	ir.Tm = 0
}

// InterruptState records which, if any, interrupt sequence the engine is
// currently running, including the hijack cases where an NMI arrives
// while a BRK or IRQ sequence is already pushing state.
type InterruptState int

const (
	// IntNone: no interrupt sequence in progress.
	IntNone InterruptState = iota
	// IntIrq: servicing a maskable interrupt.
	IntIrq
	// IntNmi: servicing a non-maskable interrupt.
	IntNmi
	// IntBrkHijack: a BRK instruction was in flight when NMI arrived;
	// the vector fetch uses 0xFFFA/0xFFFB instead of 0xFFFE/0xFFFF, but
	// the pushed P still has B set (it was BRK, not NMI, that pushed).
	IntBrkHijack
	// IntIrqHijack: as IntBrkHijack, but for an IRQ sequence hijacked by
	// a late-arriving NMI.
	IntIrqHijack
)

// OpState is the per-instruction scratch space a real 6502 held in
// internal address latches: base address, effective address, indirect
// address (low/high halves each), the branch offset and its carry/sign,
// whether a branch was taken, and the data latch shuttling bytes between
// cycles of a single instruction. It is cleared whenever a new opcode is
// latched.
type OpState struct {
	Bal, Bah     uint8 // base address (pre-index effective address halves)
	Adl, Adh     uint8 // effective address
	Ial, Iah     uint8 // indirect address (operand pointer, for (d),y)
	Offset       uint8 // branch displacement
	OffsetCarry  bool  // whether offset addition crossed a page
	OffsetNeg    bool  // sign of the branch offset
	BranchTaken  bool  // set by the branch semantic, read by the cycle engine
	Dl           uint8 // data latch: the byte most instructions operate on
}

// Reset clears all scratch fields, as happens on every opcode fetch.
func (o *OpState) Reset() {
	*o = OpState{}
}

// Context aggregates all CPU-owned state: the architectural registers
// (A, X, Y, SP, PC, flags), the instruction register, the interrupt
// latch, and the OpState scratch bank. It has exactly one owner (the
// engine driving it) and is never shared.
type Context struct {
	A, X, Y uint8
	SP      uint8
	Cycle   uint64

	IR InstructionRegister
	P  FlagsRegister
	PC ProgramCounter

	Ops  OpState
	Ints InterruptState

	// NMIDetected is the one-bit latch set on an Off->On (asserted)
	// transition of the NMI pin and cleared when an NMI vector fetch
	// begins (or by reset). It survives across ticks even if the
	// pin deasserts again, which is why NMI is an edge (not level)
	// interrupt source.
	NMIDetected bool
}

// vectors used for interrupt/reset dispatch.
const (
	vectorNMI   = uint16(0xFFFA)
	vectorReset = uint16(0xFFFC)
	vectorIRQ   = uint16(0xFFFE)
)

// InvalidCoreState is returned when the engine detects an internal
// precondition violation (an invalid Variant passed to NewCPU, an
// impossible tm value, an unimplemented opcode). When an opcode or
// interrupt step returns it, the engine halts and later Tick calls
// return HaltOpcode; the tm-limit and reset-tick checks return it
// without halting.
type InvalidCoreState struct {
	Reason string
}

func (e InvalidCoreState) Error() string {
	return fmt.Sprintf("invalid 6502 core state: %s", e.Reason)
}

// HaltOpcode is returned once the engine executes a KIL/JAM opcode. The
// PC rewinds by one each subsequent tick, matching real silicon, and
// this error is returned again on every following Tick call.
type HaltOpcode struct {
	Opcode uint8
}

func (e HaltOpcode) Error() string {
	return fmt.Sprintf("halt opcode 0x%02X executed", e.Opcode)
}
