package cpu

import (
	"fmt"

	"github.com/retrosix/rp2a03core/bus"
	"github.com/retrosix/rp2a03core/pin"
)

// CPU is the cycle engine (§4.3): it owns a Context and, on each Tick,
// performs the bus transaction and register mutation that correspond to
// exactly one real clock cycle. There is no internal queue or lookahead
// — all state needed to resume on the next call lives in Context plus a
// small amount of engine-private bookkeeping below.
type CPU struct {
	Ctx     Context
	Variant Variant

	bus    bus.Bus    // valid only for the duration of a Tick call
	curOut *pin.Pinout // the in-progress output pinout for the current tick

	addrDone bool // an addressing-mode helper has finished computing its operand/address
	halted   bool
	haltOpcode uint8

	runningInterrupt bool // executing an IRQ/NMI entry sequence rather than a normal opcode
	entryBRK         bool // current interrupt-entry sequence was triggered by a real BRK opcode
	entryWasNmi      bool // current synthetic interrupt-entry sequence started servicing NMI

	skipInterrupt     bool // next instruction should not poll for a new interrupt
	prevSkipInterrupt bool // previous instruction already suppressed polling

	resetting bool
	resetTick uint8

	prevNMI pin.Pin
	prevRes pin.Pin
	lastOut pin.Pinout

	vectorAddr    uint16 // scratch: interrupt vector being fetched across two ticks
	branchTarget  uint16 // scratch: corrected PC for a taken, page-crossing branch
	addrCarry     bool   // scratch: page-cross signal shared by indexed/indirect addressing
}

// NewCPU returns an un-powered CPU of the given Variant. Drive a Res pin
// transition (or use the rp2a03 façade's FromPowerOn) to establish a
// defined register state before ticking.
func NewCPU(v Variant) (*CPU, error) {
	if !v.valid() {
		return nil, InvalidCoreState{Reason: fmt.Sprintf("variant %d is invalid", v)}
	}
	return &CPU{Variant: v}, nil
}

type addrMode int

const (
	loadMode addrMode = iota
	rmwMode
	storeMode
)

// EffAddr/BaseAddr/IndAddr combine the OpState half-registers into full
// 16 bit addresses where a tick needs to treat them as one value.
func (o *OpState) EffAddr() uint16    { return uint16(o.Adh)<<8 | uint16(o.Adl) }
func (o *OpState) SetEffAddr(v uint16) { o.Adl, o.Adh = uint8(v), uint8(v>>8) }
func (o *OpState) BaseAddr() uint16    { return uint16(o.Bah)<<8 | uint16(o.Bal) }
func (o *OpState) IndAddr() uint16     { return uint16(o.Iah)<<8 | uint16(o.Ial) }

// read performs the one bus read this tick is allowed and stamps the
// in-progress output pinout accordingly.
func (e *CPU) read(addr uint16) uint8 {
	v := e.bus.Read(addr)
	e.curOut.Address, e.curOut.Data, e.curOut.RW = addr, v, pin.On
	return v
}

// write performs the one bus write this tick is allowed and stamps the
// in-progress output pinout accordingly.
func (e *CPU) write(addr uint16, v uint8) {
	e.bus.Write(addr, v)
	e.curOut.Address, e.curOut.Data, e.curOut.RW = addr, v, pin.Off
}

func (e *CPU) push(v uint8) {
	e.write(0x0100+uint16(e.Ctx.SP), v)
	e.Ctx.SP--
}

func (e *CPU) pop() uint8 {
	e.Ctx.SP++
	return e.read(0x0100 + uint16(e.Ctx.SP))
}

// Tick advances the engine by exactly one clock cycle (§5 Scheduling:
// synchronous, single-threaded, no hidden state between calls beyond
// what Context/CPU already hold). in carries the host-driven lines
// (IRQ level, NMI level, RDY, RES) sampled for this cycle; the returned
// Pinout carries the transaction the engine performed.
func (e *CPU) Tick(b bus.Bus, in pin.Pinout) (pin.Pinout, error) {
	e.bus = b

	if e.halted {
		e.Ctx.PC.SetValue(e.Ctx.PC.Value() - 1)
		out := pin.Pinout{Address: e.Ctx.PC.Value(), RW: pin.On, IRQ: in.IRQ, NMI: in.NMI, RDY: in.RDY, Res: in.Res}
		out.Data = b.Read(out.Address)
		e.lastOut = out
		return out, HaltOpcode{e.haltOpcode}
	}

	nmiEdge := e.prevNMI == pin.Off && in.NMI == pin.On
	resEdge := e.prevRes == pin.Off && in.Res == pin.On
	e.prevNMI, e.prevRes = in.NMI, in.Res
	if nmiEdge {
		e.Ctx.NMIDetected = true
	}
	if resEdge && !e.resetting {
		e.resetting = true
		e.resetTick = 0
	}

	// RDY only ever gates a read cycle: it repeats the exact same read
	// (same address, same data) until released.
	if in.RDY == pin.On && !e.resetting && e.lastOut.RW == pin.On {
		out := e.lastOut
		out.Data = b.Read(out.Address)
		out.IRQ, out.NMI, out.RDY, out.Res = in.IRQ, in.NMI, in.RDY, in.Res
		e.lastOut = out
		return out, nil
	}

	e.pollInterrupts(in)

	var out pin.Pinout
	var err error
	if e.resetting {
		out, err = e.tickReset(in)
	} else {
		out, err = e.tickInstruction(in)
	}
	e.lastOut = out
	return out, err
}

// pollInterrupts is checked every tick (not only the penultimate cycle
// spec.md §4.3 describes) so that a level-held IRQ or a latched NMI is
// never missed regardless of which cycle of a variable-length
// instruction is executing; the skipInterrupt/prevSkipInterrupt pair
// below reproduces the one-extra-instruction delay real hardware shows
// after a taken branch or after servicing an interrupt.
func (e *CPU) pollInterrupts(in pin.Pinout) {
	nmi := e.Ctx.NMIDetected
	irq := in.IRQ == pin.On && !e.Ctx.P.InterruptDisable
	if !nmi && !irq {
		return
	}
	switch e.Ctx.Ints {
	case IntNone:
		if nmi {
			e.Ctx.Ints = IntNmi
		} else {
			e.Ctx.Ints = IntIrq
		}
	case IntIrq:
		if nmi {
			e.Ctx.Ints = IntNmi
		}
	}
}

// tickReset implements the 9-cycle reset pseudo-opcode (§4.3 Reset): it
// resembles BRK but performs dummy reads instead of the three stack
// writes, since real silicon inhibits writes while RES is in effect.
func (e *CPU) tickReset(in pin.Pinout) (pin.Pinout, error) {
	out := pin.Pinout{IRQ: in.IRQ, NMI: in.NMI, RDY: in.RDY, Res: in.Res, RW: pin.On}
	e.curOut = &out
	ctx := &e.Ctx

	switch e.resetTick {
	case 0:
		e.halted = false
		ctx.Ints = IntNone
		ctx.NMIDetected = false
		_ = e.read(ctx.PC.Value())
	case 1, 2, 3:
		_ = e.read(ctx.PC.Value())
	case 4, 5, 6:
		_ = e.read(0x0100 + uint16(ctx.SP))
		ctx.SP--
		if e.resetTick == 6 {
			ctx.P.InterruptDisable = true
		}
	case 7:
		ctx.Ops.Dl = e.read(vectorReset)
	case 8:
		hi := e.read(vectorReset + 1)
		ctx.PC.SetValue(uint16(hi)<<8 | uint16(ctx.Ops.Dl))
		ctx.Cycle++
		e.resetting = false
		e.resetTick = 0
		ctx.IR.Tm = 0
		return out, nil
	default:
		return out, InvalidCoreState{Reason: fmt.Sprintf("reset tick %d out of range", e.resetTick)}
	}
	ctx.Cycle++
	e.resetTick++
	return out, nil
}

// tickInstruction runs one cycle of either a normal opcode or (when
// runningInterrupt is set) an IRQ/NMI entry sequence.
func (e *CPU) tickInstruction(in pin.Pinout) (pin.Pinout, error) {
	ctx := &e.Ctx
	out := pin.Pinout{IRQ: in.IRQ, NMI: in.NMI, RDY: in.RDY, Res: in.Res, RW: pin.On}
	e.curOut = &out

	if ctx.IR.Tm == 0 {
		if e.runningInterrupt {
			_ = e.read(ctx.PC.Value())
			ctx.IR.Latch(0x00)
			out.Sync = pin.Off
			e.entryBRK = false
			e.entryWasNmi = ctx.Ints == IntNmi
		} else {
			opcode := e.read(ctx.PC.Value())
			ctx.IR.Latch(opcode)
			out.Sync = pin.On
			ctx.PC.Increment()
		}
		ctx.Ops.Reset()
		e.addrDone = false
		ctx.Cycle++
		ctx.IR.Tm++
		return out, nil
	}

	if ctx.IR.Tm == 1 {
		ctx.Ops.Dl = e.read(ctx.PC.Value())
		e.prevSkipInterrupt = false
		if e.skipInterrupt {
			e.skipInterrupt = false
			e.prevSkipInterrupt = true
		}
	}

	if ctx.IR.Tm > 8 {
		return out, InvalidCoreState{Reason: fmt.Sprintf("tm %d exceeds the 8 cycle maximum", ctx.IR.Tm)}
	}

	var done bool
	var err error
	if e.runningInterrupt {
		done, err = e.interruptEntry(true)
	} else {
		done, err = e.stepOpcode()
	}

	if e.halted {
		e.haltOpcode = ctx.IR.Opcode
		return out, HaltOpcode{ctx.IR.Opcode}
	}
	if err != nil {
		e.halted = true
		e.haltOpcode = ctx.IR.Opcode
		return out, err
	}

	ctx.Cycle++

	if done {
		if e.runningInterrupt {
			ctx.Ints = IntNone
			e.runningInterrupt = false
		} else if ctx.IR.Opcode == 0x00 {
			// A real BRK always fully services whatever was pending, taken
			// or hijacked — it must not immediately reopen a new sequence.
			ctx.Ints = IntNone
		} else if ctx.Ints != IntNone && !e.skipInterrupt {
			// A taken branch (or a just-completed interrupt entry) sets
			// skipInterrupt so one more instruction always runs before a
			// pending interrupt is taken, matching real hardware.
			e.runningInterrupt = true
		}
		ctx.IR.Tm = 0
	} else {
		ctx.IR.Tm++
	}
	return out, err
}
