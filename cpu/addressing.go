package cpu

// This file implements the per-cycle addressing-mode helpers (§4.3
// addressing-mode table). Each one is driven once per tick by stepOpcode
// until it reports done; mode selects between a pure load (terminates as
// soon as the operand is read), a read-modify-write (writes the unmodified
// byte back before the semantic runs, then writes the modified byte), and
// a pure store (never loads an operand for a semantic; the absolute-indexed
// and (indirect),Y stores still make their one dummy read at the
// un-fixed address before the write).

func (e *CPU) addrImmediate() (bool, error) {
	e.Ctx.PC.Increment()
	return true, nil
}

func (e *CPU) addrZP(mode addrMode) (bool, error) {
	ctx := &e.Ctx
	switch ctx.IR.Tm {
	case 1:
		ctx.Ops.Adl, ctx.Ops.Adh = ctx.Ops.Dl, 0
		ctx.PC.Increment()
		return mode == storeMode, nil
	case 2:
		ctx.Ops.Dl = e.read(ctx.Ops.EffAddr())
		return mode != rmwMode, nil
	case 3:
		e.write(ctx.Ops.EffAddr(), ctx.Ops.Dl)
		return true, nil
	}
	return true, InvalidCoreState{Reason: "addrZP: tm out of range"}
}

func (e *CPU) addrZPIndexed(mode addrMode, reg uint8) (bool, error) {
	ctx := &e.Ctx
	switch ctx.IR.Tm {
	case 1:
		ctx.Ops.Bal = ctx.Ops.Dl
		ctx.PC.Increment()
		return false, nil
	case 2:
		_ = e.read(uint16(ctx.Ops.Bal))
		ctx.Ops.Adl = ctx.Ops.Bal + reg
		ctx.Ops.Adh = 0
		return mode == storeMode, nil
	case 3:
		ctx.Ops.Dl = e.read(ctx.Ops.EffAddr())
		return mode != rmwMode, nil
	case 4:
		e.write(ctx.Ops.EffAddr(), ctx.Ops.Dl)
		return true, nil
	}
	return true, InvalidCoreState{Reason: "addrZPIndexed: tm out of range"}
}

func (e *CPU) addrAbsolute(mode addrMode) (bool, error) {
	ctx := &e.Ctx
	switch ctx.IR.Tm {
	case 1:
		ctx.Ops.Adl = ctx.Ops.Dl
		ctx.PC.Increment()
		return false, nil
	case 2:
		ctx.Ops.Adh = e.read(ctx.PC.Value())
		ctx.PC.Increment()
		return mode == storeMode, nil
	case 3:
		ctx.Ops.Dl = e.read(ctx.Ops.EffAddr())
		return mode != rmwMode, nil
	case 4:
		e.write(ctx.Ops.EffAddr(), ctx.Ops.Dl)
		return true, nil
	}
	return true, InvalidCoreState{Reason: "addrAbsolute: tm out of range"}
}

func (e *CPU) addrAbsoluteIndexed(mode addrMode, reg uint8) (bool, error) {
	ctx := &e.Ctx
	switch ctx.IR.Tm {
	case 1:
		ctx.Ops.Adl = ctx.Ops.Dl
		ctx.PC.Increment()
		return false, nil
	case 2:
		hi := e.read(ctx.PC.Value())
		ctx.PC.Increment()
		base := uint16(hi)<<8 | uint16(ctx.Ops.Adl)
		sumLo := ctx.Ops.Adl + reg
		addr := (base & 0xFF00) | uint16(sumLo)
		e.addrCarry = addr != base+uint16(reg)
		ctx.Ops.SetEffAddr(addr)
		return false, nil
	case 3:
		// Store mode always takes this reach-in-the-dark dummy read, since
		// real hardware has no way to skip it before the carry out of the
		// index addition is known; load mode is the one that can terminate
		// here when no page was crossed.
		carried := e.addrCarry
		ctx.Ops.Dl = e.read(ctx.Ops.EffAddr())
		if carried {
			ctx.Ops.Adh++
		}
		switch mode {
		case storeMode:
			return true, nil
		case rmwMode:
			return false, nil
		default:
			return !carried, nil
		}
	case 4:
		ctx.Ops.Dl = e.read(ctx.Ops.EffAddr())
		return mode != rmwMode, nil
	case 5:
		e.write(ctx.Ops.EffAddr(), ctx.Ops.Dl)
		return true, nil
	}
	return true, InvalidCoreState{Reason: "addrAbsoluteIndexed: tm out of range"}
}

func (e *CPU) addrIndirectX(mode addrMode) (bool, error) {
	ctx := &e.Ctx
	switch ctx.IR.Tm {
	case 1:
		ctx.Ops.Ial = ctx.Ops.Dl
		ctx.PC.Increment()
		return false, nil
	case 2:
		_ = e.read(uint16(ctx.Ops.Ial))
		ctx.Ops.Ial += ctx.X
		return false, nil
	case 3:
		ctx.Ops.Adl = e.read(uint16(ctx.Ops.Ial))
		ctx.Ops.Ial++
		return false, nil
	case 4:
		ctx.Ops.Adh = e.read(uint16(ctx.Ops.Ial))
		return mode == storeMode, nil
	case 5:
		ctx.Ops.Dl = e.read(ctx.Ops.EffAddr())
		return mode != rmwMode, nil
	case 6:
		e.write(ctx.Ops.EffAddr(), ctx.Ops.Dl)
		return true, nil
	}
	return true, InvalidCoreState{Reason: "addrIndirectX: tm out of range"}
}

func (e *CPU) addrIndirectY(mode addrMode) (bool, error) {
	ctx := &e.Ctx
	switch ctx.IR.Tm {
	case 1:
		ctx.Ops.Ial = ctx.Ops.Dl
		ctx.PC.Increment()
		return false, nil
	case 2:
		ctx.Ops.Bal = e.read(uint16(ctx.Ops.Ial))
		ctx.Ops.Ial++
		return false, nil
	case 3:
		ctx.Ops.Bah = e.read(uint16(ctx.Ops.Ial))
		base := ctx.Ops.BaseAddr()
		sumLo := ctx.Ops.Bal + ctx.Y
		addr := (base & 0xFF00) | uint16(sumLo)
		e.addrCarry = addr != base+uint16(ctx.Y)
		ctx.Ops.SetEffAddr(addr)
		return false, nil
	case 4:
		carried := e.addrCarry
		ctx.Ops.Dl = e.read(ctx.Ops.EffAddr())
		if carried {
			ctx.Ops.Adh++
		}
		switch mode {
		case storeMode:
			return true, nil
		case rmwMode:
			return false, nil
		default:
			return !carried, nil
		}
	case 5:
		ctx.Ops.Dl = e.read(ctx.Ops.EffAddr())
		return mode != rmwMode, nil
	case 6:
		e.write(ctx.Ops.EffAddr(), ctx.Ops.Dl)
		return true, nil
	}
	return true, InvalidCoreState{Reason: "addrIndirectY: tm out of range"}
}

// stepBranch implements the Bxx timing table: 2 cycles not taken, 3
// taken without a page cross, 4 taken with one. taken is recomputed by
// the caller every tick from live flags, which is safe because nothing
// mutates flags mid-sequence.
func (e *CPU) stepBranch(taken bool) (bool, error) {
	ctx := &e.Ctx
	switch ctx.IR.Tm {
	case 1:
		ctx.Ops.Offset = ctx.Ops.Dl
		ctx.Ops.OffsetNeg = ctx.Ops.Offset&0x80 != 0
		ctx.PC.Increment()
		ctx.Ops.BranchTaken = taken
		return !taken, nil
	case 2:
		if !e.prevSkipInterrupt {
			e.skipInterrupt = true
		}
		oldPC := ctx.PC.Value()
		samePagePC := (oldPC & 0xFF00) | uint16(uint8(oldPC)+ctx.Ops.Offset)
		target := oldPC + uint16(int16(int8(ctx.Ops.Offset)))
		ctx.PC.SetValue(samePagePC)
		_ = e.read(samePagePC)
		ctx.Ops.OffsetCarry = samePagePC != target
		e.branchTarget = target
		return !ctx.Ops.OffsetCarry, nil
	case 3:
		ctx.PC.SetValue(e.branchTarget)
		_ = e.read(e.branchTarget)
		return true, nil
	}
	return true, InvalidCoreState{Reason: "stepBranch: tm out of range"}
}

// interruptEntry implements the shared BRK/IRQ/NMI entry sequence
// (§4.3): push PCH, PCL, P (with B set only for a genuine BRK), then
// fetch the vector appropriate to whatever InterruptState holds at the
// moment of the fetch — which is what lets a late NMI hijack a BRK or
// IRQ sequence already in flight. irqStyle is false only for a real BRK
// opcode: then tm1 increments PC past BRK's signature byte, the P pushed
// at tm4 has B set, and a hijack is recorded as IntBrkHijack. When
// irqStyle is true, PC is not incremented, B is clear, a hijack is
// recorded as IntIrqHijack, and tm6 sets skipInterrupt.
func (e *CPU) interruptEntry(irqStyle bool) (bool, error) {
	ctx := &e.Ctx
	switch ctx.IR.Tm {
	case 1:
		if !irqStyle {
			ctx.PC.Increment() // BRK's signature byte, read by the universal pre-read, is discarded but still skipped
		}
		return false, nil
	case 2:
		e.push(ctx.PC.Hi)
		return false, nil
	case 3:
		e.push(ctx.PC.Lo)
		return false, nil
	case 4:
		e.push(ctx.P.Byte(!irqStyle))
		ctx.P.InterruptDisable = true
		return false, nil
	case 5:
		vector := vectorIRQ
		if ctx.Ints == IntNmi {
			vector = vectorNMI
		}
		if ctx.Ints == IntNmi {
			if !irqStyle && e.entryBRK {
				ctx.Ints = IntBrkHijack
			} else if irqStyle && !e.entryWasNmi {
				ctx.Ints = IntIrqHijack
			}
		}
		if vector == vectorNMI {
			ctx.NMIDetected = false
		}
		e.vectorAddr = vector
		ctx.Ops.Dl = e.read(vector)
		return false, nil
	case 6:
		hi := e.read(e.vectorAddr + 1)
		ctx.PC.SetValue(uint16(hi)<<8 | uint16(ctx.Ops.Dl))
		if irqStyle && !e.prevSkipInterrupt {
			e.skipInterrupt = true
		}
		return true, nil
	}
	return true, InvalidCoreState{Reason: "interruptEntry: tm out of range"}
}
