package cpu

// This file dispatches the latched opcode to its addressing mode and
// semantic (§4.2, §4.3). It is the Go mirror of a 6502's instruction
// decode ROM: one case per opcode byte, including the stable
// undocumented subset and the KIL/JAM opcodes that lock the bus.

// loadOp drives addr until it reports the operand is ready, then runs
// semantic and terminates the instruction in the same cycle — this is
// what lets Immediate mode finish in a single post-fetch cycle.
func (e *CPU) loadOp(addr func() (bool, error), semantic func()) (bool, error) {
	if !e.addrDone {
		done, err := addr()
		if err != nil {
			return true, err
		}
		e.addrDone = done
	}
	if e.addrDone {
		semantic()
		return true, nil
	}
	return false, nil
}

// rmwOp drives addr through its dummy write-back cycle, then on the
// following tick runs semantic and performs the real write.
func (e *CPU) rmwOp(addr func() (bool, error), semantic func()) (bool, error) {
	if !e.addrDone {
		done, err := addr()
		e.addrDone = done
		return false, err
	}
	semantic()
	e.write(e.Ctx.Ops.EffAddr(), e.Ctx.Ops.Dl)
	return true, nil
}

// storeOp drives addr in store mode (which reads no operand, apart from
// the indexed modes' dummy read) then writes val once the address is ready.
func (e *CPU) storeOp(addr func() (bool, error), val uint8) (bool, error) {
	if !e.addrDone {
		done, err := addr()
		e.addrDone = done
		return false, err
	}
	e.write(e.Ctx.Ops.EffAddr(), val)
	return true, nil
}

// storeUnstableOp implements the SHA/SHX/SHY/TAS family: the stored
// value depends on the high byte of the address actually latched, which
// is why these opcodes behave erratically across a page boundary on
// real silicon. The engine does not attempt to reproduce that page-cross
// corruption; it always uses the corrected effective address.
func (e *CPU) storeUnstableOp(addr func() (bool, error), reg uint8) (bool, error) {
	if !e.addrDone {
		done, err := addr()
		e.addrDone = done
		return false, err
	}
	v := storeHighAddrAnd(reg, e.Ctx.Ops.Adh)
	e.write(e.Ctx.Ops.EffAddr(), v)
	return true, nil
}

func (e *CPU) stepOpcode() (bool, error) {
	ctx := &e.Ctx
	switch ctx.IR.Opcode {

	// --- control ---
	case 0x00: // BRK
		e.entryBRK = true
		return e.interruptEntry(false)
	case 0x40: // RTI
		return e.stepRTI()
	case 0x60: // RTS
		return e.stepRTS()
	case 0x20: // JSR
		return e.stepJSR()
	case 0x4C: // JMP abs
		return e.stepJMP()
	case 0x6C: // JMP (ind)
		return e.stepJMPIndirect()
	case 0xEA, 0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA: // NOP impl
		return true, nil
	case 0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2: // KIL
		e.halted = true
		return true, nil

	// --- stack ---
	case 0x48: // PHA
		return e.stepPush(ctx.A)
	case 0x08: // PHP
		return e.stepPush(ctx.P.Byte(true))
	case 0x68: // PLA
		return e.stepPull(func(v uint8) { loadRegister(&ctx.P, &ctx.A, v) })
	case 0x28: // PLP
		return e.stepPull(func(v uint8) { ctx.P.SetByte(v) })

	// --- flags ---
	case 0x18:
		ctx.P.Carry = false
		return true, nil
	case 0x38:
		ctx.P.Carry = true
		return true, nil
	case 0x58:
		ctx.P.InterruptDisable = false
		return true, nil
	case 0x78:
		ctx.P.InterruptDisable = true
		return true, nil
	case 0xB8:
		ctx.P.Overflow = false
		return true, nil
	case 0xD8:
		ctx.P.Decimal = false
		return true, nil
	case 0xF8:
		ctx.P.Decimal = true
		return true, nil

	// --- transfers ---
	case 0xAA:
		loadRegister(&ctx.P, &ctx.X, ctx.A)
		return true, nil
	case 0xA8:
		loadRegister(&ctx.P, &ctx.Y, ctx.A)
		return true, nil
	case 0x8A:
		loadRegister(&ctx.P, &ctx.A, ctx.X)
		return true, nil
	case 0x98:
		loadRegister(&ctx.P, &ctx.A, ctx.Y)
		return true, nil
	case 0xBA:
		loadRegister(&ctx.P, &ctx.X, ctx.SP)
		return true, nil
	case 0x9A:
		ctx.SP = ctx.X // TXS does not touch flags
		return true, nil

	// --- increment/decrement (register) ---
	case 0xE8:
		ctx.X++
		setZero(&ctx.P, ctx.X)
		setNegative(&ctx.P, ctx.X)
		return true, nil
	case 0xC8:
		ctx.Y++
		setZero(&ctx.P, ctx.Y)
		setNegative(&ctx.P, ctx.Y)
		return true, nil
	case 0xCA:
		ctx.X--
		setZero(&ctx.P, ctx.X)
		setNegative(&ctx.P, ctx.X)
		return true, nil
	case 0x88:
		ctx.Y--
		setZero(&ctx.P, ctx.Y)
		setNegative(&ctx.P, ctx.Y)
		return true, nil

	// --- branches ---
	case 0x10:
		return e.stepBranch(!ctx.P.Negative)
	case 0x30:
		return e.stepBranch(ctx.P.Negative)
	case 0x50:
		return e.stepBranch(!ctx.P.Overflow)
	case 0x70:
		return e.stepBranch(ctx.P.Overflow)
	case 0x90:
		return e.stepBranch(!ctx.P.Carry)
	case 0xB0:
		return e.stepBranch(ctx.P.Carry)
	case 0xD0:
		return e.stepBranch(!ctx.P.Zero)
	case 0xF0:
		return e.stepBranch(ctx.P.Zero)

	// --- accumulator-mode ALU ---
	case 0x0A:
		ASLAcc(ctx)
		return true, nil
	case 0x4A:
		LSRAcc(ctx)
		return true, nil
	case 0x2A:
		ROLAcc(ctx)
		return true, nil
	case 0x6A:
		RORAcc(ctx)
		return true, nil

	// --- ORA ---
	case 0x09:
		return e.loadOp(e.addrImmediate, func() { ORA(ctx) })
	case 0x05:
		return e.loadOp(func() (bool, error) { return e.addrZP(loadMode) }, func() { ORA(ctx) })
	case 0x15:
		return e.loadOp(func() (bool, error) { return e.addrZPIndexed(loadMode, ctx.X) }, func() { ORA(ctx) })
	case 0x0D:
		return e.loadOp(func() (bool, error) { return e.addrAbsolute(loadMode) }, func() { ORA(ctx) })
	case 0x1D:
		return e.loadOp(func() (bool, error) { return e.addrAbsoluteIndexed(loadMode, ctx.X) }, func() { ORA(ctx) })
	case 0x19:
		return e.loadOp(func() (bool, error) { return e.addrAbsoluteIndexed(loadMode, ctx.Y) }, func() { ORA(ctx) })
	case 0x01:
		return e.loadOp(func() (bool, error) { return e.addrIndirectX(loadMode) }, func() { ORA(ctx) })
	case 0x11:
		return e.loadOp(func() (bool, error) { return e.addrIndirectY(loadMode) }, func() { ORA(ctx) })

	// --- AND ---
	case 0x29:
		return e.loadOp(e.addrImmediate, func() { AND(ctx) })
	case 0x25:
		return e.loadOp(func() (bool, error) { return e.addrZP(loadMode) }, func() { AND(ctx) })
	case 0x35:
		return e.loadOp(func() (bool, error) { return e.addrZPIndexed(loadMode, ctx.X) }, func() { AND(ctx) })
	case 0x2D:
		return e.loadOp(func() (bool, error) { return e.addrAbsolute(loadMode) }, func() { AND(ctx) })
	case 0x3D:
		return e.loadOp(func() (bool, error) { return e.addrAbsoluteIndexed(loadMode, ctx.X) }, func() { AND(ctx) })
	case 0x39:
		return e.loadOp(func() (bool, error) { return e.addrAbsoluteIndexed(loadMode, ctx.Y) }, func() { AND(ctx) })
	case 0x21:
		return e.loadOp(func() (bool, error) { return e.addrIndirectX(loadMode) }, func() { AND(ctx) })
	case 0x31:
		return e.loadOp(func() (bool, error) { return e.addrIndirectY(loadMode) }, func() { AND(ctx) })

	// --- EOR ---
	case 0x49:
		return e.loadOp(e.addrImmediate, func() { EOR(ctx) })
	case 0x45:
		return e.loadOp(func() (bool, error) { return e.addrZP(loadMode) }, func() { EOR(ctx) })
	case 0x55:
		return e.loadOp(func() (bool, error) { return e.addrZPIndexed(loadMode, ctx.X) }, func() { EOR(ctx) })
	case 0x4D:
		return e.loadOp(func() (bool, error) { return e.addrAbsolute(loadMode) }, func() { EOR(ctx) })
	case 0x5D:
		return e.loadOp(func() (bool, error) { return e.addrAbsoluteIndexed(loadMode, ctx.X) }, func() { EOR(ctx) })
	case 0x59:
		return e.loadOp(func() (bool, error) { return e.addrAbsoluteIndexed(loadMode, ctx.Y) }, func() { EOR(ctx) })
	case 0x41:
		return e.loadOp(func() (bool, error) { return e.addrIndirectX(loadMode) }, func() { EOR(ctx) })
	case 0x51:
		return e.loadOp(func() (bool, error) { return e.addrIndirectY(loadMode) }, func() { EOR(ctx) })

	// --- ADC ---
	case 0x69:
		return e.loadOp(e.addrImmediate, func() { ADC(ctx, e.Variant) })
	case 0x65:
		return e.loadOp(func() (bool, error) { return e.addrZP(loadMode) }, func() { ADC(ctx, e.Variant) })
	case 0x75:
		return e.loadOp(func() (bool, error) { return e.addrZPIndexed(loadMode, ctx.X) }, func() { ADC(ctx, e.Variant) })
	case 0x6D:
		return e.loadOp(func() (bool, error) { return e.addrAbsolute(loadMode) }, func() { ADC(ctx, e.Variant) })
	case 0x7D:
		return e.loadOp(func() (bool, error) { return e.addrAbsoluteIndexed(loadMode, ctx.X) }, func() { ADC(ctx, e.Variant) })
	case 0x79:
		return e.loadOp(func() (bool, error) { return e.addrAbsoluteIndexed(loadMode, ctx.Y) }, func() { ADC(ctx, e.Variant) })
	case 0x61:
		return e.loadOp(func() (bool, error) { return e.addrIndirectX(loadMode) }, func() { ADC(ctx, e.Variant) })
	case 0x71:
		return e.loadOp(func() (bool, error) { return e.addrIndirectY(loadMode) }, func() { ADC(ctx, e.Variant) })

	// --- SBC (including the undocumented 0xEB duplicate) ---
	case 0xE9, 0xEB:
		return e.loadOp(e.addrImmediate, func() { SBC(ctx, e.Variant) })
	case 0xE5:
		return e.loadOp(func() (bool, error) { return e.addrZP(loadMode) }, func() { SBC(ctx, e.Variant) })
	case 0xF5:
		return e.loadOp(func() (bool, error) { return e.addrZPIndexed(loadMode, ctx.X) }, func() { SBC(ctx, e.Variant) })
	case 0xED:
		return e.loadOp(func() (bool, error) { return e.addrAbsolute(loadMode) }, func() { SBC(ctx, e.Variant) })
	case 0xFD:
		return e.loadOp(func() (bool, error) { return e.addrAbsoluteIndexed(loadMode, ctx.X) }, func() { SBC(ctx, e.Variant) })
	case 0xF9:
		return e.loadOp(func() (bool, error) { return e.addrAbsoluteIndexed(loadMode, ctx.Y) }, func() { SBC(ctx, e.Variant) })
	case 0xE1:
		return e.loadOp(func() (bool, error) { return e.addrIndirectX(loadMode) }, func() { SBC(ctx, e.Variant) })
	case 0xF1:
		return e.loadOp(func() (bool, error) { return e.addrIndirectY(loadMode) }, func() { SBC(ctx, e.Variant) })

	// --- CMP/CPX/CPY ---
	case 0xC9:
		return e.loadOp(e.addrImmediate, func() { Compare(ctx, ctx.A, ctx.Ops.Dl) })
	case 0xC5:
		return e.loadOp(func() (bool, error) { return e.addrZP(loadMode) }, func() { Compare(ctx, ctx.A, ctx.Ops.Dl) })
	case 0xD5:
		return e.loadOp(func() (bool, error) { return e.addrZPIndexed(loadMode, ctx.X) }, func() { Compare(ctx, ctx.A, ctx.Ops.Dl) })
	case 0xCD:
		return e.loadOp(func() (bool, error) { return e.addrAbsolute(loadMode) }, func() { Compare(ctx, ctx.A, ctx.Ops.Dl) })
	case 0xDD:
		return e.loadOp(func() (bool, error) { return e.addrAbsoluteIndexed(loadMode, ctx.X) }, func() { Compare(ctx, ctx.A, ctx.Ops.Dl) })
	case 0xD9:
		return e.loadOp(func() (bool, error) { return e.addrAbsoluteIndexed(loadMode, ctx.Y) }, func() { Compare(ctx, ctx.A, ctx.Ops.Dl) })
	case 0xC1:
		return e.loadOp(func() (bool, error) { return e.addrIndirectX(loadMode) }, func() { Compare(ctx, ctx.A, ctx.Ops.Dl) })
	case 0xD1:
		return e.loadOp(func() (bool, error) { return e.addrIndirectY(loadMode) }, func() { Compare(ctx, ctx.A, ctx.Ops.Dl) })
	case 0xE0:
		return e.loadOp(e.addrImmediate, func() { Compare(ctx, ctx.X, ctx.Ops.Dl) })
	case 0xE4:
		return e.loadOp(func() (bool, error) { return e.addrZP(loadMode) }, func() { Compare(ctx, ctx.X, ctx.Ops.Dl) })
	case 0xEC:
		return e.loadOp(func() (bool, error) { return e.addrAbsolute(loadMode) }, func() { Compare(ctx, ctx.X, ctx.Ops.Dl) })
	case 0xC0:
		return e.loadOp(e.addrImmediate, func() { Compare(ctx, ctx.Y, ctx.Ops.Dl) })
	case 0xC4:
		return e.loadOp(func() (bool, error) { return e.addrZP(loadMode) }, func() { Compare(ctx, ctx.Y, ctx.Ops.Dl) })
	case 0xCC:
		return e.loadOp(func() (bool, error) { return e.addrAbsolute(loadMode) }, func() { Compare(ctx, ctx.Y, ctx.Ops.Dl) })

	// --- BIT ---
	case 0x24:
		return e.loadOp(func() (bool, error) { return e.addrZP(loadMode) }, func() { BIT(ctx) })
	case 0x2C:
		return e.loadOp(func() (bool, error) { return e.addrAbsolute(loadMode) }, func() { BIT(ctx) })

	// --- LDA/LDX/LDY ---
	case 0xA9:
		return e.loadOp(e.addrImmediate, func() { loadRegister(&ctx.P, &ctx.A, ctx.Ops.Dl) })
	case 0xA5:
		return e.loadOp(func() (bool, error) { return e.addrZP(loadMode) }, func() { loadRegister(&ctx.P, &ctx.A, ctx.Ops.Dl) })
	case 0xB5:
		return e.loadOp(func() (bool, error) { return e.addrZPIndexed(loadMode, ctx.X) }, func() { loadRegister(&ctx.P, &ctx.A, ctx.Ops.Dl) })
	case 0xAD:
		return e.loadOp(func() (bool, error) { return e.addrAbsolute(loadMode) }, func() { loadRegister(&ctx.P, &ctx.A, ctx.Ops.Dl) })
	case 0xBD:
		return e.loadOp(func() (bool, error) { return e.addrAbsoluteIndexed(loadMode, ctx.X) }, func() { loadRegister(&ctx.P, &ctx.A, ctx.Ops.Dl) })
	case 0xB9:
		return e.loadOp(func() (bool, error) { return e.addrAbsoluteIndexed(loadMode, ctx.Y) }, func() { loadRegister(&ctx.P, &ctx.A, ctx.Ops.Dl) })
	case 0xA1:
		return e.loadOp(func() (bool, error) { return e.addrIndirectX(loadMode) }, func() { loadRegister(&ctx.P, &ctx.A, ctx.Ops.Dl) })
	case 0xB1:
		return e.loadOp(func() (bool, error) { return e.addrIndirectY(loadMode) }, func() { loadRegister(&ctx.P, &ctx.A, ctx.Ops.Dl) })
	case 0xA2:
		return e.loadOp(e.addrImmediate, func() { loadRegister(&ctx.P, &ctx.X, ctx.Ops.Dl) })
	case 0xA6:
		return e.loadOp(func() (bool, error) { return e.addrZP(loadMode) }, func() { loadRegister(&ctx.P, &ctx.X, ctx.Ops.Dl) })
	case 0xB6:
		return e.loadOp(func() (bool, error) { return e.addrZPIndexed(loadMode, ctx.Y) }, func() { loadRegister(&ctx.P, &ctx.X, ctx.Ops.Dl) })
	case 0xAE:
		return e.loadOp(func() (bool, error) { return e.addrAbsolute(loadMode) }, func() { loadRegister(&ctx.P, &ctx.X, ctx.Ops.Dl) })
	case 0xBE:
		return e.loadOp(func() (bool, error) { return e.addrAbsoluteIndexed(loadMode, ctx.Y) }, func() { loadRegister(&ctx.P, &ctx.X, ctx.Ops.Dl) })
	case 0xA0:
		return e.loadOp(e.addrImmediate, func() { loadRegister(&ctx.P, &ctx.Y, ctx.Ops.Dl) })
	case 0xA4:
		return e.loadOp(func() (bool, error) { return e.addrZP(loadMode) }, func() { loadRegister(&ctx.P, &ctx.Y, ctx.Ops.Dl) })
	case 0xB4:
		return e.loadOp(func() (bool, error) { return e.addrZPIndexed(loadMode, ctx.X) }, func() { loadRegister(&ctx.P, &ctx.Y, ctx.Ops.Dl) })
	case 0xAC:
		return e.loadOp(func() (bool, error) { return e.addrAbsolute(loadMode) }, func() { loadRegister(&ctx.P, &ctx.Y, ctx.Ops.Dl) })
	case 0xBC:
		return e.loadOp(func() (bool, error) { return e.addrAbsoluteIndexed(loadMode, ctx.X) }, func() { loadRegister(&ctx.P, &ctx.Y, ctx.Ops.Dl) })

	// --- STA/STX/STY ---
	case 0x85:
		return e.storeOp(func() (bool, error) { return e.addrZP(storeMode) }, ctx.A)
	case 0x95:
		return e.storeOp(func() (bool, error) { return e.addrZPIndexed(storeMode, ctx.X) }, ctx.A)
	case 0x8D:
		return e.storeOp(func() (bool, error) { return e.addrAbsolute(storeMode) }, ctx.A)
	case 0x9D:
		return e.storeOp(func() (bool, error) { return e.addrAbsoluteIndexed(storeMode, ctx.X) }, ctx.A)
	case 0x99:
		return e.storeOp(func() (bool, error) { return e.addrAbsoluteIndexed(storeMode, ctx.Y) }, ctx.A)
	case 0x81:
		return e.storeOp(func() (bool, error) { return e.addrIndirectX(storeMode) }, ctx.A)
	case 0x91:
		return e.storeOp(func() (bool, error) { return e.addrIndirectY(storeMode) }, ctx.A)
	case 0x86:
		return e.storeOp(func() (bool, error) { return e.addrZP(storeMode) }, ctx.X)
	case 0x96:
		return e.storeOp(func() (bool, error) { return e.addrZPIndexed(storeMode, ctx.Y) }, ctx.X)
	case 0x8E:
		return e.storeOp(func() (bool, error) { return e.addrAbsolute(storeMode) }, ctx.X)
	case 0x84:
		return e.storeOp(func() (bool, error) { return e.addrZP(storeMode) }, ctx.Y)
	case 0x94:
		return e.storeOp(func() (bool, error) { return e.addrZPIndexed(storeMode, ctx.X) }, ctx.Y)
	case 0x8C:
		return e.storeOp(func() (bool, error) { return e.addrAbsolute(storeMode) }, ctx.Y)

	// --- INC/DEC (memory) ---
	case 0xE6:
		return e.rmwOp(func() (bool, error) { return e.addrZP(rmwMode) }, func() { INC(ctx) })
	case 0xF6:
		return e.rmwOp(func() (bool, error) { return e.addrZPIndexed(rmwMode, ctx.X) }, func() { INC(ctx) })
	case 0xEE:
		return e.rmwOp(func() (bool, error) { return e.addrAbsolute(rmwMode) }, func() { INC(ctx) })
	case 0xFE:
		return e.rmwOp(func() (bool, error) { return e.addrAbsoluteIndexed(rmwMode, ctx.X) }, func() { INC(ctx) })
	case 0xC6:
		return e.rmwOp(func() (bool, error) { return e.addrZP(rmwMode) }, func() { DEC(ctx) })
	case 0xD6:
		return e.rmwOp(func() (bool, error) { return e.addrZPIndexed(rmwMode, ctx.X) }, func() { DEC(ctx) })
	case 0xCE:
		return e.rmwOp(func() (bool, error) { return e.addrAbsolute(rmwMode) }, func() { DEC(ctx) })
	case 0xDE:
		return e.rmwOp(func() (bool, error) { return e.addrAbsoluteIndexed(rmwMode, ctx.X) }, func() { DEC(ctx) })

	// --- ASL/LSR/ROL/ROR (memory) ---
	case 0x06:
		return e.rmwOp(func() (bool, error) { return e.addrZP(rmwMode) }, func() { ASLMem(ctx) })
	case 0x16:
		return e.rmwOp(func() (bool, error) { return e.addrZPIndexed(rmwMode, ctx.X) }, func() { ASLMem(ctx) })
	case 0x0E:
		return e.rmwOp(func() (bool, error) { return e.addrAbsolute(rmwMode) }, func() { ASLMem(ctx) })
	case 0x1E:
		return e.rmwOp(func() (bool, error) { return e.addrAbsoluteIndexed(rmwMode, ctx.X) }, func() { ASLMem(ctx) })
	case 0x46:
		return e.rmwOp(func() (bool, error) { return e.addrZP(rmwMode) }, func() { LSRMem(ctx) })
	case 0x56:
		return e.rmwOp(func() (bool, error) { return e.addrZPIndexed(rmwMode, ctx.X) }, func() { LSRMem(ctx) })
	case 0x4E:
		return e.rmwOp(func() (bool, error) { return e.addrAbsolute(rmwMode) }, func() { LSRMem(ctx) })
	case 0x5E:
		return e.rmwOp(func() (bool, error) { return e.addrAbsoluteIndexed(rmwMode, ctx.X) }, func() { LSRMem(ctx) })
	case 0x26:
		return e.rmwOp(func() (bool, error) { return e.addrZP(rmwMode) }, func() { ROLMem(ctx) })
	case 0x36:
		return e.rmwOp(func() (bool, error) { return e.addrZPIndexed(rmwMode, ctx.X) }, func() { ROLMem(ctx) })
	case 0x2E:
		return e.rmwOp(func() (bool, error) { return e.addrAbsolute(rmwMode) }, func() { ROLMem(ctx) })
	case 0x3E:
		return e.rmwOp(func() (bool, error) { return e.addrAbsoluteIndexed(rmwMode, ctx.X) }, func() { ROLMem(ctx) })
	case 0x66:
		return e.rmwOp(func() (bool, error) { return e.addrZP(rmwMode) }, func() { RORMem(ctx) })
	case 0x76:
		return e.rmwOp(func() (bool, error) { return e.addrZPIndexed(rmwMode, ctx.X) }, func() { RORMem(ctx) })
	case 0x6E:
		return e.rmwOp(func() (bool, error) { return e.addrAbsolute(rmwMode) }, func() { RORMem(ctx) })
	case 0x7E:
		return e.rmwOp(func() (bool, error) { return e.addrAbsoluteIndexed(rmwMode, ctx.X) }, func() { RORMem(ctx) })

	// --- NOP (documented-equivalent undocumented encodings) ---
	case 0x04, 0x44, 0x64:
		return e.loadOp(func() (bool, error) { return e.addrZP(loadMode) }, func() {})
	case 0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4:
		return e.loadOp(func() (bool, error) { return e.addrZPIndexed(loadMode, ctx.X) }, func() {})
	case 0x80, 0x82, 0x89, 0xC2, 0xE2:
		return e.loadOp(e.addrImmediate, func() {})
	case 0x0C:
		return e.loadOp(func() (bool, error) { return e.addrAbsolute(loadMode) }, func() {})
	case 0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC:
		return e.loadOp(func() (bool, error) { return e.addrAbsoluteIndexed(loadMode, ctx.X) }, func() {})

	// --- LAX ---
	case 0xA3:
		return e.loadOp(func() (bool, error) { return e.addrIndirectX(loadMode) }, func() { LAX(ctx) })
	case 0xA7:
		return e.loadOp(func() (bool, error) { return e.addrZP(loadMode) }, func() { LAX(ctx) })
	case 0xAF:
		return e.loadOp(func() (bool, error) { return e.addrAbsolute(loadMode) }, func() { LAX(ctx) })
	case 0xB3:
		return e.loadOp(func() (bool, error) { return e.addrIndirectY(loadMode) }, func() { LAX(ctx) })
	case 0xB7:
		return e.loadOp(func() (bool, error) { return e.addrZPIndexed(loadMode, ctx.Y) }, func() { LAX(ctx) })
	case 0xBF:
		return e.loadOp(func() (bool, error) { return e.addrAbsoluteIndexed(loadMode, ctx.Y) }, func() { LAX(ctx) })

	// --- SAX ---
	case 0x83:
		return e.storeOp(func() (bool, error) { return e.addrIndirectX(storeMode) }, ctx.A&ctx.X)
	case 0x87:
		return e.storeOp(func() (bool, error) { return e.addrZP(storeMode) }, ctx.A&ctx.X)
	case 0x8F:
		return e.storeOp(func() (bool, error) { return e.addrAbsolute(storeMode) }, ctx.A&ctx.X)
	case 0x97:
		return e.storeOp(func() (bool, error) { return e.addrZPIndexed(storeMode, ctx.Y) }, ctx.A&ctx.X)

	// --- DCP/ISC/SLO/RLA/SRE/RRA (RMW undocumented combos) ---
	case 0xC3:
		return e.rmwOp(func() (bool, error) { return e.addrIndirectX(rmwMode) }, func() { DCP(ctx) })
	case 0xC7:
		return e.rmwOp(func() (bool, error) { return e.addrZP(rmwMode) }, func() { DCP(ctx) })
	case 0xCF:
		return e.rmwOp(func() (bool, error) { return e.addrAbsolute(rmwMode) }, func() { DCP(ctx) })
	case 0xD3:
		return e.rmwOp(func() (bool, error) { return e.addrIndirectY(rmwMode) }, func() { DCP(ctx) })
	case 0xD7:
		return e.rmwOp(func() (bool, error) { return e.addrZPIndexed(rmwMode, ctx.X) }, func() { DCP(ctx) })
	case 0xDB:
		return e.rmwOp(func() (bool, error) { return e.addrAbsoluteIndexed(rmwMode, ctx.Y) }, func() { DCP(ctx) })
	case 0xDF:
		return e.rmwOp(func() (bool, error) { return e.addrAbsoluteIndexed(rmwMode, ctx.X) }, func() { DCP(ctx) })

	case 0xE3:
		return e.rmwOp(func() (bool, error) { return e.addrIndirectX(rmwMode) }, func() { ISC(ctx) })
	case 0xE7:
		return e.rmwOp(func() (bool, error) { return e.addrZP(rmwMode) }, func() { ISC(ctx) })
	case 0xEF:
		return e.rmwOp(func() (bool, error) { return e.addrAbsolute(rmwMode) }, func() { ISC(ctx) })
	case 0xF3:
		return e.rmwOp(func() (bool, error) { return e.addrIndirectY(rmwMode) }, func() { ISC(ctx) })
	case 0xF7:
		return e.rmwOp(func() (bool, error) { return e.addrZPIndexed(rmwMode, ctx.X) }, func() { ISC(ctx) })
	case 0xFB:
		return e.rmwOp(func() (bool, error) { return e.addrAbsoluteIndexed(rmwMode, ctx.Y) }, func() { ISC(ctx) })
	case 0xFF:
		return e.rmwOp(func() (bool, error) { return e.addrAbsoluteIndexed(rmwMode, ctx.X) }, func() { ISC(ctx) })

	case 0x03:
		return e.rmwOp(func() (bool, error) { return e.addrIndirectX(rmwMode) }, func() { SLO(ctx) })
	case 0x07:
		return e.rmwOp(func() (bool, error) { return e.addrZP(rmwMode) }, func() { SLO(ctx) })
	case 0x0F:
		return e.rmwOp(func() (bool, error) { return e.addrAbsolute(rmwMode) }, func() { SLO(ctx) })
	case 0x13:
		return e.rmwOp(func() (bool, error) { return e.addrIndirectY(rmwMode) }, func() { SLO(ctx) })
	case 0x17:
		return e.rmwOp(func() (bool, error) { return e.addrZPIndexed(rmwMode, ctx.X) }, func() { SLO(ctx) })
	case 0x1B:
		return e.rmwOp(func() (bool, error) { return e.addrAbsoluteIndexed(rmwMode, ctx.Y) }, func() { SLO(ctx) })
	case 0x1F:
		return e.rmwOp(func() (bool, error) { return e.addrAbsoluteIndexed(rmwMode, ctx.X) }, func() { SLO(ctx) })

	case 0x23:
		return e.rmwOp(func() (bool, error) { return e.addrIndirectX(rmwMode) }, func() { RLA(ctx) })
	case 0x27:
		return e.rmwOp(func() (bool, error) { return e.addrZP(rmwMode) }, func() { RLA(ctx) })
	case 0x2F:
		return e.rmwOp(func() (bool, error) { return e.addrAbsolute(rmwMode) }, func() { RLA(ctx) })
	case 0x33:
		return e.rmwOp(func() (bool, error) { return e.addrIndirectY(rmwMode) }, func() { RLA(ctx) })
	case 0x37:
		return e.rmwOp(func() (bool, error) { return e.addrZPIndexed(rmwMode, ctx.X) }, func() { RLA(ctx) })
	case 0x3B:
		return e.rmwOp(func() (bool, error) { return e.addrAbsoluteIndexed(rmwMode, ctx.Y) }, func() { RLA(ctx) })
	case 0x3F:
		return e.rmwOp(func() (bool, error) { return e.addrAbsoluteIndexed(rmwMode, ctx.X) }, func() { RLA(ctx) })

	case 0x43:
		return e.rmwOp(func() (bool, error) { return e.addrIndirectX(rmwMode) }, func() { SRE(ctx) })
	case 0x47:
		return e.rmwOp(func() (bool, error) { return e.addrZP(rmwMode) }, func() { SRE(ctx) })
	case 0x4F:
		return e.rmwOp(func() (bool, error) { return e.addrAbsolute(rmwMode) }, func() { SRE(ctx) })
	case 0x53:
		return e.rmwOp(func() (bool, error) { return e.addrIndirectY(rmwMode) }, func() { SRE(ctx) })
	case 0x57:
		return e.rmwOp(func() (bool, error) { return e.addrZPIndexed(rmwMode, ctx.X) }, func() { SRE(ctx) })
	case 0x5B:
		return e.rmwOp(func() (bool, error) { return e.addrAbsoluteIndexed(rmwMode, ctx.Y) }, func() { SRE(ctx) })
	case 0x5F:
		return e.rmwOp(func() (bool, error) { return e.addrAbsoluteIndexed(rmwMode, ctx.X) }, func() { SRE(ctx) })

	case 0x63:
		return e.rmwOp(func() (bool, error) { return e.addrIndirectX(rmwMode) }, func() { RRA(ctx) })
	case 0x67:
		return e.rmwOp(func() (bool, error) { return e.addrZP(rmwMode) }, func() { RRA(ctx) })
	case 0x6F:
		return e.rmwOp(func() (bool, error) { return e.addrAbsolute(rmwMode) }, func() { RRA(ctx) })
	case 0x73:
		return e.rmwOp(func() (bool, error) { return e.addrIndirectY(rmwMode) }, func() { RRA(ctx) })
	case 0x77:
		return e.rmwOp(func() (bool, error) { return e.addrZPIndexed(rmwMode, ctx.X) }, func() { RRA(ctx) })
	case 0x7B:
		return e.rmwOp(func() (bool, error) { return e.addrAbsoluteIndexed(rmwMode, ctx.Y) }, func() { RRA(ctx) })
	case 0x7F:
		return e.rmwOp(func() (bool, error) { return e.addrAbsoluteIndexed(rmwMode, ctx.X) }, func() { RRA(ctx) })

	// --- immediate-only undocumented combos ---
	case 0x0B, 0x2B:
		return e.loadOp(e.addrImmediate, func() { ANC(ctx) })
	case 0x4B:
		return e.loadOp(e.addrImmediate, func() { ALR(ctx) })
	case 0x6B:
		return e.loadOp(e.addrImmediate, func() {
			// ARR's decimal fix-up never applies on the BCD-less Ricoh.
			savedD := ctx.P.Decimal
			if e.Variant == NMOSRicoh {
				ctx.P.Decimal = false
			}
			ARR(ctx)
			ctx.P.Decimal = savedD
		})
	case 0xCB:
		return e.loadOp(e.addrImmediate, func() { AXS(ctx) })
	case 0x8B:
		return e.loadOp(e.addrImmediate, func() { XAA(ctx) })
	case 0xAB:
		return e.loadOp(e.addrImmediate, func() { LXA(ctx) })
	case 0xBB:
		return e.loadOp(func() (bool, error) { return e.addrAbsoluteIndexed(loadMode, ctx.Y) }, func() { LAS(ctx, &ctx.SP) })

	// --- unstable high-byte-AND stores ---
	case 0x93:
		return e.storeUnstableOp(func() (bool, error) { return e.addrIndirectY(storeMode) }, ctx.A&ctx.X)
	case 0x9F:
		return e.storeUnstableOp(func() (bool, error) { return e.addrAbsoluteIndexed(storeMode, ctx.Y) }, ctx.A&ctx.X)
	case 0x9C:
		return e.storeUnstableOp(func() (bool, error) { return e.addrAbsoluteIndexed(storeMode, ctx.X) }, ctx.Y)
	case 0x9E:
		return e.storeUnstableOp(func() (bool, error) { return e.addrAbsoluteIndexed(storeMode, ctx.Y) }, ctx.X)
	case 0x9B:
		ctx.SP = ctx.A & ctx.X
		return e.storeUnstableOp(func() (bool, error) { return e.addrAbsoluteIndexed(storeMode, ctx.Y) }, ctx.SP)
	}

	return true, InvalidCoreState{Reason: "unimplemented opcode"}
}

func (e *CPU) stepPush(v uint8) (bool, error) {
	if e.Ctx.IR.Tm == 1 {
		return false, nil
	}
	e.push(v)
	return true, nil
}

func (e *CPU) stepPull(apply func(uint8)) (bool, error) {
	switch e.Ctx.IR.Tm {
	case 1:
		return false, nil
	case 2:
		_ = e.read(0x0100 + uint16(e.Ctx.SP))
		return false, nil
	case 3:
		apply(e.pop())
		return true, nil
	}
	return true, InvalidCoreState{Reason: "stepPull: tm out of range"}
}

func (e *CPU) stepJSR() (bool, error) {
	ctx := &e.Ctx
	switch ctx.IR.Tm {
	case 1:
		ctx.Ops.Adl = ctx.Ops.Dl
		ctx.PC.Increment()
		return false, nil
	case 2:
		_ = e.read(0x0100 + uint16(ctx.SP))
		return false, nil
	case 3:
		e.push(ctx.PC.Hi)
		return false, nil
	case 4:
		e.push(ctx.PC.Lo)
		return false, nil
	case 5:
		hi := e.read(ctx.PC.Value())
		ctx.PC.SetValue(uint16(hi)<<8 | uint16(ctx.Ops.Adl))
		return true, nil
	}
	return true, InvalidCoreState{Reason: "stepJSR: tm out of range"}
}

func (e *CPU) stepRTS() (bool, error) {
	ctx := &e.Ctx
	switch ctx.IR.Tm {
	case 1:
		return false, nil
	case 2:
		_ = e.read(0x0100 + uint16(ctx.SP))
		return false, nil
	case 3:
		ctx.Ops.Dl = e.pop()
		return false, nil
	case 4:
		hi := e.pop()
		ctx.PC.SetValue(uint16(hi)<<8 | uint16(ctx.Ops.Dl))
		return false, nil
	case 5:
		_ = e.read(ctx.PC.Value())
		ctx.PC.Increment()
		return true, nil
	}
	return true, InvalidCoreState{Reason: "stepRTS: tm out of range"}
}

func (e *CPU) stepRTI() (bool, error) {
	ctx := &e.Ctx
	switch ctx.IR.Tm {
	case 1:
		return false, nil
	case 2:
		_ = e.read(0x0100 + uint16(ctx.SP))
		return false, nil
	case 3:
		ctx.P.SetByte(e.pop())
		return false, nil
	case 4:
		ctx.Ops.Dl = e.pop()
		return false, nil
	case 5:
		hi := e.pop()
		ctx.PC.SetValue(uint16(hi)<<8 | uint16(ctx.Ops.Dl))
		return true, nil
	}
	return true, InvalidCoreState{Reason: "stepRTI: tm out of range"}
}

func (e *CPU) stepJMP() (bool, error) {
	ctx := &e.Ctx
	switch ctx.IR.Tm {
	case 1:
		ctx.Ops.Adl = ctx.Ops.Dl
		ctx.PC.Increment()
		return false, nil
	case 2:
		hi := e.read(ctx.PC.Value())
		ctx.Ops.Adh = hi
		ctx.PC.SetValue(ctx.Ops.EffAddr())
		return true, nil
	}
	return true, InvalidCoreState{Reason: "stepJMP: tm out of range"}
}

// stepJMPIndirect implements JMP (ind), including the infamous page-wrap
// bug: if the pointer's low byte is 0xFF, the high byte is fetched from
// the start of the same page rather than the next one.
func (e *CPU) stepJMPIndirect() (bool, error) {
	ctx := &e.Ctx
	switch ctx.IR.Tm {
	case 1:
		ctx.Ops.Adl = ctx.Ops.Dl
		ctx.PC.Increment()
		return false, nil
	case 2:
		ctx.Ops.Adh = e.read(ctx.PC.Value())
		ctx.PC.Increment()
		return false, nil
	case 3:
		ctx.Ops.Dl = e.read(ctx.Ops.EffAddr())
		return false, nil
	case 4:
		wrapped := (ctx.Ops.EffAddr() & 0xFF00) | uint16(uint8(ctx.Ops.EffAddr())+1)
		hi := e.read(wrapped)
		ctx.PC.SetValue(uint16(hi)<<8 | uint16(ctx.Ops.Dl))
		return true, nil
	}
	return true, InvalidCoreState{Reason: "stepJMPIndirect: tm out of range"}
}
