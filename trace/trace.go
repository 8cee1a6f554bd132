// Package trace disassembles bus contents and formats the engine's
// Context into nestest-style execution traces. It is entirely separable
// from the core: it only
// ever reads a bus.Bus and the engine's exported Context, never mutates
// either, so it can be dropped from a build that doesn't need tracing
// without touching cpu at all.
package trace

import (
	"fmt"
	"strings"

	"github.com/retrosix/rp2a03core/bus"
	"github.com/retrosix/rp2a03core/cpu"
)

type addrMode int

const (
	modeImplied addrMode = iota
	modeAccumulator
	modeImmediate
	modeZP
	modeZPX
	modeZPY
	modeIndirectX
	modeIndirectY
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirect
	modeRelative
)

type opInfo struct {
	mnemonic string
	mode     addrMode
}

// opTable is indexed by opcode byte. It exists only to drive
// disassembly text — the cycle engine in package cpu has its own,
// independent dispatch and never consults this table.
var opTable = buildOpTable()

func buildOpTable() [256]opInfo {
	var t [256]opInfo
	set := func(op uint8, mnemonic string, mode addrMode) { t[op] = opInfo{mnemonic, mode} }

	set(0x00, "BRK", modeImplied)
	set(0x40, "RTI", modeImplied)
	set(0x60, "RTS", modeImplied)
	set(0x20, "JSR", modeAbsolute)
	set(0x4C, "JMP", modeAbsolute)
	set(0x6C, "JMP", modeIndirect)
	for _, op := range []uint8{0xEA, 0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		set(op, "NOP", modeImplied)
	}
	for _, op := range []uint8{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2} {
		set(op, "KIL", modeImplied)
	}
	set(0x48, "PHA", modeImplied)
	set(0x08, "PHP", modeImplied)
	set(0x68, "PLA", modeImplied)
	set(0x28, "PLP", modeImplied)
	set(0x18, "CLC", modeImplied)
	set(0x38, "SEC", modeImplied)
	set(0x58, "CLI", modeImplied)
	set(0x78, "SEI", modeImplied)
	set(0xB8, "CLV", modeImplied)
	set(0xD8, "CLD", modeImplied)
	set(0xF8, "SED", modeImplied)
	set(0xAA, "TAX", modeImplied)
	set(0xA8, "TAY", modeImplied)
	set(0x8A, "TXA", modeImplied)
	set(0x98, "TYA", modeImplied)
	set(0xBA, "TSX", modeImplied)
	set(0x9A, "TXS", modeImplied)
	set(0xE8, "INX", modeImplied)
	set(0xC8, "INY", modeImplied)
	set(0xCA, "DEX", modeImplied)
	set(0x88, "DEY", modeImplied)

	branches := map[uint8]string{0x10: "BPL", 0x30: "BMI", 0x50: "BVC", 0x70: "BVS", 0x90: "BCC", 0xB0: "BCS", 0xD0: "BNE", 0xF0: "BEQ"}
	for op, mnemonic := range branches {
		set(op, mnemonic, modeRelative)
	}

	accum := map[uint8]string{0x0A: "ASL", 0x4A: "LSR", 0x2A: "ROL", 0x6A: "ROR"}
	for op, mnemonic := range accum {
		set(op, mnemonic, modeAccumulator)
	}

	// Opcode column groups shared by every ALU family: (zp,X) (zp) (#)
	// (abs) (zp,X) (abs,X) (abs,Y) ((zp),Y), at the customary 6502
	// column offsets relative to each family's base opcode.
	family := func(base uint8, mnemonic string) {
		set(base+0x01, mnemonic, modeIndirectX)
		set(base+0x05, mnemonic, modeZP)
		set(base+0x09, mnemonic, modeImmediate)
		set(base+0x0D, mnemonic, modeAbsolute)
		set(base+0x11, mnemonic, modeIndirectY)
		set(base+0x15, mnemonic, modeZPX)
		set(base+0x19, mnemonic, modeAbsoluteY)
		set(base+0x1D, mnemonic, modeAbsoluteX)
	}
	family(0x00, "ORA")
	family(0x20, "AND")
	family(0x40, "EOR")
	family(0x60, "ADC")
	family(0xC0, "CMP")
	family(0xE0, "SBC")

	rmwFamily := func(base uint8, mnemonic string) {
		set(base+0x06, mnemonic, modeZP)
		set(base+0x0E, mnemonic, modeAbsolute)
		set(base+0x16, mnemonic, modeZPX)
		set(base+0x1E, mnemonic, modeAbsoluteX)
	}
	rmwFamily(0x00, "ASL")
	rmwFamily(0x20, "ROL")
	rmwFamily(0x40, "LSR")
	rmwFamily(0x60, "ROR")
	rmwFamily(0xC0, "DEC")
	rmwFamily(0xE0, "INC")

	set(0xA0, "LDY", modeImmediate)
	set(0xA4, "LDY", modeZP)
	set(0xB4, "LDY", modeZPX)
	set(0xAC, "LDY", modeAbsolute)
	set(0xBC, "LDY", modeAbsoluteX)
	set(0xA2, "LDX", modeImmediate)
	set(0xA6, "LDX", modeZP)
	set(0xB6, "LDX", modeZPY)
	set(0xAE, "LDX", modeAbsolute)
	set(0xBE, "LDX", modeAbsoluteY)
	set(0xA1, "LDA", modeIndirectX)
	set(0xA5, "LDA", modeZP)
	set(0xA9, "LDA", modeImmediate)
	set(0xAD, "LDA", modeAbsolute)
	set(0xB1, "LDA", modeIndirectY)
	set(0xB5, "LDA", modeZPX)
	set(0xB9, "LDA", modeAbsoluteY)
	set(0xBD, "LDA", modeAbsoluteX)

	set(0x85, "STA", modeZP)
	set(0x95, "STA", modeZPX)
	set(0x8D, "STA", modeAbsolute)
	set(0x9D, "STA", modeAbsoluteX)
	set(0x99, "STA", modeAbsoluteY)
	set(0x81, "STA", modeIndirectX)
	set(0x91, "STA", modeIndirectY)
	set(0x86, "STX", modeZP)
	set(0x96, "STX", modeZPY)
	set(0x8E, "STX", modeAbsolute)
	set(0x84, "STY", modeZP)
	set(0x94, "STY", modeZPX)
	set(0x8C, "STY", modeAbsolute)

	set(0xC0, "CPY", modeImmediate)
	set(0xC4, "CPY", modeZP)
	set(0xCC, "CPY", modeAbsolute)
	set(0xE0, "CPX", modeImmediate)
	set(0xE4, "CPX", modeZP)
	set(0xEC, "CPX", modeAbsolute)
	set(0x24, "BIT", modeZP)
	set(0x2C, "BIT", modeAbsolute)

	for _, op := range []uint8{0x04, 0x44, 0x64} {
		set(op, "NOP", modeZP)
	}
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		set(op, "NOP", modeZPX)
	}
	for _, op := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		set(op, "NOP", modeImmediate)
	}
	set(0x0C, "NOP", modeAbsolute)
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		set(op, "NOP", modeAbsoluteX)
	}

	set(0xA3, "LAX", modeIndirectX)
	set(0xA7, "LAX", modeZP)
	set(0xAF, "LAX", modeAbsolute)
	set(0xB3, "LAX", modeIndirectY)
	set(0xB7, "LAX", modeZPY)
	set(0xBF, "LAX", modeAbsoluteY)
	set(0x83, "SAX", modeIndirectX)
	set(0x87, "SAX", modeZP)
	set(0x8F, "SAX", modeAbsolute)
	set(0x97, "SAX", modeZPY)

	ind := []uint8{0x03, 0x07, 0x0F, 0x13, 0x17, 0x1B, 0x1F}
	indModes := []addrMode{modeIndirectX, modeZP, modeAbsolute, modeIndirectY, modeZPX, modeAbsoluteY, modeAbsoluteX}
	rmwUndoc := func(offset int, mnemonic string) {
		for i, op := range ind {
			set(op+uint8(offset), mnemonic, indModes[i])
		}
	}
	rmwUndoc(0x00, "SLO")
	rmwUndoc(0x20, "RLA")
	rmwUndoc(0x40, "SRE")
	rmwUndoc(0x60, "RRA")
	rmwUndoc(0xC0, "DCP")
	rmwUndoc(0xE0, "ISC")

	set(0xEB, "SBC", modeImmediate)
	set(0x0B, "ANC", modeImmediate)
	set(0x2B, "ANC", modeImmediate)
	set(0x4B, "ALR", modeImmediate)
	set(0x6B, "ARR", modeImmediate)
	set(0xCB, "AXS", modeImmediate)
	set(0x8B, "XAA", modeImmediate)
	set(0xAB, "LXA", modeImmediate)
	set(0xBB, "LAS", modeAbsoluteY)
	set(0x93, "SHA", modeIndirectY)
	set(0x9F, "SHA", modeAbsoluteY)
	set(0x9C, "SHY", modeAbsoluteX)
	set(0x9E, "SHX", modeAbsoluteY)
	set(0x9B, "TAS", modeAbsoluteY)

	return t
}

// Step disassembles the instruction at pc, returning the text and the
// number of bytes it occupies. It always reads the two bytes after pc to
// cover 2/3 byte encodings; those addresses wrap past 0xFFFF.
func Step(pc uint16, b bus.Bus) (string, int) {
	opcode := b.Read(pc)
	info := opTable[opcode]
	arg1 := b.Read(pc + 1)
	arg2 := b.Read(pc + 2)

	var operand string
	size := 1
	switch info.mode {
	case modeImplied, modeAccumulator:
		size = 1
	case modeImmediate:
		operand, size = fmt.Sprintf("#$%02X", arg1), 2
	case modeZP:
		operand, size = fmt.Sprintf("$%02X", arg1), 2
	case modeZPX:
		operand, size = fmt.Sprintf("$%02X,X", arg1), 2
	case modeZPY:
		operand, size = fmt.Sprintf("$%02X,Y", arg1), 2
	case modeIndirectX:
		operand, size = fmt.Sprintf("($%02X,X)", arg1), 2
	case modeIndirectY:
		operand, size = fmt.Sprintf("($%02X),Y", arg1), 2
	case modeRelative:
		target := pc + 2 + uint16(int16(int8(arg1)))
		operand, size = fmt.Sprintf("$%04X", target), 2
	case modeAbsolute:
		operand, size = fmt.Sprintf("$%04X", uint16(arg2)<<8|uint16(arg1)), 3
	case modeAbsoluteX:
		operand, size = fmt.Sprintf("$%04X,X", uint16(arg2)<<8|uint16(arg1)), 3
	case modeAbsoluteY:
		operand, size = fmt.Sprintf("$%04X,Y", uint16(arg2)<<8|uint16(arg1)), 3
	case modeIndirect:
		operand, size = fmt.Sprintf("($%04X)", uint16(arg2)<<8|uint16(arg1)), 3
	}

	mnemonic := info.mnemonic
	if mnemonic == "" {
		mnemonic = "???"
	}
	if operand == "" {
		return mnemonic, size
	}
	return mnemonic + " " + operand, size
}

// Line formats a single nestest-style trace row from the engine's
// current Context, the instruction about to execute at ctx.PC, and the
// bus it will read from.
func Line(ctx *cpu.Context, b bus.Bus) string {
	pc := ctx.PC.Value()
	text, _ := Step(pc, b)
	disasm := fmt.Sprintf("%-30s", text)
	return fmt.Sprintf(
		"%04X  %s A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d",
		pc, disasm, ctx.A, ctx.X, ctx.Y, ctx.P.Byte(false), ctx.SP, ctx.Cycle,
	)
}

// Disassemble walks count instructions starting at start and returns
// one formatted line per instruction, without stepping a CPU or
// touching any mutable state beyond the bus reads Step performs.
func Disassemble(b bus.Bus, start uint16, count int) []string {
	lines := make([]string, 0, count)
	pc := start
	for i := 0; i < count; i++ {
		text, size := Step(pc, b)
		lines = append(lines, fmt.Sprintf("%04X  %s", pc, strings.TrimSpace(text)))
		pc += uint16(size)
	}
	return lines
}
