package cpu

// This file holds the instruction semantics (§4.2): pure mutations of a
// Context given a value staged in Ops.Dl by the cycle engine. None of
// these functions touch the bus — read-modify-write instructions simply
// leave the new value in Ops.Dl for the engine to write back, and loads
// leave nothing further to do once the register is set.

func setZero(p *FlagsRegister, v uint8)     { p.Zero = v == 0 }
func setNegative(p *FlagsRegister, v uint8) { p.Negative = v&0x80 != 0 }

// setCarryFromSum sets Carry from a sum that may have exceeded 8 bits.
func setCarryFromSum(p *FlagsRegister, sum uint16) { p.Carry = sum >= 0x100 }

// setOverflow implements the classic two-operand/one-result overflow
// test: the inputs agreed in sign and the result disagrees with both.
func setOverflow(p *FlagsRegister, a, arg, res uint8) {
	p.Overflow = (a^res)&(arg^res)&0x80 != 0
}

// loadRegister stores val into reg and sets Z/N from it. TXS is the only
// transfer that must NOT go through this (it doesn't touch flags).
func loadRegister(p *FlagsRegister, reg *uint8, val uint8) {
	*reg = val
	setZero(p, val)
	setNegative(p, val)
}

// decimalAllowed reports whether BCD arithmetic applies: the D flag is
// set and the variant isn't the BCD-less Ricoh RP2A03.
func decimalAllowed(c *Context, v Variant) bool {
	return c.P.Decimal && v != NMOSRicoh
}

// ADC implements ADC using c.Ops.Dl as the operand.
func ADC(c *Context, v Variant) {
	carry := uint8(0)
	if c.P.Carry {
		carry = 1
	}
	dl := c.Ops.Dl

	if decimalAllowed(c, v) {
		al := (c.A & 0x0F) + (dl & 0x0F) + carry
		if al >= 0x0A {
			al = ((al + 0x06) & 0x0F) + 0x10
		}
		sum := uint16(c.A&0xF0) + uint16(dl&0xF0) + uint16(al)
		if sum >= 0xA0 {
			sum += 0x60
		}
		res := uint8(sum & 0xFF)
		seq := (c.A & 0xF0) + (dl & 0xF0) + al
		bin := c.A + dl + carry
		setOverflow(&c.P, c.A, dl, seq)
		setCarryFromSum(&c.P, sum)
		setNegative(&c.P, seq)
		setZero(&c.P, bin)
		c.A = res
		return
	}

	sum := c.A + dl + carry
	setOverflow(&c.P, c.A, dl, sum)
	setCarryFromSum(&c.P, uint16(c.A)+uint16(dl)+uint16(carry))
	loadRegister(&c.P, &c.A, sum)
}

// SBC implements SBC using c.Ops.Dl as the operand.
func SBC(c *Context, v Variant) {
	if decimalAllowed(c, v) {
		carry := uint8(0)
		if c.P.Carry {
			carry = 1
		}
		dl := c.Ops.Dl

		al := int8(c.A&0x0F) - int8(dl&0x0F) + int8(carry) - 1
		if al < 0 {
			al = ((al - 0x06) & 0x0F) - 0x10
		}
		sum := int16(c.A&0xF0) - int16(dl&0xF0) + int16(al)
		if sum < 0 {
			sum -= 0x60
		}
		res := uint8(sum & 0xFF)

		b := c.A + ^dl + carry
		setOverflow(&c.P, c.A, ^dl, b)
		setNegative(&c.P, b)
		setCarryFromSum(&c.P, uint16(c.A)+uint16(^dl)+uint16(carry))
		setZero(&c.P, b)
		c.A = res
		return
	}
	c.Ops.Dl = ^c.Ops.Dl
	ADC(c, v)
}

// Compare implements CMP/CPX/CPY: sets C/Z/N from reg-val without
// mutating reg.
func Compare(c *Context, reg uint8, val uint8) {
	diff := reg - val
	setZero(&c.P, diff)
	setNegative(&c.P, diff)
	c.P.Carry = uint16(reg)+uint16(^val)+1 >= 0x100
}

// ORA/AND/EOR operate on A and c.Ops.Dl.
func ORA(c *Context) { loadRegister(&c.P, &c.A, c.A|c.Ops.Dl) }
func AND(c *Context) { loadRegister(&c.P, &c.A, c.A&c.Ops.Dl) }
func EOR(c *Context) { loadRegister(&c.P, &c.A, c.A^c.Ops.Dl) }

// ASL shifts the accumulator left by one.
func ASLAcc(c *Context) {
	setCarryFromSum(&c.P, uint16(c.A)<<1)
	loadRegister(&c.P, &c.A, c.A<<1)
}

// ASLMem shifts c.Ops.Dl left by one, leaving the result in Ops.Dl for
// the engine to write back.
func ASLMem(c *Context) {
	old := c.Ops.Dl
	res := old << 1
	setCarryFromSum(&c.P, uint16(old)<<1)
	setZero(&c.P, res)
	setNegative(&c.P, res)
	c.Ops.Dl = res
}

func LSRAcc(c *Context) {
	c.P.Carry = c.A&0x01 != 0
	loadRegister(&c.P, &c.A, c.A>>1)
}

func LSRMem(c *Context) {
	old := c.Ops.Dl
	res := old >> 1
	c.P.Carry = old&0x01 != 0
	setZero(&c.P, res)
	setNegative(&c.P, res)
	c.Ops.Dl = res
}

func ROLAcc(c *Context) {
	carry := uint8(0)
	if c.P.Carry {
		carry = 1
	}
	setCarryFromSum(&c.P, uint16(c.A)<<1)
	loadRegister(&c.P, &c.A, (c.A<<1)|carry)
}

func ROLMem(c *Context) {
	carry := uint8(0)
	if c.P.Carry {
		carry = 1
	}
	old := c.Ops.Dl
	res := (old << 1) | carry
	setCarryFromSum(&c.P, uint16(old)<<1)
	setZero(&c.P, res)
	setNegative(&c.P, res)
	c.Ops.Dl = res
}

func RORAcc(c *Context) {
	carryIn := c.P.Carry
	c.P.Carry = c.A&0x01 != 0
	res := c.A >> 1
	if carryIn {
		res |= 0x80
	}
	loadRegister(&c.P, &c.A, res)
}

func RORMem(c *Context) {
	carryIn := c.P.Carry
	old := c.Ops.Dl
	newCarry := old&0x01 != 0
	res := old >> 1
	if carryIn {
		res |= 0x80
	}
	c.P.Carry = newCarry
	setZero(&c.P, res)
	setNegative(&c.P, res)
	c.Ops.Dl = res
}

// INC/DEC operate on c.Ops.Dl, leaving the new value for write-back.
func INC(c *Context) {
	c.Ops.Dl++
	setZero(&c.P, c.Ops.Dl)
	setNegative(&c.P, c.Ops.Dl)
}

func DEC(c *Context) {
	c.Ops.Dl--
	setZero(&c.P, c.Ops.Dl)
	setNegative(&c.P, c.Ops.Dl)
}

// BIT sets Z from A&Dl, N from Dl bit 7, V from Dl bit 6.
func BIT(c *Context) {
	setZero(&c.P, c.A&c.Ops.Dl)
	c.P.Negative = c.Ops.Dl&0x80 != 0
	c.P.Overflow = c.Ops.Dl&0x40 != 0
}

// --- stable undocumented opcodes (§4.2) ---

// LAX loads A and X with the same value.
func LAX(c *Context) {
	loadRegister(&c.P, &c.A, c.Ops.Dl)
	loadRegister(&c.P, &c.X, c.Ops.Dl)
}

// DCP decrements memory then compares it against A.
func DCP(c *Context) {
	c.Ops.Dl--
	Compare(c, c.A, c.Ops.Dl)
}

// ISC increments memory then subtracts it from A.
func ISC(c *Context) {
	c.Ops.Dl++
	SBC(c, NMOSRicoh) // always binary: no decimal fix-up is applied on any Variant, NMOS included.
}

// SLO shifts memory left then ORs it into A.
func SLO(c *Context) {
	old := c.Ops.Dl
	shifted := old << 1
	c.Ops.Dl = shifted
	setCarryFromSum(&c.P, uint16(old)<<1)
	loadRegister(&c.P, &c.A, shifted|c.A)
}

// RLA rotates memory left then ANDs it into A.
func RLA(c *Context) {
	old := c.Ops.Dl
	carry := uint8(0)
	if c.P.Carry {
		carry = 1
	}
	n := (old << 1) | carry
	c.Ops.Dl = n
	setCarryFromSum(&c.P, uint16(old)<<1)
	loadRegister(&c.P, &c.A, n&c.A)
}

// SRE shifts memory right then EORs it into A.
func SRE(c *Context) {
	old := c.Ops.Dl
	n := old >> 1
	c.Ops.Dl = n
	c.P.Carry = old&0x01 != 0
	loadRegister(&c.P, &c.A, n^c.A)
}

// RRA rotates memory right then ADCs it into A.
func RRA(c *Context) {
	old := c.Ops.Dl
	carry := uint8(0)
	if c.P.Carry {
		carry = 0x80
	}
	n := carry | old>>1
	c.Ops.Dl = n
	c.P.Carry = old&0x01 != 0
	ADC(c, NMOSRicoh)
}

// ANC ANDs A with Dl, then copies bit 7 of the result into Carry (as if
// the AND result had been shifted left through an ASL).
func ANC(c *Context) {
	loadRegister(&c.P, &c.A, c.A&c.Ops.Dl)
	setCarryFromSum(&c.P, uint16(c.A)<<1)
}

// ALR (ASR) ANDs A with Dl then logical-shifts the result right.
func ALR(c *Context) {
	loadRegister(&c.P, &c.A, c.A&c.Ops.Dl)
	LSRAcc(c)
}

// ARR ANDs A with Dl, rotates right, then sets C/V from the odd
// combined-ALU behavior documented at nesdev.com/6502_cpu.txt.
func ARR(c *Context) {
	t := c.A & c.Ops.Dl
	loadRegister(&c.P, &c.A, t)
	RORAcc(c)
	if decimalAllowed(c, NMOS) && c.P.Decimal {
		c.P.Overflow = (t^c.A)&0x40 != 0
		ah := t >> 4
		al := t & 0x0F
		if al+(al&1) > 5 {
			c.A = (c.A & 0xF0) | ((c.A + 6) & 0x0F)
		}
		if ah+(ah&1) > 5 {
			c.P.Carry = true
			c.A += 0x60
		} else {
			c.P.Carry = false
		}
		return
	}
	c.P.Carry = c.A&0x40 != 0
	c.P.Overflow = ((c.A&0x40)>>6)^((c.A&0x20)>>5) != 0
}

// AXS (SBX) computes (A&X) - Dl with no borrow, storing into X.
func AXS(c *Context) {
	savedA := c.A
	loadRegister(&c.P, &c.A, c.A&c.X)
	c.P.Carry = true
	savedD, savedV := c.P.Decimal, c.P.Overflow
	c.P.Decimal = false
	dl := c.Ops.Dl
	SBC(c, NMOSRicoh)
	c.P.Overflow = false
	x := c.A
	loadRegister(&c.P, &c.A, savedA)
	loadRegister(&c.P, &c.X, x)
	c.P.Decimal = savedD
	c.P.Overflow = savedV
	c.Ops.Dl = dl
}

// XAA (ANE): A = (A | magic) & X & Dl. The magic constant is chip-lot
// dependent on real silicon; 0xEE is the commonly cited value.
const xaaMagic = 0xEE

func XAA(c *Context) {
	loadRegister(&c.P, &c.A, (c.A|xaaMagic)&c.X&c.Ops.Dl)
}

// LXA (ATX/OAL): A = X = (A | magic) & Dl, the immediate-mode cousin of
// XAA. Implemented deterministically (rather than the 50/50 coin flip
// some references describe) so the engine's output is reproducible; see
// DESIGN.md for the rationale.
func LXA(c *Context) {
	v := (c.A | xaaMagic) & c.Ops.Dl
	loadRegister(&c.P, &c.A, v)
	loadRegister(&c.P, &c.X, v)
}

// LAS (LAR) ANDs the fetched value with SP and loads A, X, and SP with
// the result.
func LAS(c *Context, sp *uint8) {
	*sp &= c.Ops.Dl
	loadRegister(&c.P, &c.X, *sp)
	loadRegister(&c.P, &c.A, *sp)
}

// storeHighAddrAnd computes the classic "unstable" store formula shared
// by SHA/SHX/SHY/SHS: reg & (addrHi + 1).
func storeHighAddrAnd(reg uint8, addrHi uint8) uint8 {
	return reg & (addrHi + 1)
}
