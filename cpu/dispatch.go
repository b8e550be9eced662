package cpu

import "fmt"

const unstableConst = uint8(0xEE)

func (c *Chip) decNoFlags(v uint8) uint8 { return v - 1 }
func (c *Chip) incNoFlags(v uint8) uint8 { return v + 1 }

func (c *Chip) dec(v uint8) uint8 {
	r := v - 1
	c.setZN(r)
	return r
}

func (c *Chip) inc(v uint8) uint8 {
	r := v + 1
	c.setZN(r)
	return r
}

// arr implements ARR's documented C/V quirk: AND with the operand,
// rotate right, but derive the flags from bits 6 and 5 of the result
// rather than from the rotate itself.
func (c *Chip) arr(operand uint8) {
	c.A &= operand
	carryIn := uint8(0)
	if c.flag(FlagC) {
		carryIn = 0x80
	}
	result := (c.A >> 1) | carryIn
	c.A = result
	c.setZN(result)
	c.setFlag(FlagC, result&0x40 != 0)
	c.setFlag(FlagV, (result&0x40 != 0) != (result&0x20 != 0))
}

// runInstruction is the per-cycle dispatcher for every legal and
// documented-illegal opcode, called once per half-cycle while the
// pipeline is in stateInstruction.
func (c *Chip) runInstruction() error {
	switch c.instr {

	// Loads and ALU reads.
	case InstrLDA:
		return c.stepRead(func(v uint8) { c.A = v; c.setZN(c.A) })
	case InstrLDX:
		return c.stepRead(func(v uint8) { c.X = v; c.setZN(c.X) })
	case InstrLDY:
		return c.stepRead(func(v uint8) { c.Y = v; c.setZN(c.Y) })
	case InstrADC:
		return c.stepRead(c.adc)
	case InstrSBC, InstrUSBC:
		return c.stepRead(c.sbc)
	case InstrAND:
		return c.stepRead(func(v uint8) { c.A &= v; c.setZN(c.A) })
	case InstrORA:
		return c.stepRead(func(v uint8) { c.A |= v; c.setZN(c.A) })
	case InstrEOR:
		return c.stepRead(func(v uint8) { c.A ^= v; c.setZN(c.A) })
	case InstrCMP:
		return c.stepRead(func(v uint8) { c.compare(c.A, v) })
	case InstrCPX:
		return c.stepRead(func(v uint8) { c.compare(c.X, v) })
	case InstrCPY:
		return c.stepRead(func(v uint8) { c.compare(c.Y, v) })
	case InstrBIT:
		return c.stepRead(c.bit)
	case InstrLAX:
		return c.stepRead(func(v uint8) { c.A = v; c.X = v; c.setZN(v) })
	case InstrLAS:
		return c.stepRead(func(v uint8) {
			r := v & c.SP
			c.A, c.X, c.SP = r, r, r
			c.setZN(r)
		})
	case InstrANC:
		return c.stepRead(func(v uint8) {
			c.A &= v
			c.setZN(c.A)
			c.setFlag(FlagC, c.A&0x80 != 0)
		})
	case InstrALR:
		return c.stepRead(func(v uint8) {
			c.A &= v
			c.A = c.lsr(c.A)
		})
	case InstrARR:
		return c.stepRead(c.arr)
	case InstrSBX:
		return c.stepRead(func(v uint8) {
			and := c.A & c.X
			c.setFlag(FlagC, and >= v)
			c.X = and - v
			c.setZN(c.X)
		})
	case InstrANE:
		return c.stepRead(func(v uint8) {
			c.A = (c.A | unstableConst) & c.X & v
			c.setZN(c.A)
		})
	case InstrLXA:
		return c.stepRead(func(v uint8) {
			r := (c.A | unstableConst) & v
			c.A, c.X = r, r
			c.setZN(r)
		})
	case InstrNOP:
		if c.mode == ModeImpl {
			return c.stepImplied(func() {})
		}
		return c.stepRead(func(uint8) {})

	// Stores.
	case InstrSTA:
		return c.stepWrite(func() uint8 { return c.A })
	case InstrSTX:
		return c.stepWrite(func() uint8 { return c.X })
	case InstrSTY:
		return c.stepWrite(func() uint8 { return c.Y })
	case InstrSAX:
		return c.stepWrite(func() uint8 { return c.A & c.X })
	case InstrSHA:
		return c.stepWrite(func() uint8 { return c.A & c.X & (uint8(c.effAddr>>8) + 1) })
	case InstrSHX:
		return c.stepWrite(func() uint8 { return c.X & (uint8(c.effAddr>>8) + 1) })
	case InstrSHY:
		return c.stepWrite(func() uint8 { return c.Y & (uint8(c.effAddr>>8) + 1) })
	case InstrTAS:
		return c.stepWrite(func() uint8 {
			c.SP = c.A & c.X
			return c.SP & (uint8(c.effAddr>>8) + 1)
		})

	// Read-modify-write.
	case InstrASL:
		return c.stepRMW(c.asl, nil)
	case InstrLSR:
		return c.stepRMW(c.lsr, nil)
	case InstrROL:
		return c.stepRMW(c.rol, nil)
	case InstrROR:
		return c.stepRMW(c.ror, nil)
	case InstrINC:
		return c.stepRMW(c.inc, nil)
	case InstrDEC:
		return c.stepRMW(c.dec, nil)
	case InstrSLO:
		return c.stepRMW(c.asl, func(v uint8) { c.A |= v; c.setZN(c.A) })
	case InstrRLA:
		return c.stepRMW(c.rol, func(v uint8) { c.A &= v; c.setZN(c.A) })
	case InstrSRE:
		return c.stepRMW(c.lsr, func(v uint8) { c.A ^= v; c.setZN(c.A) })
	case InstrRRA:
		return c.stepRMW(c.ror, func(v uint8) { c.adc(v) })
	case InstrDCP:
		return c.stepRMW(c.decNoFlags, func(v uint8) { c.compare(c.A, v) })
	case InstrISC:
		return c.stepRMW(c.incNoFlags, func(v uint8) { c.sbc(v) })

	// Register/flag-only.
	case InstrCLC:
		return c.stepImplied(func() { c.setFlag(FlagC, false) })
	case InstrSEC:
		return c.stepImplied(func() { c.setFlag(FlagC, true) })
	case InstrCLI:
		return c.stepImplied(func() { c.setFlag(FlagI, false) })
	case InstrSEI:
		return c.stepImplied(func() { c.setFlag(FlagI, true) })
	case InstrCLD:
		return c.stepImplied(func() { c.setFlag(FlagD, false) })
	case InstrSED:
		return c.stepImplied(func() { c.setFlag(FlagD, true) })
	case InstrCLV:
		return c.stepImplied(func() { c.setFlag(FlagV, false) })
	case InstrTAX:
		return c.stepImplied(func() { c.X = c.A; c.setZN(c.X) })
	case InstrTAY:
		return c.stepImplied(func() { c.Y = c.A; c.setZN(c.Y) })
	case InstrTXA:
		return c.stepImplied(func() { c.A = c.X; c.setZN(c.A) })
	case InstrTYA:
		return c.stepImplied(func() { c.A = c.Y; c.setZN(c.A) })
	case InstrTSX:
		return c.stepImplied(func() { c.X = c.SP; c.setZN(c.X) })
	case InstrTXS:
		return c.stepImplied(func() { c.SP = c.X })
	case InstrINX:
		return c.stepImplied(func() { c.X++; c.setZN(c.X) })
	case InstrINY:
		return c.stepImplied(func() { c.Y++; c.setZN(c.Y) })
	case InstrDEX:
		return c.stepImplied(func() { c.X--; c.setZN(c.X) })
	case InstrDEY:
		return c.stepImplied(func() { c.Y--; c.setZN(c.Y) })

	// Branches.
	case InstrBCC:
		return c.stepBranch(!c.flag(FlagC))
	case InstrBCS:
		return c.stepBranch(c.flag(FlagC))
	case InstrBEQ:
		return c.stepBranch(c.flag(FlagZ))
	case InstrBNE:
		return c.stepBranch(!c.flag(FlagZ))
	case InstrBMI:
		return c.stepBranch(c.flag(FlagN))
	case InstrBPL:
		return c.stepBranch(!c.flag(FlagN))
	case InstrBVC:
		return c.stepBranch(!c.flag(FlagV))
	case InstrBVS:
		return c.stepBranch(c.flag(FlagV))

	// Control transfer and stack.
	case InstrJMP:
		if c.mode == ModeInd {
			return c.stepJMPInd()
		}
		return c.stepJMPAbs()
	case InstrJSR:
		return c.stepJSR()
	case InstrRTS:
		return c.stepRTS()
	case InstrRTI:
		return c.stepRTI()
	case InstrBRK:
		return c.stepBRK()
	case InstrPHA:
		return c.stepPush(func() uint8 { return c.A })
	case InstrPHP:
		return c.stepPush(func() uint8 { return c.P | Flag5 | FlagB })
	case InstrPLA:
		return c.stepPull(func(v uint8) { c.A = v; c.setZN(c.A) })
	case InstrPLP:
		return c.stepPull(func(v uint8) { c.P = (v &^ (FlagB)) | Flag5 })

	default:
		return InvalidStateError{Reason: fmt.Sprintf("no dispatch for instruction %s", c.instr)}
	}
}
