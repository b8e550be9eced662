package cpu

import "fmt"

func (c *Chip) finishInstr() { c.state = stateFetch }

// alwaysExtraAddrCycles gives the number of addressing-only cycles a
// memory-indirecting mode spends resolving effAddr before a store or
// read-modify-write instruction's own "use" cycles begin. Read-category
// instructions (stepRead) skip the page-crossing fixup cycle when no
// carry occurs; write and read-modify-write instructions always pay it,
// counted here, since the CPU cannot
// know before the final cycle whether the operation needs the
// (possibly wrong) provisional address or the fixed one.
func alwaysExtraAddrCycles(mode AddressingMode) int {
	switch mode {
	case ModeZpg:
		return 1
	case ModeZpgX, ModeZpgY:
		return 2
	case ModeAbs:
		return 2
	case ModeAbsX, ModeAbsY:
		return 3
	case ModeXInd, ModeIndY:
		return 4
	default:
		return 0
	}
}

// addrStepAlwaysExtra resolves effAddr one bus cycle at a time for the
// write/RMW addressing family, where the indexed modes always spend
// their fixup cycle regardless of whether a page boundary was
// actually crossed.
func (c *Chip) addrStepAlwaysExtra() {
	switch c.mode {
	case ModeZpg:
		c.setRead(c.PC, func(v uint8) error {
			c.PC++
			c.effAddr = uint16(v)
			c.cyc++
			return nil
		})
	case ModeZpgX, ModeZpgY:
		switch c.cyc {
		case 0:
			c.setRead(c.PC, func(v uint8) error {
				c.PC++
				c.ptrLo = v
				c.cyc++
				return nil
			})
		case 1:
			idx := c.indexReg()
			c.setRead(uint16(c.ptrLo), func(uint8) error {
				c.effAddr = uint16(c.ptrLo + idx)
				c.cyc++
				return nil
			})
		}
	case ModeAbs:
		switch c.cyc {
		case 0:
			c.setRead(c.PC, func(v uint8) error {
				c.PC++
				c.ptrLo = v
				c.cyc++
				return nil
			})
		case 1:
			c.setRead(c.PC, func(v uint8) error {
				c.PC++
				c.ptrHi = v
				c.effAddr = uint16(c.ptrHi)<<8 | uint16(c.ptrLo)
				c.cyc++
				return nil
			})
		}
	case ModeAbsX, ModeAbsY:
		switch c.cyc {
		case 0:
			c.setRead(c.PC, func(v uint8) error {
				c.PC++
				c.ptrLo = v
				c.cyc++
				return nil
			})
		case 1:
			c.setRead(c.PC, func(v uint8) error {
				c.PC++
				c.ptrHi = v
				idx := c.indexReg()
				low := c.ptrLo + idx
				c.crossed = int(c.ptrLo)+int(idx) > 0xFF
				c.effAddr = uint16(c.ptrHi)<<8 | uint16(low)
				c.cyc++
				return nil
			})
		case 2:
			c.setRead(c.effAddr, func(uint8) error {
				if c.crossed {
					idx := c.indexReg()
					low := c.ptrLo + idx
					c.effAddr = uint16(c.ptrHi+1)<<8 | uint16(low)
				}
				c.cyc++
				return nil
			})
		}
	case ModeXInd:
		switch c.cyc {
		case 0:
			c.setRead(c.PC, func(v uint8) error {
				c.PC++
				c.ptrLo = v
				c.cyc++
				return nil
			})
		case 1:
			c.setRead(uint16(c.ptrLo), func(uint8) error {
				c.cyc++
				return nil
			})
		case 2:
			c.setRead(uint16(c.ptrLo+c.X), func(v uint8) error {
				c.baseLo = v
				c.cyc++
				return nil
			})
		case 3:
			c.setRead(uint16(c.ptrLo+c.X+1), func(v uint8) error {
				c.baseHi = v
				c.effAddr = uint16(c.baseHi)<<8 | uint16(c.baseLo)
				c.cyc++
				return nil
			})
		}
	case ModeIndY:
		switch c.cyc {
		case 0:
			c.setRead(c.PC, func(v uint8) error {
				c.PC++
				c.ptrLo = v
				c.cyc++
				return nil
			})
		case 1:
			c.setRead(uint16(c.ptrLo), func(v uint8) error {
				c.baseLo = v
				c.cyc++
				return nil
			})
		case 2:
			c.setRead(uint16(c.ptrLo+1), func(v uint8) error {
				c.baseHi = v
				low := c.baseLo + c.Y
				c.crossed = int(c.baseLo)+int(c.Y) > 0xFF
				c.effAddr = uint16(c.baseHi)<<8 | uint16(low)
				c.cyc++
				return nil
			})
		case 3:
			c.setRead(c.effAddr, func(uint8) error {
				if c.crossed {
					low := c.baseLo + c.Y
					c.effAddr = uint16(c.baseHi+1)<<8 | uint16(low)
				}
				c.cyc++
				return nil
			})
		}
	}
}

func (c *Chip) indexReg() uint8 {
	if c.mode == ModeZpgY || c.mode == ModeAbsY {
		return c.Y
	}
	return c.X
}

// stepRead drives a "read" category instruction (loads, ALU ops,
// compares, BIT, and their illegal-opcode cousins): addressing skips
// its fixup cycle whenever no page boundary was crossed.
func (c *Chip) stepRead(apply func(uint8)) error {
	switch c.mode {
	case ModeA:
		if c.cyc == 0 {
			c.setRead(c.PC, func(uint8) error {
				apply(c.A)
				c.finishInstr()
				return nil
			})
		}
		return nil
	case ModeImm:
		if c.cyc == 0 {
			c.setRead(c.PC, func(v uint8) error {
				c.PC++
				apply(v)
				c.finishInstr()
				return nil
			})
		}
		return nil
	case ModeZpg:
		switch c.cyc {
		case 0:
			c.setRead(c.PC, func(v uint8) error {
				c.PC++
				c.effAddr = uint16(v)
				c.cyc++
				return nil
			})
		case 1:
			c.setRead(c.effAddr, func(v uint8) error {
				apply(v)
				c.finishInstr()
				return nil
			})
		}
		return nil
	case ModeZpgX, ModeZpgY:
		switch c.cyc {
		case 0:
			c.setRead(c.PC, func(v uint8) error {
				c.PC++
				c.ptrLo = v
				c.cyc++
				return nil
			})
		case 1:
			idx := c.indexReg()
			c.setRead(uint16(c.ptrLo), func(uint8) error {
				c.effAddr = uint16(c.ptrLo + idx)
				c.cyc++
				return nil
			})
		case 2:
			c.setRead(c.effAddr, func(v uint8) error {
				apply(v)
				c.finishInstr()
				return nil
			})
		}
		return nil
	case ModeAbs:
		switch c.cyc {
		case 0:
			c.setRead(c.PC, func(v uint8) error {
				c.PC++
				c.ptrLo = v
				c.cyc++
				return nil
			})
		case 1:
			c.setRead(c.PC, func(v uint8) error {
				c.PC++
				c.ptrHi = v
				c.effAddr = uint16(c.ptrHi)<<8 | uint16(c.ptrLo)
				c.cyc++
				return nil
			})
		case 2:
			c.setRead(c.effAddr, func(v uint8) error {
				apply(v)
				c.finishInstr()
				return nil
			})
		}
		return nil
	case ModeAbsX, ModeAbsY:
		switch c.cyc {
		case 0:
			c.setRead(c.PC, func(v uint8) error {
				c.PC++
				c.ptrLo = v
				c.cyc++
				return nil
			})
		case 1:
			c.setRead(c.PC, func(v uint8) error {
				c.PC++
				c.ptrHi = v
				idx := c.indexReg()
				low := c.ptrLo + idx
				c.crossed = int(c.ptrLo)+int(idx) > 0xFF
				c.effAddr = uint16(c.ptrHi)<<8 | uint16(low)
				c.cyc++
				return nil
			})
		case 2:
			if !c.crossed {
				c.setRead(c.effAddr, func(v uint8) error {
					apply(v)
					c.finishInstr()
					return nil
				})
				return nil
			}
			c.setRead(c.effAddr, func(uint8) error {
				idx := c.indexReg()
				low := c.ptrLo + idx
				c.effAddr = uint16(c.ptrHi+1)<<8 | uint16(low)
				c.cyc++
				return nil
			})
		case 3:
			c.setRead(c.effAddr, func(v uint8) error {
				apply(v)
				c.finishInstr()
				return nil
			})
		}
		return nil
	case ModeXInd:
		switch c.cyc {
		case 0:
			c.setRead(c.PC, func(v uint8) error {
				c.PC++
				c.ptrLo = v
				c.cyc++
				return nil
			})
		case 1:
			c.setRead(uint16(c.ptrLo), func(uint8) error {
				c.cyc++
				return nil
			})
		case 2:
			c.setRead(uint16(c.ptrLo+c.X), func(v uint8) error {
				c.baseLo = v
				c.cyc++
				return nil
			})
		case 3:
			c.setRead(uint16(c.ptrLo+c.X+1), func(v uint8) error {
				c.baseHi = v
				c.effAddr = uint16(c.baseHi)<<8 | uint16(c.baseLo)
				c.cyc++
				return nil
			})
		case 4:
			c.setRead(c.effAddr, func(v uint8) error {
				apply(v)
				c.finishInstr()
				return nil
			})
		}
		return nil
	case ModeIndY:
		switch c.cyc {
		case 0:
			c.setRead(c.PC, func(v uint8) error {
				c.PC++
				c.ptrLo = v
				c.cyc++
				return nil
			})
		case 1:
			c.setRead(uint16(c.ptrLo), func(v uint8) error {
				c.baseLo = v
				c.cyc++
				return nil
			})
		case 2:
			c.setRead(uint16(c.ptrLo+1), func(v uint8) error {
				c.baseHi = v
				low := c.baseLo + c.Y
				c.crossed = int(c.baseLo)+int(c.Y) > 0xFF
				c.effAddr = uint16(c.baseHi)<<8 | uint16(low)
				c.cyc++
				return nil
			})
		case 3:
			if !c.crossed {
				c.setRead(c.effAddr, func(v uint8) error {
					apply(v)
					c.finishInstr()
					return nil
				})
				return nil
			}
			c.setRead(c.effAddr, func(uint8) error {
				low := c.baseLo + c.Y
				c.effAddr = uint16(c.baseHi+1)<<8 | uint16(low)
				c.cyc++
				return nil
			})
		case 4:
			c.setRead(c.effAddr, func(v uint8) error {
				apply(v)
				c.finishInstr()
				return nil
			})
		}
		return nil
	}
	return InvalidStateError{Reason: fmt.Sprintf("stepRead: unsupported mode %s", c.mode)}
}

// stepWrite drives a "store" category instruction: addressing always
// pays the indexed fixup cycle, and valueFn is evaluated right before
// the write so it may depend on the just-resolved effective address
// (the SHA/SHX/SHY/TAS high-byte-AND quirk).
func (c *Chip) stepWrite(valueFn func() uint8) error {
	n := alwaysExtraAddrCycles(c.mode)
	if c.cyc < n {
		c.addrStepAlwaysExtra()
		return nil
	}
	c.setWrite(c.effAddr, valueFn(), func() error {
		c.finishInstr()
		return nil
	})
	return nil
}

// stepRMW drives a read-modify-write instruction: accumulator-mode
// shifts/rotates take a single cycle against A directly; memory modes
// read the old value, write it back unchanged (the real 6502's dummy
// write), then write the transformed value. after, if non-nil, runs
// the illegal combined ops (SLO/RLA/SRE/RRA/DCP/ISC) second operation
// against the accumulator.
func (c *Chip) stepRMW(transform func(uint8) uint8, after func(newVal uint8)) error {
	if c.mode == ModeA {
		if c.cyc == 0 {
			c.setRead(c.PC, func(uint8) error {
				newVal := transform(c.A)
				c.A = newVal
				if after != nil {
					after(newVal)
				}
				c.finishInstr()
				return nil
			})
		}
		return nil
	}
	n := alwaysExtraAddrCycles(c.mode)
	if c.cyc < n {
		c.addrStepAlwaysExtra()
		return nil
	}
	switch c.cyc - n {
	case 0:
		c.setRead(c.effAddr, func(v uint8) error {
			c.operand = v
			c.cyc++
			return nil
		})
	case 1:
		c.setWrite(c.effAddr, c.operand, func() error {
			c.cyc++
			return nil
		})
	case 2:
		newVal := transform(c.operand)
		c.setWrite(c.effAddr, newVal, func() error {
			if after != nil {
				after(newVal)
			}
			c.finishInstr()
			return nil
		})
	}
	return nil
}

// stepImplied drives a register/flag-only instruction: a single dummy
// read of the following opcode byte, then apply.
func (c *Chip) stepImplied(apply func()) error {
	if c.cyc == 0 {
		c.setRead(c.PC, func(uint8) error {
			apply()
			c.finishInstr()
			return nil
		})
	}
	return nil
}

// stepBranch drives a conditional branch: the offset byte is always
// fetched; a taken branch costs one more cycle, and a taken branch
// that crosses a page costs one more again.
func (c *Chip) stepBranch(taken bool) error {
	switch c.cyc {
	case 0:
		c.setRead(c.PC, func(v uint8) error {
			c.PC++
			c.operand = v
			if !taken {
				c.finishInstr()
				return nil
			}
			c.cyc++
			return nil
		})
	case 1:
		c.setRead(c.PC, func(uint8) error {
			target := uint16(int32(c.PC) + int32(int8(c.operand)))
			c.crossed = (target & 0xFF00) != (c.PC & 0xFF00)
			c.effAddr = target
			if !c.crossed {
				c.PC = target
				c.finishInstr()
				return nil
			}
			c.cyc++
			return nil
		})
	case 2:
		c.setRead(c.PC, func(uint8) error {
			c.PC = c.effAddr
			c.finishInstr()
			return nil
		})
	}
	return nil
}

// stepJMPAbs and stepJMPInd implement JMP; the latter reproduces the
// classic page-wrap bug where the pointer's high-byte fetch does not
// carry out of the low byte.
func (c *Chip) stepJMPAbs() error {
	switch c.cyc {
	case 0:
		c.setRead(c.PC, func(v uint8) error {
			c.PC++
			c.ptrLo = v
			c.cyc++
			return nil
		})
	case 1:
		c.setRead(c.PC, func(v uint8) error {
			c.PC = uint16(v)<<8 | uint16(c.ptrLo)
			c.finishInstr()
			return nil
		})
	}
	return nil
}

func (c *Chip) stepJMPInd() error {
	switch c.cyc {
	case 0:
		c.setRead(c.PC, func(v uint8) error {
			c.PC++
			c.ptrLo = v
			c.cyc++
			return nil
		})
	case 1:
		c.setRead(c.PC, func(v uint8) error {
			c.PC++
			c.ptrHi = v
			c.effAddr = uint16(c.ptrHi)<<8 | uint16(c.ptrLo)
			c.cyc++
			return nil
		})
	case 2:
		c.setRead(c.effAddr, func(v uint8) error {
			c.baseLo = v
			c.cyc++
			return nil
		})
	case 3:
		hiAddr := uint16(c.ptrHi)<<8 | uint16(c.ptrLo+1)
		c.setRead(hiAddr, func(v uint8) error {
			c.PC = uint16(v)<<8 | uint16(c.baseLo)
			c.finishInstr()
			return nil
		})
	}
	return nil
}

func (c *Chip) stepJSR() error {
	switch c.cyc {
	case 0:
		c.setRead(c.PC, func(v uint8) error {
			c.PC++
			c.ptrLo = v
			c.cyc++
			return nil
		})
	case 1:
		c.setRead(stackBase+uint16(c.SP), func(uint8) error {
			c.cyc++
			return nil
		})
	case 2:
		c.setWrite(stackBase+uint16(c.SP), uint8(c.PC>>8), func() error {
			c.SP--
			c.cyc++
			return nil
		})
	case 3:
		c.setWrite(stackBase+uint16(c.SP), uint8(c.PC), func() error {
			c.SP--
			c.cyc++
			return nil
		})
	case 4:
		c.setRead(c.PC, func(v uint8) error {
			c.PC = uint16(v)<<8 | uint16(c.ptrLo)
			c.finishInstr()
			return nil
		})
	}
	return nil
}

func (c *Chip) stepRTS() error {
	switch c.cyc {
	case 0:
		c.setRead(c.PC, func(uint8) error {
			c.cyc++
			return nil
		})
	case 1:
		c.setRead(stackBase+uint16(c.SP), func(uint8) error {
			c.cyc++
			return nil
		})
	case 2:
		c.SP++
		c.setRead(stackBase+uint16(c.SP), func(v uint8) error {
			c.ptrLo = v
			c.cyc++
			return nil
		})
	case 3:
		c.SP++
		c.setRead(stackBase+uint16(c.SP), func(v uint8) error {
			c.ptrHi = v
			c.PC = uint16(c.ptrHi)<<8 | uint16(c.ptrLo)
			c.cyc++
			return nil
		})
	case 4:
		c.setRead(c.PC, func(uint8) error {
			c.PC++
			c.finishInstr()
			return nil
		})
	}
	return nil
}

func (c *Chip) stepRTI() error {
	switch c.cyc {
	case 0:
		c.setRead(c.PC, func(uint8) error {
			c.cyc++
			return nil
		})
	case 1:
		c.setRead(stackBase+uint16(c.SP), func(uint8) error {
			c.cyc++
			return nil
		})
	case 2:
		c.SP++
		c.setRead(stackBase+uint16(c.SP), func(v uint8) error {
			c.P = (v &^ FlagB) | Flag5
			c.cyc++
			return nil
		})
	case 3:
		c.SP++
		c.setRead(stackBase+uint16(c.SP), func(v uint8) error {
			c.ptrLo = v
			c.cyc++
			return nil
		})
	case 4:
		c.SP++
		c.setRead(stackBase+uint16(c.SP), func(v uint8) error {
			c.ptrHi = v
			c.PC = uint16(c.ptrHi)<<8 | uint16(c.ptrLo)
			c.finishInstr()
			return nil
		})
	}
	return nil
}

func (c *Chip) stepBRK() error {
	switch c.cyc {
	case 0:
		c.setRead(c.PC, func(uint8) error {
			c.PC++
			c.cyc++
			return nil
		})
	case 1:
		c.setWrite(stackBase+uint16(c.SP), uint8(c.PC>>8), func() error {
			c.SP--
			c.cyc++
			return nil
		})
	case 2:
		c.setWrite(stackBase+uint16(c.SP), uint8(c.PC), func() error {
			c.SP--
			c.cyc++
			return nil
		})
	case 3:
		pushed := c.P | Flag5 | FlagB
		c.setWrite(stackBase+uint16(c.SP), pushed, func() error {
			c.SP--
			c.P |= FlagI
			c.cyc++
			return nil
		})
	case 4:
		c.setRead(irqVectorLow, func(v uint8) error {
			c.ptrLo = v
			c.cyc++
			return nil
		})
	case 5:
		c.setRead(irqVectorHigh, func(v uint8) error {
			c.PC = uint16(v)<<8 | uint16(c.ptrLo)
			c.finishInstr()
			return nil
		})
	}
	return nil
}

func (c *Chip) stepPush(valueFn func() uint8) error {
	switch c.cyc {
	case 0:
		c.setRead(c.PC, func(uint8) error {
			c.cyc++
			return nil
		})
	case 1:
		c.setWrite(stackBase+uint16(c.SP), valueFn(), func() error {
			c.SP--
			c.finishInstr()
			return nil
		})
	}
	return nil
}

func (c *Chip) stepPull(apply func(uint8)) error {
	switch c.cyc {
	case 0:
		c.setRead(c.PC, func(uint8) error {
			c.cyc++
			return nil
		})
	case 1:
		c.setRead(stackBase+uint16(c.SP), func(uint8) error {
			c.cyc++
			return nil
		})
	case 2:
		c.SP++
		c.setRead(stackBase+uint16(c.SP), func(v uint8) error {
			apply(v)
			c.finishInstr()
			return nil
		})
	}
	return nil
}
