package cpu

import (
	"fmt"

	"github.com/tskovgaard/vcs6507/bus"
	"github.com/tskovgaard/vcs6507/pin"
)

const (
	stateReset = iota
	stateFetch
	stateInstruction
	stateInterrupt
	stateHalted
)

// Chip is a cycle-stepped MOS 6507. It owns the six architectural
// registers and enough scratch state to resume an in-flight
// instruction exactly where the last half-cycle left it; it never
// buffers more than one instruction's worth of progress.
type Chip struct {
	A, X, Y, SP, P uint8
	PC             uint16

	debug bool

	state  int
	instr  Instruction
	mode   AddressingMode
	opcode uint8
	cyc    int
	halted bool

	// addressing scratch
	ptrLo, ptrHi   uint8
	baseLo, baseHi uint8
	effAddr        uint16
	crossed        bool
	operand        uint8

	// interrupt-entry scratch
	interruptIsNMI bool

	pendingAddr     uint16
	pendingWrite    bool
	pendingWriteVal uint8
	pendingApply    func(uint8) error

	irqPending                 bool
	nmiEdge                    bool
	pendingInterruptVectorHigh uint16
}

// New returns a Chip in the power-on state: all registers undefined
// except that the pipeline is parked in Reset, matching the real part
// (which always needs /RES held low through at least one full reset
// sequence before it does anything meaningful).
func New(debug bool) *Chip {
	c := &Chip{debug: debug}
	c.enterReset()
	return c
}

// SetDebug sets the chip's debug flag. The chip prints nothing itself;
// a caller that wants per-cycle tracing emits Debug() after each tick.
func (c *Chip) SetDebug(debug bool) { c.debug = debug }

// Halted reports whether the chip has executed a JAM opcode and will
// never advance again short of a fresh Reset.
func (c *Chip) Halted() bool { return c.halted }

// ProgramCounter returns the current program counter, primarily for
// disassembly and test assertions.
func (c *Chip) ProgramCounter() uint16 { return c.PC }

// Debug returns a single-line snapshot of register and pipeline state,
// in the spirit of the register dumps real 6502 debuggers print.
func (c *Chip) Debug() string {
	return fmt.Sprintf("PC=%04X A=%02X X=%02X Y=%02X SP=%02X P=%02X instr=%s mode=%s cyc=%d",
		c.PC, c.A, c.X, c.Y, c.SP, c.P, c.instr, c.mode, c.cyc)
}

// AssertReset restarts the seven-cycle reset sequence, as if /RES had
// just been pulled low and released.
func (c *Chip) AssertReset() { c.enterReset() }

func (c *Chip) enterReset() {
	c.state = stateReset
	c.cyc = 0
	c.halted = false
	c.P = FlagI | Flag5
}

// RequestIRQ latches a level-sensitive interrupt request, sampled at
// the next instruction boundary if the I flag is clear.
func (c *Chip) RequestIRQ(asserted bool) { c.irqPending = asserted }

// RequestNMI latches an edge-triggered non-maskable interrupt,
// serviced at the next instruction boundary regardless of the I flag.
func (c *Chip) RequestNMI() { c.nmiEdge = true }

// TickRising drives the address bus, data bus and R/W line for the
// next half-cycle: every peripheral on the bus should sample them
// only after this call, and nobody (including this CPU) should drive
// the data bus for a read until this call has tri-stated it.
func (c *Chip) TickRising(addr, data *bus.Bus, rw *pin.Pin) error {
	if c.halted {
		return c.driveHalted(addr, data, rw)
	}
	if err := c.prepare(); err != nil {
		return err
	}
	// The chip always reasons in the full 16-bit 6502 address space
	// (vectors included), but the 6507 package bonds out only the
	// low address pins; DriveWrapping mirrors that onto whatever
	// width bus it is actually wired to instead of erroring.
	if err := addr.DriveWrapping(uint32(c.pendingAddr)); err != nil {
		return err
	}
	if err := rw.DriveIn(!c.pendingWrite); err != nil {
		return err
	}
	if c.pendingWrite {
		return data.Drive(uint32(c.pendingWriteVal))
	}
	data.TriStateIn()
	return nil
}

// TickFalling samples the result of the half-cycle TickRising just set
// up: for a read, the data bus as driven back by whichever peripheral
// decoded the address; for a write, the value this chip itself just
// asserted. Any data-bus read failure (tri-state or undefined) is
// fatal, per the bus-integrity contract the rest of the console
// depends on.
func (c *Chip) TickFalling(addr, data *bus.Bus, rw *pin.Pin) error {
	if c.halted {
		return HaltedError{Opcode: c.opcode}
	}
	if c.pendingWrite {
		return c.pendingApply(c.pendingWriteVal)
	}
	v, err := data.Read()
	if err != nil {
		return fmt.Errorf("cpu: %s: %w", c.Debug(), err)
	}
	return c.pendingApply(uint8(v))
}

func (c *Chip) driveHalted(addr, data *bus.Bus, rw *pin.Pin) error {
	if err := addr.DriveWrapping(uint32(c.PC)); err != nil {
		return err
	}
	if err := rw.DriveIn(true); err != nil {
		return err
	}
	// A jammed 6502 floats the data bus, which on the VCS reads back as
	// 0xFF due to bus-capacitance decay; present that directly instead
	// of tri-stating, so peripherals reading the halted bus see 0xFF
	// rather than an undefined-read error.
	return data.Drive(uint32(0xFF))
}

// prepare computes the single bus action for the upcoming half-cycle,
// dispatching on the pipeline's current state.
func (c *Chip) prepare() error {
	switch c.state {
	case stateReset:
		return c.prepareReset()
	case stateFetch:
		return c.prepareFetch()
	case stateInstruction:
		return c.runInstruction()
	case stateInterrupt:
		return c.prepareInterrupt()
	default:
		return InvalidStateError{Reason: fmt.Sprintf("unknown pipeline state %d", c.state)}
	}
}

func (c *Chip) setRead(addr uint16, apply func(uint8) error) {
	c.pendingAddr = addr
	c.pendingWrite = false
	c.pendingApply = apply
}

func (c *Chip) setWrite(addr uint16, val uint8, apply func() error) {
	c.pendingAddr = addr
	c.pendingWrite = true
	c.pendingWriteVal = val
	c.pendingApply = func(uint8) error { return apply() }
}

// prepareReset walks the seven-cycle power-on/reset sequence: three
// throwaway stack-region reads, then the low and high bytes of the
// reset vector, then two more settling cycles, landing in Fetch with
// PC pointed at the program's first instruction (the fetch itself is
// the eighth rising edge, not part of the reset sequence proper).
func (c *Chip) prepareReset() error {
	switch c.cyc {
	case 0, 1, 2:
		c.setRead(stackBase+uint16(c.SP), func(uint8) error {
			c.cyc++
			return nil
		})
	case 3:
		c.setRead(resetVectorLow, func(v uint8) error {
			c.ptrLo = v
			c.cyc++
			return nil
		})
	case 4:
		c.setRead(resetVectorHigh, func(v uint8) error {
			c.ptrHi = v
			c.PC = uint16(c.ptrHi)<<8 | uint16(c.ptrLo)
			c.cyc++
			return nil
		})
	case 5:
		// Real hardware spends two more cycles settling; modeled here
		// as a harmless idempotent re-read of the vector high byte.
		c.setRead(resetVectorHigh, func(uint8) error {
			c.cyc++
			return nil
		})
	case 6:
		c.setRead(resetVectorHigh, func(uint8) error {
			c.state = stateFetch
			return nil
		})
	default:
		return InvalidStateError{Reason: fmt.Sprintf("reset cycle %d out of range", c.cyc)}
	}
	return nil
}

func (c *Chip) prepareFetch() error {
	if c.nmiEdge {
		c.nmiEdge = false
		c.beginInterrupt(true)
		return c.prepareInterrupt()
	}
	if c.irqPending && !c.flag(FlagI) {
		c.beginInterrupt(false)
		return c.prepareInterrupt()
	}
	c.setRead(c.PC, func(v uint8) error {
		c.opcode = v
		c.instr, c.mode = Decode(v)
		c.PC++
		c.cyc = 0
		c.crossed = false
		if c.instr == InstrJAM {
			c.halted = true
			c.state = stateHalted
			return nil
		}
		c.state = stateInstruction
		return nil
	})
	return nil
}

func (c *Chip) beginInterrupt(nmi bool) {
	c.state = stateInterrupt
	c.cyc = 0
	c.interruptIsNMI = nmi
}

// prepareInterrupt runs the BRK-shaped seven-cycle hardware interrupt
// entry sequence: two padding reads of the current PC (no increment,
// since no opcode byte was consumed), then the same push-PCH/push-PCL
// /push-P/fetch-vector sequence BRK uses, with the B flag clear in the
// pushed status.
func (c *Chip) prepareInterrupt() error {
	switch c.cyc {
	case 0, 1:
		c.setRead(c.PC, func(uint8) error {
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
		pushed := (c.P | Flag5) &^ FlagB
		c.setWrite(stackBase+uint16(c.SP), pushed, func() error {
			c.SP--
			c.P |= FlagI
			c.cyc++
			return nil
		})
	case 5:
		lo, hi := irqVectorLow, irqVectorHigh
		if c.interruptIsNMI {
			lo, hi = nmiVectorLow, nmiVectorHigh
		}
		c.setRead(lo, func(v uint8) error {
			c.ptrLo = v
			c.cyc++
			c.pendingInterruptVectorHigh = hi
			return nil
		})
	case 6:
		c.setRead(c.pendingInterruptVectorHigh, func(v uint8) error {
			c.PC = uint16(v)<<8 | uint16(c.ptrLo)
			c.state = stateFetch
			return nil
		})
	default:
		return InvalidStateError{Reason: fmt.Sprintf("interrupt cycle %d out of range", c.cyc)}
	}
	return nil
}
