// Package console wires a CPU, a RIOT, an optional cartridge, and the
// console switches together over the shared pin/bus fabric, exposing
// the single `Tick` step spec.md §4.5 describes.
package console

import (
	"fmt"

	"github.com/tskovgaard/vcs6507/bus"
	"github.com/tskovgaard/vcs6507/cart"
	"github.com/tskovgaard/vcs6507/cpu"
	"github.com/tskovgaard/vcs6507/pin"
	"github.com/tskovgaard/vcs6507/riot"
)

// Address lines the console's fixed decode depends on. RIOT is
// selected whenever A7 is high and A12 is low (disjoint from the
// cartridge, which claims A12 high); RS ties to A9, choosing RIOT's
// RAM window (RS=0) versus its I/O register file (RS=1) exactly as
// real 2600 wiring does.
const (
	addrBitRIOTSelect = 7
	addrBitCartSelect = 12
	addrBitRIOTRS     = 9
)

// AddressWidth is the 6507's bonded-out pin count: 13 address lines,
// giving an 8K window that the RIOT/cartridge mirror within.
const AddressWidth = 13

// Switches models the console's front-panel controls as raw pin
// state, per spec.md's "input-device emulation beyond raw pin state"
// non-goal: no joystick/paddle abstraction, just the five switches
// wired onto RIOT port B exactly as the real board does.
type Switches struct {
	GameReset        bool
	GameSelect       bool
	LeftDifficultyB  bool
	RightDifficultyB bool
	ColorTV          bool
}

// apply drives the switch state onto the port B bits the real
// SWCHB register assigns them to: bit0 game reset, bit1 game select,
// bit3 TV type, bit6/7 left/right difficulty (true meaning asserted,
// rather than reproducing the real board's active-low polarity).
func (s Switches) apply(portB *bus.Bus) error {
	// Bits 2, 4 and 5 aren't wired to any switch on the real board; they
	// are held low here rather than left floating so a ReadORB with
	// DDRB configured for input never reads back Undefined.
	bits := [8]bool{0: s.GameReset, 1: s.GameSelect, 3: s.ColorTV, 6: s.LeftDifficultyB, 7: s.RightDifficultyB}
	for i, v := range bits {
		if err := portB.DriveBit(i, v); err != nil {
			return fmt.Errorf("console: switch bit %d: %w", i, err)
		}
	}
	return nil
}

// Console is the full shell: CPU, RIOT, bus fabric, and the plugged-in
// cartridge.
type Console struct {
	CPU  *cpu.Chip
	RIOT *riot.Chip
	Cart cart.Cartridge

	Switches Switches

	addr, data   *bus.Bus
	rw           *pin.Pin
	cs1, cs2     *pin.Pin
	rs, res, irq *pin.Pin
	portA, portB *bus.Bus
}

// New returns a Console with a fresh CPU and RIOT, freshly allocated
// buses, and no cartridge plugged in (Plug it before the first Tick).
func New(debugCPU bool) *Console {
	c := &Console{
		CPU:   cpu.New(debugCPU),
		RIOT:  riot.New(),
		addr:  bus.New("addr", AddressWidth),
		data:  bus.New("data", 8),
		rw:    pin.New("rw"),
		cs1:   pin.New("riot-cs1"),
		cs2:   pin.New("riot-cs2"),
		rs:    pin.New("riot-rs"),
		res:   pin.New("res"),
		irq:   pin.New("irq"),
		portA: bus.New("porta", 8),
		portB: bus.New("portb", 8),
	}
	if err := c.res.DriveIn(true); err != nil {
		panic(err)
	}
	// Port A's edge detector samples bit 7 every tick regardless of
	// selection. With no joystick/paddle peripheral wired (out of
	// scope per spec.md), every line defaults to idle-high so the RIOT
	// never reads an Undefined pin; PortA lets a caller override any
	// bit before driving it low.
	for i := 0; i < c.portA.Width(); i++ {
		if err := c.portA.DriveBit(i, true); err != nil {
			panic(err)
		}
	}
	return c
}

// Plug installs a cartridge, replacing any prior owner.
func (c *Console) Plug(cartridge cart.Cartridge) {
	c.Cart = cartridge
}

// PortA returns the bus wired to RIOT port A, for external peripherals
// (or tests) to drive input-configured pins.
func (c *Console) PortA() *bus.Bus { return c.portA }

// AddressBusValue reads the current address bus value, for debug/watch
// tooling. Returns an error if the bus isn't currently driven.
func (c *Console) AddressBusValue() (uint32, error) { return c.addr.Read() }

// DataBusValue reads the current data bus value, for debug/watch
// tooling. Returns an error if the bus isn't currently driven.
func (c *Console) DataBusValue() (uint32, error) { return c.data.Read() }

// riotPins derives the RIOT's select/RS lines from the address bus for
// this tick and bundles every line the RIOT needs into a riot.Pins.
func (c *Console) riotPins() (riot.Pins, error) {
	selected, err := c.addr.ReadBit(addrBitRIOTSelect)
	if err != nil {
		return riot.Pins{}, fmt.Errorf("console: riot select bit: %w", err)
	}
	cartSelected, err := c.addr.ReadBit(addrBitCartSelect)
	if err != nil {
		return riot.Pins{}, fmt.Errorf("console: cart select bit: %w", err)
	}
	rsBit, err := c.addr.ReadBit(addrBitRIOTRS)
	if err != nil {
		return riot.Pins{}, fmt.Errorf("console: riot rs bit: %w", err)
	}
	if err := c.cs1.DriveIn(selected); err != nil {
		return riot.Pins{}, err
	}
	if err := c.cs2.DriveIn(cartSelected); err != nil {
		return riot.Pins{}, err
	}
	if err := c.rs.DriveIn(rsBit); err != nil {
		return riot.Pins{}, err
	}
	return riot.Pins{
		Addr: c.addr, Data: c.data, RW: c.rw,
		CS1: c.cs1, CS2: c.cs2, RS: c.rs, Res: c.res,
		PortA: c.portA, PortB: c.portB, IRQ: c.irq,
	}, nil
}

// Tick runs one full clock cycle in the fixed order spec.md §4.5 and
// §5 require: CPU rising, cartridge, RIOT, CPU falling. The cartridge
// and RIOT never contend for the data bus because their chip-select
// conditions are disjoint by address-map construction.
func (c *Console) Tick() error {
	if err := c.Switches.apply(c.portB); err != nil {
		return err
	}
	if err := c.CPU.TickRising(c.addr, c.data, c.rw); err != nil {
		return fmt.Errorf("console: cpu rising: %w", err)
	}
	if c.Cart != nil {
		if err := c.Cart.Tick(c.addr, c.data); err != nil {
			return fmt.Errorf("console: cart tick: %w", err)
		}
	}
	pins, err := c.riotPins()
	if err != nil {
		return err
	}
	if err := c.RIOT.Tick(pins); err != nil {
		return fmt.Errorf("console: riot tick: %w", err)
	}
	c.CPU.RequestIRQ(c.irqAsserted())
	if err := c.CPU.TickFalling(c.addr, c.data, c.rw); err != nil {
		return fmt.Errorf("console: cpu falling: %w", err)
	}
	return nil
}

// irqAsserted reports whether RIOT's /IRQ output is presently driven
// low; a tri-stated line means no interrupt is pending.
func (c *Console) irqAsserted() bool {
	level, err := c.irq.Read()
	if err != nil {
		return false
	}
	return !level
}

// PowerReset clears the bus fabric, re-enters the CPU's seven-cycle
// reset sequence, pulses RIOT's /RES, and forwards a reset to the
// cartridge. The CPU's reset sequence itself is driven by subsequent
// calls to Tick, exactly like the real part: /RES only needs to have
// been pulsed once, not held throughout the sequence.
func (c *Console) PowerReset() error {
	if err := c.addr.UndefineIn(); err != nil {
		return fmt.Errorf("console: reset addr: %w", err)
	}
	if err := c.data.UndefineIn(); err != nil {
		return fmt.Errorf("console: reset data: %w", err)
	}
	c.data.TriStateOut()
	c.CPU.AssertReset()

	if err := c.res.DriveIn(false); err != nil {
		return err
	}
	pins := riot.Pins{
		Addr: c.addr, Data: c.data, RW: c.rw,
		CS1: c.cs1, CS2: c.cs2, RS: c.rs, Res: c.res,
		PortA: c.portA, PortB: c.portB, IRQ: c.irq,
	}
	if err := c.RIOT.Tick(pins); err != nil {
		return fmt.Errorf("console: riot reset pulse: %w", err)
	}
	if err := c.res.DriveIn(true); err != nil {
		return err
	}
	if c.Cart != nil {
		c.Cart.PowerReset()
	}
	return nil
}
